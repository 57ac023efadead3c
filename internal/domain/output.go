package domain

// OutputSource tags where an output line came from.
type OutputSource int

const (
	Stdout OutputSource = iota
	Internal
	ErrorSource
)

// OutputLine is one line in the bounded streaming output buffer.
type OutputLine struct {
	Text   string
	Source OutputSource
	// RunID stamps which execution run produced this line (a google/uuid
	// value minted once per Executor.Run call), so two watch-triggered
	// runs whose output interleaves in the buffer can still be told apart
	// without re-deriving it from a timestamp.
	RunID string
}

// outputCap is the hard cap on buffered lines (§3: "~2000 lines").
const outputCap = 2000

// outputTrimTo is the size the buffer is trimmed down to on overflow (§3: "~1000").
const outputTrimTo = 1000

// OutputBuffer is the ordered, capped sequence of output lines shown in the Output pane.
type OutputBuffer struct {
	lines []OutputLine

	newlineCount int

	// wrapCache memoizes the wrapped-line count for a given buffer length and width,
	// since recomputing wrap width on every redraw is wasted work for an unchanged buffer.
	wrapCacheLen   int
	wrapCacheWidth int
	wrapCacheLines int
}

// NewOutputBuffer creates an empty output buffer.
func NewOutputBuffer() *OutputBuffer {
	return &OutputBuffer{}
}

// Append adds a line with no run stamp (internal/status messages that
// don't originate from a specific execution run), trimming the oldest
// lines if the cap is exceeded.
func (b *OutputBuffer) Append(text string, source OutputSource) {
	b.AppendRun(text, source, "")
}

// AppendRun adds a line stamped with the execution run that produced it.
func (b *OutputBuffer) AppendRun(text string, source OutputSource, runID string) {
	b.lines = append(b.lines, OutputLine{Text: text, Source: source, RunID: runID})
	b.newlineCount++
	if len(b.lines) > outputCap {
		drop := len(b.lines) - outputTrimTo
		b.lines = b.lines[drop:]
	}
}

// Clear empties the buffer ('x' key, §4.8).
func (b *OutputBuffer) Clear() {
	b.lines = nil
	b.newlineCount = 0
	b.wrapCacheLen = 0
	b.wrapCacheWidth = 0
	b.wrapCacheLines = 0
}

// Lines returns the buffered lines in order.
func (b *OutputBuffer) Lines() []OutputLine {
	return b.lines
}

// Len returns the number of buffered lines.
func (b *OutputBuffer) Len() int {
	return len(b.lines)
}

// NewlineCount returns the running total of lines ever appended (not reset by trimming).
func (b *OutputBuffer) NewlineCount() int {
	return b.newlineCount
}

// WrapLineCount returns the number of rendered rows once each line is wrapped
// to the given width, using a cache keyed by (buffer length, width) so an
// unchanged buffer doesn't re-wrap on every redraw.
func (b *OutputBuffer) WrapLineCount(width int, wrap func(string, int) int) int {
	if width <= 0 {
		return len(b.lines)
	}
	if b.wrapCacheLen == len(b.lines) && b.wrapCacheWidth == width {
		return b.wrapCacheLines
	}
	total := 0
	for _, l := range b.lines {
		total += wrap(l.Text, width)
	}
	b.wrapCacheLen = len(b.lines)
	b.wrapCacheWidth = width
	b.wrapCacheLines = total
	return total
}
