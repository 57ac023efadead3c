package ui

import (
	"fmt"
	"strings"

	"github.com/gleladze/testament/internal/domain"
)

// statusColor maps a domain.Status to a tview color tag name (§6: consistent
// color-per-status throughout the tree and status line).
func statusColor(s domain.Status) string {
	switch s {
	case domain.Passed:
		return "green"
	case domain.Failed:
		return "red"
	case domain.Running:
		return "yellow"
	case domain.Skipped:
		return "gray"
	default:
		return "white"
	}
}

func statusGlyph(s domain.Status) string {
	switch s {
	case domain.Passed:
		return "✓"
	case domain.Failed:
		return "✗"
	case domain.Running:
		return "…"
	case domain.Skipped:
		return "○"
	default:
		return "·"
	}
}

// projectLabel renders one Projects-pane row (§4.8).
func projectLabel(p *domain.TestProject) string {
	switch p.State {
	case domain.Discovering:
		return fmt.Sprintf("[yellow]… %s[white]", p.Name)
	case domain.ErrorState:
		return fmt.Sprintf("[red]✗ %s[white]", p.Name)
	case domain.Ready:
		statuses := make([]domain.Status, 0, len(p.Classes))
		for _, c := range p.Classes {
			statuses = append(statuses, c.Status())
		}
		agg := domain.AggregateStatus(statuses)
		return fmt.Sprintf("[%s]%s %s[white]", statusColor(agg), statusGlyph(agg), p.Name)
	default:
		return fmt.Sprintf("[gray]%s[white]", p.Name)
	}
}

// testItemLabel renders one Tests-pane row, a class header or a leaf test
// (§4.8). Indentation mirrors VisibleItem.Indent.
func testItemLabel(project *domain.TestProject, item VisibleItem, selected bool) string {
	indent := strings.Repeat("  ", item.Indent)
	class := project.Classes[item.ClassIndex]

	if item.Kind == ItemClass {
		col := statusColor(class.Status())
		glyph := statusGlyph(class.Status())
		marker := "▾"
		return fmt.Sprintf("%s[%s]%s %s %s[white]", indent, col, glyph, marker, class.FullName)
	}

	test := class.Tests[item.TestIndex]
	col := statusColor(test.Status)
	glyph := statusGlyph(test.Status)
	mark := " "
	if selected {
		mark = "*"
	}
	return fmt.Sprintf("%s[%s]%s%s %s[white]", indent, col, mark, glyph, test.DisplayName)
}

// statusLineText renders the bottom status bar (§4.8, §6).
func statusLineText(s *State) string {
	var b strings.Builder
	if s.Status != "" {
		b.WriteString(s.Status)
		b.WriteString("  ")
	}
	if s.WatchMode {
		b.WriteString("[yellow]watch:on[white]  ")
	}
	if s.filter != "" {
		fmt.Fprintf(&b, "[cyan]filter:%s[white]  ", s.filter)
	}
	if len(s.Selection) > 0 {
		fmt.Fprintf(&b, "[cyan]%d selected[white]  ", len(s.Selection))
	}
	b.WriteString("[gray]↑↓ move  ←→ class  space select/collapse  c collapse-all  C clear  r run  R run-all  a run-failed  b build  w watch  x clear  / filter  q quit[white]")
	return b.String()
}

// outputText renders the buffered output lines, newest-capped, for the
// Output pane (§3, §4.8).
func outputText(buf *domain.OutputBuffer) string {
	var b strings.Builder
	for _, line := range buf.Lines() {
		switch line.Source {
		case domain.ErrorSource:
			b.WriteString("[red]")
			b.WriteString(escapeBrackets(line.Text))
			b.WriteString("[white]\n")
		case domain.Internal:
			b.WriteString("[cyan]")
			b.WriteString(escapeBrackets(line.Text))
			b.WriteString("[white]\n")
		default:
			b.WriteString(escapeBrackets(line.Text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// escapeBrackets neutralizes literal '[' so arbitrary test-runner stdout
// cannot be misread as a tview color tag.
func escapeBrackets(s string) string {
	return strings.ReplaceAll(s, "[", "[[")
}

// detailsText renders the Details pane for the test under the cursor (§4.8).
func detailsText(project *domain.TestProject, items []VisibleItem, cursor int) string {
	if project == nil || cursor < 0 || cursor >= len(items) {
		return ""
	}
	item := items[cursor]
	class := project.Classes[item.ClassIndex]
	if item.Kind == ItemClass {
		return fmt.Sprintf("[yellow]%s[white]\n%d test(s)", class.FullName, len(class.Tests))
	}

	test := class.Tests[item.TestIndex]
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]%s %s[white]\n", statusColor(test.Status), statusGlyph(test.Status), test.ID)
	if test.DurationMS > 0 {
		fmt.Fprintf(&b, "[gray]%dms[white]\n", test.DurationMS)
	}
	if test.ErrorMessage != "" {
		fmt.Fprintf(&b, "\n[yellow]Message:[white]\n%s\n", escapeBrackets(test.ErrorMessage))
	}
	if test.StackTrace != "" {
		fmt.Fprintf(&b, "\n[yellow]Stack trace:[white]\n%s\n", escapeBrackets(test.StackTrace))
	}
	return b.String()
}
