// Package trx parses the TRX (Test Results XML) format the test CLI writes
// after a run (§4.5, §6). No third-party XML library appears anywhere in
// this module's dependency corpus, so this uses the standard library's
// encoding/xml streaming decoder, structured as the same Start/Empty/Text/End
// event push-parser the original Rust implementation's quick_xml-based
// parser (original_source/src/parser/trx.rs) used.
package trx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gleladze/testament/internal/domain"
)

// Parse reads a TRX document and returns the parsed results. Results with a
// missing test-name attribute are dropped (§4.5).
func Parse(r io.Reader) ([]domain.RunResult, error) {
	dec := xml.NewDecoder(r)

	var (
		results      []domain.RunResult
		current      *domain.RunResult
		inErrorInfo  bool
		inMessage    bool
		inStackTrace bool
		errorMessage strings.Builder
		stackTrace   strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trx: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "UnitTestResult":
				current = unitTestResultFrom(t)
			case "ErrorInfo":
				inErrorInfo = true
			case "Message":
				if inErrorInfo {
					inMessage = true
				}
			case "StackTrace":
				if inErrorInfo {
					inStackTrace = true
				}
			}

		case xml.CharData:
			switch {
			case inMessage:
				errorMessage.Write(t)
			case inStackTrace:
				stackTrace.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "UnitTestResult":
				if current != nil {
					applyErrorDetail(current, errorMessage.String(), stackTrace.String())
					results = append(results, *current)
					current = nil
				}
				errorMessage.Reset()
				stackTrace.Reset()
			case "ErrorInfo":
				inErrorInfo = false
			case "Message":
				inMessage = false
			case "StackTrace":
				inStackTrace = false
			}
		}

		// A self-closing <UnitTestResult .../> with no children never sees a
		// CharData/EndElement child before its own EndElement, so the
		// EndElement branch above still finalizes it correctly; nothing
		// extra is needed here, matching encoding/xml's uniform treatment
		// of empty and non-empty elements as Start+End pairs.
	}

	return results, nil
}

func unitTestResultFrom(t xml.StartElement) *domain.RunResult {
	var testName string
	var outcomeRaw string
	var durationMS int64

	for _, attr := range t.Attr {
		switch attr.Name.Local {
		case "testName":
			testName = attr.Value
		case "outcome":
			outcomeRaw = attr.Value
		case "duration":
			durationMS = parseDuration(attr.Value)
		}
	}

	if testName == "" {
		return nil
	}

	return &domain.RunResult{
		TestName:   testName,
		Outcome:    parseOutcome(outcomeRaw),
		DurationMS: durationMS,
	}
}

func parseOutcome(raw string) domain.Outcome {
	switch raw {
	case "Passed", "":
		return domain.OutcomePassed
	case "Failed":
		return domain.OutcomeFailed
	default:
		return domain.OutcomeSkipped
	}
}

func applyErrorDetail(r *domain.RunResult, errorMessage, stackTrace string) {
	errorMessage = strings.TrimSpace(errorMessage)
	stackTrace = strings.TrimSpace(stackTrace)
	if errorMessage == "" && stackTrace == "" {
		return
	}
	var full strings.Builder
	full.WriteString(errorMessage)
	if stackTrace != "" {
		if full.Len() > 0 {
			full.WriteString("\n\n")
		}
		full.WriteString(stackTrace)
	}
	r.ErrorMessage = full.String()
	r.StackTrace = stackTrace
}

// parseDuration converts the "H:MM:SS.fffffff" duration format into
// milliseconds, tolerating missing/short fractional parts. Malformed input
// yields 0 rather than an error (§4.5: "missing -> 0").
func parseDuration(s string) int64 {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, okH := parseUintPart(parts[0])
	minutes, okM := parseUintPart(parts[1])
	if !okH || !okM {
		return 0
	}

	secParts := strings.SplitN(parts[2], ".", 2)
	seconds, okS := parseUintPart(secParts[0])
	if !okS {
		return 0
	}

	var millis int64
	if len(secParts) > 1 {
		frac := secParts[1]
		digitAt := func(i int) int64 {
			if i >= len(frac) {
				return 0
			}
			c := frac[i]
			if c < '0' || c > '9' {
				return 0
			}
			return int64(c - '0')
		}
		millis = digitAt(0)*100 + digitAt(1)*10 + digitAt(2)
	}

	return (hours*3600+minutes*60+seconds)*1000 + millis
}

func parseUintPart(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
