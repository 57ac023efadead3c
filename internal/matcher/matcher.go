// Package matcher correlates executor-reported results back onto tree nodes
// with a two-pass algorithm that tolerates name-shape mismatches and
// duplicate method names without cross-contaminating siblings (§4.6).
package matcher

import (
	"strings"

	"github.com/gleladze/testament/internal/domain"
)

// MarkRunning sets every test in scope to Running before a run starts (§4.6).
func MarkRunning(tests []*domain.Test) {
	for _, t := range tests {
		t.Status = domain.Running
	}
}

// Apply runs the two-pass matching algorithm against every test in scope,
// grounded on the original implementation's apply_results
// (original_source/src/app.rs): exact/suffix pass, then a bare-name
// fallback pass, each gated by a per-result consumed bit so one result
// can never satisfy two tests.
func Apply(tests []*domain.Test, results []domain.RunResult) {
	consumed := make([]bool, len(results))

	// Pass 1: exact full-name match, or R's dotted suffix equals T's full name.
	for _, t := range tests {
		i, ok := findUnconsumed(results, consumed, func(r domain.RunResult) bool {
			return r.TestName == t.ID || suffixAfterLastDot(r.TestName) == t.ID
		})
		if ok {
			apply(t, results[i])
			consumed[i] = true
		}
	}

	// Pass 2: bare display-name fallback, restricted to tests still Running.
	for _, t := range tests {
		if t.Status != domain.Running {
			continue
		}
		i, ok := findUnconsumed(results, consumed, func(r domain.RunResult) bool {
			return suffixAfterLastDot(r.TestName) == t.DisplayName
		})
		if ok {
			apply(t, results[i])
			consumed[i] = true
		}
	}

	// Pass 3: anything still Running was never reported (§4.6, §8).
	for _, t := range tests {
		if t.Status == domain.Running {
			t.Status = domain.Skipped
			t.ErrorMessage = "no result"
		}
	}
}

func findUnconsumed(results []domain.RunResult, consumed []bool, match func(domain.RunResult) bool) (int, bool) {
	for i, r := range results {
		if consumed[i] {
			continue
		}
		if match(r) {
			return i, true
		}
	}
	return 0, false
}

func apply(t *domain.Test, r domain.RunResult) {
	switch r.Outcome {
	case domain.OutcomeFailed:
		t.Status = domain.Failed
		t.ErrorMessage = r.ErrorMessage
		t.StackTrace = r.StackTrace
	case domain.OutcomePassed:
		t.Status = domain.Passed
	default:
		t.Status = domain.Skipped
	}
	t.DurationMS = r.DurationMS
}

func suffixAfterLastDot(s string) string {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}
