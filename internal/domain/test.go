package domain

import "strings"

// Test is a leaf node: a single test method as reported by the test CLI.
type Test struct {
	// ID is the stable identifier: the fully-qualified name as reported by the test CLI.
	ID string
	// DisplayName is the bare method name.
	DisplayName string
	// displayNameLower is precomputed for filter matching.
	displayNameLower string

	Status Status

	// ErrorMessage and StackTrace are populated when Status == Failed.
	ErrorMessage string
	StackTrace   string

	// DurationMS is the last-run duration in milliseconds, or 0 if unknown.
	DurationMS int64

	// Selected mirrors UI State's selection set for rendering convenience;
	// UI State's set remains the source of truth (§3).
	Selected bool
}

// NewTest creates a Test from its stable identifier and display name.
func NewTest(id, displayName string) *Test {
	return &Test{
		ID:               id,
		DisplayName:      displayName,
		displayNameLower: strings.ToLower(displayName),
		Status:           NotRun,
	}
}

// DisplayNameLower returns the precomputed lowercase display name used for filter matching.
func (t *Test) DisplayNameLower() string {
	return t.displayNameLower
}

// MatchesFilter reports whether the test's display name contains the given
// (already-lowercased) substring. An empty filter always matches.
func (t *Test) MatchesFilter(lowerFilter string) bool {
	if lowerFilter == "" {
		return true
	}
	return strings.Contains(t.displayNameLower, lowerFilter)
}

// Reset clears a test's run-specific fields back to NotRun.
func (t *Test) Reset() {
	t.Status = NotRun
	t.ErrorMessage = ""
	t.StackTrace = ""
	t.DurationMS = 0
}
