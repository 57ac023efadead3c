package domain

import (
	"sort"
	"strings"
)

// TestClass is an inner node: the class containing a set of test methods.
type TestClass struct {
	// FullName is the namespace-qualified class name.
	FullName string
	// fullNameLower is precomputed for case-insensitive sorting.
	fullNameLower string

	// Tests is kept sorted case-insensitively by DisplayName (§3 invariant).
	Tests []*Test
}

// NewTestClass creates an empty TestClass.
func NewTestClass(fullName string) *TestClass {
	return &TestClass{
		FullName:      fullName,
		fullNameLower: strings.ToLower(fullName),
	}
}

// FullNameLower returns the precomputed lowercase full name used for sorting classes.
func (c *TestClass) FullNameLower() string {
	return c.fullNameLower
}

// AddTest appends a test and re-sorts the class's test list.
func (c *TestClass) AddTest(t *Test) {
	c.Tests = append(c.Tests, t)
	c.SortTests()
}

// SortTests restores the case-insensitive-by-display-name sort invariant.
func (c *TestClass) SortTests() {
	sort.SliceStable(c.Tests, func(i, j int) bool {
		return c.Tests[i].displayNameLower < c.Tests[j].displayNameLower
	})
}

// Status computes the class-aggregate status as a pure function of its tests' statuses (§3).
func (c *TestClass) Status() Status {
	statuses := make([]Status, len(c.Tests))
	for i, t := range c.Tests {
		statuses[i] = t.Status
	}
	return AggregateStatus(statuses)
}

// FindTest returns the test with the given display name, or nil.
func (c *TestClass) FindTest(displayName string) *Test {
	for _, t := range c.Tests {
		if t.DisplayName == displayName {
			return t
		}
	}
	return nil
}
