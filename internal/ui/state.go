// Package ui owns the domain tree's view state (cursor, selection, filter,
// collapse, output buffer) and the event loop that multiplexes keyboard
// input against the discovery and executor channels (§4.8).
package ui

import (
	"strings"

	"github.com/gleladze/testament/internal/domain"
)

// ItemKind discriminates a VisibleItem.
type ItemKind int

const (
	ItemClass ItemKind = iota
	ItemTest
)

// VisibleItem is one row of the Tests pane's flat, derived visible-item list.
type VisibleItem struct {
	Kind       ItemKind
	ClassIndex int
	TestIndex  int // meaningful only when Kind == ItemTest
	Indent     int
}

// visibleCacheKey is the cache key from §4.8: current project, a collapse
// generation counter, and the active filter text.
type visibleCacheKey struct {
	projectIndex       int
	collapseGeneration int
	filterText         string
}

// State is the single owner of everything the UI renders. Only the event
// loop goroutine ever mutates it (§5).
type State struct {
	Projects      []*domain.TestProject
	ProjectCursor int
	TestCursor    int

	Selection map[string]bool // test ID -> selected, orthogonal to filter/collapse (§3)

	filter      string
	filterLower string

	collapsed          map[string]bool // domain.CollapseKey(...) -> collapsed
	collapseGeneration int

	Output *domain.OutputBuffer

	Status    string
	WatchMode bool
	Running   bool

	// lastFailedNames captures the display-name suffixes of tests Failed in
	// the most recently completed run, for the 'a' re-run-failed key (§4.8).
	lastFailedNames map[string]bool

	visCache struct {
		key   visibleCacheKey
		items []VisibleItem
	}
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		Selection:       make(map[string]bool),
		collapsed:       make(map[string]bool),
		Output:          domain.NewOutputBuffer(),
		lastFailedNames: make(map[string]bool),
	}
}

// CurrentProject returns the project under the cursor, or nil.
func (s *State) CurrentProject() *domain.TestProject {
	if s.ProjectCursor < 0 || s.ProjectCursor >= len(s.Projects) {
		return nil
	}
	return s.Projects[s.ProjectCursor]
}

// Filter returns the active (original-case) filter text.
func (s *State) Filter() string { return s.filter }

// SetFilter sets the filter ('/' then Enter, §4.8). Matching is a
// case-insensitive substring match against test display names.
func (s *State) SetFilter(text string) {
	s.filter = text
	s.filterLower = strings.ToLower(text)
	s.TestCursor = 0
}

// ClearFilter clears the filter (Esc, §4.8).
func (s *State) ClearFilter() {
	s.filter = ""
	s.filterLower = ""
}

// IsCollapsed reports whether the class at the given project/class full-name
// is collapsed, using the project-scoped collapse key (§3).
func (s *State) IsCollapsed(projectName, classFullName string) bool {
	return s.collapsed[domain.CollapseKey(projectName, classFullName)]
}

// ToggleCollapseOrSelection implements Space (§4.8): toggles a class's
// collapse state, or a test's selection.
func (s *State) ToggleCollapseOrSelection() {
	items := s.VisibleItems()
	if s.TestCursor < 0 || s.TestCursor >= len(items) {
		return
	}
	item := items[s.TestCursor]
	project := s.CurrentProject()
	if project == nil {
		return
	}

	switch item.Kind {
	case ItemClass:
		class := project.Classes[item.ClassIndex]
		key := domain.CollapseKey(project.Name, class.FullName)
		s.collapsed[key] = !s.collapsed[key]
		s.collapseGeneration++
	case ItemTest:
		class := project.Classes[item.ClassIndex]
		test := class.Tests[item.TestIndex]
		s.Selection[test.ID] = !s.Selection[test.ID]
		test.Selected = s.Selection[test.ID]
	}
}

// ToggleExpandCollapseAll implements 'c' (§4.8): expands or collapses every
// class in the current project, toggled on the current majority state.
func (s *State) ToggleExpandCollapseAll() {
	project := s.CurrentProject()
	if project == nil || len(project.Classes) == 0 {
		return
	}

	collapsedCount := 0
	for _, class := range project.Classes {
		if s.IsCollapsed(project.Name, class.FullName) {
			collapsedCount++
		}
	}
	collapseAll := collapsedCount*2 < len(project.Classes)

	for _, class := range project.Classes {
		s.collapsed[domain.CollapseKey(project.Name, class.FullName)] = collapseAll
	}
	s.collapseGeneration++
}

// ClearSelection implements 'C' (§4.8): idempotent.
func (s *State) ClearSelection() {
	for id := range s.Selection {
		delete(s.Selection, id)
	}
	for _, p := range s.Projects {
		for _, c := range p.Classes {
			for _, t := range c.Tests {
				t.Selected = false
			}
		}
	}
}

// VisibleItems returns the current project's flat visible-item list,
// respecting collapse and filter state, rebuilding only when the cache key
// changes (§4.8).
func (s *State) VisibleItems() []VisibleItem {
	key := visibleCacheKey{
		projectIndex:       s.ProjectCursor,
		collapseGeneration: s.collapseGeneration,
		filterText:         s.filterLower,
	}
	if key == s.visCache.key && s.visCache.items != nil {
		return s.visCache.items
	}

	var items []VisibleItem
	project := s.CurrentProject()
	if project != nil {
		for ci, class := range project.Classes {
			matchedTests := make([]int, 0, len(class.Tests))
			for ti, t := range class.Tests {
				if t.MatchesFilter(s.filterLower) {
					matchedTests = append(matchedTests, ti)
				}
			}
			if len(matchedTests) == 0 {
				continue
			}
			items = append(items, VisibleItem{Kind: ItemClass, ClassIndex: ci, Indent: 0})
			if s.IsCollapsed(project.Name, class.FullName) {
				continue
			}
			for _, ti := range matchedTests {
				items = append(items, VisibleItem{Kind: ItemTest, ClassIndex: ci, TestIndex: ti, Indent: 1})
			}
		}
	}

	s.visCache.key = key
	s.visCache.items = items
	return items
}

// MoveCursor moves the Tests-pane cursor by delta, clamped to bounds (↑/↓).
func (s *State) MoveCursor(delta int) {
	items := s.VisibleItems()
	if len(items) == 0 {
		s.TestCursor = 0
		return
	}
	s.TestCursor += delta
	if s.TestCursor < 0 {
		s.TestCursor = 0
	}
	if s.TestCursor >= len(items) {
		s.TestCursor = len(items) - 1
	}
}

// JumpClassHeader implements ←/→ (§4.8): jumps to the previous/next class
// header, wrapping.
func (s *State) JumpClassHeader(forward bool) {
	items := s.VisibleItems()
	if len(items) == 0 {
		return
	}

	classPositions := make([]int, 0, len(items))
	for i, it := range items {
		if it.Kind == ItemClass {
			classPositions = append(classPositions, i)
		}
	}
	if len(classPositions) == 0 {
		return
	}

	if forward {
		for _, pos := range classPositions {
			if pos > s.TestCursor {
				s.TestCursor = pos
				return
			}
		}
		s.TestCursor = classPositions[0]
		return
	}
	for i := len(classPositions) - 1; i >= 0; i-- {
		if classPositions[i] < s.TestCursor {
			s.TestCursor = classPositions[i]
			return
		}
	}
	s.TestCursor = classPositions[len(classPositions)-1]
}

// ResolveRunScope implements the 'r' key's precedence rule (§4.8): selection
// first, then filter, then cursor-on-test, then cursor-on-class, then the
// whole project.
func (s *State) ResolveRunScope() []*domain.Test {
	project := s.CurrentProject()
	if project == nil {
		return nil
	}

	if len(s.Selection) > 0 {
		var out []*domain.Test
		for _, t := range project.AllTests() {
			if s.Selection[t.ID] {
				out = append(out, t)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	if s.filter != "" {
		var out []*domain.Test
		for _, t := range project.AllTests() {
			if t.MatchesFilter(s.filterLower) {
				out = append(out, t)
			}
		}
		return out
	}

	items := s.VisibleItems()
	if s.TestCursor >= 0 && s.TestCursor < len(items) {
		item := items[s.TestCursor]
		class := project.Classes[item.ClassIndex]
		if item.Kind == ItemTest {
			return []*domain.Test{class.Tests[item.TestIndex]}
		}
		return append([]*domain.Test(nil), class.Tests...)
	}

	return project.AllTests()
}

// AllProjectTests implements 'R' (§4.8): every test in the current project,
// ignoring selection and filter.
func (s *State) AllProjectTests() []*domain.Test {
	project := s.CurrentProject()
	if project == nil {
		return nil
	}
	return project.AllTests()
}

// RecordFailedNames captures the display names of tests that ended Failed,
// for the 'a' re-run-failed key (§4.8).
func (s *State) RecordFailedNames(tests []*domain.Test) {
	s.lastFailedNames = make(map[string]bool)
	for _, t := range tests {
		if t.Status == domain.Failed {
			s.lastFailedNames[t.DisplayName] = true
		}
	}
}

// FailedTests implements 'a': tests whose display name was captured as
// Failed in the most recent completed run of the current project.
func (s *State) FailedTests() []*domain.Test {
	project := s.CurrentProject()
	if project == nil {
		return nil
	}
	var out []*domain.Test
	for _, t := range project.AllTests() {
		if s.lastFailedNames[t.DisplayName] {
			out = append(out, t)
		}
	}
	return out
}

// ClearOutput implements 'x'.
func (s *State) ClearOutput() {
	s.Output.Clear()
}

// ToggleWatch implements 'w'.
func (s *State) ToggleWatch() {
	s.WatchMode = !s.WatchMode
}
