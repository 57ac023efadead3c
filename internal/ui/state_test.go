package ui

import (
	"testing"

	"github.com/gleladze/testament/internal/domain"
)

func newProjectWithTwoClasses() *domain.TestProject {
	p := domain.NewTestProject("Sample.Tests", "/x/Sample.Tests.csproj", "/x")
	a := domain.NewTestClass("N.A")
	a.AddTest(domain.NewTest("N.A.Foo", "Foo"))
	a.AddTest(domain.NewTest("N.A.Bar", "Bar"))
	b := domain.NewTestClass("N.B")
	b.AddTest(domain.NewTest("N.B.Baz", "Baz"))
	p.Classes = append(p.Classes, a, b)
	p.SortClasses()
	return p
}

func TestVisibleItemsFlattensClassesAndTests(t *testing.T) {
	s := NewState()
	s.Projects = []*domain.TestProject{newProjectWithTwoClasses()}

	items := s.VisibleItems()
	if len(items) != 5 {
		t.Fatalf("expected 5 visible items (2 class headers + 3 tests), got %d", len(items))
	}
	if items[0].Kind != ItemClass || items[3].Kind != ItemClass {
		t.Fatalf("expected class headers at positions 0 and 3")
	}
}

func TestVisibleItemsCollapsedClassHidesTests(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}

	s.TestCursor = 0
	s.ToggleCollapseOrSelection() // collapse class N.A (first header)

	items := s.VisibleItems()
	if len(items) != 3 {
		t.Fatalf("expected 3 visible items after collapsing class A (1 header + 0 tests + 1 header + 1 test), got %d", len(items))
	}
}

func TestVisibleItemsCacheInvalidatedOnFilterChange(t *testing.T) {
	s := NewState()
	s.Projects = []*domain.TestProject{newProjectWithTwoClasses()}

	all := s.VisibleItems()
	s.SetFilter("baz")
	filtered := s.VisibleItems()

	if len(filtered) >= len(all) {
		t.Fatalf("expected filtering to shrink the visible set: all=%d filtered=%d", len(all), len(filtered))
	}
	// Only class N.B (containing Baz) should remain.
	if len(filtered) != 2 {
		t.Fatalf("expected 1 class header + 1 test for filter 'baz', got %d", len(filtered))
	}
}

func TestToggleCollapseOrSelectionOnTestTogglesSelection(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}

	s.TestCursor = 1 // first test row under class A ("Bar", since sorted before "Foo")
	s.ToggleCollapseOrSelection()

	if len(s.Selection) != 1 {
		t.Fatalf("expected exactly one selected test, got %d", len(s.Selection))
	}
}

func TestClearSelectionIsIdempotent(t *testing.T) {
	s := NewState()
	s.Projects = []*domain.TestProject{newProjectWithTwoClasses()}
	s.ClearSelection()
	s.ClearSelection()
	if len(s.Selection) != 0 {
		t.Fatalf("expected empty selection")
	}
}

func TestResolveRunScopePrecedenceSelectionBeatsFilterAndCursor(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}

	target := project.Classes[0].Tests[0]
	s.Selection[target.ID] = true
	s.SetFilter("baz")

	scope := s.ResolveRunScope()
	if len(scope) != 1 || scope[0].ID != target.ID {
		t.Fatalf("expected selection to win over filter, got %d tests", len(scope))
	}
}

func TestResolveRunScopeFilterBeatsCursorWhenNoSelection(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}
	s.SetFilter("baz")

	scope := s.ResolveRunScope()
	if len(scope) != 1 || scope[0].DisplayName != "Baz" {
		t.Fatalf("expected filter-scoped run to select just Baz, got %d tests", len(scope))
	}
}

func TestResolveRunScopeCursorOnClassRunsWholeClass(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}
	s.TestCursor = 0 // class N.A header

	scope := s.ResolveRunScope()
	if len(scope) != 2 {
		t.Fatalf("expected cursor-on-class-header to run the whole class (2 tests), got %d", len(scope))
	}
}

func TestResolveRunScopeCursorOnTestRunsJustThatTest(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}
	s.TestCursor = 1 // "Bar" test row

	scope := s.ResolveRunScope()
	if len(scope) != 1 || scope[0].DisplayName != "Bar" {
		t.Fatalf("expected exactly the cursor's test, got %d", len(scope))
	}
}

func TestJumpClassHeaderWrapsForward(t *testing.T) {
	s := NewState()
	s.Projects = []*domain.TestProject{newProjectWithTwoClasses()}
	s.TestCursor = 3 // class N.B header, the last one

	s.JumpClassHeader(true)
	if s.TestCursor != 0 {
		t.Fatalf("expected forward jump from last class header to wrap to 0, got %d", s.TestCursor)
	}
}

func TestJumpClassHeaderWrapsBackward(t *testing.T) {
	s := NewState()
	s.Projects = []*domain.TestProject{newProjectWithTwoClasses()}
	s.TestCursor = 0 // first class header

	s.JumpClassHeader(false)
	if s.TestCursor != 3 {
		t.Fatalf("expected backward jump from first class header to wrap to last (3), got %d", s.TestCursor)
	}
}

func TestToggleExpandCollapseAllMajorityRule(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}

	s.ToggleExpandCollapseAll() // 0/2 collapsed -> collapse all
	if !s.IsCollapsed(project.Name, project.Classes[0].FullName) || !s.IsCollapsed(project.Name, project.Classes[1].FullName) {
		t.Fatalf("expected both classes collapsed")
	}

	s.ToggleExpandCollapseAll() // 2/2 collapsed -> expand all
	if s.IsCollapsed(project.Name, project.Classes[0].FullName) || s.IsCollapsed(project.Name, project.Classes[1].FullName) {
		t.Fatalf("expected both classes expanded")
	}
}

func TestRecordFailedNamesAndFailedTests(t *testing.T) {
	s := NewState()
	project := newProjectWithTwoClasses()
	s.Projects = []*domain.TestProject{project}

	fooTest := project.FindClass("N.A").FindTest("Foo")
	fooTest.Status = domain.Failed

	s.RecordFailedNames(project.AllTests())
	failed := s.FailedTests()
	if len(failed) != 1 || failed[0].DisplayName != "Foo" {
		t.Fatalf("expected exactly Foo captured as failed, got %d", len(failed))
	}
}
