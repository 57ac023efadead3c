package matcher

import (
	"testing"

	"github.com/gleladze/testament/internal/domain"
)

func newRunningTest(id, displayName string) *domain.Test {
	t := domain.NewTest(id, displayName)
	t.Status = domain.Running
	return t
}

func TestApplyDuplicateMethodNamesNoCrossContamination(t *testing.T) {
	classA := newRunningTest("N.ClassA.ShouldInitialise", "ShouldInitialise")
	classB := newRunningTest("N.ClassB.ShouldInitialise", "ShouldInitialise")

	results := []domain.RunResult{
		{TestName: "N.ClassA.ShouldInitialise", Outcome: domain.OutcomePassed},
		{TestName: "N.ClassB.ShouldInitialise", Outcome: domain.OutcomeFailed},
	}

	Apply([]*domain.Test{classA, classB}, results)

	if classA.Status != domain.Passed {
		t.Errorf("expected ClassA.ShouldInitialise Passed, got %v", classA.Status)
	}
	if classB.Status != domain.Failed {
		t.Errorf("expected ClassB.ShouldInitialise Failed, got %v", classB.Status)
	}
}

func TestApplyBareNameFallbackWhenExactMissesButFullNameDiffers(t *testing.T) {
	// Test's stable ID uses the discovered fully-qualified form, but the
	// results file reports a shorter, framework-mangled name that only
	// agrees on the bare method name.
	test := newRunningTest("N.MyClass.TestMethod1", "TestMethod1")
	results := []domain.RunResult{
		{TestName: "TestMethod1", Outcome: domain.OutcomePassed},
	}

	Apply([]*domain.Test{test}, results)

	if test.Status != domain.Passed {
		t.Fatalf("expected bare-name fallback match, got %v", test.Status)
	}
}

func TestApplyUnmatchedRunningBecomesSkippedNoResult(t *testing.T) {
	test := newRunningTest("A.Foo", "Foo")
	Apply([]*domain.Test{test}, nil)

	if test.Status != domain.Skipped {
		t.Fatalf("expected Skipped, got %v", test.Status)
	}
	if test.ErrorMessage != "no result" {
		t.Fatalf("expected 'no result' message, got %q", test.ErrorMessage)
	}
}

func TestApplyConsumedResultCannotMatchTwice(t *testing.T) {
	a := newRunningTest("A.Foo", "Foo")
	b := newRunningTest("B.Foo", "Foo")
	results := []domain.RunResult{
		{TestName: "Foo", Outcome: domain.OutcomePassed},
	}

	Apply([]*domain.Test{a, b}, results)

	passedCount := 0
	if a.Status == domain.Passed {
		passedCount++
	}
	if b.Status == domain.Passed {
		passedCount++
	}
	if passedCount != 1 {
		t.Fatalf("expected exactly one test to consume the single result, got %d", passedCount)
	}
}

func TestApplyPopulatesDurationAndFailureDetail(t *testing.T) {
	test := newRunningTest("A.Bar", "Bar")
	results := []domain.RunResult{
		{TestName: "A.Bar", Outcome: domain.OutcomeFailed, DurationMS: 42, ErrorMessage: "boom", StackTrace: "at Bar()"},
	}

	Apply([]*domain.Test{test}, results)

	if test.Status != domain.Failed || test.DurationMS != 42 || test.ErrorMessage != "boom" || test.StackTrace != "at Bar()" {
		t.Fatalf("unexpected test state: %+v", test)
	}
}

func TestMarkRunningSetsAllToRunning(t *testing.T) {
	a := domain.NewTest("A.Foo", "Foo")
	b := domain.NewTest("B.Foo", "Foo")
	MarkRunning([]*domain.Test{a, b})

	if a.Status != domain.Running || b.Status != domain.Running {
		t.Fatalf("expected both tests Running, got %v %v", a.Status, b.Status)
	}
}
