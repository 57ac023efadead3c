package executor

import "testing"

func TestBuildFilterExpressionAll(t *testing.T) {
	if got := buildFilterExpression(Mode{Kind: ModeAll}); got != "" {
		t.Fatalf("expected empty filter for All mode, got %q", got)
	}
}

func TestBuildFilterExpressionFilterExpression(t *testing.T) {
	mode := Mode{Kind: ModeFilterExpression, Filter: "FullyQualifiedName~Foo"}
	if got := buildFilterExpression(mode); got != "FullyQualifiedName~Foo" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestBuildFilterExpressionExplicitNames(t *testing.T) {
	mode := Mode{Kind: ModeExplicitNames, TestNames: []string{"A.Foo", "B.Foo"}}
	got := buildFilterExpression(mode)
	want := "FullyQualifiedName~A.Foo|FullyQualifiedName~B.Foo"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBuildFilterExpressionExplicitNamesEmptyDegradesToAll(t *testing.T) {
	mode := Mode{Kind: ModeExplicitNames, TestNames: nil}
	if got := buildFilterExpression(mode); got != "" {
		t.Fatalf("expected empty list to degrade to All, got %q", got)
	}
}

func TestBuildFilterExpressionStripsParameterizationAndDedupes(t *testing.T) {
	mode := Mode{Kind: ModeExplicitNames, TestNames: []string{"A.Foo(1,2)", "A.Foo(3,4)"}}
	got := buildFilterExpression(mode)
	want := "FullyQualifiedName~A.Foo"
	if got != want {
		t.Fatalf("expected parameterization stripped and deduped to %q, got %q", want, got)
	}
}

func TestIsNoiseLineFiltersBuildAndRestoreChatter(t *testing.T) {
	noisy := []string{
		"",
		"   ",
		"Restore complete (1.2s)",
		"Restored /path/to/project.csproj (in 0.5 sec).",
		"Determining projects to restore...",
		"Build succeeded.",
		"Build FAILED.",
		"  MyProject -> /bin/Debug/net8.0/MyProject.dll",
		"Program.cs(10,5): warning CS0168",
	}
	for _, line := range noisy {
		if !isNoiseLine(line) {
			t.Errorf("expected %q to be filtered as noise", line)
		}
	}
}

func TestIsNoiseLineKeepsTestOutcomeLines(t *testing.T) {
	kept := []string{
		"  Passed MyTests.ClassA.ShouldInitialise [12 ms]",
		"  Failed MyTests.ClassB.ShouldInitialise [3 ms]",
	}
	for _, line := range kept {
		if isNoiseLine(line) {
			t.Errorf("expected %q to be kept", line)
		}
	}
}
