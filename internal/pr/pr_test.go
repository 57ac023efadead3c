package pr

import "testing"

func TestParseURLValid(t *testing.T) {
	info, err := ParseURL("https://github.com/owner/repo/pull/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Owner != "owner" || info.Repo != "repo" || info.Number != 123 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestParseURLInvalid(t *testing.T) {
	cases := []string{
		"https://gitlab.com/owner/repo/pull/123",
		"not a url",
		"https://github.com/owner/repo/issues/123",
	}
	for _, c := range cases {
		if _, err := ParseURL(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestIsTestFile(t *testing.T) {
	yes := []string{"MyClassTests.cs", "src/Tests/MyTest.cs", "Api.Tests/UserSpec.cs"}
	for _, f := range yes {
		if !isTestFile(f) {
			t.Errorf("expected %q to be a test file", f)
		}
	}
	no := []string{"MyClass.cs", "Program.cs"}
	for _, f := range no {
		if isTestFile(f) {
			t.Errorf("expected %q to not be a test file", f)
		}
	}
}

func TestExtractChangedTestsSimpleDiff(t *testing.T) {
	diff := "diff --git a/Tests/MyTests.cs b/Tests/MyTests.cs\n" +
		"--- a/Tests/MyTests.cs\n" +
		"+++ b/Tests/MyTests.cs\n" +
		"@@ -10,6 +10,12 @@ public class MyTests\n" +
		"+    [Fact]\n" +
		"+    public void NewTest()\n" +
		"+    {\n" +
		"+        Assert.True(true);\n" +
		"+    }\n"

	tests := ExtractChangedTests(diff)
	if len(tests) != 1 {
		t.Fatalf("expected 1 changed test, got %d", len(tests))
	}
	if tests[0].MethodName != "NewTest" {
		t.Errorf("expected method NewTest, got %s", tests[0].MethodName)
	}
}

func TestExtractChangedTestsIgnoresNonTestFile(t *testing.T) {
	diff := "diff --git a/Program.cs b/Program.cs\n" +
		"--- a/Program.cs\n" +
		"+++ b/Program.cs\n" +
		"@@ -1,1 +1,4 @@\n" +
		"+    public void NotATestMethod()\n" +
		"+    {\n" +
		"+    }\n"

	tests := ExtractChangedTests(diff)
	if len(tests) != 0 {
		t.Fatalf("expected 0 changed tests for a non-test file, got %d", len(tests))
	}
}

func TestNamespaceAndClassFromPath(t *testing.T) {
	namespace, class := namespaceAndClassFromPath("src/Tests/Api/UserTests.cs")
	if class != "UserTests" {
		t.Errorf("expected class UserTests, got %s", class)
	}
	if !contains(namespace, "Tests") {
		t.Errorf("expected namespace to contain Tests, got %s", namespace)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
