package indexer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParserBlockScopedNamespace(t *testing.T) {
	content := `
namespace N
{
    public class ClassA
    {
        [Fact]
        public void ShouldInitialise()
        {
        }
    }

    public class ClassB
    {
        [Fact]
        public void ShouldInitialise()
        {
        }
    }
}
`
	p := NewParser()
	methods := p.Parse(content)

	var a, b int
	for _, m := range methods {
		if m.MethodName != "ShouldInitialise" {
			continue
		}
		switch m.ClassFullName {
		case "ClassA":
			a++
		case "ClassB":
			b++
		}
		if m.Namespace != "N" {
			t.Errorf("expected namespace N, got %s", m.Namespace)
		}
	}
	if a != 1 || b != 1 {
		t.Fatalf("expected one ShouldInitialise per class, got ClassA=%d ClassB=%d", a, b)
	}
}

func TestParserFileScopedNamespace(t *testing.T) {
	content := `
namespace MyTests;

public class MyTestClass
{
    [Fact]
    public void TestMethod()
    {
    }
}
`
	p := NewParser()
	methods := p.Parse(content)
	if len(methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(methods))
	}
	if methods[0].Namespace != "MyTests" {
		t.Errorf("expected namespace MyTests, got %s", methods[0].Namespace)
	}
	if methods[0].ClassFullName != "MyTestClass" {
		t.Errorf("expected class MyTestClass, got %s", methods[0].ClassFullName)
	}
}

func TestParserNestedClass(t *testing.T) {
	content := `
namespace N
{
    public class Outer
    {
        public class Inner
        {
            public void TestNested()
            {
            }
        }
    }
}
`
	p := NewParser()
	methods := p.Parse(content)
	if len(methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(methods))
	}
	if methods[0].ClassFullName != "Outer.Inner" {
		t.Errorf("expected Outer.Inner, got %s", methods[0].ClassFullName)
	}
}

func TestParserAllMethodsCollected(t *testing.T) {
	content := `
namespace N
{
    public class C
    {
        [Fact]
        public void TestMethod()
        {
        }

        public void HelperMethod()
        {
        }

        private void SetUp()
        {
        }
    }
}
`
	p := NewParser()
	methods := p.Parse(content)
	if len(methods) != 3 {
		t.Fatalf("expected all 3 methods collected, got %d", len(methods))
	}
}

func TestIndexProjectSkipsBinObjAndNonTestFiles(t *testing.T) {
	tmpDir := t.TempDir()
	mustDir(t, filepath.Join(tmpDir, "bin"))
	mustFile(t, filepath.Join(tmpDir, "bin", "Generated.cs"), "namespace N { public class C { public void TestX() {} } }")
	mustFile(t, filepath.Join(tmpDir, "Helper.cs"), "namespace N { public class Helper { public void DoWork() {} } }")
	mustFile(t, filepath.Join(tmpDir, "SampleTest.cs"), "namespace N { public class SampleTest { public void TestFoo() {} } }")

	idx, err := IndexProject(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := idx.ByDisplayName["TestX"]; ok {
		t.Error("expected bin/ directory to be skipped")
	}
	if _, ok := idx.ByDisplayName["DoWork"]; ok {
		t.Error("expected non-test file to be skipped by the pre-filter")
	}
	if occs, ok := idx.ByDisplayName["TestFoo"]; !ok || len(occs) != 1 {
		t.Fatalf("expected TestFoo to be indexed once, got %v", occs)
	}
}

func mustDir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func mustFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
