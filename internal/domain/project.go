package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DiscoveryState is the lifecycle state of a TestProject.
type DiscoveryState int

const (
	Pending DiscoveryState = iota
	Discovering
	Ready
	ErrorState
)

func (s DiscoveryState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Discovering:
		return "Discovering"
	case Ready:
		return "Ready"
	case ErrorState:
		return "Error"
	default:
		return "Unknown"
	}
}

// TestProject is a root node: one project file and the classes discovered within it.
type TestProject struct {
	Name string
	// ProjectFile is the absolute path to the project file.
	ProjectFile string
	// Dir is the absolute path to the project's directory.
	Dir string

	Classes []*TestClass

	// LoadError is set when discovery failed for this project only (§7 propagation rule).
	LoadError string
	State     DiscoveryState
}

// NewTestProject creates a project in the Pending state.
func NewTestProject(name, projectFile, dir string) *TestProject {
	return &TestProject{
		Name:        name,
		ProjectFile: projectFile,
		Dir:         dir,
		State:       Pending,
	}
}

// SortClasses restores the case-insensitive-by-full-name sort invariant (§3).
func (p *TestProject) SortClasses() {
	sort.SliceStable(p.Classes, func(i, j int) bool {
		return p.Classes[i].FullNameLower() < p.Classes[j].FullNameLower()
	})
}

// FindClass returns the class with the given full name, or nil.
func (p *TestProject) FindClass(fullName string) *TestClass {
	for _, c := range p.Classes {
		if c.FullName == fullName {
			return c
		}
	}
	return nil
}

// FindOrCreateClass returns the existing class with fullName, creating and
// appending one if absent. Callers must call SortClasses once done inserting.
func (p *TestProject) FindOrCreateClass(fullName string) *TestClass {
	if c := p.FindClass(fullName); c != nil {
		return c
	}
	c := NewTestClass(fullName)
	p.Classes = append(p.Classes, c)
	return c
}

// AllTests returns every test across every class, in tree order.
func (p *TestProject) AllTests() []*Test {
	var out []*Test
	for _, c := range p.Classes {
		out = append(out, c.Tests...)
	}
	return out
}

// FindTestByID returns the test with the given stable identifier, or nil.
func (p *TestProject) FindTestByID(id string) *Test {
	for _, c := range p.Classes {
		for _, t := range c.Tests {
			if t.ID == id {
				return t
			}
		}
	}
	return nil
}

// UncategorizedClassName is the synthetic class name used when the Source
// Indexer has no occurrence for a test name (§4.4 step 2).
const UncategorizedClassName = "Uncategorized"

// CollapseKey returns the cross-project-safe key used to store this class's
// collapse state: "{project_name}::{class_full_name}" (§3, §6).
func CollapseKey(projectName, classFullName string) string {
	return fmt.Sprintf("%s::%s", projectName, classFullName)
}

// DisplayNameOf returns the bare method name: the substring after the last '.'.
func DisplayNameOf(fullyQualifiedName string) string {
	idx := strings.LastIndex(fullyQualifiedName, ".")
	if idx < 0 {
		return fullyQualifiedName
	}
	return fullyQualifiedName[idx+1:]
}
