// Package indexer walks a project's source tree and produces a mapping from
// method display name to the classes that declare it (§4.2).
//
// The original implementation (original_source/src/parser/csharp.rs) uses a
// tree-sitter grammar; no equivalent off-the-shelf C# grammar binding exists
// in this module's dependency corpus, so per the Source Indexer's own design
// note ("a hand-written indentation-insensitive one is viable if the chosen
// language ecosystem lacks a mature off-the-shelf parser") this is a
// hand-written, regex-driven recognizer in the style of the teacher's
// internal/discovery/parser.go, extended with a brace-depth stack to track
// namespace/class nesting.
package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gleladze/testament/internal/errs"
)

// Occurrence is one place a method name was declared.
type Occurrence struct {
	ClassFullName string
	Namespace     string
}

// Index is the result of indexing one project directory.
type Index struct {
	// ByDisplayName maps a bare method name to every class it was seen in,
	// in file-system walk order (§4.2 determinism).
	ByDisplayName map[string][]Occurrence
	// ByFullName maps "namespace.class.method" to its single occurrence.
	ByFullName map[string]Occurrence
}

func newIndex() *Index {
	return &Index{
		ByDisplayName: make(map[string][]Occurrence),
		ByFullName:    make(map[string]Occurrence),
	}
}

func (idx *Index) add(methodName, classFullName, namespace string) {
	occ := Occurrence{ClassFullName: classFullName, Namespace: namespace}
	idx.ByDisplayName[methodName] = append(idx.ByDisplayName[methodName], occ)

	full := methodName
	if classFullName != "" {
		full = classFullName + "." + methodName
	}
	if namespace != "" {
		full = namespace + "." + full
	}
	idx.ByFullName[full] = occ
}

// testSubstring is the cheap pre-filter (§4.2): files without it are skipped
// entirely, since the authoritative list of tests comes from the Test
// Enumerator — the indexer only supplies name→class correlation data.
const testSubstring = "Test"

// Index walks projectDir recursively, skipping bin/obj/dot-prefixed
// directories, and parses every remaining file that contains the substring
// "Test". One *Parser instance is reused across all files (§4.2).
func IndexProject(projectDir string) (*Index, error) {
	idx := newIndex()
	p := NewParser()

	err := filepath.WalkDir(projectDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != projectDir && (name == "bin" || name == "obj" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".cs") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return &errs.FileRead{Path: path, Cause: err}
		}
		if !strings.Contains(string(content), testSubstring) {
			return nil
		}

		for _, m := range p.Parse(string(content)) {
			idx.add(m.MethodName, m.ClassFullName, m.Namespace)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index project %s: %w", projectDir, err)
	}
	return idx, nil
}

// Method is one method declaration found by the Parser, with its enclosing
// class and namespace at the point it was declared.
type Method struct {
	MethodName    string
	ClassFullName string
	Namespace     string
}

// Parser recognizes namespace, class, and method declaration landmarks in a
// C#-like source file. It does no semantic analysis and applies no attribute
// filtering: every method declaration is reported (§4.2).
type Parser struct {
	namespaceBlockRe *regexp.Regexp
	namespaceFileRe  *regexp.Regexp
	classRe          *regexp.Regexp
	methodRe         *regexp.Regexp
}

// NewParser creates a Parser. One instance is reused across all files in a
// project (§4.2).
func NewParser() *Parser {
	return &Parser{
		// Block-scoped namespaces may put their '{' on the same line or
		// (Allman style, the common .NET convention) on the following line;
		// either way this line alone is enough to push the scope.
		namespaceBlockRe: regexp.MustCompile(`^\s*namespace\s+([\w.]+)\s*\{?\s*$`),
		namespaceFileRe:  regexp.MustCompile(`^\s*namespace\s+([\w.]+)\s*;`),
		classRe:          regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)*(?:(?:public|internal|private|protected|static|sealed|abstract|partial)\s+)*(?:partial\s+)?class\s+(\w+)`),
		methodRe:         regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)*(?:(?:public|internal|private|protected|static|virtual|override|async|sealed|abstract|partial|new|extern)\s+)*[\w<>\[\],\.\? ]+?\s+(\w+)\s*(?:<[^>]*>)?\s*\(`),
	}
}

type scopeKind int

const (
	scopeNamespace scopeKind = iota
	scopeClass
)

type scopeFrame struct {
	kind     scopeKind
	name     string
	openedAt int  // brace depth just before this scope's own opening brace
	opened   bool // true once depth has risen past openedAt (its '{' has been seen)
}

// Parse extracts every method declaration in content, tagged with the
// namespace/class it was nested in at that point.
func (p *Parser) Parse(content string) []Method {
	var methods []Method
	var stack []scopeFrame
	var fileScopedNamespace string
	depth := 0

	// Give every brace a line of its own, so declarations that share one
	// source line ("namespace N { public class C { void M() {} } }") are
	// still seen one at a time by the line-anchored patterns below.
	content = strings.ReplaceAll(content, "{", "{\n")
	content = strings.ReplaceAll(content, "}", "\n}\n")

	currentNamespace := func() string {
		var parts []string
		for _, f := range stack {
			if f.kind == scopeNamespace {
				parts = append(parts, f.name)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ".")
		}
		return fileScopedNamespace
	}
	currentClass := func() string {
		var parts []string
		for _, f := range stack {
			if f.kind == scopeClass {
				parts = append(parts, f.name)
			}
		}
		return strings.Join(parts, ".")
	}

	for _, line := range strings.Split(content, "\n") {
		if m := p.namespaceFileRe.FindStringSubmatch(line); m != nil {
			fileScopedNamespace = m[1]
			continue
		}

		if m := p.namespaceBlockRe.FindStringSubmatch(line); m != nil {
			stack = append(stack, scopeFrame{kind: scopeNamespace, name: m[1], openedAt: depth})
		} else if m := p.classRe.FindStringSubmatch(line); m != nil {
			stack = append(stack, scopeFrame{kind: scopeClass, name: m[1], openedAt: depth})
		} else if m := p.methodRe.FindStringSubmatch(line); m != nil && !isControlKeyword(m[1]) {
			methods = append(methods, Method{
				MethodName:    m[1],
				ClassFullName: currentClass(),
				Namespace:     currentNamespace(),
			})
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")

		// A freshly pushed frame may not have seen its own '{' yet (Allman
		// style puts it on the next line); only the top frame can be in
		// that state, since a nested declaration can't appear before its
		// parent scope's own opening brace.
		if n := len(stack); n > 0 && !stack[n-1].opened && depth > stack[n-1].openedAt {
			stack[n-1].opened = true
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.opened && depth <= top.openedAt {
				stack = stack[:len(stack)-1]
				continue
			}
			break
		}
	}

	return methods
}

// isControlKeyword filters out control-flow statements that can otherwise
// resemble a method-declaration shape (e.g. "if (x)", "foreach (var y in z)").
func isControlKeyword(name string) bool {
	switch name {
	case "if", "for", "foreach", "while", "switch", "using", "catch", "lock", "fixed":
		return true
	}
	return false
}
