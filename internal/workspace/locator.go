// Package workspace finds the test projects in a .NET workspace (§4.1).
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gleladze/testament/internal/errs"
)

// Result is the outcome of locating a workspace: the projects to discover
// and, if one was found, the solution file that listed them.
type Result struct {
	SolutionFile string // empty if resolution fell back to a recursive scan
	ProjectFiles []string
}

// vcsRootMarker is the directory name that bounds the solution-file walk-up (§4.1).
const vcsRootMarker = ".git"

// Locate resolves a starting path (file or directory) to a solution file (if
// any) and an ordered list of project-file paths, following the
// first-match-wins policy in §4.1.
func Locate(startPath string) (*Result, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("resolve start path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat start path: %w", err)
	}

	// 1. If the input is a project file, return it alone.
	if !info.IsDir() && isProjectFile(abs) {
		return &Result{ProjectFiles: []string{abs}}, nil
	}

	startDir := abs
	if !info.IsDir() {
		startDir = filepath.Dir(abs)
	}

	// 2. Walk up to the VCS root looking for a solution file.
	if slnPath, ok := findSolutionUpward(startDir); ok {
		projects, err := ParseSolution(slnPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.WorkspaceInvalid, err)
		}
		return &Result{SolutionFile: slnPath, ProjectFiles: projects}, nil
	}

	// 3. Fall back to a recursive project-file scan.
	projects, err := scanForProjects(startDir)
	if err != nil {
		return nil, fmt.Errorf("scan for projects: %w", err)
	}
	if len(projects) == 0 {
		return nil, errs.NoWorkspace
	}
	return &Result{ProjectFiles: projects}, nil
}

func isProjectFile(path string) bool {
	return strings.HasSuffix(path, ".csproj")
}

func isSolutionFile(name string) bool {
	return strings.HasSuffix(name, ".sln")
}

// findSolutionUpward walks from dir up to (and including) the VCS root,
// returning the first solution file found in any directory visited.
func findSolutionUpward(dir string) (string, bool) {
	current := dir
	for {
		entries, err := os.ReadDir(current)
		if err == nil {
			for _, e := range entries {
				if !e.IsDir() && isSolutionFile(e.Name()) {
					return filepath.Join(current, e.Name()), true
				}
			}
		}

		if hasVCSRoot(current) {
			return "", false
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func hasVCSRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, vcsRootMarker))
	return err == nil
}

// scanForProjects recursively scans root for project files, skipping
// build-artifact and hidden directories (§4.1 step 3).
func scanForProjects(root string) ([]string, error) {
	var projects []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "bin" || name == "obj" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if isProjectFile(path) {
			projects = append(projects, path)
		}
		return nil
	})
	return projects, err
}

// ParseSolution extracts test-project paths from a .sln file (§4.1).
//
// Solution lines have the shape:
//
//	Project("{type-guid}") = "Name", "Relative\Path.csproj", "{project-guid}"
//
// Only projects whose file-name stem ends (case-sensitively) in "Tests" or
// "Test" are kept.
func ParseSolution(slnPath string) ([]string, error) {
	content, err := os.ReadFile(slnPath)
	if err != nil {
		return nil, &errs.FileRead{Path: slnPath, Cause: err}
	}

	slnDir := filepath.Dir(slnPath)
	var projects []string

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "Project(") {
			continue
		}
		parts := strings.Split(line, "\"")
		// parts[1] = type guid, parts[3] = name, parts[5] = relative path, parts[7] = project guid
		if len(parts) < 6 {
			continue
		}
		relPath := parts[5]

		stem := strings.TrimSuffix(filepath.Base(filepath.ToSlash(relPath)), filepath.Ext(relPath))
		if !isTestProjectStem(stem) {
			continue
		}

		normalized := strings.ReplaceAll(relPath, "\\", string(filepath.Separator))
		normalized = strings.ReplaceAll(normalized, "/", string(filepath.Separator))
		full := filepath.Join(slnDir, normalized)
		full = stripUNCPrefix(full)
		projects = append(projects, full)
	}

	return projects, nil
}

// isTestProjectStem reports whether a project file-name stem ends in "Tests"
// or "Test" (case-sensitive, §4.1).
func isTestProjectStem(stem string) bool {
	return strings.HasSuffix(stem, "Tests") || strings.HasSuffix(stem, "Test")
}

// uncPrefix is the Windows universal-naming-convention path prefix that the
// external test CLI cannot consume.
const uncPrefix = `\\?\`

// stripUNCPrefix removes the \\?\ prefix on Windows hosts (§4.1).
func stripUNCPrefix(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}
	return strings.TrimPrefix(path, uncPrefix)
}
