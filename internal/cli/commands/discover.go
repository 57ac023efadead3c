package commands

import (
	"context"
	"fmt"

	"github.com/gleladze/testament/internal/config"
	"github.com/gleladze/testament/internal/discovery"
	"github.com/gleladze/testament/internal/domain"
	"github.com/gleladze/testament/internal/workspace"
)

// discoverAll resolves the workspace and runs the Discovery Coordinator to
// completion, for the two headless command paths (list, and run/pr with
// --no-tui). The interactive path instead hands the located projects to
// ui.App, which pumps discovery.Event incrementally (§4.4, §4.8).
func discoverAll(ctx context.Context, cfg *config.Config) ([]*domain.TestProject, error) {
	startPath := cfg.StartPath
	if cfg.Flags.TestPath != "" {
		startPath = cfg.Flags.TestPath
	}

	located, err := workspace.Locate(startPath)
	if err != nil {
		return nil, fmt.Errorf("locate workspace: %w", err)
	}

	projects := make([]*domain.TestProject, 0, len(located.ProjectFiles))
	for _, pf := range located.ProjectFiles {
		projects = append(projects, domain.NewTestProject(projectName(pf), pf, dirName(pf)))
	}

	coordinator := discovery.New(cfg)
	events := coordinator.Run(ctx, projects)
	for ev := range events {
		switch ev.Kind {
		case discovery.EventProjectDiscovered:
			projects[ev.Index].Classes = ev.Classes
			projects[ev.Index].State = domain.Ready
		case discovery.EventProjectError:
			projects[ev.Index].LoadError = ev.Message
			projects[ev.Index].State = domain.ErrorState
		}
	}

	return projects, nil
}

func projectName(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

func dirName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}
