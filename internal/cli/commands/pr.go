package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gleladze/testament/internal/config"
	"github.com/gleladze/testament/internal/domain"
	"github.com/gleladze/testament/internal/pr"
	"github.com/gleladze/testament/internal/ui"
	"github.com/gleladze/testament/internal/workspace"
)

// PRCommand resolves a GitHub pull request's diff, matches its added test
// methods against the discovered workspace, and runs only those tests
// (SPEC_FULL.md §10).
type PRCommand struct {
	config *config.Config
}

// Execute runs the "pr <github-pr-url>" subcommand.
func (c *PRCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	info, err := pr.ParseURL(args[0])
	if err != nil {
		return err
	}

	token := pr.ResolveToken(c.config.GithubToken())
	diff, err := pr.FetchDiff(ctx, info, token)
	if err != nil {
		return err
	}

	changed := pr.ExtractChangedTests(diff)
	if len(changed) == 0 {
		color.Yellow("no added test methods found in %s", args[0])
		return nil
	}

	projects, err := discoverAll(ctx, c.config)
	if err != nil {
		return err
	}

	matched := matchChangedTests(projects, changed)
	if len(matched) == 0 {
		color.Yellow("PR added %d test method(s), but none matched a discovered test", len(changed))
		return nil
	}

	if !c.config.Flags.NoTUI {
		return c.runInteractive(ctx, matched)
	}
	return c.runHeadless(ctx, matched)
}

// matchChangedTests matches each ChangedTest against a discovered test,
// mirroring internal/matcher.Apply's two-pass precedence: prefer an exact or
// dotted-suffix match of ch.FullName against t.ID (Pass 1), and only fall
// back to a bare DisplayName match within the class named by ch.ClassName
// (Pass 2) when no full-name candidate exists. Matching DisplayName alone
// across the whole workspace would conflate same-named methods in unrelated
// classes, exactly what the Result Matcher's two-pass design exists to
// prevent (§8 testable property #1).
func matchChangedTests(projects []*domain.TestProject, changed []pr.ChangedTest) map[*domain.TestProject][]*domain.Test {
	out := make(map[*domain.TestProject][]*domain.Test)
	for _, ch := range changed {
		if p, t := findByFullName(projects, ch.FullName); t != nil {
			out[p] = append(out[p], t)
			continue
		}
		if p, t := findByClassAndDisplayName(projects, ch.ClassName, ch.MethodName); t != nil {
			out[p] = append(out[p], t)
		}
	}
	return out
}

// findByFullName looks for a test whose ID exactly equals fullName, or whose
// dotted suffix equals it (matcher.go's Pass 1 rule), across every project.
func findByFullName(projects []*domain.TestProject, fullName string) (*domain.TestProject, *domain.Test) {
	if fullName == "" {
		return nil, nil
	}
	for _, p := range projects {
		for _, cls := range p.Classes {
			for _, t := range cls.Tests {
				if t.ID == fullName || suffixAfterLastDot(t.ID) == fullName {
					return p, t
				}
			}
		}
	}
	return nil, nil
}

// findByClassAndDisplayName falls back to a bare method-name match, scoped
// to the class named by className rather than the whole workspace. className
// comes from a best-effort path guess (internal/pr) and may be bare (no
// namespace), so a class matches on an exact or dotted-suffix equality
// against its own namespace-qualified FullName, same rule as findByFullName.
func findByClassAndDisplayName(projects []*domain.TestProject, className, methodName string) (*domain.TestProject, *domain.Test) {
	if className == "" {
		return nil, nil
	}
	for _, p := range projects {
		for _, cls := range p.Classes {
			if cls.FullName != className && suffixAfterLastDot(cls.FullName) != className {
				continue
			}
			for _, t := range cls.Tests {
				if t.DisplayName == methodName {
					return p, t
				}
			}
		}
	}
	return nil, nil
}

func suffixAfterLastDot(s string) string {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

func (c *PRCommand) runInteractive(ctx context.Context, matched map[*domain.TestProject][]*domain.Test) error {
	startPath := c.config.StartPath
	if c.config.Flags.TestPath != "" {
		startPath = c.config.Flags.TestPath
	}
	located, err := workspace.Locate(startPath)
	if err != nil {
		return fmt.Errorf("locate workspace: %w", err)
	}
	app := ui.New(c.config, located)
	for _, tests := range matched {
		app.Preselect(testIDs(tests))
	}
	return app.Run(ctx)
}

func (c *PRCommand) runHeadless(ctx context.Context, matched map[*domain.TestProject][]*domain.Test) error {
	started := time.Now()
	var totalPassed, totalFailed, totalSkipped int
	var failedNames []string

	rc := &RunCommand{config: c.config}

	var names []string
	for p, tests := range matched {
		for _, t := range tests {
			names = append(names, t.DisplayName)
		}
		passed, failed, skipped, fails := rc.runProject(ctx, p, tests)
		totalPassed += passed
		totalFailed += failed
		totalSkipped += skipped
		failedNames = append(failedNames, fails...)
	}

	color.Cyan("PR tests: %s", strings.Join(names, ", "))
	printSummaryBanner(totalPassed, totalFailed, totalSkipped, failedNames, time.Since(started))

	if totalFailed > 0 {
		return fmt.Errorf("%d test(s) failed", totalFailed)
	}
	return nil
}
