package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gleladze/testament/internal/config"
	"github.com/gleladze/testament/internal/domain"
	"github.com/gleladze/testament/internal/executor"
	"github.com/gleladze/testament/internal/matcher"
	"github.com/gleladze/testament/internal/ui"
	"github.com/gleladze/testament/internal/workspace"
)

// RunCommand discovers a workspace and either opens the interactive screen
// or, with --no-tui, runs every discovered project headlessly.
type RunCommand struct {
	config *config.Config
}

// Execute runs the "run" subcommand.
func (c *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !c.config.Flags.NoTUI {
		return c.runInteractive(ctx)
	}
	return c.runHeadless(ctx)
}

func (c *RunCommand) runInteractive(ctx context.Context) error {
	startPath := c.config.StartPath
	if c.config.Flags.TestPath != "" {
		startPath = c.config.Flags.TestPath
	}
	located, err := workspace.Locate(startPath)
	if err != nil {
		return fmt.Errorf("locate workspace: %w", err)
	}
	return ui.New(c.config, located).Run(ctx)
}

// runHeadless runs each discovered project's in-scope tests in turn,
// reporting progress with the teacher's colored progressbar.v3 pattern
// (formatter.go's progressBar/updateProgressBar) and a final colored
// summary banner (formatter.go's outputTextResults).
func (c *RunCommand) runHeadless(ctx context.Context) error {
	projects, err := discoverAll(ctx, c.config)
	if err != nil {
		return err
	}

	started := time.Now()
	var totalPassed, totalFailed, totalSkipped int
	var failedNames []string

	if c.config.Flags.OnlyFailed {
		color.Yellow("--failed has no previous-run state to draw on in a headless invocation; running all discovered tests instead")
	}

	filterLower := strings.ToLower(c.config.Flags.Filter)

	for _, p := range projects {
		if p.LoadError != "" {
			color.Red("%s: %s", p.Name, p.LoadError)
			continue
		}

		var tests []*domain.Test
		for _, cls := range p.Classes {
			for _, t := range cls.Tests {
				if filterLower == "" || t.MatchesFilter(filterLower) {
					tests = append(tests, t)
				}
			}
		}
		if len(tests) == 0 {
			continue
		}

		passed, failed, skipped, names := c.runProject(ctx, p, tests)
		totalPassed += passed
		totalFailed += failed
		totalSkipped += skipped
		failedNames = append(failedNames, names...)

		if failed > 0 && c.config.Flags.FailFast {
			color.Yellow("\nstopping after first failure in %s (--fail-fast)", p.Name)
			break
		}
	}

	printSummaryBanner(totalPassed, totalFailed, totalSkipped, failedNames, time.Since(started))

	if totalFailed > 0 {
		return fmt.Errorf("%d test(s) failed", totalFailed)
	}
	return nil
}

// runProject runs one project's tests to completion, canceling the
// in-flight test CLI process as soon as the first failure is observed when
// --fail-fast is set (true early-abort, since the Executor has no
// per-test invocation granularity to stop between tests).
func (c *RunCommand) runProject(ctx context.Context, project *domain.TestProject, tests []*domain.Test) (passed, failed, skipped int, failedNames []string) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	matcher.MarkRunning(tests)

	bar := newHeadlessProgressBar(len(tests), project.Name)

	mode := executor.Mode{Kind: executor.ModeExplicitNames, TestNames: testIDs(tests)}
	if len(tests) == len(project.AllTests()) {
		mode = executor.Mode{Kind: executor.ModeAll}
	}

	events := executor.New(c.config).Run(runCtx, project.Dir, mode)

	for ev := range events {
		switch ev.Kind {
		case executor.EventProgress:
			updateHeadlessProgressBar(bar, project.Name, ev.Passed, ev.Failed)
			if ev.Failed > 0 && c.config.Flags.FailFast {
				cancel()
			}
		case executor.EventCompleted:
			matcher.Apply(tests, ev.Results)
		case executor.EventFailed:
			color.Red("\n%s: %s", project.Name, ev.Reason)
			if ev.CommandLine != "" {
				color.Yellow("  %s", ev.CommandLine)
			}
		}
	}
	bar.Finish()

	for _, t := range tests {
		switch t.Status {
		case domain.Passed:
			passed++
		case domain.Failed:
			failed++
			failedNames = append(failedNames, t.ID)
		case domain.Skipped:
			skipped++
		}
	}
	return passed, failed, skipped, failedNames
}

func testIDs(tests []*domain.Test) []string {
	ids := make([]string, len(tests))
	for i, t := range tests {
		ids[i] = t.ID
	}
	return ids
}

func newHeadlessProgressBar(count int, projectName string) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(
			color.CyanString("Running %s: ", projectName)+color.GreenString("[success: 0")+" | "+color.RedString("failed: 0]"),
		),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() { fmt.Print("\n") }),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func updateHeadlessProgressBar(bar *progressbar.ProgressBar, projectName string, passed, failed int) {
	bar.Set(passed + failed)
	bar.Describe(
		color.CyanString("Running %s: ", projectName) + color.GreenString("[success: %d", passed) + " | " + color.RedString("failed: %d]", failed),
	)
}

func printSummaryBanner(passed, failed, skipped int, failedNames []string, duration time.Duration) {
	fmt.Print("\n")
	color.Cyan("╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║                      Test Summary                          ║")
	color.Cyan("╚════════════════════════════════════════════════════════════╝")

	if passed > 0 {
		color.Green("✓ Passed: %d", passed)
	}
	if failed > 0 {
		color.Red("✗ Failed: %d", failed)
	}
	if skipped > 0 {
		color.Yellow("○ Skipped: %d", skipped)
	}
	color.White("Total: %d | Duration: %s", passed+failed+skipped, duration.Round(time.Millisecond))

	if len(failedNames) > 0 {
		fmt.Println()
		color.Red("╔════════════════════════════════════════════════════════════╗")
		color.Red("║                      Failed Tests                          ║")
		color.Red("╚════════════════════════════════════════════════════════════╝")
		for i, name := range failedNames {
			color.Red("%d. %s", i+1, name)
		}
	}
}
