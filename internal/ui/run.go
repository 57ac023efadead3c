package ui

import (
	"context"
	"fmt"

	"github.com/gleladze/testament/internal/domain"
	"github.com/gleladze/testament/internal/executor"
	"github.com/gleladze/testament/internal/matcher"
	"github.com/gleladze/testament/internal/watcher"
)

// runScope executes tests against the current project's test CLI and
// streams the executor's events back onto the event-loop goroutine via
// QueueUpdateDraw (§4.5, §4.8).
func (a *App) runScope(tests []*domain.Test) {
	project := a.state.CurrentProject()
	if project == nil || len(tests) == 0 || a.state.Running {
		return
	}

	matcher.MarkRunning(tests)
	a.state.Running = true
	a.setStatus("running %d test(s)...", len(tests))
	a.refreshAll()

	mode := executor.Mode{Kind: executor.ModeExplicitNames, TestNames: testIDs(tests)}
	if len(tests) == len(project.AllTests()) {
		mode = executor.Mode{Kind: executor.ModeAll}
	}

	runCtx, cancel := context.WithCancel(a.lifecycleCtx)
	a.execCancel = cancel

	ex := executor.New(a.cfg)
	events := ex.Run(runCtx, project.Dir, mode)
	go a.pumpExecutor(project, tests, events)
}

func testIDs(tests []*domain.Test) []string {
	ids := make([]string, len(tests))
	for i, t := range tests {
		ids[i] = t.ID
	}
	return ids
}

func (a *App) pumpExecutor(project *domain.TestProject, tests []*domain.Test, events <-chan executor.Event) {
	for ev := range events {
		ev := ev
		a.app.QueueUpdateDraw(func() {
			switch ev.Kind {
			case executor.EventTestOutputLine:
				a.state.Output.AppendRun(ev.Line, domain.Stdout, ev.RunID)
				a.refreshOutput()
			case executor.EventProgress:
				a.setStatus("running: %d passed, %d failed, %d total", ev.Passed, ev.Failed, ev.Total)
				a.refreshStatus()
			case executor.EventCompleted:
				matcher.Apply(tests, ev.Results)
				a.state.RecordFailedNames(project.AllTests())
				a.state.Running = false
				a.clearExecCancel()
				a.setStatus("run complete: %d result(s)", len(ev.Results))
				a.refreshAll()
			case executor.EventFailed:
				a.state.Running = false
				a.clearExecCancel()
				a.state.Output.AppendRun(fmt.Sprintf("run failed: %s", ev.Reason), domain.ErrorSource, ev.RunID)
				if ev.CommandLine != "" {
					a.state.Output.AppendRun(ev.CommandLine, domain.Internal, ev.RunID)
				}
				a.setStatus("run failed (exit %d)", ev.ExitCode)
				a.refreshAll()
			}
		})
	}
}

// buildOnly implements 'b' (§4.8, §6): runs the CLI's build-only mode,
// showing output only on failure.
func (a *App) buildOnly() {
	project := a.state.CurrentProject()
	if project == nil || a.state.Running {
		return
	}

	a.state.Running = true
	a.setStatus("building...")
	a.refreshStatus()

	runCtx, cancel := context.WithCancel(a.lifecycleCtx)
	a.execCancel = cancel

	go func() {
		output, err := executor.BuildOnly(runCtx, a.cfg, project.Dir)
		a.app.QueueUpdateDraw(func() {
			a.state.Running = false
			a.clearExecCancel()
			if err != nil {
				a.state.Output.Append("build failed:", domain.ErrorSource)
				a.state.Output.Append(output, domain.ErrorSource)
				a.setStatus("build failed")
			} else {
				a.setStatus("build succeeded")
			}
			a.refreshAll()
		})
	}()
}

// toggleWatch implements 'w' (§4.7, §4.8): starts or stops the File Watcher
// for the current project, re-running the scope 'r' would resolve at that
// moment (ResolveRunScope) on every debounced change notification.
func (a *App) toggleWatch() {
	if a.watch != nil {
		a.watch.Stop()
		if a.watchCancel != nil {
			a.watchCancel()
		}
		a.watch = nil
		a.watchCancel = nil
		a.state.ToggleWatch()
		a.refreshStatus()
		return
	}

	project := a.state.CurrentProject()
	if project == nil {
		return
	}

	w, err := watcher.New(project.Dir, a.cfg.WatchDebounce)
	if err != nil {
		a.state.Output.Append(fmt.Sprintf("watch failed: %v", err), domain.ErrorSource)
		a.refreshOutput()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.watch = w
	a.watchCancel = cancel
	a.state.ToggleWatch()
	a.refreshStatus()

	changed := make(chan struct{}, 1)
	w.Start(changed)
	go a.pumpWatch(ctx, changed)
}

func (a *App) pumpWatch(ctx context.Context, changed <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changed:
			if !ok {
				return
			}
			a.app.QueueUpdateDraw(func() {
				if a.state.Running {
					return
				}
				scope := a.state.ResolveRunScope()
				a.state.Output.Append("file change detected, re-running", domain.Internal)
				a.runScope(scope)
			})
		}
	}
}
