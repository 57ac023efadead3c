package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/gleladze/testament/internal/config"
	"github.com/gleladze/testament/internal/discovery"
	"github.com/gleladze/testament/internal/domain"
	"github.com/gleladze/testament/internal/watcher"
	"github.com/gleladze/testament/internal/workspace"
)

// App owns the tview application and is the single writer of State; every
// mutation happens either directly on the event-loop goroutine (key
// handlers) or via app.QueueUpdateDraw from a background goroutine (§4.8,
// §5). This single-writer discipline is the Go-idiomatic substitute for the
// spec's "one dedicated event loop thread": tview's own draw goroutine is
// that thread, and QueueUpdateDraw is how background producers hand it work.
type App struct {
	cfg   *config.Config
	state *State

	app *tview.Application

	projectsList *tview.List
	testsList    *tview.List
	outputView   *tview.TextView
	detailsView  *tview.TextView
	statusView   *tview.TextView
	filterInput  *tview.InputField

	root       tview.Primitive
	mainFlex   *tview.Flex
	filterFlex *tview.Flex

	watch       *watcher.Watcher
	watchCancel context.CancelFunc

	// lifecycleCtx is canceled when Run returns; runScope/buildOnly derive
	// their child process's context from it rather than context.Background,
	// so a canceled App lifecycle also tears down anything it spawned.
	lifecycleCtx context.Context
	// execCancel cancels the currently in-flight run or build, if any
	// (mirrors watchCancel above). Set while a child process is running,
	// cleared once it completes.
	execCancel context.CancelFunc
}

// New builds an App over the projects found by the Workspace Locator.
func New(cfg *config.Config, located *workspace.Result) *App {
	state := NewState()
	if cfg.Flags.Filter != "" {
		state.SetFilter(cfg.Flags.Filter)
	}
	for _, pf := range located.ProjectFiles {
		state.Projects = append(state.Projects, domain.NewTestProject(projectNameFromFile(pf), pf, dirOf(pf)))
	}

	a := &App{cfg: cfg, state: state}
	a.build()
	return a
}

func (a *App) build() {
	a.app = tview.NewApplication()

	a.projectsList = tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true)
	a.testsList = tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true)
	a.outputView = tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true)
	a.detailsView = tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true)
	a.statusView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)

	a.filterInput = tview.NewInputField().SetLabel("/ ")
	a.filterInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			a.state.SetFilter(a.filterInput.GetText())
		case tcell.KeyEsc:
			a.state.ClearFilter()
			a.filterInput.SetText("")
		}
		a.showFilter(false)
		a.refreshAll()
		a.app.SetFocus(a.testsList)
	})

	rightTop := a.outputView
	rightBottom := a.detailsView
	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 2, false).
		AddItem(rightBottom, 0, 1, false)

	middle := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.projectsList, 0, 1, true).
		AddItem(a.testsList, 0, 2, false).
		AddItem(right, 0, 3, false)

	a.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(middle, 0, 1, true).
		AddItem(a.statusView, 1, 0, false)

	a.filterFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(middle, 0, 1, true).
		AddItem(a.filterInput, 1, 0, false)

	a.root = a.mainFlex

	a.installKeyHandlers()
	a.refreshAll()
}

func (a *App) showFilter(show bool) {
	if show {
		a.app.SetRoot(a.filterFlex, true).SetFocus(a.filterInput)
		return
	}
	a.app.SetRoot(a.mainFlex, true)
}

// Preselect marks the given test IDs selected before Run starts, for
// callers (the PR command) that want the screen to open with a scope
// already chosen via 'r''s selection-beats-everything precedence (§4.8).
func (a *App) Preselect(testIDs []string) {
	for _, id := range testIDs {
		a.state.Selection[id] = true
	}
}

// Run starts discovery and blocks until the user quits ('q') or ctx is
// canceled.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.lifecycleCtx = runCtx

	for _, p := range a.state.Projects {
		p.State = domain.Discovering
	}
	a.refreshProjects()

	coordinator := discovery.New(a.cfg)
	events := coordinator.Run(runCtx, a.state.Projects)
	go a.pumpDiscovery(events)

	a.app.SetRoot(a.root, true).SetFocus(a.projectsList)
	return a.app.Run()
}

func (a *App) pumpDiscovery(events <-chan discovery.Event) {
	for ev := range events {
		ev := ev
		a.app.QueueUpdateDraw(func() {
			switch ev.Kind {
			case discovery.EventProjectDiscovered:
				p := a.state.Projects[ev.Index]
				p.Classes = ev.Classes
				p.State = domain.Ready
			case discovery.EventProjectError:
				p := a.state.Projects[ev.Index]
				p.LoadError = ev.Message
				p.State = domain.ErrorState
			case discovery.EventComplete:
				a.state.Status = "discovery complete"
			}
			a.refreshAll()
		})
	}
}

func projectNameFromFile(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	return trimExt(base)
}

func trimExt(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[:i]
		}
	}
	return "."
}

func (a *App) refreshAll() {
	a.refreshProjects()
	a.refreshTests()
	a.refreshOutput()
	a.refreshDetails()
	a.refreshStatus()
}

func (a *App) refreshStatus() {
	a.statusView.SetText(statusLineText(a.state))
}

func (a *App) refreshOutput() {
	a.outputView.SetText(outputText(a.state.Output))
	a.outputView.ScrollToEnd()
}

func (a *App) refreshDetails() {
	items := a.state.VisibleItems()
	a.detailsView.SetText(detailsText(a.state.CurrentProject(), items, a.state.TestCursor))
}

func (a *App) refreshProjects() {
	current := a.projectsList.GetCurrentItem()
	a.projectsList.Clear()
	for _, p := range a.state.Projects {
		a.projectsList.AddItem(projectLabel(p), "", 0, nil)
	}
	if current >= 0 && current < a.projectsList.GetItemCount() {
		a.projectsList.SetCurrentItem(current)
	}
}

func (a *App) refreshTests() {
	project := a.state.CurrentProject()
	items := a.state.VisibleItems()

	a.testsList.Clear()
	for _, item := range items {
		selected := false
		if item.Kind == ItemTest {
			selected = a.state.Selection[project.Classes[item.ClassIndex].Tests[item.TestIndex].ID]
		}
		a.testsList.AddItem(testItemLabel(project, item, selected), "", 0, nil)
	}
	if a.state.TestCursor >= 0 && a.state.TestCursor < a.testsList.GetItemCount() {
		a.testsList.SetCurrentItem(a.state.TestCursor)
	}
}

// Status helper used by run.go to post a one-line status update.
func (a *App) setStatus(format string, args ...interface{}) {
	a.state.Status = fmt.Sprintf(format, args...)
}

// quit implements 'q' (§4.8): best-effort kills any in-flight child process
// before stopping the application, per §5 ("kills any running child process
// with best-effort cleanup" — unconditional, not gated on there being one).
func (a *App) quit() {
	if a.execCancel != nil {
		a.execCancel()
	}
	a.app.Stop()
}

// clearExecCancel releases the context for a run/build that has just
// finished on its own, so quit doesn't hold a stale cancel func.
func (a *App) clearExecCancel() {
	if a.execCancel != nil {
		a.execCancel()
		a.execCancel = nil
	}
}
