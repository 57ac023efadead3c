package ui

import (
	"github.com/gdamore/tcell/v2"
)

// installKeyHandlers wires the full key contract of §4.8 onto the Tests
// pane (the primary input surface) and Tab/Shift-Tab pane cycling onto the
// whole layout, following the teacher's SetInputCapture idiom from
// internal/ui/errors.go.
func (a *App) installKeyHandlers() {
	a.projectsList.SetChangedFunc(func(index int, _, _ string, _ rune) {
		if index < 0 || index >= len(a.state.Projects) {
			return
		}
		a.state.ProjectCursor = index
		a.state.TestCursor = 0
		a.refreshTests()
		a.refreshDetails()
	})

	a.testsList.SetChangedFunc(func(index int, _, _ string, _ rune) {
		a.state.TestCursor = index
		a.refreshDetails()
	})

	a.projectsList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.app.SetFocus(a.testsList)
			return nil
		case tcell.KeyBacktab:
			a.app.SetFocus(a.detailsView)
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				a.quit()
				return nil
			}
		}
		return event
	})

	a.testsList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyBacktab:
			a.app.SetFocus(a.projectsList)
			return nil
		case tcell.KeyTab:
			a.app.SetFocus(a.outputView)
			return nil
		case tcell.KeyLeft:
			a.state.JumpClassHeader(false)
			a.refreshTests()
			a.refreshDetails()
			return nil
		case tcell.KeyRight:
			a.state.JumpClassHeader(true)
			a.refreshTests()
			a.refreshDetails()
			return nil
		case tcell.KeyRune:
			return a.handleTestsRune(event)
		}
		return event
	})

	a.outputView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.app.SetFocus(a.detailsView)
			return nil
		case tcell.KeyBacktab:
			a.app.SetFocus(a.testsList)
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				a.quit()
				return nil
			}
		}
		return event
	})

	a.detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.app.SetFocus(a.projectsList)
			return nil
		case tcell.KeyBacktab:
			a.app.SetFocus(a.outputView)
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				a.quit()
				return nil
			}
		}
		return event
	})
}

func (a *App) handleTestsRune(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case ' ':
		a.state.ToggleCollapseOrSelection()
		a.refreshTests()
		a.refreshStatus()
		return nil
	case 'c':
		a.state.ToggleExpandCollapseAll()
		a.refreshTests()
		return nil
	case 'C':
		a.state.ClearSelection()
		a.refreshTests()
		a.refreshStatus()
		return nil
	case 'r':
		a.runScope(a.state.ResolveRunScope())
		return nil
	case 'R':
		a.runScope(a.state.AllProjectTests())
		return nil
	case 'a':
		a.runScope(a.state.FailedTests())
		return nil
	case 'b':
		a.buildOnly()
		return nil
	case 'w':
		a.toggleWatch()
		return nil
	case 'x':
		a.state.ClearOutput()
		a.refreshOutput()
		return nil
	case '/':
		a.filterInput.SetText(a.state.Filter())
		a.showFilter(true)
		return nil
	case 'q':
		a.quit()
		return nil
	}
	return event
}
