package ui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
	"github.com/lethe-anon/lethe-ui/internal/page"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		events.UI.Quit(keyMsg.String())
		return tea.Quit
	case "tab", "down":
		m.moveFocus(1)
		return nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return nil
	case "ctrl+r":
		events.UI.Activate(controlRefresh.String())
		return m.dispatch(m.bridge.RefreshContainers())
	case "enter":
		return m.activate()
	}
	if m.focus == controlThreads {
		return m.handleThreadsKey(keyMsg)
	}
	if _, ok := m.inputs[m.focus]; ok {
		return m.handleTextInput(keyMsg)
	}
	return nil
}

// activate runs the action bound to the focused control.
func (m *Model) activate() tea.Cmd {
	events.UI.Activate(m.focus.String())
	switch m.focus {
	case controlName, controlRefresh:
		return m.dispatch(m.bridge.RefreshContainers())
	case controlBrowseInput:
		return m.dispatch(m.bridge.SelectInputFolder())
	case controlBrowseOutput:
		return m.dispatch(m.bridge.SelectOutputFolder())
	}
	return nil
}

func (m *Model) handleThreadsKey(msg tea.KeyMsg) tea.Cmd {
	var err error
	switch msg.String() {
	case "left", "h", "-":
		_, err = m.doc.Step(page.IDThreadsInput, -1)
	case "right", "l", "+":
		_, err = m.doc.Step(page.IDThreadsInput, 1)
	case "home":
		if lo, _, ok := m.doc.Bounds(page.IDThreadsInput); ok {
			err = m.doc.WriteValue(page.IDThreadsInput, strconv.Itoa(lo))
		}
	case "end":
		if _, hi, ok := m.doc.Bounds(page.IDThreadsInput); ok {
			err = m.doc.WriteValue(page.IDThreadsInput, strconv.Itoa(hi))
		}
	default:
		return nil
	}
	if err != nil {
		events.Input.Rejected(page.IDThreadsInput, err)
		return nil
	}
	m.bridge.UpdateThreadsLabel()
	return nil
}

// handleTextInput forwards a key to the focused text widget and mirrors the
// resulting value into the page.
func (m *Model) handleTextInput(msg tea.KeyMsg) tea.Cmd {
	ti := m.inputs[m.focus]
	id := inputElements[m.focus]
	before := ti.Value()
	updated, cmd := ti.Update(msg)
	*ti = updated
	if value := ti.Value(); value != before {
		if err := m.doc.WriteValue(id, value); err != nil {
			events.Input.Rejected(id, err)
		} else {
			events.Input.Changed(id, value)
		}
	}
	return cmd
}
