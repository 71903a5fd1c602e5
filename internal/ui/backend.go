package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lethe-anon/lethe-ui/internal/backend"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// handleBackendEventMsg applies a watcher listing through the bridge, so the
// page is replaced exactly as after a manual refresh, then waits for the next
// event.
func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.bridge.Apply(m.bridge.Observe(eventMsg.event.Containers, eventMsg.event.Err))
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}
