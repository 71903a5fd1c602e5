// Package ui contains the Bubble Tea program that renders the Lethe front
// page and turns key gestures into bridge operations.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Key presses move focus between the page controls, edit the focused text
//     input, step the thread range, or activate a button. Activating a button
//     calls into internal/bridge, which returns a tea.Cmd for the backend call.
//   - When the call completes, its message (bridge.ContainersMsg or
//     bridge.DirectoryMsg) comes back through Update and is handed to
//     Bridge.Apply, the only place the page is mutated.
//
// State ownership:
//   - The page (internal/page.Document) is the single source of truth for
//     element values. Text widgets mirror their page element in both
//     directions: typing writes to the page; bridge writes are copied back.
//   - A backend.Watcher, when configured, streams periodic container listings
//     that are applied through the same bridge path as a manual refresh.
//
// View renders the page only; it never mutates it.
package ui
