// Package bridge binds page elements to host capabilities.
//
// Every asynchronous operation reads what it needs from the page, dispatches
// the backend call as a tea.Cmd and returns at once. The call's outcome comes
// back to the event loop as a message, and Apply is the only place the page
// is mutated in response. Backend failures are logged and dropped: the page
// stays as it was and the user repeats the gesture.
package bridge

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/lethe-anon/lethe-ui/internal/host"
	"github.com/lethe-anon/lethe-ui/internal/logging"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
	"github.com/lethe-anon/lethe-ui/internal/page"
)

// Operation names used in trace entries.
const (
	OpRefresh      = "refresh-containers"
	OpSelectInput  = "select-input-folder"
	OpSelectOutput = "select-output-folder"
	OpWatch        = "watch-containers"
	OpThreadsLabel = "update-threads-label"
)

const (
	outcomeOK        = "ok"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

// RenderTarget is the page surface the bridge writes to.
type RenderTarget interface {
	SetText(id, text string) error
	AppendRow(id, text string) error
	ClearRows(id string) error
	ReadValue(id string) (string, bool)
	WriteValue(id, value string) error
	KindOf(id string) (page.Kind, bool)
}

// ContainersMsg carries the outcome of a container listing.
type ContainersMsg struct {
	Invocation string
	Op         string
	Containers []host.ContainerSummary
	Err        error
}

// DirectoryMsg carries the outcome of a directory selection.
type DirectoryMsg struct {
	Invocation string
	Op         string
	Element    string
	Path       string
	Err        error
}

// Bridge translates user gestures into capability calls.
type Bridge struct {
	ctx    context.Context
	caps   host.Capabilities
	target RenderTarget
	newID  func() string
}

// New returns a bridge over caps rendering into target. ctx is handed to
// every backend call.
func New(ctx context.Context, caps host.Capabilities, target RenderTarget) *Bridge {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bridge{ctx: ctx, caps: caps, target: target, newID: uuid.NewString}
}

// RowText formats a container the way the list displays it.
func RowText(c host.ContainerSummary) string {
	return fmt.Sprintf("%s (%s)", c.PrimaryName(), c.Image)
}

// RefreshContainers lists containers and, once the call completes, replaces
// the container list with the result.
func (b *Bridge) RefreshContainers() tea.Cmd {
	name, _ := b.target.ReadValue(page.IDName)
	id := b.newID()
	events.Bridge.Invoke(id, OpRefresh, map[string]interface{}{"name": name})
	ctx, caps := b.ctx, b.caps
	return func() tea.Msg {
		containers, err := listContainers(ctx, caps)
		return ContainersMsg{Invocation: id, Op: OpRefresh, Containers: containers, Err: err}
	}
}

// SelectInputFolder asks for a directory and writes it to the input folder.
func (b *Bridge) SelectInputFolder() tea.Cmd {
	return b.selectFolder(OpSelectInput, page.IDInputFolder, "Select input folder")
}

// SelectOutputFolder asks for a directory and writes it to the output folder.
func (b *Bridge) SelectOutputFolder() tea.Cmd {
	return b.selectFolder(OpSelectOutput, page.IDOutputFolder, "Select output folder")
}

func (b *Bridge) selectFolder(op, element, title string) tea.Cmd {
	id := b.newID()
	events.Bridge.Invoke(id, op, map[string]interface{}{"element": element})
	ctx, caps := b.ctx, b.caps
	return func() tea.Msg {
		var (
			dir string
			err error
		)
		if caps == nil {
			err = host.Wrap(host.OpSelectDirectory, host.ErrUnavailable)
		} else {
			dir, err = caps.SelectDirectory(ctx, title)
			err = host.Wrap(host.OpSelectDirectory, err)
		}
		return DirectoryMsg{Invocation: id, Op: op, Element: element, Path: dir, Err: err}
	}
}

// UpdateThreadsLabel copies the thread range value into its label.
func (b *Bridge) UpdateThreadsLabel() {
	value, ok := b.target.ReadValue(page.IDThreadsInput)
	if !ok {
		logging.Error(fmt.Errorf("%s: %w: %q", OpThreadsLabel, page.ErrNoElement, page.IDThreadsInput))
		return
	}
	if err := b.target.SetText(page.IDThreadsLabel, value); err != nil {
		logging.Error(fmt.Errorf("%s: %w", OpThreadsLabel, err))
		return
	}
	events.Bridge.Label(page.IDThreadsLabel, value)
}

// Observe wraps an unsolicited listing (for example from a watcher) so it is
// applied exactly like a user refresh.
func (b *Bridge) Observe(containers []host.ContainerSummary, err error) ContainersMsg {
	id := b.newID()
	events.Bridge.Invoke(id, OpWatch, nil)
	return ContainersMsg{Invocation: id, Op: OpWatch, Containers: containers, Err: host.Wrap(host.OpListContainers, err)}
}

// Apply renders a completed invocation. It reports whether msg belonged to
// the bridge.
func (b *Bridge) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ContainersMsg:
		b.applyContainers(msg)
		return true
	case *ContainersMsg:
		if msg == nil {
			return false
		}
		b.applyContainers(*msg)
		return true
	case DirectoryMsg:
		b.applyDirectory(msg)
		return true
	case *DirectoryMsg:
		if msg == nil {
			return false
		}
		b.applyDirectory(*msg)
		return true
	}
	return false
}

func (b *Bridge) applyContainers(msg ContainersMsg) {
	outcome := outcomeFailed
	defer func() { b.finish(msg.Invocation, msg.Op, outcome) }()
	if msg.Err != nil {
		b.fail(msg.Invocation, msg.Op, msg.Err)
		return
	}
	events.Bridge.Result(msg.Invocation, msg.Op, len(msg.Containers))
	// The list is only cleared once every write is known to land.
	for _, el := range []struct {
		id   string
		kind page.Kind
	}{{page.IDContainers, page.KindList}, {page.IDResult, page.KindText}} {
		if err := b.require(el.id, el.kind); err != nil {
			b.fail(msg.Invocation, msg.Op, err)
			return
		}
	}
	rows := make([]string, len(msg.Containers))
	for i, c := range msg.Containers {
		rows[i] = RowText(c)
	}
	if err := b.target.ClearRows(page.IDContainers); err != nil {
		b.fail(msg.Invocation, msg.Op, err)
		return
	}
	for _, row := range rows {
		if err := b.target.AppendRow(page.IDContainers, row); err != nil {
			b.fail(msg.Invocation, msg.Op, err)
			return
		}
	}
	if err := b.target.SetText(page.IDResult, strconv.Itoa(len(rows))); err != nil {
		b.fail(msg.Invocation, msg.Op, err)
		return
	}
	outcome = outcomeOK
}

func (b *Bridge) applyDirectory(msg DirectoryMsg) {
	outcome := outcomeFailed
	defer func() { b.finish(msg.Invocation, msg.Op, outcome) }()
	if msg.Err != nil {
		b.fail(msg.Invocation, msg.Op, msg.Err)
		return
	}
	events.Bridge.Result(msg.Invocation, msg.Op, msg.Path)
	if msg.Path == "" {
		events.Bridge.Cancelled(msg.Invocation, msg.Op)
		outcome = outcomeCancelled
		return
	}
	if err := b.target.WriteValue(msg.Element, msg.Path); err != nil {
		b.fail(msg.Invocation, msg.Op, err)
		return
	}
	outcome = outcomeOK
}

func (b *Bridge) require(id string, kind page.Kind) error {
	got, ok := b.target.KindOf(id)
	if !ok {
		return fmt.Errorf("%w: %q", page.ErrNoElement, id)
	}
	if got != kind {
		return fmt.Errorf("%w: %q is a %s", page.ErrWrongKind, id, got)
	}
	return nil
}

// finish writes the completion marker. It goes to the log whether or not
// tracing is enabled.
func (b *Bridge) finish(id, op, outcome string) {
	logging.Info(fmt.Sprintf("%s [%s] finished: %s", op, id, outcome))
	events.Bridge.Finished(id, op)
}

func (b *Bridge) fail(id, op string, err error) {
	logging.Error(fmt.Errorf("%s [%s]: %w", op, id, err))
	events.Bridge.Error(id, op, err)
}

func listContainers(ctx context.Context, caps host.Capabilities) ([]host.ContainerSummary, error) {
	if caps == nil {
		return nil, host.Wrap(host.OpListContainers, host.ErrUnavailable)
	}
	containers, err := caps.ListContainers(ctx)
	if err != nil {
		return nil, host.Wrap(host.OpListContainers, err)
	}
	return containers, nil
}
