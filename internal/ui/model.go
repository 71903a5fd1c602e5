package ui

import (
	"context"
	"reflect"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lethe-anon/lethe-ui/internal/backend"
	"github.com/lethe-anon/lethe-ui/internal/bridge"
	"github.com/lethe-anon/lethe-ui/internal/host"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
	"github.com/lethe-anon/lethe-ui/internal/page"
	"github.com/lethe-anon/lethe-ui/internal/theme"
)

type control int

const (
	controlName control = iota
	controlRefresh
	controlInputFolder
	controlBrowseInput
	controlOutputFolder
	controlBrowseOutput
	controlThreads
	controlCount
)

var controlNames = [controlCount]string{
	controlName:         "name",
	controlRefresh:      "refresh",
	controlInputFolder:  "input-folder",
	controlBrowseInput:  "browse-input",
	controlOutputFolder: "output-folder",
	controlBrowseOutput: "browse-output",
	controlThreads:      "threads",
}

func (c control) String() string {
	if c < 0 || c >= controlCount {
		return "unknown"
	}
	return controlNames[c]
}

// inputElements maps text controls to the page element they mirror.
var inputElements = map[control]string{
	controlName:         page.IDName,
	controlInputFolder:  page.IDInputFolder,
	controlOutputFolder: page.IDOutputFolder,
}

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the model. Width and Height pin the viewport;
// InitialWidth and InitialHeight only seed it until the first resize.
type Options struct {
	Width         int
	Height        int
	InitialWidth  int
	InitialHeight int
	ShowFooter    bool
	Threads       int
	MaxThreads    int
}

// Model implements the Bubble Tea model for the Lethe front page.
type Model struct {
	doc     *page.Document
	bridge  *bridge.Bridge
	watcher *backend.Watcher

	inputs  map[control]*textinput.Model
	focus   control
	pending int

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the page, wires it to caps through a bridge, and focuses
// the name input. watcher may be nil.
func NewModel(ctx context.Context, caps host.Capabilities, opts Options, watcher *backend.Watcher) *Model {
	doc := page.New(opts.Threads, opts.MaxThreads)
	m := &Model{
		doc:        doc,
		bridge:     bridge.New(ctx, caps, doc),
		watcher:    watcher,
		showFooter: opts.ShowFooter,
		inputs: map[control]*textinput.Model{
			controlName:         newTextInput("container name"),
			controlInputFolder:  newTextInput("path to DICOM input"),
			controlOutputFolder: newTextInput("path for anonymised output"),
		},
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	} else if opts.InitialWidth > 0 {
		m.width = opts.InitialWidth
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	} else if opts.InitialHeight > 0 {
		m.height = opts.InitialHeight
	}
	m.setFocus(controlName)
	m.registerHandlers()
	return m
}

func newTextInput(placeholder string) *textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.Placeholder != nil {
		ti.PlaceholderStyle = *styles.Placeholder
	}
	if styles.Cursor != nil {
		ti.Cursor.Style = *styles.Cursor
	}
	return &ti
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):           m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):    m.handleWindowSizeMsg,
		reflect.TypeOf(bridge.ContainersMsg{}): m.handleBridgeMsg,
		reflect.TypeOf(bridge.DirectoryMsg{}):  m.handleBridgeMsg,
		reflect.TypeOf(backendEventMsg{}):      m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):       m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// dispatch records an in-flight backend call and hands it to the runtime.
func (m *Model) dispatch(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.pending++
	return cmd
}

func (m *Model) handleBridgeMsg(msg tea.Msg) tea.Cmd {
	solicited := true
	switch v := msg.(type) {
	case bridge.ContainersMsg:
		solicited = v.Op != bridge.OpWatch
	case *bridge.ContainersMsg:
		solicited = v != nil && v.Op != bridge.OpWatch
	}
	if !m.bridge.Apply(msg) {
		return nil
	}
	if solicited && m.pending > 0 {
		m.pending--
	}
	m.syncInputsFromPage()
	return nil
}

// syncInputsFromPage copies page values the bridge changed back into the
// text widgets.
func (m *Model) syncInputsFromPage() {
	for c, id := range inputElements {
		ti := m.inputs[c]
		value, ok := m.doc.ReadValue(id)
		if !ok || ti == nil || value == ti.Value() {
			continue
		}
		ti.SetValue(value)
		ti.CursorEnd()
	}
}

func (m *Model) setFocus(c control) {
	for _, ti := range m.inputs {
		ti.Blur()
	}
	m.focus = c
	if ti, ok := m.inputs[c]; ok {
		ti.Focus()
	}
	events.UI.Focus(c.String())
}

func (m *Model) moveFocus(delta int) {
	next := (int(m.focus) + delta) % int(controlCount)
	if next < 0 {
		next += int(controlCount)
	}
	m.setFocus(control(next))
}

// Document exposes the page the model renders.
func (m *Model) Document() *page.Document {
	return m.doc
}

// Pending reports how many user-initiated backend calls are in flight.
func (m *Model) Pending() int {
	return m.pending
}
