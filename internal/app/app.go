package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lethe-anon/lethe-ui/internal/backend"
	"github.com/lethe-anon/lethe-ui/internal/host"
	"github.com/lethe-anon/lethe-ui/internal/logging"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
	"github.com/lethe-anon/lethe-ui/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Width           int
	Height          int
	InitialWidth    int
	InitialHeight   int
	ShowFooter      bool
	Status          string
	Threads         int
	MaxThreads      int
	RefreshInterval time.Duration
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	caps, closeHost := NewHost(cfg.Status)
	defer closeHost()

	var watcher *backend.Watcher
	if cfg.RefreshInterval > 0 {
		watcher = backend.NewWatcher(caps, cfg.RefreshInterval)
		defer watcher.Stop()
	}

	model := ui.NewModel(ctx, caps, ui.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		InitialWidth:  cfg.InitialWidth,
		InitialHeight: cfg.InitialHeight,
		ShowFooter:    cfg.ShowFooter,
		Threads:       cfg.Threads,
		MaxThreads:    cfg.MaxThreads,
	}, watcher)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	events.App.Exit(err)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// NewHost wires the production capability providers. A daemon that cannot
// be reached is not fatal: listing then fails per call with a BackendError.
func NewHost(status string) (*host.Host, func()) {
	var lister host.ContainerLister
	docker, err := host.NewDocker(status)
	if err != nil {
		logging.Error(err)
		events.App.HostUnavailable(host.OpListContainers, err)
	} else {
		lister = docker
	}
	closeFn := func() {
		if docker == nil {
			return
		}
		if err := docker.Close(); err != nil {
			logging.Error(err)
		}
	}
	return host.New(lister, host.NewDialog()), closeFn
}
