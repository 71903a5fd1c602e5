package main

import (
	"fmt"
	"os"

	"github.com/lethe-anon/lethe-ui/internal/app"
	"github.com/lethe-anon/lethe-ui/internal/config"
	"github.com/lethe-anon/lethe-ui/internal/logging"
	"github.com/lethe-anon/lethe-ui/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	terminal := probeTerminal(term.IsTerminal, term.GetSize)
	cfg.App = seedViewport(cfg.App, terminal)
	events.App.Start(startupPayload(cfg, terminal))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// terminalProbe is what one standard descriptor reported.
type terminalProbe struct {
	Name   string `json:"name"`
	TTY    bool   `json:"tty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Error  string `json:"error,omitempty"`
}

type terminalInfo struct {
	Probes []terminalProbe `json:"probes"`
}

// size returns the first usable terminal size, stdout first since that is
// where the page is drawn.
func (t terminalInfo) size() (width, height int, ok bool) {
	for _, p := range t.Probes {
		if p.TTY && p.Width > 0 && p.Height > 0 {
			return p.Width, p.Height, true
		}
	}
	return 0, 0, false
}

func probeTerminal(isTerminal func(int) bool, getSize func(int) (int, int, error)) terminalInfo {
	fds := []struct {
		name string
		file *os.File
	}{
		{"stdout", os.Stdout},
		{"stderr", os.Stderr},
		{"stdin", os.Stdin},
	}
	info := terminalInfo{Probes: make([]terminalProbe, 0, len(fds))}
	for _, fd := range fds {
		p := terminalProbe{Name: fd.name}
		if n := int(fd.file.Fd()); isTerminal(n) {
			p.TTY = true
			w, h, err := getSize(n)
			if err != nil {
				p.Error = err.Error()
			} else {
				p.Width, p.Height = w, h
			}
		}
		info.Probes = append(info.Probes, p)
	}
	return info
}

// seedViewport lets the first frame use the terminal size when no
// dimension was pinned on the command line.
func seedViewport(cfg app.Config, terminal terminalInfo) app.Config {
	w, h, ok := terminal.size()
	if !ok {
		return cfg
	}
	if cfg.Width == 0 {
		cfg.InitialWidth = w
	}
	if cfg.Height == 0 {
		cfg.InitialHeight = h
	}
	return cfg
}

func startupPayload(cfg config.Config, terminal terminalInfo) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"terminal": terminal,
	}
	if cfg.File != "" {
		payload["configFile"] = cfg.File
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}
