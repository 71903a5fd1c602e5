package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/lethe-anon/lethe-ui/internal/app"
	"github.com/lethe-anon/lethe-ui/internal/host"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// File mirrors config.yaml. Absent keys leave the lower-precedence value.
type File struct {
	Status          *string `yaml:"status"`
	Threads         *int    `yaml:"threads"`
	MaxThreads      *int    `yaml:"max_threads"`
	RefreshInterval *string `yaml:"refresh_interval"`
	Width           *int    `yaml:"width"`
	Height          *int    `yaml:"height"`
	Footer          *bool   `yaml:"footer"`
	Trace           *bool   `yaml:"trace"`
	LogFile         *string `yaml:"log_file"`
}

const (
	envConfig          = "LETHE_UI_CONFIG"
	envStatus          = "LETHE_UI_STATUS"
	envThreads         = "LETHE_UI_THREADS"
	envMaxThreads      = "LETHE_UI_MAX_THREADS"
	envRefreshInterval = "LETHE_UI_REFRESH_INTERVAL"
	envWidth           = "LETHE_UI_WIDTH"
	envHeight          = "LETHE_UI_HEIGHT"
	envShowFooter      = "LETHE_UI_FOOTER"
	envTrace           = "LETHE_UI_TRACE"
	envLogFile         = "LETHE_UI_LOG_FILE"
)

// Load parses configuration from CLI arguments, environment variables and
// the optional config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Precedence is
// flag, then environment, then config file, then built-in default.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := pflag.NewFlagSet("lethe-ui", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	defaultThreads := runtime.NumCPU()
	configPath := fs.String("config", "", "path to the YAML config file")
	status := fs.String("status", host.DefaultStatus, "container status filter (empty lists every container)")
	threads := fs.Int("threads", defaultThreads, "initial thread count shown on the page")
	maxThreads := fs.Int("max-threads", defaultThreads, "upper bound of the thread range")
	refresh := fs.Duration("refresh-interval", 0, "re-list containers at this interval (0 disables)")
	width := fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", false, "enable footer hint row")
	trace := fs.Bool("trace", false, "enable verbose JSON trace logging")
	logFile := fs.String("log-file", "", "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	path, explicit := resolveConfigPath(fs, *configPath, env)
	file, err := readFile(path, explicit)
	if err != nil {
		return Config{}, err
	}

	r := resolver{fs: fs, env: env}
	*status = r.stringValue("status", envStatus, file.Status, *status)
	*logFile = r.stringValue("log-file", envLogFile, file.LogFile, *logFile)
	if *threads, err = r.intValue("threads", envThreads, file.Threads, *threads); err != nil {
		return Config{}, err
	}
	if *maxThreads, err = r.intValue("max-threads", envMaxThreads, file.MaxThreads, *maxThreads); err != nil {
		return Config{}, err
	}
	if *width, err = r.intValue("width", envWidth, file.Width, *width); err != nil {
		return Config{}, err
	}
	if *height, err = r.intValue("height", envHeight, file.Height, *height); err != nil {
		return Config{}, err
	}
	if *footer, err = r.boolValue("footer", envShowFooter, file.Footer, *footer); err != nil {
		return Config{}, err
	}
	if *trace, err = r.boolValue("trace", envTrace, file.Trace, *trace); err != nil {
		return Config{}, err
	}
	if *refresh, err = r.durationValue("refresh-interval", envRefreshInterval, file.RefreshInterval, *refresh); err != nil {
		return Config{}, err
	}
	_, maxFromEnv := r.envValue(envMaxThreads)
	maxExplicit := fs.Changed("max-threads") || maxFromEnv || file.MaxThreads != nil
	if !maxExplicit && *maxThreads < *threads {
		*maxThreads = *threads
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			Width:           *width,
			Height:          *height,
			ShowFooter:      *footer,
			Status:          *status,
			Threads:         *threads,
			MaxThreads:      *maxThreads,
			RefreshInterval: *refresh,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: path,
		Flags: map[string]string{
			"config":          path,
			"status":          *status,
			"threads":         strconv.Itoa(*threads),
			"maxThreads":      strconv.Itoa(*maxThreads),
			"refreshInterval": refresh.String(),
			"width":           strconv.Itoa(*width),
			"height":          strconv.Itoa(*height),
			"footer":          strconv.FormatBool(*footer),
			"trace":           strconv.FormatBool(*trace),
			"logFile":         *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// resolveConfigPath picks the config file. The second result reports whether
// the user named it, in which case it must exist.
func resolveConfigPath(fs *pflag.FlagSet, flagValue string, env map[string]string) (string, bool) {
	if fs.Changed("config") {
		return flagValue, true
	}
	if v, ok := env[envConfig]; ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	if dir := strings.TrimSpace(env["XDG_CONFIG_HOME"]); dir != "" {
		return filepath.Join(dir, "lethe-ui", "config.yaml"), false
	}
	if home := strings.TrimSpace(env["HOME"]); home != "" {
		return filepath.Join(home, ".config", "lethe-ui", "config.yaml"), false
	}
	return "", false
}

func readFile(path string, required bool) (File, error) {
	var file File
	if path == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return file, nil
		}
		return file, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

type resolver struct {
	fs  *pflag.FlagSet
	env map[string]string
}

func (r resolver) envValue(key string) (string, bool) {
	v, ok := r.env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (r resolver) stringValue(flagName, envKey string, file *string, flagValue string) string {
	if r.fs.Changed(flagName) {
		return flagValue
	}
	if v, ok := r.env[envKey]; ok {
		return v
	}
	if file != nil {
		return *file
	}
	return flagValue
}

func (r resolver) intValue(flagName, envKey string, file *int, flagValue int) (int, error) {
	if r.fs.Changed(flagName) {
		return flagValue, nil
	}
	if v, ok := r.envValue(envKey); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, err)
		}
		return parsed, nil
	}
	if file != nil {
		return *file, nil
	}
	return flagValue, nil
}

func (r resolver) boolValue(flagName, envKey string, file *bool, flagValue bool) (bool, error) {
	if r.fs.Changed(flagName) {
		return flagValue, nil
	}
	if v, ok := r.envValue(envKey); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%s: %w", envKey, err)
		}
		return parsed, nil
	}
	if file != nil {
		return *file, nil
	}
	return flagValue, nil
}

func (r resolver) durationValue(flagName, envKey string, file *string, flagValue time.Duration) (time.Duration, error) {
	if r.fs.Changed(flagName) {
		return flagValue, nil
	}
	if v, ok := r.envValue(envKey); ok {
		parsed, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", envKey, err)
		}
		return parsed, nil
	}
	if file != nil {
		parsed, err := time.ParseDuration(strings.TrimSpace(*file))
		if err != nil {
			return 0, fmt.Errorf("refresh_interval: %w", err)
		}
		return parsed, nil
	}
	return flagValue, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects combinations the page cannot represent.
func Validate(cfg Config) error {
	if cfg.App.Threads < 1 {
		return fmt.Errorf("threads must be >= 1 (got %d)", cfg.App.Threads)
	}
	if cfg.App.MaxThreads < cfg.App.Threads {
		return fmt.Errorf("max-threads (%d) must be >= threads (%d)", cfg.App.MaxThreads, cfg.App.Threads)
	}
	if cfg.App.RefreshInterval < 0 {
		return fmt.Errorf("refresh-interval must be >= 0 (got %s)", cfg.App.RefreshInterval)
	}
	return nil
}
