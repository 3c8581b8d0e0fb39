package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/abacus/internal/config"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	AngleMode  string
	Debug      bool
}

// App holds the wiring shared by every command.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
}

// NewApp loads the configuration and applies the command line overrides.
// With quiet set, logs are discarded unless Debug is on, so they do not
// interleave with an interactive display.
func NewApp(opts Options, quiet bool) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	if opts.AngleMode != "" {
		cfg.AngleMode = opts.AngleMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	reg := prometheus.NewRegistry()
	return &App{
		Config:   cfg,
		Logger:   createLogger(cfg.LogLevel, quiet && !opts.Debug),
		Registry: reg,
		Metrics:  observability.NewMetrics(reg),
	}, nil
}

// createLogger configures the application logger.
// It writes to Stderr (to separate from the Stdout display and JSON-RPC).
func createLogger(level string, quiet bool) *slog.Logger {
	if quiet {
		return logging.NewNop()
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

// SessionOptions configures every session from the loaded settings.
func (a *App) SessionOptions() []session.Option {
	return []session.Option{
		session.WithAngleMode(a.Config.Mode()),
		session.WithMaxInput(a.Config.MaxInput),
		session.WithHistorySize(a.Config.HistorySize),
		session.WithLogger(a.Logger),
		session.WithHooks(observability.Combine(
			observability.LoggingHooks(a.Logger),
			a.Metrics.Hooks(),
		)),
	}
}

// NewManager builds an in-memory session manager. onChange may be nil.
func (a *App) NewManager(onChange session.ChangeFunc) *session.Manager {
	return session.NewManager(memory.NewStore(),
		session.WithSessionOptions(a.SessionOptions()...),
		session.WithManagerLogger(a.Logger),
		session.WithChangeFunc(onChange),
	)
}

// printSystemMessage formats a standardized system message.
func printSystemMessage(format string, args ...any) string {
	return fmt.Sprintf(">>> %s\n", strings.TrimSpace(fmt.Sprintf(format, args...)))
}
