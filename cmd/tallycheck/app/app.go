// Package app provides the application context and dependency management
// for the tallycheck CLI. It centralizes configuration, logging and the
// shared transport, and hands them to commands through the
// application.Application interface.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/tallycheck/internal/cmd/output"
	"github.com/agentstation/tallycheck/internal/config"
	"github.com/agentstation/tallycheck/internal/transport"
	"github.com/agentstation/tallycheck/pkg/errors"
)

// App represents the tallycheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// lazy-initialized, guarded by mu
	mu        sync.RWMutex
	transport *transport.Client
	sources   *config.Sources
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, or table on a terminal and JSON
// otherwise when none was given.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Transport returns the shared HTTP client, creating it on first use.
func (a *App) Transport() *transport.Client {
	a.mu.RLock()
	if a.transport != nil {
		c := a.transport
		a.mu.RUnlock()
		return c
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.transport == nil {
		a.transport = transport.New()
	}
	return a.transport
}

// DataSources loads the data source file named by --config (or
// TALLYCHECK_CONFIG) once and returns it on every later call.
func (a *App) DataSources() (*config.Sources, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sources != nil {
		return a.sources, nil
	}
	cfg, err := config.Load(a.config.ConfigFile)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("file", a.config.ConfigFile).Msg("Loaded data sources")
	a.sources = cfg
	return cfg, nil
}

// Shutdown releases cached downloads.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	c := a.transport
	a.mu.RUnlock()

	if c != nil {
		if n := c.Flush(); n > 0 {
			a.logger.Debug().Int("documents", n).Msg("Dropped cached documents")
		}
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithTransport sets the HTTP client (useful for testing).
func WithTransport(c *transport.Client) Option {
	return func(a *App) error {
		a.transport = c
		return nil
	}
}

// WithDataSources sets the data source configuration instead of reading it
// from a file.
func WithDataSources(cfg *config.Sources) Option {
	return func(a *App) error {
		a.sources = cfg
		return nil
	}
}
