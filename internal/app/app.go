package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/codeflow-sentinel/pipesim/internal/runner"
	"github.com/codeflow-sentinel/pipesim/internal/simulate"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	runner *runner.Runner
}

// New constructs a fully initialized App: settings file merged into the
// config, an isolated logger on errW, and a runner with the configured
// random source.
func New(outW, errW io.Writer, cfg *Config) (*App, error) {
	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings file %s: %w", cfg.SettingsPath, err)
	}
	cfg.resolve(settings)

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("logger configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var simOpts []simulate.Option
	if cfg.Seed != 0 {
		simOpts = append(simOpts, simulate.WithSeed(cfg.Seed))
		logger.Debug("simulator seeded", "seed", cfg.Seed)
	}
	if cfg.NoDelay {
		simOpts = append(simOpts, simulate.WithoutDelay())
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		runner: runner.New(simulate.New(simOpts...)),
	}, nil
}

// Logger returns the app's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
