package app

import (
	"io"
	"log/slog"

	"github.com/vk/planforge/internal/action"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *action.Registry
	config   *Config
}

// NewApp is the constructor for the main application. It returns a
// fully initialized App instance, including its own isolated logger and
// action registry.
func NewApp(outW io.Writer, cfg *Config, modules ...action.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := action.NewRegistry()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All action modules registered.",
		"modules", len(modules), "actions", len(reg.All()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfg,
	}
}

// Registry returns the application's action registry. This is primarily
// for testing.
func (a *App) Registry() *action.Registry {
	return a.registry
}
