package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/sagegrid/components"
	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/pipeline"
	"github.com/specialistvlad/sagegrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	catalog  *pipeline.Catalog
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own logger, component registry and
// pipeline catalog. Startup failures panic.
func NewApp(outW io.Writer, cfg *Config, modules ...pipeline.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if err := reg.LoadFS(ctx, components.FS); err != nil {
		panic(fmt.Errorf("failed to load embedded components: %w", err))
	}
	if cfg.ComponentsPath != "" {
		if err := reg.LoadDir(ctx, cfg.ComponentsPath); err != nil {
			panic(fmt.Errorf("failed to load components from %s: %w", cfg.ComponentsPath, err))
		}
	}

	// A manifest that contradicts itself is a programmer error, so we panic.
	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "components", reg.Names())

	if len(modules) == 0 {
		modules = corePipelines
	}
	catalog := pipeline.NewCatalog(modules...)
	logger.Debug("All pipeline modules registered.", "count", len(modules), "pipelines", catalog.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		catalog:  catalog,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Catalog returns the application's pipeline catalog.
func (a *App) Catalog() *pipeline.Catalog {
	return a.catalog
}
