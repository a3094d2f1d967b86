package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/dgrun/internal/config"
	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/journal"
	"github.com/vk/dgrun/internal/registry"
	"github.com/vk/dgrun/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *Config
	model    *config.Model
	journal  journal.Journal
	tracer   trace.Tracer
}

// NewApp is the constructor for the main application. It builds an isolated
// logger and registry and loads the run description. The journal is opened
// by Run once the engine has been located.
// When modules is empty the core modules are registered.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appConfig.Verbose, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var (
		model *config.Model
		err   error
	)
	if appConfig.RunFile == "" {
		logger.Debug("No run file configured, using the built-in sample run.")
		model = config.Sample()
	} else {
		model, err = loader.Load(ctx, appConfig.RunFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load run description: %w", err)
		}
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run description %s: %w", model.Source, err)
	}
	logger.Debug("Run description loaded.", "source", model.Source, "session", model.Session.Name)

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	if !reg.Has(appConfig.Engine) {
		return nil, fmt.Errorf("unknown engine %q (available: %v)", appConfig.Engine, reg.Names())
	}
	logger.Debug("Engine modules registered.", "engines", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   appConfig,
		model:    model,
		journal:  journal.Nop{},
		tracer:   telemetry.Tracer(appConfig.TracerProvider),
	}, nil
}

// Model returns the loaded run description. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// openJournal replaces the no-op journal with the configured SQLite one.
func (a *App) openJournal(ctx context.Context) error {
	if a.config.Journal == "" {
		return nil
	}
	if _, ok := a.journal.(journal.Nop); !ok {
		return nil
	}
	j, err := journal.Open(a.config.Journal)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	a.journal = j
	ctxlog.FromContext(ctx).Debug("Run journal opened.", "path", a.config.Journal)
	return nil
}

// Close releases the journal.
func (a *App) Close() error {
	if err := a.journal.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}
