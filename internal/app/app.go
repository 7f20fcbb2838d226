package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/hclgraph"
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/modules/failing"
	"github.com/vk/flowgrid/internal/modules/passthrough"
	"github.com/vk/flowgrid/internal/modules/sink"
	"github.com/vk/flowgrid/internal/modules/source"
	"github.com/vk/flowgrid/internal/scheduler"
	"github.com/vk/flowgrid/internal/telemetry"
)

// App encapsulates a single grid run's dependencies, configuration, and
// lifecycle: an isolated logger and a module-type registry.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *hclgraph.Registry

	httpServer *http.Server
}

// NewApp constructs an App, wiring its own logger and a registry
// populated with the built-in reference module types (source, sink,
// passthrough, failing).
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("logger configured")

	reg := hclgraph.NewRegistry()
	registerCoreModules(reg)
	logger.Debug("core module types registered")

	return &App{outW: outW, logger: logger, config: cfg, registry: reg}
}

// registerCoreModules wires the reference module constructors this
// codebase ships into reg. Each grid file's `module "<name>" "<type>"`
// block's second label selects one of these.
func registerCoreModules(reg *hclgraph.Registry) {
	reg.Register("source", func(name string) module.Module { return source.New(name, "") })
	reg.Register("sink", func(name string) module.Module { return sink.New(name, "") })
	reg.Register("passthrough", func(name string) module.Module { return passthrough.New(name, "") })
	reg.Register("failing", func(name string) module.Module { return failing.New(name, "", 0) })
}

// Registry returns the application's module-type registry, primarily
// for tests that want to register additional module types.
func (a *App) Registry() *hclgraph.Registry {
	return a.registry
}

// Run loads the app's configured grid file, builds a scheduler.Pool
// around it, and drives it to completion.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthCheckServer()
	}

	loaded, err := hclgraph.LoadPath(ctx, a.config.GridPath, a.registry)
	if err != nil {
		return fmt.Errorf("app: load grid: %w", err)
	}
	a.logger.Debug("grid loaded", "vertices", len(loaded.Graph.Vertices()))

	pool := scheduler.New(loaded.Graph)
	pool.Stdout = a.outW

	if a.config.SocketIOURL != "" {
		pool.AddSink(&telemetry.SocketIOSink{URL: a.config.SocketIOURL})
	}
	if a.config.HTTPSinkURL != "" {
		pool.AddSink(telemetry.NewHTTPSink(a.config.HTTPSinkURL, 5*time.Second))
	}

	a.logger.Info("starting scheduler", "workers", a.config.WorkerCount)
	if a.config.Forever {
		err = pool.Execute(ctx, a.config.WorkerCount)
	} else if limit, bounded := loaded.Policy.Limit(); bounded {
		err = pool.ExecuteN(ctx, a.config.WorkerCount, limit)
	} else {
		err = pool.Execute(ctx, a.config.WorkerCount)
	}
	if err != nil {
		return fmt.Errorf("app: scheduler run failed: %w", err)
	}

	a.logger.Info("scheduler finished")
	return nil
}
