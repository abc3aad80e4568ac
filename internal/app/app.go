package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/graphforge/internal/ctxlog"
	"github.com/vk/graphforge/internal/document"
	"github.com/vk/graphforge/internal/engine"
	"github.com/vk/graphforge/internal/hostdoc"
	"github.com/vk/graphforge/internal/server"
	"github.com/vk/graphforge/internal/typeregistry"
)

// Version is stamped by the build; the default marks a source build.
var Version = "dev"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	registry *typeregistry.Registry
	document *document.Document
	host     *hostdoc.Recorder
	engine   *engine.Engine
	server   *server.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, type registry, and
// document. Logs go to logW; stdout stays reserved for the MCP transport.
func NewApp(logW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := typeregistry.NewBuiltin()
	if appConfig.TypesPath != "" {
		if err := reg.LoadManifestsRecursively(ctx, appConfig.TypesPath); err != nil {
			// A failure to load type manifests is a fatal startup error.
			panic(fmt.Errorf("failed to load type manifests: %w", err))
		}
	}
	logger.Debug("Type registry populated.")

	doc := document.New(appConfig.Document)
	host := hostdoc.NewRecorder()
	eng := engine.New(doc, reg, host)
	logger.Debug("Engine assembled.", "document", doc.Name())

	return &App{
		logger:   logger,
		registry: reg,
		document: doc,
		host:     host,
		engine:   eng,
		server:   server.New(eng, Version),
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Run serves the engine over MCP until the context ends.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.server.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
