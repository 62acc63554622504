package app

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"usertable/cmd/usertable/di"
	"usertable/cmd/usertable/server"
	ginrouter "usertable/internal/adapter/gin/router"
	"usertable/internal/config"
	"usertable/pkg/logger"
)

// Mode selects which server the application runs.
type Mode string

const (
	ModeConsole Mode = "console"
	ModeStubAPI Mode = "stubapi"
)

// App represents the application
type App struct {
	Mode      Mode
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New creates a new application instance
func New(configPath string, mode Mode) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithConfig(cfg, mode, l)
}

// NewWithConfig builds the application from a loaded configuration.
func NewWithConfig(cfg *config.Config, mode Mode, l *zap.Logger) (*App, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{Mode: mode, Config: cfg, Logger: l}

	switch mode {
	case ModeConsole:
		container, err := di.NewConsoleContainer(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to create container: %w", err)
		}
		router := ginrouter.SetupConsoleRouter(container.ConsoleHandler, container.Templates, container.RateLimiter, l)
		a.Container = container
		a.Server = server.New(string(mode), cfg.App.HTTPPort, router, l)

	case ModeStubAPI:
		container, err := di.NewStubContainer(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to create container: %w", err)
		}
		router := ginrouter.SetupStubRouter(container.StubHandler, container.RateLimiter, l)
		a.Container = container
		a.Server = server.New(string(mode), cfg.App.StubPort, router, l)

	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	return a, nil
}

// Run serves until ctx is canceled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("starting application",
		zap.String("mode", string(a.Mode)),
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Env),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.Start(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down application...")
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown",
		zap.Int("timeout_seconds", a.Config.App.ShutdownTimeoutSeconds),
	)

	var errs []error

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	// stdout and stderr cannot be synced on most platforms
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	a.Logger.Info("application shutdown complete")

	return errors.Join(errs...)
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config, mode Mode) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Env,
		Component:        string(mode),
	})
}
