package di

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"usertable/cmd/usertable/infrastructure"
	"usertable/internal/adapter/cache"
	"usertable/internal/adapter/db/userstore"
	ginhandler "usertable/internal/adapter/gin/handler"
	"usertable/internal/adapter/gin/middleware"
	"usertable/internal/adapter/gin/view"
	"usertable/internal/adapter/notify"
	"usertable/internal/adapter/reqres"
	"usertable/internal/adapter/repository/cached"
	"usertable/internal/config"
	"usertable/internal/i18n"
	"usertable/internal/usecase/user"
	"usertable/internal/usecase/usertable"
	redisclient "usertable/pkg/redis"
)

// Container holds all application dependencies. Console and stub fields are
// set only for their own mode.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RedisClient *redisclient.Client
	RateLimiter *middleware.RateLimiter

	// console
	Translator     *i18n.Translator
	Templates      *template.Template
	TableUC        *usertable.Usecase
	ConsoleHandler *ginhandler.ConsoleHandler

	// stubapi
	DB          *gorm.DB
	UserUC      *user.Usecase
	StubHandler *ginhandler.StubHandler
}

// NewConsoleContainer wires the user table console.
func NewConsoleContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	tr, err := i18n.New(cfg.App.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translator: %w", err)
	}

	tmpl, err := view.Load(tr)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	c := &Container{Config: cfg, Logger: l, Translator: tr, Templates: tmpl}
	if err := c.initRedis(); err != nil {
		return nil, err
	}

	// toasts render once; the log and the optional feed keep history
	toasts := notify.NewStack()
	sinks := notify.Fanout{toasts, notify.NewLogSink(l)}

	var feed ginhandler.Feed
	if cfg.Notify.FeedEnabled && c.RedisClient != nil {
		redisFeed := notify.NewRedisFeed(c.RedisClient.Client, cfg.Notify.FeedKey, cfg.Notify.FeedMax, l)
		sinks = append(sinks, redisFeed)
		feed = redisFeed
	}

	client := reqres.NewClient(reqres.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		Timeout:      time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		APIKey:       cfg.Upstream.APIKey,
		APIKeyHeader: cfg.Upstream.APIKeyHeader,
	}, l.Named("upstream"))

	c.TableUC = usertable.New(client, sinks, tr, cfg.App.PageSize, l)
	c.ConsoleHandler = ginhandler.NewConsoleHandler(c.TableUC, toasts, feed, tr, l)

	return c, nil
}

// NewStubContainer wires the local users API.
func NewStubContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := errors.Join(cfg.Validate(), cfg.ValidateStub()); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	store := userstore.New(db, l)
	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if cfg.DB.Seed {
		if _, err := store.Seed(ctx, userstore.DefaultSeed()); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	if err := c.initRedis(); err != nil {
		_ = c.Close()
		return nil, err
	}

	var repo user.Repository = store
	if c.RedisClient != nil {
		userCache := cache.NewRedisUserCache(
			c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedUserRepository(store, userCache, l)
	}

	c.UserUC = user.New(repo, l)
	c.StubHandler = ginhandler.NewStubHandler(c.UserUC, l)

	return c, nil
}

// initRedis connects Redis when enabled and builds the rate limiter.
func (c *Container) initRedis() error {
	rdb, err := infrastructure.NewRedisClient(c.Config, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	if rdb != nil {
		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: c.Config.RateLimit.RequestsPerSecond,
				BurstCapacity:     c.Config.RateLimit.BurstCapacity,
				Enabled:           c.Config.RateLimit.Enabled,
			},
			c.Logger,
		)
	}
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
