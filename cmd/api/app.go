// ABOUTME: Application wiring shared by the serve and fetch commands
// ABOUTME: Selects the cache backend and builds the store, sweeper, sources and dashboard

package main

import (
	"context"
	"fmt"
	"io"

	"hackerhome-api/core/cachestore"
	"hackerhome-api/core/dashboard"
	"hackerhome-api/core/interfaces"
	"hackerhome-api/core/session"
	"hackerhome-api/core/sources"
	"hackerhome-api/core/workers"
	"hackerhome-api/infrastructure/cache/memory"
	"hackerhome-api/infrastructure/cache/redis"
	"hackerhome-api/infrastructure/cache/sqlite"
	stdhttp "hackerhome-api/infrastructure/http/standard"
	"hackerhome-api/pkg/config"
	"hackerhome-api/pkg/featureflags"
)

// app holds the long-lived components
type app struct {
	cfg       *config.Config
	logger    interfaces.Logger
	cache     interfaces.Cache
	store     *cachestore.Store
	sweeper   *workers.Sweeper
	flags     featureflags.Manager
	registry  *sources.Registry
	dashboard *dashboard.Service
}

// newApp wires the components. Background workers are not started.
func newApp(cfg *config.Config, logger interfaces.Logger, sessionOverrides func(*session.Options)) (*app, error) {
	cache, err := openCache(cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	httpClient := stdhttp.NewStandardHTTPClient(stdhttp.Options{
		Timeout:   cfg.HTTP.Timeout,
		RetryMax:  cfg.HTTP.RetryMax,
		UserAgent: cfg.HTTP.UserAgent,
		Logger:    logger,
	})

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	flags := featureflags.NewEnvManager("FEATURE_")
	store := cachestore.New(deps, cachestore.WithHorizon(cfg.Cache.Horizon))
	registry := sources.NewDefaultRegistry(deps, sourcesConfig(cfg, flags))

	sessionOpts := session.Options{
		CacheMaxAge:    cfg.Cache.MaxAge,
		MaxPages:       cfg.Session.MaxPages,
		PageSize:       cfg.Session.PageSize,
		EndOnShortPage: cfg.Session.EndOnShortPage,
		MinInterval:    cfg.Session.MinInterval,
		RequestTimeout: cfg.Session.RequestTimeout,
	}
	if sessionOverrides != nil {
		sessionOverrides(&sessionOpts)
	}

	dash := dashboard.New(registry, store, flags, deps, dashboard.Options{
		Session:         sessionOpts,
		Settings:        cfg.Sources.Settings,
		RefreshInterval: cfg.Server.RefreshInterval,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		cache:     cache,
		store:     store,
		sweeper:   workers.NewSweeper(store, cfg.Cache.SweepInterval, logger),
		flags:     flags,
		registry:  registry,
		dashboard: dash,
	}, nil
}

// sourcesConfig maps the configuration onto the adapter settings
func sourcesConfig(cfg *config.Config, flags featureflags.Manager) sources.Config {
	sc := sources.DefaultConfig()
	if cfg.Sources.ProductHuntURL != "" {
		sc.ProductHuntURL = cfg.Sources.ProductHuntURL
	}
	if cfg.Sources.MediumTag != "" {
		sc.MediumTag = cfg.Sources.MediumTag
	}
	if cfg.Session.PageSize > 0 {
		sc.PageSize = cfg.Session.PageSize
	}
	sc.ProductHuntKey = cfg.Sources.ProductHuntKey
	sc.GitHubToken = cfg.Sources.GitHubToken
	sc.TrendingFallback = flags.IsEnabled(context.Background(), featureflags.GitHubTrendingFallback)
	return sc
}

// openCache creates the backend named by cfg.Type. A Redis backend that
// cannot be reached falls back to memory.
func openCache(cfg config.CacheConfig, logger interfaces.Logger) (interfaces.Cache, error) {
	switch cfg.Type {
	case "redis", "redisjson":
		var (
			cache interfaces.Cache
			err   error
		)
		if cfg.Type == "redisjson" {
			cache, err = redis.NewJSONCache(cfg.Redis)
		} else {
			cache, err = redis.NewRedisCache(cfg.Redis)
		}
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
				"type":  cfg.Type,
			})
			return memory.NewMemoryCache(cfg.Memory.CleanupInterval), nil
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
			"type":    cfg.Type,
		})
		return cache, nil
	case "sqlite":
		cache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return cache, nil
	case "", "memory":
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(cfg.Memory.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// start launches the sweeper and the background refresh
func (a *app) start() error {
	if err := a.sweeper.Start(); err != nil {
		return err
	}
	return a.dashboard.Start()
}

// close stops the workers and releases the cache backend
func (a *app) close() {
	if err := a.dashboard.Close(); err != nil {
		a.logger.Warn("Dashboard close failed", map[string]interface{}{"error": err.Error()})
	}
	if err := a.sweeper.Stop(); err != nil {
		a.logger.Warn("Sweeper stop failed", map[string]interface{}{"error": err.Error()})
	}
	if closer, ok := a.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("Cache close failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
