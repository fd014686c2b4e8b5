// Package bootstrap wires the dataset source, the airport directory, the
// route graph and the finder into a ready-to-serve application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/gilby125/airport-routes/airports"
	"github.com/gilby125/airport-routes/api"
	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/db"
	"github.com/gilby125/airport-routes/pkg/buildinfo"
	"github.com/gilby125/airport-routes/pkg/cache"
	"github.com/gilby125/airport-routes/pkg/health"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/gilby125/airport-routes/routing"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// App holds the long-lived components of a running service.
type App struct {
	Directory *airports.Directory
	Graph     *routing.Graph
	Finder    *routing.Finder
	Service   *api.ShortestRouteService
	Health    *health.HealthChecker

	closers []func() error
}

// Build opens the configured dataset source, loads airports and then the
// route graph, and wires the finder with its result cache.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	src, closeSource, err := db.OpenDataSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open dataset source: %w", err)
	}
	app, err := BuildFromSource(ctx, cfg, src)
	if err != nil {
		_ = closeSource()
		return nil, err
	}
	app.closers = append(app.closers, closeSource)

	if pinger, ok := src.(health.Pinger); ok {
		app.Health.AddChecker(&health.DataSourceChecker{Source: pinger, Name: cfg.DataConfig.Source})
	}
	return app, nil
}

// BuildFromSource is Build with an already opened source.
func BuildFromSource(ctx context.Context, cfg *config.Config, src dataset.Source) (*App, error) {
	app := &App{
		Directory: airports.NewDirectory(src),
		Graph:     routing.NewGraph(src),
		Health:    health.NewHealthChecker(buildinfo.Version),
	}

	logger.Info("Initializing server")
	if err := app.Directory.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize airports: %w", err)
	}
	if err := app.Graph.Build(ctx); err != nil {
		return nil, fmt.Errorf("initialize adjacency list: %w", err)
	}

	resultCache, err := app.resultCache(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Finder = routing.NewFinder(
		app.Directory,
		app.Graph,
		routing.NewDistanceOracle(app.Directory),
		routing.WithMaxFlights(cfg.RouteConfig.MaxFlights),
		routing.WithResultCache(resultCache),
		routing.WithSearchTimeout(cfg.RouteConfig.SearchTimeout),
	)
	app.Service = api.NewShortestRouteService(app.Finder, app.Directory, cfg.RouteConfig.SearchTimeout)

	app.Health.AddChecker(&health.DirectoryChecker{Directory: app.Directory, Name: "airports"})
	app.Health.AddChecker(&health.GraphChecker{Graph: app.Graph, Name: "routes"})
	return app, nil
}

func (a *App) resultCache(ctx context.Context, cfg *config.Config) (routing.ResultCache, error) {
	switch cfg.RouteConfig.CacheBackend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr(),
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		a.closers = append(a.closers, client.Close)

		redisCache := cache.NewRedisCache(client, cfg.RedisConfig.CachePrefix)
		if err := redisCache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		// Results from a previous run may describe a different dataset.
		manager := cache.NewCacheManager(redisCache)
		if err := manager.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear route cache: %w", err)
		}
		a.Health.AddChecker(&health.RedisChecker{Client: client, Name: "redis"})

		logger.Info("Using Redis route cache", "addr", cfg.RedisConfig.Addr(), "prefix", cfg.RedisConfig.CachePrefix)
		return routing.NewRedisResultCache(manager, cfg.RouteConfig.CacheTTL), nil

	case config.CacheBackendMemory, "":
		memory := routing.NewMemoryResultCache(cfg.RouteConfig.CacheTTL)
		janitor, err := cache.StartJanitor(cfg.RouteConfig.CacheSweep, memory)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, stopCron(janitor))
		return memory, nil
	}
	return nil, fmt.Errorf("unsupported route cache backend %q", cfg.RouteConfig.CacheBackend)
}

func stopCron(c *cron.Cron) func() error {
	return func() error {
		<-c.Stop().Done()
		return nil
	}
}

// Close releases everything Build opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
