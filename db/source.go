package db

import (
	"context"
	"fmt"

	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/logger"
)

// Store is a database-backed dataset that can also be written to.
type Store interface {
	dataset.Source
	Ping(ctx context.Context) error
	InitSchema(ctx context.Context) error
	Import(ctx context.Context, airports []dataset.Airport, routes []dataset.Route) error
	Close() error
}

var (
	_ Store = (*PostgresSource)(nil)
	_ Store = (*Neo4jSource)(nil)
)

// OpenStore connects to the database named by kind.
func OpenStore(ctx context.Context, kind string, cfg *config.Config) (Store, error) {
	switch kind {
	case config.DataSourcePostgres:
		src, err := NewPostgresSource(ctx, cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.DataSourceNeo4j:
		src, err := NewNeo4jSource(cfg.Neo4jConfig)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return nil, fmt.Errorf("unsupported dataset store %q", kind)
}

// OpenDataSource returns the dataset source selected by DATA_SOURCE and a
// function releasing its resources.
func OpenDataSource(ctx context.Context, cfg *config.Config) (dataset.Source, func() error, error) {
	kind := cfg.DataConfig.Source
	logger.Info("Opening dataset source", "source", kind)

	if kind == "" || kind == config.DataSourceFile {
		src := dataset.NewFileSource(cfg.DataConfig.AirportsPath, cfg.DataConfig.RoutesPath, cfg.DataConfig.DownloadTimeout)
		return src, func() error { return nil }, nil
	}

	store, err := OpenStore(ctx, kind, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
