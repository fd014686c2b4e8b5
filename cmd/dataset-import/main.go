package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/db"
	"github.com/gilby125/airport-routes/pkg/logger"
)

// dataset-import copies OpenFlights airports.dat/routes.dat into PostgreSQL
// or Neo4j so the server can run with DATA_SOURCE=postgres|neo4j.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}
	logger.Init(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format})

	target := flag.String("target", config.DataSourcePostgres, "store to import into: postgres or neo4j")
	airportsPath := flag.String("airports", cfg.DataConfig.AirportsPath, "airports.dat path or URL")
	routesPath := flag.String("routes", cfg.DataConfig.RoutesPath, "routes.dat path or URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := dataset.NewFileSource(*airportsPath, *routesPath, cfg.DataConfig.DownloadTimeout)
	if err := run(ctx, src, func(ctx context.Context) (db.Store, error) {
		return db.OpenStore(ctx, *target, cfg)
	}); err != nil {
		logger.Fatal(err, "Dataset import failed", "target", *target)
	}
}

func run(ctx context.Context, src dataset.Source, open func(context.Context) (db.Store, error)) error {
	airports, err := src.Airports(ctx)
	if err != nil {
		return err
	}
	routes, err := src.Routes(ctx)
	if err != nil {
		return err
	}

	store, err := open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	return store.Import(ctx, airports, routes)
}
