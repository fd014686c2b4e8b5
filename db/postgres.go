package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/logger"
	_ "github.com/lib/pq"
)

// PostgresSource loads airports and routes from PostgreSQL.
type PostgresSource struct {
	db *sql.DB
}

// ConnString builds a lib/pq connection string from cfg.
func ConnString(cfg config.PostgresConfig) string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	if cfg.SSLCert != "" {
		connStr += " sslcert=" + cfg.SSLCert
	}
	if cfg.SSLKey != "" {
		connStr += " sslkey=" + cfg.SSLKey
	}
	if cfg.SSLRootCert != "" {
		connStr += " sslrootcert=" + cfg.SSLRootCert
	}
	return connStr
}

// NewPostgresSource opens and pings a PostgreSQL connection.
func NewPostgresSource(ctx context.Context, cfg config.PostgresConfig) (*PostgresSource, error) {
	if cfg.RequireSSL && cfg.SSLMode == "disable" {
		return nil, fmt.Errorf("postgres: sslmode=disable while DB_REQUIRE_SSL is set")
	}

	db, err := sql.Open("postgres", ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &PostgresSource{db: db}, nil
}

// Close closes the database connection
func (p *PostgresSource) Close() error {
	return p.db.Close()
}

// Ping checks connectivity.
func (p *PostgresSource) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Airports returns every airports row, normalized like the file source.
func (p *PostgresSource) Airports(ctx context.Context) ([]dataset.Airport, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT iata_code, icao_code, latitude, longitude FROM airports")
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []dataset.Airport
	for rows.Next() {
		var iata, icao sql.NullString
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&iata, &icao, &lat, &lon); err != nil {
			return nil, fmt.Errorf("failed to scan airport row: %w", err)
		}
		airports = append(airports, airportFromColumns(iata, icao, lat, lon))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating airport rows: %w", err)
	}

	logger.Info("Loaded airports from PostgreSQL", "count", len(airports))
	return airports, nil
}

// Routes returns every routes row. Duplicates are kept.
func (p *PostgresSource) Routes(ctx context.Context) ([]dataset.Route, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT source_code, destination_code FROM routes")
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []dataset.Route
	for rows.Next() {
		var src, dst sql.NullString
		if err := rows.Scan(&src, &dst); err != nil {
			return nil, fmt.Errorf("failed to scan route row: %w", err)
		}
		if route, ok := dataset.NewRoute(src.String, dst.String); ok {
			routes = append(routes, route)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating route rows: %w", err)
	}

	logger.Info("Loaded routes from PostgreSQL", "count", len(routes))
	return routes, nil
}

func airportFromColumns(iata, icao sql.NullString, lat, lon sql.NullFloat64) dataset.Airport {
	return dataset.Airport{
		PrimaryCode:   dataset.NormalizePrimaryCode(iata.String),
		SecondaryCode: dataset.NormalizeSecondaryCode(icao.String),
		Latitude:      lat.Float64,
		Longitude:     lon.Float64,
	}
}

// InitSchema creates the airports and routes tables if they don't exist.
func (p *PostgresSource) InitSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS airports (
			id SERIAL PRIMARY KEY,
			iata_code VARCHAR(3),
			icao_code VARCHAR(4),
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS routes (
			id SERIAL PRIMARY KEY,
			source_code VARCHAR(4) NOT NULL,
			destination_code VARCHAR(4) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_routes_destination ON routes(destination_code);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Import replaces the stored dataset in one transaction.
func (p *PostgresSource) Import(ctx context.Context, airports []dataset.Airport, routes []dataset.Route) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "TRUNCATE airports, routes"); err != nil {
		return fmt.Errorf("failed to truncate dataset tables: %w", err)
	}

	airportStmt, err := tx.PrepareContext(ctx, "INSERT INTO airports (iata_code, icao_code, latitude, longitude) VALUES ($1, $2, $3, $4)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer airportStmt.Close()

	for _, a := range airports {
		if _, err := airportStmt.ExecContext(ctx, nullString(a.PrimaryCode), nullString(a.SecondaryCode), a.Latitude, a.Longitude); err != nil {
			return fmt.Errorf("failed to insert airport %s/%s: %w", a.PrimaryCode, a.SecondaryCode, err)
		}
	}

	routeStmt, err := tx.PrepareContext(ctx, "INSERT INTO routes (source_code, destination_code) VALUES ($1, $2)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer routeStmt.Close()

	for _, r := range routes {
		if _, err := routeStmt.ExecContext(ctx, r.Source, r.Destination); err != nil {
			return fmt.Errorf("failed to insert route %s-%s: %w", r.Source, r.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Imported dataset into PostgreSQL", "airports", len(airports), "routes", len(routes))
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
