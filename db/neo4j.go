package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/gilby125/airport-routes/config"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	neo4jAirportsQuery = "MATCH (a:Airport) RETURN a.iata AS iata, a.icao AS icao, a.latitude AS latitude, a.longitude AS longitude"
	neo4jRoutesQuery   = "MATCH (s:Airport)-[:ROUTE]->(d:Airport) RETURN s.iata AS source, d.iata AS destination"
	neo4jImportBatch   = 1000
)

// Neo4jSource loads airports from (:Airport) nodes and routes from
// (:Airport)-[:ROUTE]->(:Airport) relationships.
type Neo4jSource struct {
	driver neo4j.Driver
}

// NewNeo4jSource creates a Neo4j driver and verifies connectivity.
func NewNeo4jSource(cfg config.Neo4jConfig) (*Neo4jSource, error) {
	trimmedURI := strings.TrimSpace(cfg.URI)
	driver, err := neo4j.NewDriver(trimmedURI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	// Test the connection
	if err := driver.VerifyConnectivity(); err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	return &Neo4jSource{driver: driver}, nil
}

// Close closes the driver
func (n *Neo4jSource) Close() error {
	return n.driver.Close()
}

// Ping checks connectivity.
func (n *Neo4jSource) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.driver.VerifyConnectivity()
}

func (n *Neo4jSource) read(ctx context.Context, query string, each func(*neo4j.Record)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	session := n.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.Run(query, nil)
	if err != nil {
		return fmt.Errorf("failed to run Neo4j query: %w", err)
	}
	for result.Next() {
		each(result.Record())
	}
	return result.Err()
}

// Airports returns every airport node, normalized like the file source.
func (n *Neo4jSource) Airports(ctx context.Context) ([]dataset.Airport, error) {
	var airports []dataset.Airport
	err := n.read(ctx, neo4jAirportsQuery, func(record *neo4j.Record) {
		airports = append(airports, airportFromValues(
			recordValue(record, "iata"),
			recordValue(record, "icao"),
			recordValue(record, "latitude"),
			recordValue(record, "longitude"),
		))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read airports: %w", err)
	}

	logger.Info("Loaded airports from Neo4j", "count", len(airports))
	return airports, nil
}

// Routes returns every ROUTE relationship. Parallel relationships are kept.
func (n *Neo4jSource) Routes(ctx context.Context) ([]dataset.Route, error) {
	var routes []dataset.Route
	err := n.read(ctx, neo4jRoutesQuery, func(record *neo4j.Record) {
		route, ok := dataset.NewRoute(stringValue(recordValue(record, "source")), stringValue(recordValue(record, "destination")))
		if ok {
			routes = append(routes, route)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read routes: %w", err)
	}

	logger.Info("Loaded routes from Neo4j", "count", len(routes))
	return routes, nil
}

func recordValue(record *neo4j.Record, key string) interface{} {
	v, _ := record.Get(key)
	return v
}

func airportFromValues(iata, icao, lat, lon interface{}) dataset.Airport {
	return dataset.Airport{
		PrimaryCode:   dataset.NormalizePrimaryCode(stringValue(iata)),
		SecondaryCode: dataset.NormalizeSecondaryCode(stringValue(icao)),
		Latitude:      floatValue(lat),
		Longitude:     floatValue(lon),
	}
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// floatValue accepts the numeric types Neo4j returns for properties.
func floatValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err == nil {
			return f
		}
	}
	return 0
}

// InitSchema creates the airport index used by imports and route reads.
func (n *Neo4jSource) InitSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	session := n.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.Run("CREATE INDEX airport_iata IF NOT EXISTS FOR (a:Airport) ON (a.iata)", nil)
	if err != nil {
		return fmt.Errorf("failed to create airport iata index: %w", err)
	}
	return nil
}

// Import replaces the stored graph with the given dataset, in batches.
func (n *Neo4jSource) Import(ctx context.Context, airports []dataset.Airport, routes []dataset.Route) error {
	session := n.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if _, err := session.Run("MATCH (a:Airport) DETACH DELETE a", nil); err != nil {
		return fmt.Errorf("failed to clear airports: %w", err)
	}

	for start := 0; start < len(airports); start += neo4jImportBatch {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := make([]interface{}, 0, neo4jImportBatch)
		for _, a := range airports[start:min(start+neo4jImportBatch, len(airports))] {
			batch = append(batch, map[string]interface{}{
				"iata":      a.PrimaryCode,
				"icao":      a.SecondaryCode,
				"latitude":  a.Latitude,
				"longitude": a.Longitude,
			})
		}
		_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
			_, err := tx.Run(
				"UNWIND $rows AS row "+
					"CREATE (:Airport {iata: row.iata, icao: row.icao, latitude: row.latitude, longitude: row.longitude})",
				map[string]interface{}{"rows": batch},
			)
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("failed to import airports: %w", err)
		}
	}

	for start := 0; start < len(routes); start += neo4jImportBatch {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := make([]interface{}, 0, neo4jImportBatch)
		for _, r := range routes[start:min(start+neo4jImportBatch, len(routes))] {
			batch = append(batch, map[string]interface{}{"source": r.Source, "destination": r.Destination})
		}
		_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
			_, err := tx.Run(
				"UNWIND $rows AS row "+
					"MATCH (s:Airport {iata: row.source}), (d:Airport {iata: row.destination}) "+
					"CREATE (s)-[:ROUTE]->(d)",
				map[string]interface{}{"rows": batch},
			)
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("failed to import routes: %w", err)
		}
	}

	logger.Info("Imported dataset into Neo4j", "airports", len(airports), "routes", len(routes))
	return nil
}
