package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// OpenFlights column positions.
const (
	airportPrimaryCol   = 4
	airportSecondaryCol = 5
	airportLatitudeCol  = 6
	airportLongitudeCol = 7

	routeSourceCol      = 2
	routeDestinationCol = 4
)

type httpClient interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// FileSource reads OpenFlights airports.dat and routes.dat files. Paths that
// start with http:// or https:// are downloaded instead of opened.
type FileSource struct {
	AirportsPath string
	RoutesPath   string

	client httpClient
}

// NewFileSource creates a file source. downloadTimeout bounds each HTTP
// attempt for remote paths.
func NewFileSource(airportsPath, routesPath string, downloadTimeout time.Duration) *FileSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.Logger = nil
	client.CheckRetry = downloadRetryPolicy
	if downloadTimeout > 0 {
		client.HTTPClient.Timeout = downloadTimeout
	}

	return &FileSource{
		AirportsPath: airportsPath,
		RoutesPath:   routesPath,
		client:       client,
	}
}

func downloadRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, fmt.Errorf("dataset not found (status %d)", resp.StatusCode)
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Airports parses every airport row. Rows with too few columns are skipped.
func (s *FileSource) Airports(ctx context.Context) ([]Airport, error) {
	rc, err := s.open(ctx, s.AirportsPath)
	if err != nil {
		return nil, fmt.Errorf("open airports: %w", err)
	}
	defer rc.Close()

	airports, err := ParseAirports(rc)
	if err != nil {
		return nil, fmt.Errorf("parse airports: %w", err)
	}
	logger.Debug("Loaded airport rows", "count", len(airports), "path", s.AirportsPath)
	return airports, nil
}

// Routes parses every route row without deduplicating.
func (s *FileSource) Routes(ctx context.Context) ([]Route, error) {
	rc, err := s.open(ctx, s.RoutesPath)
	if err != nil {
		return nil, fmt.Errorf("open routes: %w", err)
	}
	defer rc.Close()

	routes, err := ParseRoutes(rc)
	if err != nil {
		return nil, fmt.Errorf("parse routes: %w", err)
	}
	logger.Debug("Loaded route rows", "count", len(routes), "path", s.RoutesPath)
	return routes, nil
}

func (s *FileSource) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("empty dataset path")
	}
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return os.Open(path)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}

// ParseAirports reads airports.dat rows. Coordinates that do not parse are
// left at 0, which the distance oracle treats as missing.
func ParseAirports(r io.Reader) ([]Airport, error) {
	reader := newReader(r)

	var airports []Airport
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, err
		}
		if len(record) <= airportLongitudeCol {
			continue
		}

		airports = append(airports, Airport{
			PrimaryCode:   NormalizePrimaryCode(record[airportPrimaryCol]),
			SecondaryCode: NormalizeSecondaryCode(record[airportSecondaryCol]),
			Latitude:      parseCoordinate(record[airportLatitudeCol]),
			Longitude:     parseCoordinate(record[airportLongitudeCol]),
		})
	}
	return airports, nil
}

// ParseRoutes reads routes.dat rows.
func ParseRoutes(r io.Reader) ([]Route, error) {
	reader := newReader(r)

	var routes []Route
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, err
		}
		if len(record) <= routeDestinationCol {
			continue
		}
		if route, ok := NewRoute(record[routeSourceCol], record[routeDestinationCol]); ok {
			routes = append(routes, route)
		}
	}
	return routes, nil
}

func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, `"`, "")), 64)
	if err != nil {
		return 0
	}
	return v
}
