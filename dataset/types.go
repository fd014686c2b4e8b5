// Package dataset holds the airport and route records the route finder is
// built from, and the sources that load them.
package dataset

import (
	"context"
	"regexp"
	"strings"

	"github.com/gilby125/airport-routes/pkg/geo"
)

const (
	PrimaryCodeLength   = 3
	SecondaryCodeLength = 4
)

var upperAlpha = regexp.MustCompile(`^[A-Z]+$`)

// Airport is a single airport row. PrimaryCode (IATA) is empty when the
// dataset has no usable value for it.
type Airport struct {
	PrimaryCode   string  `json:"iata_code,omitempty"`
	SecondaryCode string  `json:"icao_code,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// Coordinates returns the airport position.
func (a Airport) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: a.Latitude, Lon: a.Longitude}
}

// Route is a direct flight from Source to Destination. Duplicates are kept;
// the route graph collapses them.
type Route struct {
	Source      string
	Destination string
}

// Source supplies the raw records.
type Source interface {
	Airports(ctx context.Context) ([]Airport, error)
	Routes(ctx context.Context) ([]Route, error)
}

// NormalizePrimaryCode returns raw as a primary code, or "" if it is not
// exactly three uppercase letters once quotes are stripped.
func NormalizePrimaryCode(raw string) string {
	return normalizeCode(raw, PrimaryCodeLength)
}

// NormalizeSecondaryCode is NormalizePrimaryCode for four-letter codes.
func NormalizeSecondaryCode(raw string) string {
	return normalizeCode(raw, SecondaryCodeLength)
}

func normalizeCode(raw string, length int) string {
	code := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if len(code) != length || !upperAlpha.MatchString(code) {
		return ""
	}
	return code
}

// NewRoute trims both codes and reports false for rows missing either end.
func NewRoute(source, destination string) (Route, bool) {
	r := Route{
		Source:      strings.TrimSpace(strings.ReplaceAll(source, `"`, "")),
		Destination: strings.TrimSpace(strings.ReplaceAll(destination, `"`, "")),
	}
	if r.Source == "" || r.Destination == "" || r.Source == `\N` || r.Destination == `\N` {
		return Route{}, false
	}
	return r, true
}
