// Package airports indexes airport records by primary code and translates
// secondary codes to primary codes.
package airports

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/logger"
)

// ErrAirportNotFound is returned when a code does not resolve.
var ErrAirportNotFound = errors.New("airport not found")

// Loader supplies airport rows. dataset.Source satisfies it.
type Loader interface {
	Airports(ctx context.Context) ([]dataset.Airport, error)
}

// Directory is the airport index. Every entry point loads the data on first
// use, so the first call pays the load cost. A failed load is not cached and
// the next call retries it.
type Directory struct {
	loader Loader

	mu          sync.RWMutex
	initialized bool
	byPrimary   map[string]dataset.Airport
	toPrimary   map[string]string
}

// NewDirectory creates an empty directory backed by loader.
func NewDirectory(loader Loader) *Directory {
	return &Directory{loader: loader}
}

// Initialize loads and indexes all airports exactly once. Later calls are
// no-ops.
func (d *Directory) Initialize(ctx context.Context) error {
	d.mu.RLock()
	done := d.initialized
	d.mu.RUnlock()
	if done {
		logger.Warn("Airport data already initialized")
		return nil
	}
	return d.load(ctx)
}

func (d *Directory) ensure(ctx context.Context) error {
	d.mu.RLock()
	done := d.initialized
	d.mu.RUnlock()
	if done {
		return nil
	}
	return d.load(ctx)
}

func (d *Directory) load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		return nil
	}

	logger.Info("Initializing airport data")
	rows, err := d.loader.Airports(ctx)
	if err != nil {
		return fmt.Errorf("load airports: %w", err)
	}

	byPrimary := make(map[string]dataset.Airport, len(rows))
	toPrimary := make(map[string]string, len(rows))
	for _, a := range rows {
		if a.PrimaryCode == "" {
			continue
		}
		byPrimary[a.PrimaryCode] = a
		if a.SecondaryCode != "" {
			toPrimary[a.SecondaryCode] = a.PrimaryCode
		}
	}

	d.byPrimary = byPrimary
	d.toPrimary = toPrimary
	d.initialized = true
	logger.Info("Airports data initialized", "size", len(byPrimary), "secondary_codes", len(toPrimary))
	return nil
}

// Lookup returns the airport with the given primary code.
func (d *Directory) Lookup(ctx context.Context, code string) (dataset.Airport, error) {
	if err := d.ensure(ctx); err != nil {
		return dataset.Airport{}, err
	}

	d.mu.RLock()
	airport, ok := d.byPrimary[code]
	d.mu.RUnlock()
	if !ok {
		logger.Debug("Failed to find airport data", "code", code)
		return dataset.Airport{}, fmt.Errorf("%w: %s", ErrAirportNotFound, code)
	}
	return airport, nil
}

// SecondaryToPrimary translates a secondary code into the primary code of the
// same airport.
func (d *Directory) SecondaryToPrimary(ctx context.Context, code string) (string, error) {
	if err := d.ensure(ctx); err != nil {
		return "", err
	}

	d.mu.RLock()
	primary, ok := d.toPrimary[code]
	d.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrAirportNotFound, code)
	}
	return primary, nil
}

// Size returns the number of airports addressable by primary code.
func (d *Directory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byPrimary)
}

// Initialized reports whether the data has been loaded.
func (d *Directory) Initialized() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.initialized
}
