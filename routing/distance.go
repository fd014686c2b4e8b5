package routing

import (
	"context"
	"errors"
	"sync"

	"github.com/gilby125/airport-routes/airports"
	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/geo"
	"github.com/gilby125/airport-routes/pkg/logger"
)

// AirportLookup resolves a primary code. *airports.Directory satisfies it.
type AirportLookup interface {
	Lookup(ctx context.Context, code string) (dataset.Airport, error)
}

type distanceEntry struct {
	km int
	ok bool
}

// DistanceOracle computes great-circle distances between airports and
// memoizes them for the life of the process, including pairs whose distance
// cannot be computed. Concurrent callers may compute the same pair twice;
// both store the same value.
type DistanceOracle struct {
	airports AirportLookup
	memo     sync.Map // PairKey -> distanceEntry
}

// NewDistanceOracle creates an oracle resolving coordinates through lookup.
func NewDistanceOracle(lookup AirportLookup) *DistanceOracle {
	return &DistanceOracle{airports: lookup}
}

// PairKey is the memo key for an unordered pair of codes.
func PairKey(a, b string) string {
	if a > b {
		return a + b
	}
	return b + a
}

// DistanceBetween returns the distance between two airports in whole
// kilometers. ok is false if either airport is unknown or lacks coordinates.
func (o *DistanceOracle) DistanceBetween(ctx context.Context, a, b string) (int, bool) {
	key := PairKey(a, b)
	if v, found := o.memo.Load(key); found {
		distanceMemoLookups.WithLabelValues("hit").Inc()
		e := v.(distanceEntry)
		return e.km, e.ok
	}
	distanceMemoLookups.WithLabelValues("miss").Inc()

	km, ok, err := o.compute(ctx, a, b)
	if err != nil {
		// Loader failures are transient and stay out of the memo.
		logger.Error(err, "Failed to resolve airports for distance", "from", a, "to", b)
		return 0, false
	}
	o.memo.Store(key, distanceEntry{km: km, ok: ok})
	return km, ok
}

func (o *DistanceOracle) compute(ctx context.Context, a, b string) (int, bool, error) {
	from, err := o.resolve(ctx, a)
	if err != nil || from == nil {
		return 0, false, err
	}
	to, err := o.resolve(ctx, b)
	if err != nil || to == nil {
		return 0, false, err
	}

	if !from.Coordinates().IsComplete() {
		logger.Warn("Missing coordinates", "code", a)
		return 0, false, nil
	}
	if !to.Coordinates().IsComplete() {
		logger.Warn("Missing coordinates", "code", b)
		return 0, false, nil
	}

	km := geo.RouteKm(from.Coordinates(), to.Coordinates())
	logger.Debug("Computed distance", "from", a, "to", b, "km", km)
	return km, true, nil
}

// resolve returns nil without error for unknown codes.
func (o *DistanceOracle) resolve(ctx context.Context, code string) (*dataset.Airport, error) {
	airport, err := o.airports.Lookup(ctx, code)
	if errors.Is(err, airports.ErrAirportNotFound) {
		logger.Warn("Failed to find airport", "code", code)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &airport, nil
}

// Len returns the number of memoized pairs.
func (o *DistanceOracle) Len() int {
	n := 0
	o.memo.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
