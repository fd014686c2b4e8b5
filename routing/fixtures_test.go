package routing

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gilby125/airport-routes/airports"
	"github.com/gilby125/airport-routes/dataset"
)

type staticSource struct {
	airports    []dataset.Airport
	routes      []dataset.Route
	routeCalls  atomic.Int32
	routesError error
}

func (s *staticSource) Airports(ctx context.Context) ([]dataset.Airport, error) {
	return s.airports, nil
}

func (s *staticSource) Routes(ctx context.Context) ([]dataset.Route, error) {
	s.routeCalls.Add(1)
	if s.routesError != nil {
		return nil, s.routesError
	}
	return s.routes, nil
}

// countingLookup counts lookups that reach the directory.
type countingLookup struct {
	next  AirportLookup
	calls atomic.Int32
}

func (l *countingLookup) Lookup(ctx context.Context, code string) (dataset.Airport, error) {
	l.calls.Add(1)
	return l.next.Lookup(ctx, code)
}

// gatedLookup holds the first lookup until release is closed.
type gatedLookup struct {
	next    AirportLookup
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedLookup(next AirportLookup) *gatedLookup {
	return &gatedLookup{next: next, entered: make(chan struct{}), release: make(chan struct{})}
}

func (l *gatedLookup) Lookup(ctx context.Context, code string) (dataset.Airport, error) {
	first := false
	l.once.Do(func() { first = true })
	if first {
		close(l.entered)
		<-l.release
	}
	return l.next.Lookup(ctx, code)
}

func airport(code string, lat, lon float64) dataset.Airport {
	return dataset.Airport{PrimaryCode: code, SecondaryCode: "E" + code, Latitude: lat, Longitude: lon}
}

func route(src, dst string) dataset.Route {
	return dataset.Route{Source: src, Destination: dst}
}

func balticAirports() []dataset.Airport {
	return []dataset.Airport{
		airport("TLL", 59.4133, 24.8328),
		airport("HEL", 60.3172, 24.9633),
		airport("ARN", 59.6519, 17.9186),
		airport("RIX", 56.9236, 23.9711),
		airport("OSL", 60.1939, 11.1004),
		airport("NUL", 0, 12.5),
	}
}

type fixture struct {
	source *staticSource
	lookup *countingLookup
	graph  *Graph
	oracle *DistanceOracle
}

func newFixture(airportRows []dataset.Airport, routeRows []dataset.Route) *fixture {
	src := &staticSource{airports: airportRows, routes: routeRows}
	lookup := &countingLookup{next: airports.NewDirectory(src)}
	return &fixture{
		source: src,
		lookup: lookup,
		graph:  NewGraph(src),
		oracle: NewDistanceOracle(lookup),
	}
}

func (f *fixture) finder(opts ...Option) *Finder {
	return NewFinder(f.lookup, f.graph, f.oracle, opts...)
}
