package routing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gilby125/airport-routes/airports"
	"github.com/gilby125/airport-routes/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxFlights is the hop bound: routes with more flights are pruned.
const DefaultMaxFlights = 4

// DefaultSearchTimeout bounds one shared search, independent of the callers
// waiting on it.
const DefaultSearchTimeout = 10 * time.Second

// cancellation is checked every this many frontier pops.
const ctxCheckInterval = 256

// Route is a found shortest route.
type Route struct {
	AirportCodes []string `json:"airportCodes"`
	DistanceKm   int      `json:"distanceKm"`
	RouteLength  string   `json:"routeLength"`
}

// Finder answers shortest-route queries over a Graph. It is safe for
// concurrent use; each search keeps its own frontier, trace and heuristic
// memo.
type Finder struct {
	airports   AirportLookup
	graph      *Graph
	oracle     *DistanceOracle
	cache      ResultCache
	maxFlights int
	timeout    time.Duration

	group singleflight.Group
}

// Option configures a Finder.
type Option func(*Finder)

// WithMaxFlights overrides the hop bound.
func WithMaxFlights(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.maxFlights = n
		}
	}
}

// WithSearchTimeout overrides DefaultSearchTimeout.
func WithSearchTimeout(d time.Duration) Option {
	return func(f *Finder) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithResultCache overrides the default in-memory result cache.
func WithResultCache(c ResultCache) Option {
	return func(f *Finder) {
		if c != nil {
			f.cache = c
		}
	}
}

// NewFinder wires a finder. Without options it caches results in memory for
// DefaultResultTTL and allows DefaultMaxFlights flights.
func NewFinder(lookup AirportLookup, graph *Graph, oracle *DistanceOracle, opts ...Option) *Finder {
	f := &Finder{
		airports:   lookup,
		graph:      graph,
		oracle:     oracle,
		maxFlights: DefaultMaxFlights,
		timeout:    DefaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.cache == nil {
		f.cache = NewMemoryResultCache(DefaultResultTTL)
	}
	return f
}

// MaxFlights returns the hop bound in use.
func (f *Finder) MaxFlights() int {
	return f.maxFlights
}

// FindShortestRoute returns the route from source to sink with the smallest
// summed great-circle distance using at most MaxFlights flights. It fails
// with a *NotFoundError for unknown codes and ErrNoRoute when no such route
// exists. Identical concurrent queries share one search; cancelling ctx only
// abandons this caller's wait, never the shared search.
func (f *Finder) FindShortestRoute(ctx context.Context, source, sink string) (*Route, error) {
	log := logger.WithContext(ctx).WithFields(map[string]interface{}{"from": source, "to": sink})

	if cached, ok := f.cache.Get(ctx, source, sink); ok {
		resultCacheLookups.WithLabelValues("hit").Inc()
		log.Debug("Found cached route", "route", cached.AirportCodes)
		return cached, nil
	}
	resultCacheLookups.WithLabelValues("miss").Inc()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search from-%s to-%s: %w", source, sink, err)
	}

	ch := f.group.DoChan(source+">"+sink, func() (interface{}, error) {
		searchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.search(searchCtx, source, sink)
	})

	select {
	case <-ctx.Done():
		log.Debug("Caller left before the search finished")
		return nil, fmt.Errorf("search from-%s to-%s: %w", source, sink, ctx.Err())
	case res := <-ch:
		if res.Shared {
			log.Debug("Shared an in-flight search")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Route), nil
	}
}

func (f *Finder) search(ctx context.Context, source, sink string) (route *Route, err error) {
	start := time.Now()
	pops := 0
	defer func() {
		outcome := outcomeFound
		switch {
		case errors.Is(err, ErrNotFound):
			outcome = outcomeNotFound
		case errors.Is(err, ErrNoRoute):
			outcome = outcomeNoRoute
		case err != nil:
			outcome = outcomeError
		}
		searchTotal.WithLabelValues(outcome).Inc()
		searchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		searchPops.Observe(float64(pops))
	}()

	log := logger.WithContext(ctx).WithFields(map[string]interface{}{"from": source, "to": sink})
	log.Debug("Searching shortest route")

	for _, code := range []string{source, sink} {
		if _, err := f.airports.Lookup(ctx, code); err != nil {
			if errors.Is(err, airports.ErrAirportNotFound) {
				return nil, &NotFoundError{Code: code}
			}
			return nil, err
		}
	}

	if err := f.graph.ensure(ctx); err != nil {
		return nil, err
	}

	if !f.graph.HasIncoming(source) && !f.graph.HasIncoming(sink) {
		log.Debug("Missing adjacency list for from and to airport")
		return nil, fmt.Errorf("%w: from-%s to-%s", ErrNoRoute, source, sink)
	}

	s := &searchState{
		finder:     f,
		source:     source,
		heuristics: make(map[string]int),
	}
	s.seed(ctx, sink)

	var found *entry
	for !s.queue.empty() {
		if pops%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("search from-%s to-%s: %w", source, sink, err)
			}
		}
		pops++

		cur := s.queue.shift()
		s.trace = append(s.trace, traceEntry{entry: cur})

		if len(cur.PathVia) > f.maxFlights {
			s.trace[len(s.trace)-1].Skipped = true
			continue
		}
		if cur.Node == source {
			found = cur
			break
		}
		s.expand(ctx, cur)
	}

	if found == nil {
		log.Info("Unable to find route within flight limit", "max_flights", f.maxFlights, "expanded", pops)
		return nil, fmt.Errorf("%w: from-%s to-%s", ErrNoRoute, source, sink)
	}

	best := s.trace.lastAccepted(source)
	codes := make([]string, 0, len(best.PathVia)+1)
	codes = append(codes, best.Node)
	for i := len(best.PathVia) - 1; i >= 0; i-- {
		codes = append(codes, best.PathVia[i])
	}

	route = &Route{
		AirportCodes: codes,
		DistanceKm:   best.Cost,
		RouteLength:  FormatDistance(best.Cost),
	}
	log.Debug("Resulting route", "route", route.AirportCodes, "length", route.RouteLength, "expanded", pops)

	f.cache.Put(ctx, source, sink, route)
	return route, nil
}

// FormatDistance renders kilometers the way the API reports them.
func FormatDistance(km int) string {
	return fmt.Sprintf("%dkm", km)
}

// searchState is private to one search.
type searchState struct {
	finder     *Finder
	source     string
	heuristics map[string]int
	queue      frontier
	trace      trace
}

// heuristic returns the straight-line distance from the search source to
// node, computed once per search.
func (s *searchState) heuristic(ctx context.Context, node string) (int, bool) {
	if h, ok := s.heuristics[node]; ok {
		return h, true
	}
	h, ok := s.finder.oracle.DistanceBetween(ctx, s.source, node)
	if !ok {
		return 0, false
	}
	s.heuristics[node] = h
	return h, true
}

// seed queues the direct predecessors of sink.
func (s *searchState) seed(ctx context.Context, sink string) {
	for _, node := range s.finder.graph.IncomingEdges(sink) {
		h, ok := s.heuristic(ctx, node)
		if !ok {
			continue
		}
		d, ok := s.finder.oracle.DistanceBetween(ctx, node, sink)
		if !ok {
			continue
		}
		s.queue.add(&entry{
			Node:    node,
			Cost:    d,
			PathVia: []string{sink},
			Score:   d + h,
		})
	}
}

// expand queues every predecessor of cur. Nodes already seen on other paths
// are queued again; the hop bound stops cycles.
func (s *searchState) expand(ctx context.Context, cur *entry) {
	for _, node := range s.finder.graph.IncomingEdges(cur.Node) {
		h, ok := s.heuristic(ctx, node)
		if !ok {
			continue
		}
		d, ok := s.finder.oracle.DistanceBetween(ctx, node, cur.Node)
		if !ok {
			continue
		}

		pathVia := make([]string, len(cur.PathVia), len(cur.PathVia)+1)
		copy(pathVia, cur.PathVia)
		pathVia = append(pathVia, cur.Node)

		cost := cur.Cost + d
		s.queue.add(&entry{
			Node:    node,
			Cost:    cost,
			PathVia: pathVia,
			Score:   cost + h,
		})
	}
}
