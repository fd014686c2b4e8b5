package routing

import (
	"context"
	"fmt"
	"sync"

	"github.com/gilby125/airport-routes/dataset"
	"github.com/gilby125/airport-routes/pkg/logger"
)

// RouteLoader supplies route rows. dataset.Source satisfies it.
type RouteLoader interface {
	Routes(ctx context.Context) ([]dataset.Route, error)
}

// Graph is the reversed route adjacency: for each destination, the distinct
// airports with a direct route into it, in first-seen order. It is built once
// and read-only afterwards.
type Graph struct {
	loader RouteLoader

	mu       sync.RWMutex
	built    bool
	incoming map[string][]string
}

// NewGraph creates an unbuilt graph backed by loader.
func NewGraph(loader RouteLoader) *Graph {
	return &Graph{loader: loader}
}

// Build loads the routes and indexes them. Calling it again is a no-op.
func (g *Graph) Build(ctx context.Context) error {
	if g.Built() {
		logger.Warn("Adjacency list already exists")
		return nil
	}
	return g.build(ctx)
}

func (g *Graph) ensure(ctx context.Context) error {
	if g.Built() {
		return nil
	}
	return g.build(ctx)
}

func (g *Graph) build(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.built {
		return nil
	}

	logger.Info("Initializing adjacency list")
	routes, err := g.loader.Routes(ctx)
	if err != nil {
		return fmt.Errorf("load routes: %w", err)
	}

	incoming := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, r := range routes {
		sources, ok := seen[r.Destination]
		if !ok {
			sources = make(map[string]struct{})
			seen[r.Destination] = sources
		}
		if _, dup := sources[r.Source]; dup {
			continue
		}
		sources[r.Source] = struct{}{}
		incoming[r.Destination] = append(incoming[r.Destination], r.Source)
	}

	g.incoming = incoming
	g.built = true
	logger.Info("Adjacency list created", "size", len(incoming), "routes", len(routes))
	return nil
}

// IncomingEdges returns the airports with a direct route into code. The slice
// is shared and must not be modified.
func (g *Graph) IncomingEdges(code string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.incoming[code]
}

// HasIncoming reports whether any route arrives at code.
func (g *Graph) HasIncoming(code string) bool {
	return len(g.IncomingEdges(code)) > 0
}

// Size returns the number of destinations with at least one inbound route.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.incoming)
}

// Built reports whether the graph has been built.
func (g *Graph) Built() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.built
}
