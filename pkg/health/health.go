package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthReport represents the overall health of the application
type HealthReport struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// Sized is implemented by the airport directory and the route graph.
type Sized interface {
	Size() int
}

// DirectoryState is the part of the airport directory a checker needs.
type DirectoryState interface {
	Sized
	Initialized() bool
}

// GraphState is the part of the route graph a checker needs.
type GraphState interface {
	Sized
	Built() bool
}

// DirectoryChecker reports whether airport data is loaded and non-empty.
type DirectoryChecker struct {
	Directory DirectoryState
	Name      string
}

func (c *DirectoryChecker) Check(ctx context.Context) Check {
	check := newCheck(c.Name)
	size := c.Directory.Size()
	check.Details["airports"] = fmt.Sprintf("%d", size)

	switch {
	case !c.Directory.Initialized():
		check.Status = StatusDown
		check.Message = "Airport data not initialized"
	case size == 0:
		check.Status = StatusDown
		check.Message = "Airport data is empty"
	default:
		check.Status = StatusUp
		check.Message = "Airport data loaded"
	}
	check.Duration = time.Since(check.Timestamp)
	return check
}

// GraphChecker reports whether the route adjacency has been built.
type GraphChecker struct {
	Graph GraphState
	Name  string
}

func (c *GraphChecker) Check(ctx context.Context) Check {
	check := newCheck(c.Name)
	size := c.Graph.Size()
	check.Details["destinations"] = fmt.Sprintf("%d", size)

	if !c.Graph.Built() {
		check.Status = StatusDown
		check.Message = "Adjacency list not built"
	} else {
		check.Status = StatusUp
		check.Message = "Adjacency list built"
	}
	check.Duration = time.Since(check.Timestamp)
	return check
}

// Pinger is implemented by the database-backed dataset sources.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DataSourceChecker checks connectivity of a database-backed dataset source.
type DataSourceChecker struct {
	Source Pinger
	Name   string
}

func (c *DataSourceChecker) Check(ctx context.Context) Check {
	check := newCheck(c.Name)

	err := c.Source.Ping(ctx)
	duration := time.Since(check.Timestamp)
	check.Duration = duration

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Data source connection failed: %v", err)
		check.Details["error"] = err.Error()
	} else {
		check.Status = StatusUp
		check.Message = "Data source connection successful"
		check.Details["response_time"] = duration.String()
	}
	return check
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	check := newCheck(c.Name)

	// Test Redis connectivity with ping
	pong, err := c.Client.Ping(ctx).Result()
	duration := time.Since(check.Timestamp)
	check.Duration = duration

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("Redis connection failed: %v", err)
		check.Details["error"] = err.Error()
	} else {
		check.Status = StatusUp
		check.Message = "Redis connection successful"
		check.Details["response_time"] = duration.String()
		check.Details["ping_response"] = pong
	}

	return check
}

func newCheck(name string) Check {
	return Check{
		Name:      name,
		Timestamp: time.Now(),
		Details:   make(map[string]string),
	}
}

// HealthChecker orchestrates multiple health checks
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		checkers:  make([]Checker, 0),
		version:   version,
		startTime: time.Now(),
	}
}

// AddChecker adds a health checker
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

// CheckHealth performs all health checks
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	return h.run(ctx, h.checkers)
}

// CheckReadiness only runs the checks the route endpoints cannot work
// without: airport data and the adjacency list.
func (h *HealthChecker) CheckReadiness(ctx context.Context) HealthReport {
	readinessCheckers := make([]Checker, 0)
	for _, checker := range h.checkers {
		switch checker.(type) {
		case *DirectoryChecker, *GraphChecker:
			readinessCheckers = append(readinessCheckers, checker)
		}
	}
	return h.run(ctx, readinessCheckers)
}

// CheckLiveness performs liveness checks (basic application health)
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: time.Now(),
			},
		},
		Uptime: time.Since(h.startTime),
	}
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) HealthReport {
	checks := make(map[string]Check)
	overallStatus := StatusUp

	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check

		// If any check fails, overall status is down
		if check.Status == StatusDown {
			overallStatus = StatusDown
		}
	}

	return HealthReport{
		Status:    overallStatus,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}
