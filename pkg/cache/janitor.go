package cache

import (
	"fmt"

	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Purger drops expired entries and reports how many went.
type Purger interface {
	PurgeExpired() int
}

// StartJanitor schedules periodic purges of the given caches. spec is a cron
// expression or descriptor such as "@every 5m". The caller stops the returned
// scheduler on shutdown.
func StartJanitor(spec string, purgers ...Purger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		purgeAll(purgers)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cache sweep schedule %q: %w", spec, err)
	}
	c.Start()
	logger.Info("Cache janitor started", "schedule", spec, "caches", len(purgers))
	return c, nil
}

func purgeAll(purgers []Purger) int {
	total := 0
	for _, p := range purgers {
		total += p.PurgeExpired()
	}
	if total > 0 {
		logger.Debug("Purged expired cache entries", "count", total)
	}
	return total
}
