package routing

import (
	"context"
	"errors"
	"time"

	"github.com/gilby125/airport-routes/pkg/cache"
	"github.com/gilby125/airport-routes/pkg/logger"
	"github.com/jellydator/ttlcache/v3"
)

// DefaultResultTTL is how long a found route stays cached.
const DefaultResultTTL = 15 * time.Minute

// ResultCache memoizes found routes by ordered (source, sink) pair.
type ResultCache interface {
	Get(ctx context.Context, source, sink string) (*Route, bool)
	Put(ctx context.Context, source, sink string, route *Route)
}

type routeKey struct {
	source string
	sink   string
}

// MemoryResultCache keeps routes in process memory. Get returns the same
// *Route that was stored. Reads do not extend an entry's lifetime.
type MemoryResultCache struct {
	entries *ttlcache.Cache[routeKey, *Route]
}

// NewMemoryResultCache creates an in-process cache with the given TTL.
// Expired entries stay in memory until PurgeExpired runs.
func NewMemoryResultCache(ttl time.Duration) *MemoryResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &MemoryResultCache{
		entries: ttlcache.New[routeKey, *Route](
			ttlcache.WithTTL[routeKey, *Route](ttl),
			ttlcache.WithDisableTouchOnHit[routeKey, *Route](),
		),
	}
}

func (c *MemoryResultCache) Get(_ context.Context, source, sink string) (*Route, bool) {
	item := c.entries.Get(routeKey{source: source, sink: sink})
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return item.Value(), true
}

func (c *MemoryResultCache) Put(_ context.Context, source, sink string, route *Route) {
	c.entries.Set(routeKey{source: source, sink: sink}, route, ttlcache.DefaultTTL)
}

// PurgeExpired drops expired routes and returns how many were removed.
func (c *MemoryResultCache) PurgeExpired() int {
	before := c.entries.Len()
	c.entries.DeleteExpired()
	return before - c.entries.Len()
}

// Len returns the number of stored routes.
func (c *MemoryResultCache) Len() int {
	return c.entries.Len()
}

// RedisResultCache stores routes as JSON in Redis so several replicas share
// results. Redis failures are logged and behave as misses.
type RedisResultCache struct {
	manager *cache.CacheManager
	ttl     time.Duration
}

// NewRedisResultCache wraps a cache manager.
func NewRedisResultCache(manager *cache.CacheManager, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &RedisResultCache{manager: manager, ttl: ttl}
}

func (c *RedisResultCache) Get(ctx context.Context, source, sink string) (*Route, bool) {
	var route Route
	err := c.manager.GetJSON(ctx, cache.RouteKey(source, sink), &route)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.WithContext(ctx).Error(err, "Route cache get error", "from", source, "to", sink)
		}
		return nil, false
	}
	return &route, true
}

func (c *RedisResultCache) Put(ctx context.Context, source, sink string, route *Route) {
	if err := c.manager.SetJSON(ctx, cache.RouteKey(source, sink), route, c.ttl); err != nil {
		logger.WithContext(ctx).Error(err, "Route cache set error", "from", source, "to", sink)
	}
}
