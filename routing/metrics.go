package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeNoRoute  = "no_route"
	outcomeError    = "error"
)

var (
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "airport_routes",
		Name:      "searches_total",
		Help:      "Shortest route searches by outcome",
	}, []string{"outcome"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "airport_routes",
		Name:      "search_duration_seconds",
		Help:      "Wall time of uncached shortest route searches",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"outcome"})

	searchPops = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "airport_routes",
		Name:      "search_frontier_pops",
		Help:      "Frontier entries popped per search",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	resultCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "airport_routes",
		Name:      "result_cache_lookups_total",
		Help:      "Route result cache lookups by result",
	}, []string{"result"})

	distanceMemoLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "airport_routes",
		Name:      "distance_memo_lookups_total",
		Help:      "Distance memo lookups by result",
	}, []string{"result"})
)
