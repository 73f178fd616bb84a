package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by generation
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webedge_cache_hits_total",
			Help: "Total number of shell cache hits",
		},
		[]string{"generation"},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webedge_cache_misses_total",
			Help: "Total number of shell cache misses",
		},
	)

	// CacheSize tracks bytes written by generation
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "webedge_cache_size_bytes",
			Help: "Bytes written to the shell cache",
		},
		[]string{"generation"},
	)

	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webedge_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "put", "delete", "generations", "drop"
	)

	// GenerationsDropped tracks superseded generations purged on activation
	GenerationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webedge_cache_generations_dropped_total",
			Help: "Total number of superseded cache generations purged",
		},
	)
)
