package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchAttempts counts every request attempt per source and outcome kind
	FetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_fetch_attempts_total",
			Help: "Total number of upstream fetch attempts",
		},
		[]string{"source", "outcome"},
	)

	// FetchLatency tracks the duration of single attempts
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viewer_fetch_attempt_seconds",
			Help:    "Upstream fetch attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// BackoffSeconds accumulates time spent waiting between attempts
	BackoffSeconds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_fetch_backoff_seconds_total",
			Help: "Total time spent in retry backoff",
		},
		[]string{"source"},
	)

	// Navigations counts navigator actions by viewer, action and result
	Navigations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_navigations_total",
			Help: "Total number of navigation actions",
		},
		[]string{"viewer", "action", "result"},
	)

	// StandingsCache tracks cache hits and misses of the per-session index
	StandingsCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_standings_cache_total",
			Help: "Standings index cache lookups",
		},
		[]string{"result"},
	)

	// ActiveSessions is the number of sessions held in the store
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viewer_active_sessions",
			Help: "Number of live viewer sessions",
		},
	)
)
