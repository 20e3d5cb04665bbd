// Package metrics defines the Prometheus collectors exported by dexgraph.
// promauto registers everything with the default registry, the server exposes
// it on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP requests by method, route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexgraph_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// Server response time per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dexgraph_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Live layout sessions held by the session manager.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dexgraph_sessions_active",
			Help: "Number of live layout sessions",
		},
	)

	// Simulation ticks run across all sessions.
	SimulationTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexgraph_simulation_ticks_total",
			Help: "Total number of simulation ticks run",
		},
	)

	// Kinetic energy of the most recently ticked session. A rough
	// convergence signal for dashboards.
	LayoutEnergy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dexgraph_layout_energy",
			Help: "Kinetic energy of the most recently ticked layout",
		},
	)

	// Sprite cache effectiveness.
	SpriteCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexgraph_sprite_cache_hits_total",
			Help: "Sprite requests served from the in-memory cache",
		},
	)
	SpriteCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dexgraph_sprite_cache_misses_total",
			Help: "Sprite requests that required a remote fetch",
		},
	)

	// Species records fetched from the remote API, labeled by outcome.
	SyncFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dexgraph_sync_fetches_total",
			Help: "Species fetches performed during sync runs",
		},
		[]string{"outcome"},
	)
)
