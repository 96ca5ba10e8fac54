package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "genehive"

// Metrics holds the Prometheus instruments for the API server.
// Instruments register against the default registry, so Init must run
// at most once per process.
type Metrics struct {
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration measures request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// SimulationsTotal counts completed risk simulations.
	SimulationsTotal prometheus.Counter

	// SimulationDuration measures end-to-end simulation latency.
	SimulationDuration prometheus.Histogram

	// RiskLevelsTotal counts calculated risks by level (high, moderate, low).
	RiskLevelsTotal *prometheus.CounterVec

	// LLMRequestsTotal counts completions by provider and outcome
	// (ok or fallback).
	LLMRequestsTotal *prometheus.CounterVec

	// CacheHits and CacheMisses mirror the response cache counters by
	// tier (memory, redis). Set from snapshots on each health probe.
	CacheHits   *prometheus.GaugeVec
	CacheMisses *prometheus.GaugeVec

	// ActiveWebsockets tracks open counselor chat sessions.
	ActiveWebsockets prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// Init registers the default metrics instance. Safe to call more than
// once; registration happens on the first call only.
func Init() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "http",
					Name:      "requests_total",
					Help:      "Total HTTP requests by method, route and status",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: metricsNamespace,
					Subsystem: "http",
					Name:      "request_duration_seconds",
					Help:      "HTTP request latency by method and route",
					Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
				[]string{"method", "route"},
			),
			SimulationsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "risk",
					Name:      "simulations_total",
					Help:      "Total completed risk simulations",
				},
			),
			SimulationDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: metricsNamespace,
					Subsystem: "risk",
					Name:      "simulation_duration_seconds",
					Help:      "Risk simulation latency",
					Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
				},
			),
			RiskLevelsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "risk",
					Name:      "levels_total",
					Help:      "Calculated risks by level",
				},
				[]string{"level"},
			),
			LLMRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: "llm",
					Name:      "requests_total",
					Help:      "LLM completions by provider and outcome",
				},
				[]string{"provider", "outcome"},
			),
			CacheHits: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: metricsNamespace,
					Subsystem: "llm",
					Name:      "cache_hits",
					Help:      "Response cache hits by tier",
				},
				[]string{"tier"},
			),
			CacheMisses: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: metricsNamespace,
					Subsystem: "llm",
					Name:      "cache_misses",
					Help:      "Response cache misses by tier",
				},
				[]string{"tier"},
			),
			ActiveWebsockets: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: metricsNamespace,
					Subsystem: "http",
					Name:      "active_websockets",
					Help:      "Open websocket chat sessions",
				},
			),
		}
	})
	return defaultMetrics
}
