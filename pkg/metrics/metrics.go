// Package metrics defines the Prometheus metric collectors for the build and
// query phases and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	QueriesTotal     *prometheus.CounterVec
	QueryLatency     *prometheus.HistogramVec
	QueryHits        prometheus.Histogram
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	TotalTokens      prometheus.Gauge
	DocsIndexed      prometheus.Gauge
	UniqueTerms      prometheus.Gauge
	BuildDuration    prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boolsearch_queries_total",
				Help: "Total queries by outcome (ok, parse_error, zero_result).",
			},
			[]string{"outcome"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boolsearch_query_latency_seconds",
				Help:    "Boolean query evaluation latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		QueryHits: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "boolsearch_query_hits",
				Help:    "Number of matching documents per query.",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 10000},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "boolsearch_cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "boolsearch_cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
		TotalTokens: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "boolsearch_total_tokens",
				Help: "Total token count recorded in the loaded index metadata.",
			},
		),
		DocsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "boolsearch_documents",
				Help: "Document count of the built or loaded index.",
			},
		),
		UniqueTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "boolsearch_unique_terms",
				Help: "Unique term count of the built or loaded index.",
			},
		),
		BuildDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "boolsearch_build_duration_seconds",
				Help: "Wall-clock duration of the last index build.",
			},
		),
	}

	prometheus.MustRegister(
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryHits,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.TotalTokens,
		m.DocsIndexed,
		m.UniqueTerms,
		m.BuildDuration,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
