// Package metrics defines the Prometheus metric collectors for the index
// toolchain and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	QueriesTotal  *prometheus.CounterVec
	QueryLatency  *prometheus.HistogramVec
	QueryResults  prometheus.Histogram
	DocsIndexed   prometheus.Gauge
	TermsIndexed  prometheus.Gauge
	ArtifactBytes *prometheus.GaugeVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queries_total",
				Help: "Total queries by kind (lookup, and, or, not, boolean) and status.",
			},
			[]string{"kind", "status"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "query_latency_seconds",
				Help:    "Query evaluation latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"kind"},
		),
		QueryResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "query_results_count",
				Help:    "Number of documents returned per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		DocsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "documents_indexed",
				Help: "Documents known to the loaded index.",
			},
		),
		TermsIndexed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "terms_indexed",
				Help: "Distinct terms in the loaded dictionary.",
			},
		),
		ArtifactBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "index_artifact_bytes",
				Help: "Compressed artifact sizes by artifact (lexicon, postings).",
			},
			[]string{"artifact"},
		),
	}

	prometheus.MustRegister(
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResults,
		m.DocsIndexed,
		m.TermsIndexed,
		m.ArtifactBytes,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
