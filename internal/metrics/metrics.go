// Package metrics exposes Prometheus collectors for the ingestion pipeline
// and the API server. Collectors are registered on the default registry and
// served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbstats_source_calls_total",
			Help: "Total number of stats provider API calls",
		},
		[]string{"endpoint", "status"},
	)

	SourceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nbstats_source_call_duration_seconds",
			Help:    "Duration of stats provider API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PopulateOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbstats_populate_items_total",
			Help: "Items handled by populators, by outcome",
		},
		[]string{"populator", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nbstats_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

// RecordSourceCall records one provider API call.
func RecordSourceCall(endpoint, status string, duration float64) {
	SourceCallsTotal.WithLabelValues(endpoint, status).Inc()
	SourceCallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordPopulate records n items with the given outcome for a populator.
func RecordPopulate(populator, outcome string, n int) {
	if n > 0 {
		PopulateOutcomes.WithLabelValues(populator, outcome).Add(float64(n))
	}
}
