// Package metrics registers the Prometheus instruments for the HTTP
// suggestion surface and exposes the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placeserve_requests_total",
		Help: "Total number of /suggestions requests",
	})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "placeserve_request_duration_ms",
		Help:    "Suggestion request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	EmptyResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placeserve_empty_results_total",
		Help: "Total number of responses with no suggestions",
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placeserve_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
	IndexedNames = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "placeserve_indexed_names",
		Help: "Distinct name strings in the prefix index after the last build",
	})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDurationMs,
		EmptyResultsTotal,
		RateLimitedTotal,
		IndexedNames,
	)
}

// Handler returns the /metrics scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
