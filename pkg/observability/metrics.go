// Package observability provides Prometheus metrics for monitoring
// ryst SDK calls.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts API calls by endpoint and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryst_requests_total",
			Help: "Total API requests",
		},
		[]string{"endpoint", "status"},
	)

	// RequestDuration records API call duration in seconds by endpoint.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ryst_request_duration_seconds",
			Help:    "API request duration",
			Buckets: LLMBuckets,
		},
		[]string{"endpoint"},
	)

	// TokensTotal counts tokens reported in usage summaries by direction
	// (prompt/completion).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryst_tokens_total",
			Help: "Token count",
		},
		[]string{"endpoint", "direction"},
	)

	// StreamsActive tracks the number of open response streams.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ryst_streams_active",
			Help: "Open response streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TokensTotal,
		StreamsActive,
	)
}
