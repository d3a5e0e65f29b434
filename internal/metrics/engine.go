package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine Prometheus metrics.
var (
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solrdex",
			Name:      "engine_requests_total",
			Help:      "Total number of search engine requests",
		},
		[]string{"handler", "status"},
	)

	EngineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solrdex",
			Name:      "engine_request_duration_seconds",
			Help:      "Search engine request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"handler"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(EngineRequestsTotal)
	prometheus.MustRegister(EngineRequestDuration)
	engineMetricsRegistered = true
}

// ObserveEngineRequest records one engine round trip. status is the HTTP
// status code, or "unavailable" for connection failures.
func ObserveEngineRequest(handler, status string, seconds float64) {
	EngineRequestsTotal.WithLabelValues(handler, status).Inc()
	EngineRequestDuration.WithLabelValues(handler).Observe(seconds)
}
