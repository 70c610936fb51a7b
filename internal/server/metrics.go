package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	injectedFailures prometheus.Counter
	rateLimited      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelfd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds, including injected latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelfd_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		injectedFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shelfd_injected_failures_total",
				Help: "API responses failed on purpose by the failure rate setting",
			},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shelfd_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
		m.injectedFailures,
		m.rateLimited,
	)
	return m
}
