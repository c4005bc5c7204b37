// Package telemetry registers the application's Prometheus collectors.
//
// All metrics use the default registry and are served by the side-channel
// metrics listener started in main (default port 9090, /metrics, Prometheus
// text exposition format). HTTP metrics are labelled by the chi route
// template (e.g. /api/snippets/{id}), never the raw URL, so user-supplied
// path segments cannot blow up label cardinality.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route template,
	// and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route
	// template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// AuditedMutationsTotal counts committed audited operations by action
	// and target model. Because the audit append and the mutation commit
	// together, this counter tracks the audit table's growth exactly.
	AuditedMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audited_mutations_total",
			Help: "Total number of committed audited mutations, by action and target model.",
		},
		[]string{"action", "model"},
	)
)
