// Package metrics holds the Prometheus collectors exported on GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ping outcomes recorded on heartbeat_pings_total.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Metrics is the service's collector set, bound to its own registry so tests
// can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Pings          *prometheus.CounterVec
	InsertDuration prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Pings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartbeat_pings_total",
			Help: "Pings received on POST /ping, by outcome.",
		}, []string{"result"}),
		InsertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heartbeat_ping_insert_duration_seconds",
			Help:    "Latency of the diagnostic_ping_data insert.",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartbeat_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		m.Pings,
		m.InsertDuration,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
