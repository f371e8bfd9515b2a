// Package metrics exposes Prometheus metrics and health probes over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the RPC collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a private registry with the Go and process collectors plus
// the RPC metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_rpc_requests_total",
				Help: "Total number of RPCs by method and status code",
			},
			[]string{"method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophauth_rpc_duration_seconds",
				Help:    "RPC latency by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// ObserveRPC records one finished call.
func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Registry is what /metrics serves.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
