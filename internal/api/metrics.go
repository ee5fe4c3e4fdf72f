package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the service's Prometheus instruments.
type Metrics struct {
	requestsTotal *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	abstentions   prometheus.Counter
	wsClients     prometheus.Gauge
}

// NewMetrics registers the instruments on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "argus_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"path", "method"},
		),
		cycleDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "argus_refresh_cycle_duration_seconds",
				Help:    "Duration of refresh cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope"},
		),
		abstentions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "argus_panel_abstentions_total",
				Help: "Total number of analyst abstentions across evaluations",
			},
		),
		wsClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "argus_ws_clients",
				Help: "Number of connected realtime clients",
			},
		),
	}
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(path, method string) {
	m.requestsTotal.WithLabelValues(path, method).Inc()
}

// RecordCycle records one refresh cycle's duration.
func (m *Metrics) RecordCycle(scope string, d time.Duration) {
	m.cycleDuration.WithLabelValues(scope).Observe(d.Seconds())
}

// RecordAbstentions adds to the abstention counter.
func (m *Metrics) RecordAbstentions(n int) {
	if n > 0 {
		m.abstentions.Add(float64(n))
	}
}

// ClientConnected tracks a realtime client joining.
func (m *Metrics) ClientConnected() { m.wsClients.Inc() }

// ClientDisconnected tracks a realtime client leaving.
func (m *Metrics) ClientDisconnected() { m.wsClients.Dec() }
