package generation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rejection reasons reported by sitecraft_generation_rejected_total.
const (
	reasonInFlight = "in_flight"
	reasonInvalid  = "invalid"
	reasonNoCode   = "no_code"
)

// Metrics holds Prometheus metrics for the orchestrator.
//
// Metrics:
//   - sitecraft_generation_duration_seconds{kind,outcome} - request latency
//   - sitecraft_generation_requests_total{kind,outcome} - finished requests
//   - sitecraft_generation_rejected_total{kind,reason} - requests refused before any network call
type Metrics struct {
	Duration *prometheus.HistogramVec
	Requests *prometheus.CounterVec
	Rejected *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitecraft_generation_duration_seconds",
				Help:    "Duration of generate and regenerate requests in seconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
			},
			[]string{"kind", "outcome"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitecraft_generation_requests_total",
				Help: "Total number of finished generation requests",
			},
			[]string{"kind", "outcome"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitecraft_generation_rejected_total",
				Help: "Total number of generation requests rejected locally",
			},
			[]string{"kind", "reason"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Duration, m.Requests, m.Rejected)
	}
	return m
}

func (m *Metrics) observe(kind string, outcome string, d time.Duration) {
	m.Duration.WithLabelValues(kind, outcome).Observe(d.Seconds())
	m.Requests.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) reject(kind string, reason string) {
	m.Rejected.WithLabelValues(kind, reason).Inc()
}
