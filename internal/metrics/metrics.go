// Package metrics holds the Prometheus collectors shared by the simulator and
// the optimistic-update controller.
//
// Collectors are registered on the Registerer handed to New rather than the
// global default registry, so tests can build as many instances as they need.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "talentflow"

// Outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
	OutcomeCommitted    = "committed"
	OutcomeRolledBack   = "rolled_back"
)

// Metrics groups every collector.
type Metrics struct {
	simulatedCalls   *prometheus.CounterVec
	simulatedLatency *prometheus.HistogramVec
	attempts         *prometheus.CounterVec
	pending          prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		simulatedCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_calls_total",
			Help:      "Number of simulated service calls by outcome",
		}, []string{"op", "outcome"}),
		simulatedLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulated_latency_seconds",
			Help:      "Injected latency of simulated service calls",
			Buckets:   []float64{0.1, 0.2, 0.4, 0.6, 0.8, 1.0, 1.2, 2.0},
		}, []string{"op"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimistic_attempts_total",
			Help:      "Optimistic mutation attempts by intent and outcome",
		}, []string{"intent", "outcome"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "optimistic_pending",
			Help:      "Optimistic mutation attempts currently in flight",
		}),
	}
	reg.MustRegister(m.simulatedCalls, m.simulatedLatency, m.attempts, m.pending)
	return m
}

// ObserveCall records one simulated call.
func (m *Metrics) ObserveCall(op, outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.simulatedCalls.WithLabelValues(op, outcome).Inc()
	m.simulatedLatency.WithLabelValues(op).Observe(latency.Seconds())
}

// AttemptStarted marks an optimistic attempt as pending.
func (m *Metrics) AttemptStarted() {
	if m == nil {
		return
	}
	m.pending.Inc()
}

// AttemptFinished records the outcome of an optimistic attempt.
func (m *Metrics) AttemptFinished(intent, outcome string) {
	if m == nil {
		return
	}
	m.pending.Dec()
	m.attempts.WithLabelValues(intent, outcome).Inc()
}
