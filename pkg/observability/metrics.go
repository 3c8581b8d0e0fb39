package observability

import (
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by session hooks.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	MemoryOps   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_evaluations_total",
				Help: "Total number of evaluations by type, outcome and error kind",
			},
			[]string{"type", "outcome", "kind"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abacus_evaluation_duration_seconds",
				Help:    "Duration of the tokenize, parse and evaluate pipeline",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
			[]string{"type"},
		),
		MemoryOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_memory_operations_total",
				Help: "Total number of memory register commands",
			},
			[]string{"op", "applied"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Evaluations, m.Duration, m.MemoryOps)
	}
	return m
}

// Hooks returns session hooks that record into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnEvaluate: func(e *domain.EvalEvent) {
			outcome := "ok"
			if e.Kind != domain.KindNone {
				outcome = "error"
			}
			m.Evaluations.WithLabelValues(string(e.Type), outcome, string(e.Kind)).Inc()
			m.Duration.WithLabelValues(string(e.Type)).Observe(e.Duration.Seconds())
		},
		OnMemory: func(e *domain.MemoryEvent) {
			applied := "false"
			if e.Applied {
				applied = "true"
			}
			m.MemoryOps.WithLabelValues(e.Op, applied).Inc()
		},
	}
}
