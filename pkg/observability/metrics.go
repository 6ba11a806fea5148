package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine collectors on a private registry, so several
// engines (or tests) do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	traces      *prometheus.CounterVec
	failures    *prometheus.CounterVec
	stateVisits *prometheus.CounterVec
	steps       prometheus.Counter
	traceSteps  prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twoway_traces_total",
				Help: "Total number of finished traces by verdict",
			},
			[]string{"verdict"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twoway_trace_failures_total",
				Help: "Total number of failed traces by execution error kind",
			},
			[]string{"kind"},
		),
		stateVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "twoway_state_visits_total",
				Help: "Total number of steps entering each state",
			},
			[]string{"state"},
		),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twoway_steps_total",
			Help: "Total number of applied transitions",
		}),
		traceSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "twoway_trace_steps",
			Help:    "Number of steps taken by halted traces",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	m.registry.MustRegister(m.traces, m.failures, m.stateVisits, m.steps, m.traceSteps)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.steps.Inc()
			m.stateVisits.WithLabelValues(e.Observation.State).Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.traces.WithLabelValues(string(e.Outcome.Verdict)).Inc()
			m.traceSteps.Observe(float64(e.Outcome.Steps))
		},
		OnFail: func(_ context.Context, e *domain.FailEvent) {
			m.traces.WithLabelValues(string(domain.VerdictError)).Inc()
			kind := "unknown"
			var ee *domain.ExecutionError
			if errors.As(e.Err, &ee) {
				kind = string(ee.Kind)
			}
			m.failures.WithLabelValues(kind).Inc()
		},
	}
}

// Registry exposes the underlying registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
