// Package metrics provides Prometheus metrics for pipeline runs. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes.
const (
	OutcomeDecided  = "decided"
	OutcomeDeferred = "deferred"
	OutcomeDefault  = "default"
)

// Metrics provides observability for the pipeline.
type Metrics struct {
	// Runs by outcome: decided, deferred, default
	Runs *prometheus.CounterVec

	// Stage latencies by stage name
	StageLatency *prometheus.HistogramVec

	// Combined uncertainty of each completed run
	Uncertainty prometheus.Histogram

	// Ranked inferences per run
	Inferences prometheus.Histogram

	// Actions rewritten by the ethical gate
	GateRewrites prometheus.Counter
}

// New creates the pipeline metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "carnerd_runs_total",
			Help: "Total pipeline runs by outcome",
		}, []string{"outcome"}),

		StageLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carnerd_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"stage"}),

		Uncertainty: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "carnerd_uncertainty",
			Help:    "Combined uncertainty of completed runs",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),

		Inferences: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "carnerd_inferences",
			Help:    "Number of ranked inferences per run",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 10, 15, 20},
		}),

		GateRewrites: f.NewCounter(prometheus.CounterOpts{
			Name: "carnerd_gate_rewrites_total",
			Help: "Decisions rewritten by the ethical gate",
		}),
	}
}

// IncrementRun records a run outcome.
func (m *Metrics) IncrementRun(outcome string) {
	if m != nil {
		m.Runs.WithLabelValues(outcome).Inc()
	}
}

// ObserveStage records the duration of a stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// ObserveUncertainty records the combined uncertainty of a run.
func (m *Metrics) ObserveUncertainty(u float64) {
	if m != nil {
		m.Uncertainty.Observe(u)
	}
}

// ObserveInferences records the number of ranked inferences of a run.
func (m *Metrics) ObserveInferences(n int) {
	if m != nil {
		m.Inferences.Observe(float64(n))
	}
}

// IncrementGateRewrite records an action rewritten by the ethical gate.
func (m *Metrics) IncrementGateRewrite() {
	if m != nil {
		m.GateRewrites.Inc()
	}
}
