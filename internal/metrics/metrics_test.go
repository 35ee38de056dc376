package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRun(OutcomeDecided)
		m.ObserveStage("reason", time.Millisecond)
		m.ObserveUncertainty(0.4)
		m.ObserveInferences(3)
		m.IncrementGateRewrite()
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementRun(OutcomeDecided)
	m.IncrementRun(OutcomeDecided)
	m.IncrementRun(OutcomeDeferred)
	m.IncrementGateRewrite()
	m.ObserveStage("critique", 2*time.Millisecond)
	m.ObserveUncertainty(0.35)
	m.ObserveInferences(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeDecided)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeDeferred)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Runs.WithLabelValues(OutcomeDefault)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateRewrites))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"carnerd_runs_total",
		"carnerd_stage_duration_seconds",
		"carnerd_uncertainty",
		"carnerd_inferences",
		"carnerd_gate_rewrites_total",
	} {
		assert.True(t, names[want], want)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
