package pipeline

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"carnerd/internal/ethics"
	"carnerd/internal/metrics"
)

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithLogger sets the base logger. Stage loggers are named children of it,
// filtered by the configured logging categories.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.base = logger
	}
}

// WithMetrics records run metrics. Without it nothing is recorded.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer replaces the global "carnerd.pipeline" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithGate substitutes the ethical gate applied to synthesized actions.
func WithGate(g ethics.Gate) Option {
	return func(e *Engine) {
		e.gate = g
	}
}

// WithSource sets the source recorded in run metadata.
func WithSource(source string) Option {
	return func(e *Engine) {
		if source != "" {
			e.source = source
		}
	}
}
