// Package critique examines a finished reasoning run: it detects the limits of
// what the run can know, quantifies its uncertainty, and reflects on the
// quality and calibration of its confidence.
package critique

import (
	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/perception"
	"carnerd/internal/types"
)

// Engine runs the critique stage.
type Engine struct {
	cfg    config.CritiqueConfig
	domain string
	logger *zap.Logger
}

// NewEngine creates a critique engine for the configured domain.
func NewEngine(cfg config.CritiqueConfig, domain string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, domain: domain, logger: logger}
}

// Critique adds the critique output to data and records the stage.
func (e *Engine) Critique(data types.ProcessedData) types.ProcessedData {
	out := e.Evaluate(e.contextOf(data))
	next := data.Advance(types.StageCritique)
	next.Critique = &out
	return next
}

func (e *Engine) contextOf(data types.ProcessedData) LimitContext {
	ctx := LimitContext{Domain: e.domain, History: data.Metadata.History}
	if data.Sensibility != nil {
		ctx.Input = types.Serialize(data.Sensibility.Input)
		ctx.Features = data.Sensibility.Features
		ctx.Patterns = data.Sensibility.Patterns()
		ctx.Detected = perception.DetectedDomains(ctx.Features)
	}
	if data.Categorized != nil {
		ctx.Categorized = *data.Categorized
	}
	if data.Reasoning != nil {
		ctx.Reasoning = *data.Reasoning
	}
	return ctx
}

// Evaluate critiques the reasoning held in ctx.
func (e *Engine) Evaluate(ctx LimitContext) types.CritiqueOutput {
	limits := DetectEpistemicLimits(e.cfg.EpistemicAnalysis, ctx)
	u := QuantifyUncertainty(e.cfg.UncertaintyQuantification, Subject{
		Inferences:  ctx.Reasoning.Inferences,
		Decision:    ctx.Reasoning.Decision,
		Limitations: limits,
	})

	raw := types.Clamp(1-u.Value, 0, 1)
	r := Reflect(e.cfg.MetacognitiveReflection, ctx.Reasoning, limits, raw)

	reported := raw
	if e.cfg.Confidence.UseCalibratedConfidence {
		reported = r.Calibrated
	}
	out := types.CritiqueOutput{
		EpistemicLimitations:    limits,
		Uncertainty:             u,
		Confidence:              reported,
		CalibratedConfidence:    r.Calibrated,
		ConfidenceLevel:         e.cfg.Confidence.Thresholds.Level(reported),
		MetacognitiveReflection: r.Narrative,
		Biases:                  r.Biases,
	}

	e.logger.Debug("critique complete",
		zap.Int("limitations", len(limits)),
		zap.Float64("uncertainty", u.Value),
		zap.Float64("confidence", reported),
		zap.String("level", out.ConfidenceLevel))
	return out
}
