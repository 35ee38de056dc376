// Package reason is the inference engine: it generates typed inferences from
// category analyses, assesses them ethically, and synthesizes a decision that
// is finally checked by an ethics.Gate.
package reason

import (
	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/ethics"
	"carnerd/internal/perception"
	"carnerd/internal/types"
)

// GateConfidenceFactor scales decision confidence when the gate rewrites the action.
const GateConfidenceFactor = 0.9

// Engine runs the reason stage.
type Engine struct {
	cfg    config.ReasonConfig
	domain string
	gate   ethics.Gate
	logger *zap.Logger
}

// NewEngine creates an inference engine. A nil gate selects the categorical
// imperative configured in cfg.Ethics.
func NewEngine(cfg config.ReasonConfig, domain string, gate ethics.Gate, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gate == nil {
		gate = ethics.NewImperative(cfg.Ethics.CategoricalImperative, logger)
	}
	return &Engine{cfg: cfg, domain: domain, gate: gate, logger: logger}
}

// Reason adds the reasoning output to data and records the stage.
func (e *Engine) Reason(data types.ProcessedData) types.ProcessedData {
	in := Input{Domain: e.domain}
	if data.Categorized != nil {
		in.Categorized = *data.Categorized
	}
	if data.Sensibility != nil {
		in.Features = data.Sensibility.Features
		in.Patterns = data.Sensibility.Patterns()
		in.Detected = perception.DetectedDomains(in.Features)
	}

	out := e.Infer(in)
	next := data.Advance(types.StageReason)
	next.Reasoning = &out
	return next
}

// Infer generates inferences, assesses them and synthesizes a decision.
func (e *Engine) Infer(in Input) types.ReasoningOutput {
	infs := GenerateInferences(e.cfg.Inference, in)
	if infs == nil {
		infs = []types.Inference{}
	}
	ea := Assess(e.cfg.Ethics, infs, in.Categorized)
	decision := Synthesize(e.cfg.Decision, infs, ea)

	out := types.ReasoningOutput{Inferences: infs, EthicalAnalysis: ea}
	if decision.Action != DefaultAction {
		if e.cfg.Ethics.EnableCategoricalImperative {
			res := e.gate.Evaluate(decision.Action)
			out.CategoricalImperative = &res
			if !res.Passes && res.AlternativeAction != "" {
				e.logger.Debug("decision rewritten by ethical gate",
					zap.String("original", decision.Action),
					zap.String("rewritten", res.AlternativeAction))
				decision.Action = res.AlternativeAction
				decision.Reasoning += ". " + res.Explanation
				decision.Confidence = types.Clamp(decision.Confidence*GateConfidenceFactor,
					MinDecisionConfidence, MaxDecisionConfidence)
			}
		}
		decision.Alternatives = Alternatives(e.cfg.Decision, decision.Action, infs, ea)
		decision.ExpectedOutcomes = ExpectedOutcomes(infs, ea)
	}
	out.Decision = decision

	e.logger.Debug("reasoning complete",
		zap.Int("inferences", len(infs)),
		zap.String("action", decision.Action),
		zap.Float64("confidence", decision.Confidence))
	return out
}
