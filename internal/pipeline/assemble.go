package pipeline

import (
	"carnerd/internal/config"
	"carnerd/internal/judgment"
	"carnerd/internal/types"
)

// assemble builds the caller-facing result from a completed run.
func (e *Engine) assemble(data types.ProcessedData, resolution *types.AntinomyResolutionResult) types.CARResult {
	rs := *data.Reasoning
	cr := *data.Critique

	decision := rs.Decision
	ea := rs.EthicalAnalysis
	u := cr.Uncertainty

	res := types.CARResult{
		RunID:                   data.Metadata.RunID,
		Decision:                decision.Action,
		Reasoning:               decision.Reasoning,
		Confidence:              e.confidence(cr.Confidence),
		ConfidenceLevel:         cr.ConfidenceLevel,
		UncertaintyFactors:      u.Factors,
		EpistemicLimitations:    cr.EpistemicLimitations,
		MetacognitiveReflection: cr.MetacognitiveReflection,
		AntinomyResolution:      resolution,
		DecisionDetail:          &decision,
		Inferences:              rs.Inferences,
		EthicalAnalysis:         &ea,
		CategoricalImperative:   rs.CategoricalImperative,
		Uncertainty:             &u,
		ProcessingHistory:       data.Metadata.History.Stages(),
	}

	if e.cfg.EnabledModules.Schematism && data.Categorized != nil {
		res.Schemata = judgment.Schematize(data.Sensibility, *data.Categorized)
	}
	if e.cfg.EnabledModules.AestheticJudgment {
		a := judgment.Assess(rs, e.cfg.Reason.Decision.InferenceConfidenceThreshold)
		res.Aesthetic = &a
	}
	return res
}

// confidence presents v numerically or as a label, per the configured output.
func (e *Engine) confidence(v float64) types.Confidence {
	v = types.Clamp(v, 0, 1)
	if e.cfg.ConfidenceOutput == config.OutputCategorical {
		return types.Confidence{Value: v, Label: e.cfg.ConfidenceThresholds.Label(v)}
	}
	return types.Confidence{Value: v, Numeric: true}
}
