package critique

import (
	"fmt"
	"math"
	"strings"

	"carnerd/internal/config"
	"carnerd/internal/domains"
	"carnerd/internal/types"
	"carnerd/internal/understanding"
)

// NoLimitations is the sentinel reported when no detector found anything.
const NoLimitations = "No specific limitations detected within the analysed scope"

// LimitContext is what the limitation detectors inspect.
type LimitContext struct {
	// Input is the serialized pipeline input.
	Input       string
	Domain      string
	Detected    []string
	Features    []types.Feature
	Patterns    []types.Pattern
	Categorized types.CategorizedData
	Reasoning   types.ReasoningOutput
	History     types.History
}

type detector struct {
	enabled func(config.EpistemicAnalysisConfig) bool
	detect  func(LimitContext) []string
}

var detectors = []detector{
	{func(c config.EpistemicAnalysisConfig) bool { return c.EnableBoundaryDetection }, boundaryLimits},
	{func(c config.EpistemicAnalysisConfig) bool { return c.EnableDomainLimitations }, domainLimits},
	{func(c config.EpistemicAnalysisConfig) bool { return c.EnableStructuralLimitations }, structuralLimits},
	{func(c config.EpistemicAnalysisConfig) bool { return c.EnableTemporalLimitations }, temporalLimits},
	{func(c config.EpistemicAnalysisConfig) bool { return c.EnableProcessingCheck }, processingLimits},
	{func(c config.EpistemicAnalysisConfig) bool { return c.EnableInferenceQuality }, inferenceQualityLimits},
}

// DetectEpistemicLimits runs the enabled detectors and returns their findings
// without duplicates, or the single NoLimitations sentinel.
func DetectEpistemicLimits(cfg config.EpistemicAnalysisConfig, ctx LimitContext) []string {
	var out []string
	for _, d := range detectors {
		if d.enabled(cfg) {
			out = append(out, d.detect(ctx)...)
		}
	}
	out = types.Dedupe(out)
	if len(out) == 0 {
		return []string{NoLimitations}
	}
	return out
}

// =============================================================================
// BOUNDARIES
// =============================================================================

var (
	metaphysicalTerms = []string{
		"god", "soul", "free will", "afterlife", "meaning of life", "consciousness",
		"infinite", "eternal", "immortal", "immortality", "destiny", "the universe",
	}
	totalizingTerms   = []string{"always", "never", "all cases", "every case", "without exception", "universally", "in all circumstances"}
	necessaryExisting = []string{"must exist", "necessarily exists", "cannot not exist", "necessary being"}
	ultimateCauses    = []string{"first cause", "ultimate cause", "ultimate reason", "origin of everything", "uncaused"}
)

func boundaryLimits(ctx LimitContext) []string {
	text := normalize(ctx.Input + "\n" + inferenceText(ctx.Reasoning.Inferences))
	var out []string
	if found := mentions(text, metaphysicalTerms...); len(found) > 0 {
		out = append(out, "Question touches metaphysical concepts beyond empirical knowledge: "+strings.Join(found, ", "))
	}
	if len(mentions(text, totalizingTerms...)) > 0 {
		out = append(out, "Totalizing language exceeds what finite evidence can support")
	}
	if len(mentions(text, necessaryExisting...)) > 0 {
		out = append(out, "Claims of necessary existence cannot be established from experience")
	}
	if len(mentions(text, ultimateCauses...)) > 0 {
		out = append(out, "Ultimate causes lie beyond the chain of observable causes")
	}
	return out
}

func inferenceText(infs []types.Inference) string {
	parts := make([]string, len(infs))
	for i, inf := range infs {
		parts[i] = inf.Inference
	}
	return joinLines(parts)
}

// =============================================================================
// DOMAIN
// =============================================================================

type domainRule struct {
	always   []string
	triggers []string
	triggered string
}

// Domains without an extension keep their limitation rules here.
var domainRules = map[string]domainRule{
	"finance": {
		always:    []string{"Financial conclusions are sensitive to market conditions not captured in the input"},
		triggers:  []string{"investment", "portfolio", "stock", "loan"},
		triggered: "Input does not establish individual risk tolerance or investment horizon",
	},
	"science": {
		always:    []string{"Findings require independent replication before being treated as established"},
		triggers:  []string{"sample", "experiment", "measurement"},
		triggered: "Sample size, selection and measurement error are not documented",
	},
}

func domainLimits(ctx LimitContext) []string {
	out := domains.Limitations(domains.Context{
		Domain:      ctx.Domain,
		Detected:    ctx.Detected,
		Features:    ctx.Features,
		Patterns:    ctx.Patterns,
		Categorized: ctx.Categorized,
	})
	text := normalize(ctx.Input)
	seen := map[string]bool{}
	for _, d := range append([]string{ctx.Domain}, ctx.Detected...) {
		rule, ok := domainRules[d]
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, rule.always...)
		if len(mentions(text, rule.triggers...)) > 0 {
			out = append(out, rule.triggered)
		}
	}
	return out
}

// =============================================================================
// STRUCTURE
// =============================================================================

func structuralLimits(ctx LimitContext) []string {
	var out []string
	if c := understanding.Completeness(ctx.Categorized); c < 0.8 {
		out = append(out, fmt.Sprintf("Data completeness is low (%.0f%%)", c*100))
	}

	infs := ctx.Reasoning.Inferences
	if len(infs) == 0 {
		return out
	}
	mean, _ := confidenceStats(infs)
	if mean < 0.6 {
		out = append(out, fmt.Sprintf("Average inference confidence is low (%.2f)", mean))
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, inf := range infs {
		lo = math.Min(lo, inf.Confidence)
		hi = math.Max(hi, inf.Confidence)
	}
	if hi-lo > 0.4 {
		out = append(out, fmt.Sprintf("Inference confidence varies widely (range %.2f)", hi-lo))
	}
	weak := 0
	for _, inf := range infs {
		if len(inf.Evidence) == 0 || len(inf.Counterevidence) >= len(inf.Evidence) {
			weak++
		}
	}
	if weak > 0 {
		out = append(out, fmt.Sprintf("%d inference(s) are weakly supported by evidence", weak))
	}
	if n := Contradictions(infs); n > 0 {
		out = append(out, fmt.Sprintf("%d contradictory inference pair(s) detected", n))
	}
	return out
}

// =============================================================================
// TIME
// =============================================================================

func temporalLimits(ctx LimitContext) []string {
	var out []string
	hasMarkers := false
	for _, f := range ctx.Features {
		if f.Type == types.FeatureTemporalMarker {
			hasMarkers = true
			break
		}
	}
	hasTemporalPatterns := false
	for _, p := range ctx.Patterns {
		if p.Family == types.FamilyTemporal {
			hasTemporalPatterns = true
			break
		}
	}
	if !hasMarkers && !hasTemporalPatterns {
		out = append(out, "No temporal context available; conclusions may not hold over time")
	}
	if hasAnyType(ctx.Reasoning.Inferences, types.InferencePredictive) {
		out = append(out, "Predictive inferences lose reliability as the forecast horizon grows")
	}
	if !hasMarkers && hasAnyType(ctx.Reasoning.Inferences, types.InferenceHistorical) {
		out = append(out, "Historical inferences lack explicit temporal context")
	}
	return out
}

// =============================================================================
// PROCESS AND QUALITY
// =============================================================================

var expectedStages = []string{types.StageSensibility, types.StageUnderstanding, types.StageReason}

func processingLimits(ctx LimitContext) []string {
	if missing := ctx.History.Missing(expectedStages...); len(missing) > 0 {
		return []string{"Processing incomplete: stages not run: " + strings.Join(missing, ", ")}
	}
	return nil
}

func inferenceQualityLimits(ctx LimitContext) []string {
	infs := ctx.Reasoning.Inferences
	switch {
	case len(infs) == 0:
		return []string{"No inferences could be drawn from the input"}
	case len(infs) < 3:
		out := []string{fmt.Sprintf("Few inferences available (%d)", len(infs))}
		if len(infs) > 1 && distinctTypes(infs) == 1 {
			out = append(out, fmt.Sprintf("Inferences rely on a single reasoning type (%s)", infs[0].Type))
		}
		return out
	case distinctTypes(infs) == 1:
		return []string{fmt.Sprintf("Inferences rely on a single reasoning type (%s)", infs[0].Type)}
	}
	return nil
}
