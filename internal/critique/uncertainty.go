package critique

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

// NoUncertaintyFactors is reported when no source contributed a factor.
const NoUncertaintyFactors = "No significant uncertainty factors identified"

// Estimate is the output of one uncertainty source.
type Estimate struct {
	Value   float64
	Factors []string
}

// CombineUncertainties merges uncertainty values. Values are clamped to [0,1]
// and sorted descending; the largest seeds the result and the value at rank i
// adds value*(0.7/2^i)*(1-result). The result does not depend on input order,
// is never below the largest input and never above 1.
func CombineUncertainties(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = types.Clamp(v, 0, 1)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	res := sorted[0]
	for i := 1; i < len(sorted); i++ {
		res += sorted[i] * (0.7 / math.Pow(2, float64(i))) * (1 - res)
	}
	return types.Clamp(res, 0, 1)
}

// Subject is everything the uncertainty sources inspect.
type Subject struct {
	Inferences  []types.Inference
	Decision    types.Decision
	Limitations []string
}

type source struct {
	name     string
	enabled  func(config.UncertaintyConfig) bool
	estimate func(Subject) Estimate
}

var sources = []source{
	{"statistical", func(c config.UncertaintyConfig) bool { return c.EnableStatistical }, statisticalUncertainty},
	{"model", func(c config.UncertaintyConfig) bool { return c.EnableModel }, modelUncertainty},
	{"distributional", func(c config.UncertaintyConfig) bool { return c.EnableDistributional }, distributionalUncertainty},
	{"out_of_distribution", func(c config.UncertaintyConfig) bool { return c.EnableOutOfDistribution }, outOfDistributionUncertainty},
	{"action_specific", func(c config.UncertaintyConfig) bool { return c.EnableActionSpecific }, actionUncertainty},
}

// QuantifyUncertainty runs the enabled sources and combines their values.
func QuantifyUncertainty(cfg config.UncertaintyConfig, s Subject) types.UncertaintyAnalysis {
	out := types.UncertaintyAnalysis{Distribution: map[string]float64{}}
	var values []float64
	for _, src := range sources {
		if !src.enabled(cfg) {
			continue
		}
		est := src.estimate(s)
		out.Distribution[src.name] = est.Value
		values = append(values, est.Value)
		out.Factors = append(out.Factors, est.Factors...)
	}
	out.Value = CombineUncertainties(values)
	out.Factors = types.Dedupe(out.Factors)
	if len(out.Factors) == 0 {
		out.Factors = []string{NoUncertaintyFactors}
	}
	return out
}

// =============================================================================
// SOURCES
// =============================================================================

func confidenceStats(infs []types.Inference) (mean, variance float64) {
	if len(infs) == 0 {
		return 0, 0
	}
	for _, inf := range infs {
		mean += inf.Confidence
	}
	mean /= float64(len(infs))
	for _, inf := range infs {
		d := inf.Confidence - mean
		variance += d * d
	}
	return mean, variance / float64(len(infs))
}

func statisticalUncertainty(s Subject) Estimate {
	if len(s.Inferences) == 0 {
		return Estimate{Value: 0.8, Factors: []string{"No inferences available to assess statistical confidence"}}
	}
	mean, variance := confidenceStats(s.Inferences)
	var factors []string
	if mean < 0.6 {
		factors = append(factors, fmt.Sprintf("Low average inference confidence (%.2f)", mean))
	}
	if variance > 0.04 {
		factors = append(factors, "High variance in inference confidence")
	}
	return Estimate{
		Value:   CombineUncertainties([]float64{1 - mean, math.Min(variance*3, 0.5)}),
		Factors: factors,
	}
}

func modelUncertainty(s Subject) Estimate {
	v := 0.2
	var factors []string
	infs := s.Inferences

	if len(infs) > 0 && distinctTypes(infs) < 2 {
		v += 0.1
		factors = append(factors, "Low diversity of reasoning types")
	}
	if !hasAnyType(infs, types.InferenceDeductive, types.InferenceInductive, types.InferenceAbductive) {
		v += 0.1
		factors = append(factors, "No deductive, inductive or abductive support")
	}
	if len(infs) >= 2 && infs[1].Confidence > 0 && infs[0].Confidence > 1.5*infs[1].Confidence {
		v += 0.15
		factors = append(factors, "A single inference dominates the reasoning")
	}
	switch c := reasoningComplexity(s); {
	case c < 2:
		v += 0.1
		factors = append(factors, "Reasoning may be overly simple")
	case c > 15:
		v += 0.1
		factors = append(factors, "Reasoning may be overly complex")
	}
	if n := Contradictions(infs); n > 0 {
		v += 0.2 * math.Min(float64(n), 3) / 3
		factors = append(factors, fmt.Sprintf("%d contradictory inference pair(s)", n))
	}
	return Estimate{Value: math.Min(v, 0.9), Factors: factors}
}

var (
	dataLimitationTerms = []string{"limited", "small sample", "insufficient", "incomplete", "missing", "sparse", "lack", "lacks", "few"}
	domainShiftTerms    = []string{"unlike", "different context", "new population", "unprecedented", "novel", "shift", "changed conditions"}
	oodTerms            = []string{"unusual", "anomaly", "anomalous", "outlier", "unprecedented", "unknown", "rare", "unexpected"}
	boundaryIndicators  = []string{"metaphysical", "totalizing", "necessary existence", "ultimate cause", "beyond"}
)

func distributionalUncertainty(s Subject) Estimate {
	v := 0.15
	var factors []string

	var evidence []string
	for _, inf := range s.Inferences {
		evidence = append(evidence, inf.Evidence...)
		evidence = append(evidence, inf.Counterevidence...)
	}
	text := normalize(joinLines(evidence))
	if len(mentions(text, dataLimitationTerms...)) > 0 {
		v += 0.2
		factors = append(factors, "Evidence mentions data limitations")
	}
	if len(evidence) < 2 || float64(len(types.Dedupe(evidence)))/float64(len(evidence)) < 0.5 {
		v += 0.15
		factors = append(factors, "Low evidence diversity")
	}
	if len(mentions(text, domainShiftTerms...)) > 0 {
		v += 0.15
		factors = append(factors, "Possible shift from familiar conditions")
	}
	return Estimate{Value: math.Min(v, 0.9), Factors: factors}
}

func outOfDistributionUncertainty(s Subject) Estimate {
	v := 0.1
	var factors []string

	n := 0
	for _, l := range s.Limitations {
		if len(mentions(normalize(l), boundaryIndicators...)) > 0 {
			n++
		}
	}
	if n > 0 {
		v += math.Min(0.1*float64(n), 0.3)
		factors = append(factors, "Question approaches the boundaries of knowledge")
	}
	mean, variance := confidenceStats(s.Inferences)
	if len(s.Inferences) > 0 && mean < 0.4 {
		v += 0.2
		factors = append(factors, "Unusually low inference confidence")
	}
	if variance > 0.04 {
		v += 0.15
		factors = append(factors, "Inconsistent confidence across inferences")
	}
	var texts []string
	for _, inf := range s.Inferences {
		texts = append(texts, inf.Inference)
		texts = append(texts, inf.Evidence...)
	}
	if len(mentions(normalize(joinLines(texts)), oodTerms...)) > 0 {
		v += 0.1
		factors = append(factors, "Input shows signs of being out of distribution")
	}
	return Estimate{Value: math.Min(v, 0.9), Factors: factors}
}

var (
	hedgingTerms     = []string{"may", "might", "possibly", "perhaps", "consider", "caution"}
	conditionalTerms = []string{"if", "unless", "when", "while", "provided"}
	actionVerbs      = []string{"address", "prepare", "apply", "act", "organize", "proceed", "monitor", "inform", "seek", "prioritize", "exercise", "gather", "consult", "review"}
	feasibilityTerms = []string{"resources", "budget", "staff", "coordinate", "coordination", "timeline", "schedule", "deadline", "funding", "safeguards"}
)

func actionUncertainty(s Subject) Estimate {
	v := 0.1
	var factors []string
	action := normalize(s.Decision.Action)

	var strong []types.Inference
	for _, inf := range s.Inferences {
		if inf.Confidence > 0.7 {
			strong = append(strong, inf)
		}
	}
	supported := false
	for _, inf := range strong {
		if supports(inf, action) {
			supported = true
			break
		}
	}
	switch {
	case len(strong) == 0:
		v += 0.25
		factors = append(factors, "No strong inference supports the action")
	case !supported:
		v += 0.15
		factors = append(factors, "Action is only indirectly supported by strong inferences")
	}

	components := strings.Count(action, " and ") + strings.Count(s.Decision.Action, ",") + strings.Count(s.Decision.Action, ";")
	complexity := components + len(mentions(action, conditionalTerms...)) + len(mentions(action, actionVerbs...))
	if complexity > 4 {
		v += 0.15
		factors = append(factors, "Action is complex")
	}
	if len(mentions(action, hedgingTerms...)) > 0 {
		v += 0.1
		factors = append(factors, "Action uses hedging language")
	}

	var support []string
	for _, inf := range strong {
		support = append(support, inf.Inference)
	}
	if needs := mentions(action, feasibilityTerms...); len(needs) > 0 {
		covered := mentions(normalize(joinLines(support)), needs...)
		if len(covered) < len(needs) {
			v += 0.2
			factors = append(factors, "Feasibility needs of the action are not addressed by the evidence")
		}
	}
	return Estimate{Value: math.Min(v, 0.9), Factors: factors}
}

// supports reports whether an inference shares enough content with an action.
func supports(inf types.Inference, action string) bool {
	text := normalize(inf.Inference)
	if strings.TrimSpace(text) == "" {
		return false
	}
	if strings.Contains(action, strings.TrimSpace(text)) {
		return true
	}
	shared := 0
	for _, w := range strings.Fields(text) {
		if len(w) >= 4 && strings.Contains(action, " "+w+" ") {
			shared++
		}
	}
	return shared >= 2
}

// =============================================================================
// HELPERS
// =============================================================================

func distinctTypes(infs []types.Inference) int {
	seen := map[types.InferenceType]bool{}
	for _, inf := range infs {
		seen[inf.Type] = true
	}
	return len(seen)
}

func hasAnyType(infs []types.Inference, ts ...types.InferenceType) bool {
	for _, inf := range infs {
		for _, t := range ts {
			if inf.Type == t {
				return true
			}
		}
	}
	return false
}

var (
	connectors  = []string{"because", "therefore", "thus", "since", "however", "if", "then", "so"}
	causalTerms = []string{"causes", "leads to", "results in", "follow", "explained by"}
)

// reasoningComplexity scores the decision reasoning and inference texts by
// sentence, connector and causal-term counts.
func reasoningComplexity(s Subject) int {
	texts := []string{s.Decision.Reasoning}
	for _, inf := range s.Inferences {
		texts = append(texts, inf.Inference)
	}
	raw := joinLines(texts)
	text := normalize(raw)
	sentences := strings.Count(raw, ". ") + len(s.Inferences)
	if strings.TrimSpace(s.Decision.Reasoning) != "" {
		sentences++
	}
	return sentences + len(mentions(text, connectors...)) + len(mentions(text, causalTerms...))
}
