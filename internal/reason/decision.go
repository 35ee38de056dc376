package reason

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

// DefaultAction is the cautious decision returned when no inference clears the
// confidence threshold.
const DefaultAction = "Gather more information"

// Decision confidence bounds after ethical adjustment.
const (
	MinDecisionConfidence = 0.3
	MaxDecisionConfidence = 0.95
)

// Severity classifies how serious the ethical concerns are.
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var severityMultiplier = map[Severity]float64{
	SeverityHigh:   0.7,
	SeverityMedium: 0.85,
	SeverityLow:    0.95,
}

// ClassifySeverity grades a list of concerns. Escalation keywords force high.
func ClassifySeverity(concerns []string) Severity {
	for _, c := range concerns {
		if types.ContainsAny(c, escalationTerms...) {
			return SeverityHigh
		}
	}
	switch n := len(concerns); {
	case n >= 3:
		return SeverityHigh
	case n == 2:
		return SeverityMedium
	case n == 1:
		return SeverityLow
	}
	return SeverityNone
}

// Multiplier returns the confidence multiplier for a severity scaled by the
// ethical weight: m' = 1 - (1-m)*weight.
func (s Severity) Multiplier(weight float64) float64 {
	m, ok := severityMultiplier[s]
	if !ok {
		return 1
	}
	return 1 - (1-m)*weight
}

// DefaultDecision is the fixed cautious decision.
func DefaultDecision(threshold float64) types.Decision {
	return types.Decision{
		Action:     DefaultAction,
		Reasoning:  fmt.Sprintf("No inference reached the confidence threshold of %s; more information is needed before acting", types.ExtractString(threshold)),
		Confidence: 0.5,
		Alternatives: []string{
			"Consult a domain expert",
			"Collect additional data on the situation",
		},
		ExpectedOutcomes: []types.Outcome{
			{Outcome: "Improved understanding of the situation", Likelihood: 0.7, Timeframe: "short-term"},
		},
	}
}

// =============================================================================
// TYPE TALLY
// =============================================================================

// RankTypes tallies inference types and returns the primary and secondary
// types. Equal counts are broken by types.InferencePriority.
func RankTypes(infs []types.Inference) (primary, secondary types.InferenceType) {
	counts := map[types.InferenceType]int{}
	for _, inf := range infs {
		counts[inf.Type]++
	}
	better := func(a, b types.InferenceType) bool {
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return types.PriorityOf(a) < types.PriorityOf(b)
	}
	for t := range counts {
		switch {
		case primary == "" || better(t, primary):
			primary, secondary = t, primary
		case secondary == "" || better(t, secondary):
			secondary = t
		}
	}
	return primary, secondary
}

// AlternativeType is the secondary type, or the first type in priority order
// that differs from the primary.
func AlternativeType(primary, secondary types.InferenceType) types.InferenceType {
	if secondary != "" {
		return secondary
	}
	for _, t := range types.InferencePriority {
		if t != primary {
			return t
		}
	}
	return ""
}

func strongest(infs []types.Inference, t types.InferenceType) (types.Inference, bool) {
	var best types.Inference
	found := false
	for _, inf := range infs {
		if inf.Type == t && (!found || inf.Confidence > best.Confidence) {
			best, found = inf, true
		}
	}
	return best, found
}

// =============================================================================
// TEMPLATES
// =============================================================================

type template struct {
	action    string
	reasoning string
}

var templates = map[types.InferenceType]template{
	types.InferenceCausal:         {"Address the underlying cause: %s", "Causal analysis indicates that %s"},
	types.InferencePredictive:     {"Prepare for the anticipated outcome: %s", "Predictive analysis suggests that %s"},
	types.InferenceStructural:     {"Organize the response around the identified structure: %s", "Structural analysis shows that %s"},
	types.InferenceDomainSpecific: {"Apply domain guidance and inform those affected: %s", "Domain knowledge indicates that %s"},
	types.InferenceDeductive:      {"Act on the best-supported conclusion: %s", "Logical analysis concludes that %s"},
	types.InferenceInductive:      {"Act on the best-supported conclusion: %s", "Logical analysis concludes that %s"},
	types.InferenceAbductive:      {"Act on the best-supported conclusion: %s", "Logical analysis concludes that %s"},
	types.InferenceAnalogical:     {"Apply lessons from comparable cases: %s", "Analogical reasoning suggests that %s"},
}

const (
	genericAction    = "Proceed based on the available evidence"
	genericReasoning = "Based on %d inferences above the confidence threshold"
)

func applyTemplate(t types.InferenceType, inf types.Inference) (action, reasoning string, ok bool) {
	tpl, ok := templates[t]
	if !ok {
		return "", "", false
	}
	action = fmt.Sprintf(tpl.action, inf.Inference)
	reasoning = fmt.Sprintf(tpl.reasoning, lowerFirst(inf.Inference)) +
		fmt.Sprintf(" (confidence %.2f)", inf.Confidence)
	return action, reasoning, true
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func wrapForSeverity(action string, s Severity) string {
	switch s {
	case SeverityHigh:
		return "Exercise caution: " + action + ", with safeguards to mitigate the identified risks"
	case SeverityMedium:
		return action + ", while monitoring ethical implications"
	case SeverityLow:
		return action + ", remaining aware of ethical considerations"
	}
	return action
}

// =============================================================================
// SYNTHESIS
// =============================================================================

// Synthesize turns ranked inferences and an ethical analysis into a decision.
func Synthesize(cfg config.DecisionConfig, infs []types.Inference, ea types.EthicalAnalysis) types.Decision {
	var strong []types.Inference
	for _, inf := range infs {
		if inf.Confidence >= cfg.InferenceConfidenceThreshold {
			strong = append(strong, inf)
		}
	}
	if len(strong) == 0 {
		return DefaultDecision(cfg.InferenceConfidenceThreshold)
	}

	primary, _ := RankTypes(strong)
	concerns := Concerns(ea)
	severity := ClassifySeverity(concerns)

	best, _ := strongest(strong, primary)
	action, reasoning, ok := applyTemplate(primary, best)
	confidence := best.Confidence
	if !ok {
		action = genericAction
		reasoning = fmt.Sprintf(genericReasoning, len(strong))
		confidence = averageConfidence(strong)
	}

	if severity != SeverityNone {
		action = wrapForSeverity(action, severity)
		confidence *= severity.Multiplier(cfg.EthicalWeight)
		reasoning += fmt.Sprintf(". %d ethical concern(s) of %s severity were weighed", len(concerns), severity)
	}

	return types.Decision{
		Action:     action,
		Reasoning:  reasoning,
		Confidence: types.Clamp(confidence, MinDecisionConfidence, MaxDecisionConfidence),
	}
}

// Alternatives proposes up to cfg.MaxAlternatives other actions, none similar
// to the chosen one.
func Alternatives(cfg config.DecisionConfig, action string, infs []types.Inference, ea types.EthicalAnalysis) []string {
	if !cfg.GenerateAlternatives || cfg.MaxAlternatives <= 0 {
		return nil
	}
	var strong []types.Inference
	for _, inf := range infs {
		if inf.Confidence >= cfg.InferenceConfidenceThreshold {
			strong = append(strong, inf)
		}
	}

	candidates := []string{"Proceed with caution and monitor outcomes closely"}

	primary, secondary := RankTypes(strong)
	altType := AlternativeType(primary, secondary)
	if inf, ok := strongest(infs, altType); ok {
		if alt, _, ok := applyTemplate(altType, inf); ok {
			candidates = append(candidates, alt)
		} else {
			candidates = append(candidates, "Act on the "+string(altType)+" finding: "+inf.Inference)
		}
	} else if altType != "" {
		candidates = append(candidates, fmt.Sprintf("Seek evidence for a %s approach before acting", strings.ReplaceAll(string(altType), "_", "-")))
	}

	if len(Concerns(ea)) > 0 {
		candidates = append(candidates, "Prioritize resolving the ethical concerns before acting")
	}

	var out []string
	for _, c := range candidates {
		if Similar(c, action) {
			continue
		}
		dup := false
		for _, o := range out {
			if Similar(c, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
		if len(out) == cfg.MaxAlternatives {
			break
		}
	}
	return out
}

// Similar reports whether two actions are the same for deduplication: equal,
// one containing the other, or sharing more than 80% of their words.
func Similar(a, b string) bool {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	wa, wb := wordSet(a), wordSet(b)
	shared := 0
	for w := range wa {
		if wb[w] {
			shared++
		}
	}
	larger := math.Max(float64(len(wa)), float64(len(wb)))
	return float64(shared)/larger > 0.8
}

func wordSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '\'')
	}) {
		out[w] = true
	}
	return out
}

// ExpectedOutcomes lists the top predictive inferences as medium-term outcomes,
// then an ethical outcome and a long-term outcome.
func ExpectedOutcomes(infs []types.Inference, ea types.EthicalAnalysis) []types.Outcome {
	var out []types.Outcome
	for _, inf := range infs {
		if inf.Type != types.InferencePredictive {
			continue
		}
		out = append(out, types.Outcome{Outcome: inf.Inference, Likelihood: inf.Confidence, Timeframe: "medium-term"})
		if len(out) == 2 {
			break
		}
	}
	if n := len(Concerns(ea)); n > 0 {
		out = append(out, types.Outcome{
			Outcome:    fmt.Sprintf("%d ethical concern(s) mitigated through safeguards", n),
			Likelihood: 0.6,
			Timeframe:  "short-term",
		})
	} else {
		out = append(out, types.Outcome{Outcome: "Action proceeds without ethical conflict", Likelihood: 0.7, Timeframe: "short-term"})
	}
	return append(out, types.Outcome{Outcome: "Long-term effects depend on continued monitoring", Likelihood: 0.5, Timeframe: "long-term"})
}

func averageConfidence(infs []types.Inference) float64 {
	if len(infs) == 0 {
		return 0
	}
	total := 0.0
	for _, inf := range infs {
		total += inf.Confidence
	}
	return total / float64(len(infs))
}
