package reason

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"carnerd/internal/config"
	"carnerd/internal/domains"
	"carnerd/internal/types"
)

// Input is what every inference strategy reads.
type Input struct {
	Categorized types.CategorizedData
	Features    []types.Feature
	Patterns    []types.Pattern
	Domain      string
	Detected    []string
}

func (in Input) analysis(cat types.Category) (types.Analysis, bool) {
	a, ok := in.Categorized.Get(cat)
	return a, ok && a.Found()
}

// Strategy generates inferences of one reasoning style. Strategies are
// independent: none reads another's output.
type Strategy struct {
	Name     string
	Enabled  func(config.InferenceConfig) bool
	Generate func(Input) []types.Inference
}

// Strategies lists every strategy in the order their output is concatenated.
var Strategies = []Strategy{
	{"causal", func(c config.InferenceConfig) bool { return c.EnableCausal }, causalInferences},
	{"structural", func(c config.InferenceConfig) bool { return c.EnableStructural }, structuralInferences},
	{"predictive", func(c config.InferenceConfig) bool { return c.EnablePredictive }, predictiveInferences},
	{"analogical", func(c config.InferenceConfig) bool { return c.EnableAnalogical }, analogicalInferences},
	{"deductive", func(c config.InferenceConfig) bool { return c.EnableDeductive }, deductiveInferences},
	{"inductive", func(c config.InferenceConfig) bool { return c.EnableInductive }, inductiveInferences},
	{"abductive", func(c config.InferenceConfig) bool { return c.EnableAbductive }, abductiveInferences},
	{"domain_specific", func(c config.InferenceConfig) bool { return c.EnableDomainSpecific }, domainInferences},
}

// LookupStrategy returns a strategy by name.
func LookupStrategy(name string) (Strategy, bool) {
	for _, s := range Strategies {
		if s.Name == name {
			return s, true
		}
	}
	return Strategy{}, false
}

// GenerateInferences runs the enabled strategies, ranks the combined output by
// descending confidence and keeps at most cfg.MaxInferences.
func GenerateInferences(cfg config.InferenceConfig, in Input) []types.Inference {
	var all []types.Inference
	for _, s := range Strategies {
		if !s.Enabled(cfg) {
			continue
		}
		for _, inf := range s.Generate(in) {
			inf.Confidence = types.Clamp(inf.Confidence, 0, 1)
			if inf.Evidence == nil {
				inf.Evidence = []string{}
			}
			if inf.Counterevidence == nil {
				inf.Counterevidence = []string{}
			}
			all = append(all, inf)
		}
	}
	return Rank(all, cfg.MaxInferences)
}

// Rank sorts inferences by descending confidence, stable for equal values, and
// truncates to limit when limit > 0.
func Rank(infs []types.Inference, limit int) []types.Inference {
	out := append([]types.Inference(nil), infs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// =============================================================================
// CAUSAL AND PREDICTIVE
// =============================================================================

const correlationCaveat = "Correlation may not imply causation"

func causalInferences(in Input) []types.Inference {
	var out []types.Inference
	for _, r := range in.Categorized.CausalRelationships() {
		inf := types.Inference{
			Type:       types.InferenceCausal,
			Inference:  fmt.Sprintf("%s causes %s", r.Cause, r.Effect),
			Confidence: r.Confidence,
			Evidence:   []string{fmt.Sprintf("Causal relationship with strength %.2f", r.Strength)},
		}
		if r.Confidence < 0.7 {
			inf.Counterevidence = []string{correlationCaveat}
		}
		out = append(out, inf)
	}
	return out
}

func predictiveInferences(in Input) []types.Inference {
	var out []types.Inference
	for _, p := range in.Categorized.PossibilityDetails() {
		out = append(out, types.Inference{
			Type:       types.InferencePredictive,
			Inference:  "Possible development: " + p.Description,
			Confidence: p.Likelihood,
			Evidence:   []string{"Modal language indicates possibility"},
		})
	}
	for _, r := range in.Categorized.CausalRelationships() {
		if r.Confidence <= 0.6 {
			continue
		}
		out = append(out, types.Inference{
			Type:       types.InferencePredictive,
			Inference:  fmt.Sprintf("If %s occurs, then %s will likely follow", r.Cause, r.Effect),
			Confidence: r.Confidence * 0.9,
			Evidence:   []string{fmt.Sprintf("%s causes %s", r.Cause, r.Effect)},
		})
	}
	return out
}

// =============================================================================
// STRUCTURAL
// =============================================================================

func structuralInferences(in Input) []types.Inference {
	var out []types.Inference
	for _, p := range in.Patterns {
		switch p.Family {
		case types.FamilySpatial:
			out = append(out, types.Inference{
				Type:       types.InferenceStructural,
				Inference:  fmt.Sprintf("Data exhibits a %s structure: %s", strings.ReplaceAll(string(p.Type), "_", " "), p.Description),
				Confidence: p.Confidence * 0.9,
				Evidence:   p.Elements,
			})
		case types.FamilyTemporal:
			t := types.InferencePattern
			if p.Type == types.PatternSequence || p.Type == types.PatternDomainProgression {
				t = types.InferenceHistorical
			}
			out = append(out, types.Inference{
				Type:       t,
				Inference:  "Temporal pattern observed: " + p.Description,
				Confidence: p.Confidence * 0.85,
				Evidence:   p.Elements,
			})
		}
	}

	if a, ok := in.analysis(types.CategoryTotality); ok && a.Score < 1 {
		out = append(out, types.Inference{
			Type:       types.InferenceStructural,
			Inference:  fmt.Sprintf("Record is incomplete: missing %s", strings.Join(a.Items, ", ")),
			Confidence: 0.65,
			Evidence:   []string{a.Description},
		})
	}
	if a, ok := in.analysis(types.CategoryCommunity); ok {
		out = append(out, types.Inference{
			Type:       types.InferenceStructural,
			Inference:  "Elements form interacting groups: " + a.Items[0],
			Confidence: a.Score * 0.85,
			Evidence:   a.Items,
		})
	}
	return out
}

// =============================================================================
// ANALOGICAL
// =============================================================================

func analogicalInferences(in Input) []types.Inference {
	var out []types.Inference
	for _, g := range groupByEffect(in.Categorized.CausalRelationships()) {
		if len(g.rels) < 2 {
			continue
		}
		causes := make([]string, len(g.rels))
		for i, r := range g.rels {
			causes[i] = r.Cause
		}
		out = append(out, types.Inference{
			Type:       types.InferenceAnalogical,
			Inference:  fmt.Sprintf("%s act alike in producing %s", joinAnd(causes), g.effect),
			Confidence: 0.55,
			Evidence:   []string{fmt.Sprintf("%d causes share the effect %s", len(causes), g.effect)},
		})
	}
	if a, ok := in.analysis(types.CategoryCommunity); ok {
		for _, it := range a.Items {
			if strings.Contains(it, "records sharing fields") {
				out = append(out, types.Inference{
					Type:       types.InferenceAnalogical,
					Inference:  "Records with shared fields can be compared directly",
					Confidence: 0.6,
					Evidence:   []string{it},
				})
			}
		}
	}
	return out
}

// =============================================================================
// DEDUCTIVE, INDUCTIVE, ABDUCTIVE
// =============================================================================

func deductiveInferences(in Input) []types.Inference {
	var out []types.Inference
	if a, ok := in.analysis(types.CategoryNecessity); ok {
		for _, it := range a.Items {
			out = append(out, types.Inference{
				Type:       types.InferenceDeductive,
				Inference:  "Necessarily: " + it,
				Confidence: math.Min(a.Score, 0.9) * 0.9,
				Evidence:   []string{a.Description},
			})
		}
	}

	rels := in.Categorized.CausalRelationships()
	for _, ab := range rels {
		for _, bc := range rels {
			if ab.Effect != bc.Cause || ab.Cause == bc.Effect {
				continue
			}
			out = append(out, types.Inference{
				Type:       types.InferenceDeductive,
				Inference:  fmt.Sprintf("%s indirectly leads to %s via %s", ab.Cause, bc.Effect, ab.Effect),
				Confidence: math.Min(ab.Confidence, bc.Confidence) * 0.9,
				Evidence: []string{
					fmt.Sprintf("%s causes %s", ab.Cause, ab.Effect),
					fmt.Sprintf("%s causes %s", bc.Cause, bc.Effect),
				},
			})
		}
	}
	return out
}

func inductiveInferences(in Input) []types.Inference {
	var out []types.Inference
	if a, ok := in.analysis(types.CategoryPlurality); ok && a.Count >= 3 {
		out = append(out, types.Inference{
			Type:       types.InferenceInductive,
			Inference:  fmt.Sprintf("Observations generalize across %d distinct elements", a.Count),
			Confidence: math.Min(0.5+0.05*float64(a.Count), 0.75),
			Evidence:   a.Items,
			Counterevidence: []string{
				"Generalization from a limited sample",
			},
		})
	}
	for _, f := range in.Features {
		if f.Type != types.FeatureNumericSummary || len(f.Numbers) < 2 {
			continue
		}
		stats, _ := types.AsMap(f.Value)
		mean, _ := types.ExtractFloat64(stats["mean"])
		lo, _ := types.ExtractFloat64(stats["min"])
		hi, _ := types.ExtractFloat64(stats["max"])
		out = append(out, types.Inference{
			Type: types.InferenceStatistical,
			Inference: fmt.Sprintf("Values average %s (range %s to %s) across %d observations",
				types.ExtractString(mean), types.ExtractString(lo), types.ExtractString(hi), len(f.Numbers)),
			Confidence: math.Min(0.5+0.05*float64(len(f.Numbers)), 0.85),
			Evidence:   []string{fmt.Sprintf("%d numeric values", len(f.Numbers))},
		})
	}
	return out
}

type effectGroup struct {
	effect string
	rels   []types.CausalRelationship
}

// groupByEffect groups relationships by effect in first-seen order.
func groupByEffect(rels []types.CausalRelationship) []effectGroup {
	var groups []effectGroup
	index := map[string]int{}
	for _, r := range rels {
		i, ok := index[r.Effect]
		if !ok {
			i = len(groups)
			index[r.Effect] = i
			groups = append(groups, effectGroup{effect: r.Effect})
		}
		groups[i].rels = append(groups[i].rels, r)
	}
	return groups
}

func abductiveInferences(in Input) []types.Inference {
	var out []types.Inference
	for _, g := range groupByEffect(in.Categorized.CausalRelationships()) {
		if len(g.rels) < 2 {
			continue
		}
		best := g.rels[0]
		for _, r := range g.rels[1:] {
			if r.Confidence*r.Strength > best.Confidence*best.Strength {
				best = r
			}
		}
		out = append(out, types.Inference{
			Type:            types.InferenceAbductive,
			Inference:       fmt.Sprintf("%s is best explained by %s", g.effect, best.Cause),
			Confidence:      best.Confidence * 0.9,
			Evidence:        []string{fmt.Sprintf("%s causes %s", best.Cause, best.Effect)},
			Counterevidence: []string{fmt.Sprintf("%d alternative explanations exist", len(g.rels)-1)},
		})
	}
	return out
}

// =============================================================================
// DOMAIN
// =============================================================================

func domainInferences(in Input) []types.Inference {
	return domains.Inferences(domains.Context{
		Domain:      in.Domain,
		Detected:    in.Detected,
		Features:    in.Features,
		Patterns:    in.Patterns,
		Categorized: in.Categorized,
	})
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
