package understanding

import (
	"fmt"
	"sort"
	"strings"

	"carnerd/internal/types"
)

// =============================================================================
// MODALITY: possibility, existence, necessity
// =============================================================================

// modalLikelihood maps possibility modals to a likelihood.
var modalLikelihood = map[string]float64{
	"likely":   0.7,
	"probably": 0.7,
	"may":      0.5,
	"can":      0.5,
	"could":    0.45,
	"might":    0.4,
	"possibly": 0.4,
	"perhaps":  0.35,
}

// necessityStrength maps necessity modals to the strength of the claim.
var necessityStrength = map[string]float64{
	"must":        0.9,
	"necessarily": 0.9,
	"inevitably":  0.9,
	"always":      0.85,
	"certainly":   0.85,
	"required":    0.8,
	"need to":     0.75,
}

func analyzePossibility(in Input) types.Analysis {
	var poss []types.Possibility
	for _, f := range ofType(in.Features, types.FeatureModalStatement) {
		if f.Name != "possibility" {
			continue
		}
		likelihood := 0.0
		for _, m := range f.Items {
			if l := modalLikelihood[m]; l > likelihood {
				likelihood = l
			}
		}
		if likelihood == 0 {
			likelihood = 0.5
		}
		poss = append(poss, types.Possibility{Description: valueString(f), Likelihood: likelihood})
	}
	for _, p := range patternsOf(in.Patterns, types.PatternTrend) {
		poss = append(poss, types.Possibility{
			Description: fmt.Sprintf("values continue %s", p.Direction),
			Likelihood:  p.Confidence * 0.8,
		})
	}

	if len(poss) == 0 {
		return types.Analysis{Description: "No possibilities identified"}
	}
	items := make([]string, len(poss))
	total := 0.0
	for i, p := range poss {
		items[i] = p.Description
		total += p.Likelihood
	}
	return types.Analysis{
		Description:   fmt.Sprintf("%d possibilities identified", len(poss)),
		Count:         len(poss),
		Score:         total / float64(len(poss)),
		Items:         items,
		Possibilities: poss,
	}
}

// analyzeExistence lists what is actually present in the input, by feature kind.
func analyzeExistence(in Input) types.Analysis {
	counts := map[string]int{}
	for _, f := range in.Features {
		switch f.Type {
		case types.FeatureProperty:
			if !isEmptyValue(f) {
				counts["properties"]++
			}
		case types.FeatureNumericValues, types.FeatureNumericSummary:
			counts["measurements"] += len(f.Numbers)
		case types.FeatureSignificantTerms:
			counts["terms"] += len(f.Items)
		case types.FeatureDomainMarker:
			counts[f.Domain+" markers"] += len(f.Items)
		case types.FeaturePrimitive:
			if f.Value != nil {
				counts["values"]++
			}
		}
	}
	if len(counts) == 0 {
		return types.Analysis{Description: "No existing entities identified"}
	}
	keys := make([]string, 0, len(counts))
	total := 0
	for k, n := range counts {
		keys = append(keys, k)
		total += n
	}
	sort.Strings(keys)
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	return types.Analysis{
		Description: fmt.Sprintf("Existence confirmed for %d entities (%s)", total, strings.Join(items, ", ")),
		Count:       total,
		Score:       ratio(total, total+len(ofType(in.Features, types.FeatureNegation))),
		Items:       items,
	}
}

// analyzeNecessity keeps necessity statements and causal links whose strength
// reaches the necessity threshold.
func analyzeNecessity(in Input) types.Analysis {
	var items []string
	var strengths []float64
	for _, f := range ofType(in.Features, types.FeatureModalStatement) {
		if f.Name != "necessity" {
			continue
		}
		s := 0.0
		for _, m := range f.Items {
			if v := necessityStrength[m]; v > s {
				s = v
			}
		}
		if s >= in.Thresholds.NecessityThreshold {
			items = append(items, valueString(f))
			strengths = append(strengths, s)
		}
	}
	for _, f := range ofType(in.Features, types.FeatureCausalStatement) {
		if f.Hedged {
			continue
		}
		s := statedCausalStrength
		if s >= in.Thresholds.NecessityThreshold {
			items = append(items, fmt.Sprintf("%s necessarily follows %s", f.Effect, f.Cause))
			strengths = append(strengths, s)
		}
	}
	items = types.Dedupe(items)
	if len(items) == 0 {
		return types.Analysis{Description: "No necessary connections identified"}
	}
	total := 0.0
	for _, s := range strengths {
		total += s
	}
	return types.Analysis{
		Description: fmt.Sprintf("%d necessary connections identified", len(items)),
		Count:       len(items),
		Score:       total / float64(len(strengths)),
		Items:       items,
	}
}
