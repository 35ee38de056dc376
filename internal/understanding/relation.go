package understanding

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"carnerd/internal/types"
)

// =============================================================================
// RELATION: substance, causality, community
// =============================================================================

// analyzeSubstance finds persistent entities: property names, and terms that
// recur across more than one feature.
func analyzeSubstance(in Input) types.Analysis {
	counts := map[string]int{}
	var order []string
	note := func(term string) {
		term = strings.ToLower(term)
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}
	for _, f := range in.Features {
		switch f.Type {
		case types.FeatureProperty:
			// named fields persist by definition
			note(f.Name)
			counts[strings.ToLower(f.Name)]++
		case types.FeatureSignificantTerms, types.FeatureDomainMarker, types.FeatureStringSummary:
			for _, it := range types.Dedupe(f.Items) {
				note(it)
			}
		case types.FeatureCausalStatement:
			note(f.Cause)
			note(f.Effect)
		}
	}

	var items []string
	for _, term := range order {
		if counts[term] >= 2 {
			items = append(items, term)
		}
	}
	if len(items) == 0 {
		return types.Analysis{Description: "No persistent substances identified"}
	}
	return types.Analysis{
		Description: fmt.Sprintf("%d persistent entities identified", len(items)),
		Count:       len(items),
		Score:       ratio(len(items), len(order)),
		Items:       items,
	}
}

// Base confidence and strength of causal statements.
const (
	statedCausalConfidence = 0.8
	hedgedCausalConfidence = 0.55
	statedCausalStrength   = 0.75
	hedgedCausalStrength   = 0.5
	chainStrengthBonus     = 0.1
)

// analyzeCausality turns causal statements into relationships. Hedged statements
// are weaker; a link that is part of a chain gains strength. Relationships below
// the causal-confidence threshold are dropped.
func analyzeCausality(in Input) types.Analysis {
	type key struct{ cause, effect string }
	seen := map[key]int{}
	var rels []types.CausalRelationship
	for _, f := range ofType(in.Features, types.FeatureCausalStatement) {
		if f.Cause == "" || f.Effect == "" {
			continue
		}
		conf, strength := statedCausalConfidence, statedCausalStrength
		if f.Hedged {
			conf, strength = hedgedCausalConfidence, hedgedCausalStrength
		}
		k := key{f.Cause, f.Effect}
		if i, ok := seen[k]; ok {
			rels[i].Confidence = math.Max(rels[i].Confidence, conf)
			rels[i].Strength = math.Max(rels[i].Strength, strength)
			continue
		}
		seen[k] = len(rels)
		rels = append(rels, types.CausalRelationship{Cause: f.Cause, Effect: f.Effect, Confidence: conf, Strength: strength})
	}

	effects := map[string]bool{}
	causes := map[string]bool{}
	for _, r := range rels {
		effects[r.Effect] = true
		causes[r.Cause] = true
	}
	kept := rels[:0]
	for _, r := range rels {
		if effects[r.Cause] || causes[r.Effect] {
			r.Strength = math.Min(r.Strength+chainStrengthBonus, 1)
		}
		if r.Confidence >= in.Thresholds.CausalConfidence {
			kept = append(kept, r)
		}
	}

	if len(kept) == 0 {
		return types.Analysis{Description: "No causal relationships identified"}
	}
	items := make([]string, len(kept))
	total := 0.0
	for i, r := range kept {
		items[i] = r.Cause + " -> " + r.Effect
		total += r.Confidence
	}
	return types.Analysis{
		Description:   fmt.Sprintf("%d causal relationships identified", len(kept)),
		Count:         len(kept),
		Score:         total / float64(len(kept)),
		Items:         items,
		Relationships: kept,
	}
}

// analyzeCommunity finds groups of interacting elements: clusters, networks and
// arrays of objects sharing fields.
func analyzeCommunity(in Input) types.Analysis {
	var items []string
	var conf float64
	for _, p := range patternsOf(in.Patterns, types.PatternCluster, types.PatternNetwork, types.PatternSymptomCluster) {
		items = append(items, p.Description)
		conf += p.Confidence
	}
	for _, f := range ofType(in.Features, types.FeatureObjectSummary) {
		if f.Count >= 2 && len(f.Items) > 0 {
			keys := append([]string(nil), f.Items...)
			sort.Strings(keys)
			items = append(items, fmt.Sprintf("%d records sharing fields: %s", f.Count, strings.Join(keys, ", ")))
			conf += 0.6
		}
	}
	if len(items) == 0 {
		return types.Analysis{Description: "No interacting communities identified"}
	}
	return types.Analysis{
		Description: fmt.Sprintf("%d interacting groups identified", len(items)),
		Count:       len(items),
		Score:       conf / float64(len(items)),
		Items:       items,
	}
}
