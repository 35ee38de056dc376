package perception

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"carnerd/internal/types"
)

// detector computes one candidate pattern from the feature list. ok is false when
// the pattern is absent.
type detector func(features []types.Feature) (types.Pattern, bool)

var (
	spatialDetectors  = []detector{detectHierarchy, detectCluster, detectNetwork, detectSymptomCluster}
	temporalDetectors = []detector{detectSequence, detectCycle, detectTrend, detectDomainProgression}
)

// DetectSpatialPatterns finds hierarchy, cluster, network and symptom-cluster
// patterns, filtered and truncated by the configured thresholds.
func (e *Extractor) DetectSpatialPatterns(features []types.Feature) []types.Pattern {
	if !e.cfg.EnableSpatial || !e.cfg.EnableSpatialPatterns {
		return nil
	}
	return e.run(spatialDetectors, features)
}

// DetectTemporalPatterns finds sequence, cycle, trend and domain-progression
// patterns, filtered and truncated by the configured thresholds.
func (e *Extractor) DetectTemporalPatterns(features []types.Feature) []types.Pattern {
	if !e.cfg.EnableTemporal || !e.cfg.EnableTemporalPatterns {
		return nil
	}
	return e.run(temporalDetectors, features)
}

func (e *Extractor) run(detectors []detector, features []types.Feature) []types.Pattern {
	th := e.cfg.PatternDetectionThresholds
	var out []types.Pattern
	for _, d := range detectors {
		p, ok := d(features)
		if !ok {
			continue
		}
		if p.Confidence < th.Confidence || len(p.Elements) < th.MinElements {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if th.MaxPatterns > 0 && len(out) > th.MaxPatterns {
		out = out[:th.MaxPatterns]
	}
	return out
}

// scaled returns base + per*n capped at limit.
func scaled(base, per float64, n int, limit float64) float64 {
	return math.Min(base+per*float64(n), limit)
}

// =============================================================================
// SPATIAL
// =============================================================================

func detectHierarchy(features []types.Feature) (types.Pattern, bool) {
	depth := 0
	var paths []string
	for _, f := range features {
		if f.Type != types.FeatureStructure || f.Depth == 0 {
			continue
		}
		depth = max(depth, f.Depth)
		paths = append(paths, f.Path)
	}
	if depth == 0 {
		return types.Pattern{}, false
	}
	paths = types.Dedupe(paths)
	return types.Pattern{
		Type:        types.PatternHierarchy,
		Family:      types.FamilySpatial,
		Description: fmt.Sprintf("Hierarchical structure %d levels deep", depth+1),
		Confidence:  scaled(0.5, 0.1, depth, 0.9),
		Elements:    paths,
	}, true
}

func detectCluster(features []types.Feature) (types.Pattern, bool) {
	var best types.Feature
	for _, f := range features {
		if f.Type == types.FeatureDomainMarker && len(f.Items) > len(best.Items) {
			best = f
		}
	}
	if len(best.Items) == 0 {
		return types.Pattern{}, false
	}
	return types.Pattern{
		Type:        types.PatternCluster,
		Family:      types.FamilySpatial,
		Description: fmt.Sprintf("Cluster of %s terms: %s", best.Domain, strings.Join(best.Items, ", ")),
		Confidence:  scaled(0.4, 0.1, len(best.Items), 0.9),
		Elements:    append([]string(nil), best.Items...),
	}, true
}

func detectNetwork(features []types.Feature) (types.Pattern, bool) {
	var nodes []string
	edges := 0
	for _, f := range features {
		if f.Type != types.FeatureCausalStatement {
			continue
		}
		edges++
		nodes = append(nodes, f.Cause, f.Effect)
	}
	nodes = types.Dedupe(nodes)
	if edges < 2 {
		return types.Pattern{}, false
	}
	return types.Pattern{
		Type:        types.PatternNetwork,
		Family:      types.FamilySpatial,
		Description: fmt.Sprintf("Network of %d causal links among %d elements", edges, len(nodes)),
		Confidence:  scaled(0.5, 0.1, edges, 0.9),
		Elements:    nodes,
	}, true
}

func detectSymptomCluster(features []types.Feature) (types.Pattern, bool) {
	var symptoms []string
	for _, f := range features {
		if f.Type == types.FeatureDomainMarker && f.Domain == "healthcare" {
			for _, it := range f.Items {
				if containsWord(Symptoms, it) {
					symptoms = append(symptoms, it)
				}
			}
		}
		if f.Type == types.FeatureProperty && strings.EqualFold(f.Name, "symptoms") {
			symptoms = append(symptoms, f.Items...)
		}
	}
	symptoms = types.Dedupe(lowerAll(symptoms))
	if len(symptoms) < 2 {
		return types.Pattern{}, false
	}
	return types.Pattern{
		Type:        types.PatternSymptomCluster,
		Family:      types.FamilySpatial,
		Description: "Co-occurring symptoms: " + strings.Join(symptoms, ", "),
		Confidence:  scaled(0.6, 0.1, len(symptoms), 0.95),
		Elements:    symptoms,
	}, true
}

// =============================================================================
// TEMPORAL
// =============================================================================

func temporalItems(features []types.Feature) []string {
	var items []string
	for _, f := range features {
		if f.Type == types.FeatureTemporalMarker {
			items = append(items, f.Items...)
		}
	}
	return items
}

func detectSequence(features []types.Feature) (types.Pattern, bool) {
	markers := types.Dedupe(temporalItems(features))
	if len(markers) == 0 {
		return types.Pattern{}, false
	}
	return types.Pattern{
		Type:        types.PatternSequence,
		Family:      types.FamilyTemporal,
		Description: "Sequence of events marked by: " + strings.Join(markers, ", "),
		Confidence:  scaled(0.4, 0.1, len(markers), 0.9),
		Elements:    markers,
	}, true
}

func detectCycle(features []types.Feature) (types.Pattern, bool) {
	for _, series := range numericSeries(features) {
		if period := findPeriod(series); period > 0 {
			return types.Pattern{
				Type:        types.PatternCycle,
				Family:      types.FamilyTemporal,
				Description: fmt.Sprintf("Values repeat with period %d", period),
				Confidence:  0.7,
				Elements:    formatNumbers(series[:period]),
			}, true
		}
	}

	var cyclic []string
	for _, it := range temporalItems(features) {
		if containsWord(cyclicTerms, it) {
			cyclic = append(cyclic, it)
		}
	}
	cyclic = types.Dedupe(cyclic)
	if len(cyclic) == 0 {
		return types.Pattern{}, false
	}
	return types.Pattern{
		Type:        types.PatternCycle,
		Family:      types.FamilyTemporal,
		Description: "Recurring timing: " + strings.Join(cyclic, ", "),
		Confidence:  scaled(0.5, 0.1, len(cyclic), 0.8),
		Elements:    cyclic,
	}, true
}

// findPeriod returns the smallest period p (2 <= p <= n/2) such that the series
// repeats exactly with that period, or 0.
func findPeriod(series []float64) int {
	n := len(series)
	if n < 4 {
		return 0
	}
	for p := 2; p <= n/2; p++ {
		repeats := true
		for i := p; i < n; i++ {
			if series[i] != series[i-p] {
				repeats = false
				break
			}
		}
		if repeats && !constant(series[:p]) {
			return p
		}
	}
	return 0
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

func detectTrend(features []types.Feature) (types.Pattern, bool) {
	for _, series := range numericSeries(features) {
		if len(series) < 3 {
			continue
		}
		up, down := 0, 0
		for i := 1; i < len(series); i++ {
			switch {
			case series[i] > series[i-1]:
				up++
			case series[i] < series[i-1]:
				down++
			}
		}
		direction := ""
		switch {
		case up > 0 && down == 0:
			direction = "increasing"
		case down > 0 && up == 0:
			direction = "decreasing"
		default:
			continue
		}
		return types.Pattern{
			Type:        types.PatternTrend,
			Family:      types.FamilyTemporal,
			Description: fmt.Sprintf("Monotonically %s trend across %d values", direction, len(series)),
			Confidence:  scaled(0.45, 0.05, len(series), 0.9),
			Elements:    formatNumbers(series),
			Direction:   direction,
		}, true
	}
	return types.Pattern{}, false
}

func detectDomainProgression(features []types.Feature) (types.Pattern, bool) {
	domains := DetectedDomains(features)
	if len(domains) == 0 {
		return types.Pattern{}, false
	}
	var stages []string
	for _, it := range temporalItems(features) {
		if containsWord(progressionTerms, it) {
			stages = append(stages, it)
		}
	}
	stages = types.Dedupe(stages)
	if len(stages) == 0 {
		return types.Pattern{}, false
	}
	return types.Pattern{
		Type:        types.PatternDomainProgression,
		Family:      types.FamilyTemporal,
		Description: fmt.Sprintf("%s progression: %s", domains[0], strings.Join(stages, ", ")),
		Confidence:  scaled(0.55, 0.1, len(stages), 0.9),
		Elements:    stages,
	}, true
}

// numericSeries returns the ordered number lists found in the features.
func numericSeries(features []types.Feature) [][]float64 {
	var out [][]float64
	for _, f := range features {
		if (f.Type == types.FeatureNumericSummary || f.Type == types.FeatureNumericValues) && len(f.Numbers) > 0 {
			out = append(out, f.Numbers)
		}
	}
	return out
}

func formatNumbers(xs []float64) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprintf("%g", x)
	}
	return out
}

func lowerAll(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = strings.ToLower(x)
	}
	return out
}
