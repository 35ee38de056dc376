package understanding

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"carnerd/internal/types"
)

// =============================================================================
// QUANTITY: unity, plurality, totality
// =============================================================================

// analyzeUnity looks for a single organizing whole: a dominant domain, or failing
// that a single root structure.
func analyzeUnity(in Input) types.Analysis {
	markers := ofType(in.Features, types.FeatureDomainMarker)
	if len(markers) > 0 {
		best := markers[0]
		total := 0
		for _, m := range markers {
			total += len(m.Items)
			if len(m.Items) > len(best.Items) {
				best = m
			}
		}
		return types.Analysis{
			Description: fmt.Sprintf("Input forms a unified %s whole", best.Domain),
			Count:       1,
			Score:       ratio(len(best.Items), total),
			Items:       []string{best.Domain},
		}
	}

	for _, f := range in.Features {
		if f.Depth == 0 && (f.Type == types.FeatureStructure || f.Type == types.FeatureTextStructure) {
			return types.Analysis{
				Description: fmt.Sprintf("Input forms a single %s unit", f.Name),
				Count:       1,
				Score:       0.5,
				Items:       []string{f.Name},
			}
		}
	}

	return types.Analysis{Description: "No unifying element identified"}
}

// distinctElements collects the named elements of the input: significant terms,
// property names and array strings.
func distinctElements(features []types.Feature) []string {
	var elems []string
	for _, f := range features {
		switch f.Type {
		case types.FeatureSignificantTerms, types.FeatureStringSummary:
			for _, it := range f.Items {
				elems = append(elems, strings.ToLower(it))
			}
		case types.FeatureProperty:
			elems = append(elems, strings.ToLower(f.Name))
		}
	}
	return types.Dedupe(elems)
}

func analyzePlurality(in Input) types.Analysis {
	elems := distinctElements(in.Features)
	if len(elems) < in.Thresholds.PluralityMinimum || len(elems) == 0 {
		return types.Analysis{
			Description: fmt.Sprintf("No plurality identified (%d distinct elements)", len(elems)),
			Items:       elems,
		}
	}
	return types.Analysis{
		Description: fmt.Sprintf("%d distinct elements identified", len(elems)),
		Count:       len(elems),
		Score:       math.Min(float64(len(elems))/10, 1),
		Items:       elems,
	}
}

// analyzeTotality measures completeness: the share of properties carrying a
// non-empty value. Text input counts as complete.
func analyzeTotality(in Input) types.Analysis {
	props := ofType(in.Features, types.FeatureProperty)
	if len(props) == 0 {
		if len(in.Features) == 0 {
			return types.Analysis{Description: "No totality identified: input is empty"}
		}
		return types.Analysis{
			Description: "Input considered as a complete whole",
			Count:       len(in.Features),
			Score:       1,
		}
	}

	var missing []string
	for _, p := range props {
		if isEmptyValue(p) {
			missing = append(missing, p.Name)
		}
	}
	sort.Strings(missing)
	present := len(props) - len(missing)
	return types.Analysis{
		Description: fmt.Sprintf("Data completeness: %d of %d values present", present, len(props)),
		Count:       len(props),
		Score:       ratio(present, len(props)),
		Items:       missing,
	}
}

func isEmptyValue(p types.Feature) bool {
	switch v := p.Value.(type) {
	case nil:
		return true
	case types.Kind:
		return p.Count == 0
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

// Completeness returns the totality score, or 1 when totality did not run.
func Completeness(c types.CategorizedData) float64 {
	if a, ok := c.Get(types.CategoryTotality); ok && a.Count > 0 {
		return a.Score
	}
	return 1
}
