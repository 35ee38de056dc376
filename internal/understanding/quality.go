package understanding

import (
	"fmt"

	"carnerd/internal/types"
)

// =============================================================================
// QUALITY: reality, negation, limitation
// =============================================================================

// analyzeReality counts affirmed content: present property values, measured
// numbers and unhedged causal statements.
func analyzeReality(in Input) types.Analysis {
	var items []string
	for _, f := range in.Features {
		switch f.Type {
		case types.FeatureProperty:
			if !isEmptyValue(f) {
				items = append(items, f.Name)
			}
		case types.FeatureNumericValues, types.FeatureNumericSummary:
			for _, n := range f.Numbers {
				items = append(items, types.ExtractString(n))
			}
		case types.FeatureCausalStatement:
			if !f.Hedged {
				items = append(items, valueString(f))
			}
		case types.FeatureDomainMarker:
			items = append(items, f.Items...)
		case types.FeaturePrimitive:
			if f.Value != nil {
				items = append(items, types.ExtractString(f.Value))
			}
		}
	}
	items = types.Dedupe(items)
	if len(items) == 0 {
		return types.Analysis{Description: "No affirmed realities identified"}
	}

	negated := len(ofType(in.Features, types.FeatureNegation))
	return types.Analysis{
		Description: fmt.Sprintf("%d affirmed elements identified", len(items)),
		Count:       len(items),
		Score:       ratio(len(items), len(items)+negated),
		Items:       items,
	}
}

func analyzeNegation(in Input) types.Analysis {
	var items []string
	for _, f := range in.Features {
		switch f.Type {
		case types.FeatureNegation:
			items = append(items, valueString(f))
		case types.FeatureProperty:
			if f.Value == nil {
				items = append(items, f.Name+" is null")
			}
		case types.FeaturePrimitive:
			if b, ok := f.Value.(bool); ok && !b {
				items = append(items, "false")
			}
		}
	}
	items = types.Dedupe(items)
	if len(items) == 0 {
		return types.Analysis{Description: "No negations identified"}
	}
	return types.Analysis{
		Description: fmt.Sprintf("%d negated statements identified", len(items)),
		Count:       len(items),
		Score:       ratio(len(items), len(items)+len(ofType(in.Features, types.FeatureTextStructure))),
		Items:       items,
	}
}

// analyzeLimitation collects qualified content: hedged statements and the bounds
// of numeric ranges.
func analyzeLimitation(in Input) types.Analysis {
	var items []string
	for _, f := range in.Features {
		switch f.Type {
		case types.FeatureModalStatement, types.FeatureCausalStatement:
			if f.Hedged {
				items = append(items, valueString(f))
			}
		case types.FeatureNumericSummary:
			if stats, ok := f.Value.(map[string]any); ok {
				items = append(items, fmt.Sprintf("values bounded between %s and %s",
					types.ExtractString(stats["min"]), types.ExtractString(stats["max"])))
			}
		}
	}
	items = types.Dedupe(items)
	if len(items) == 0 {
		return types.Analysis{Description: "No limitations identified"}
	}
	return types.Analysis{
		Description: fmt.Sprintf("%d limiting qualifications identified", len(items)),
		Count:       len(items),
		Score:       ratio(len(items), len(items)+1),
		Items:       items,
	}
}
