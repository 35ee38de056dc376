// Package judgment holds the optional post-processing modules: schematism,
// which ties category findings to time, and aesthetic judgment, which scores
// the form of the reasoning.
package judgment

import (
	"carnerd/internal/types"
)

// Temporal schemata.
const (
	SchemaNumber       = "number"
	SchemaDegree       = "degree"
	SchemaFilledTime   = "filled time"
	SchemaEmptyTime    = "empty time"
	SchemaPermanence   = "permanence"
	SchemaSuccession   = "succession"
	SchemaSimultaneity = "simultaneity"
	SchemaSomeTime     = "some time"
	SchemaDeterminate  = "determinate time"
	SchemaAllTime      = "all time"
)

var schemata = map[types.Category]string{
	types.CategoryUnity:       SchemaNumber,
	types.CategoryPlurality:   SchemaNumber,
	types.CategoryTotality:    SchemaNumber,
	types.CategoryReality:     SchemaFilledTime,
	types.CategoryNegation:    SchemaEmptyTime,
	types.CategoryLimitation:  SchemaDegree,
	types.CategorySubstance:   SchemaPermanence,
	types.CategoryCausality:   SchemaSuccession,
	types.CategoryCommunity:   SchemaSimultaneity,
	types.CategoryPossibility: SchemaSomeTime,
	types.CategoryExistence:   SchemaDeterminate,
	types.CategoryNecessity:   SchemaAllTime,
}

// Patterns that ground a schema besides an explicit temporal marker.
var grounding = map[string][]types.PatternType{
	SchemaPermanence: {types.PatternCycle, types.PatternTrend},
	SchemaSuccession: {types.PatternSequence, types.PatternTrend, types.PatternDomainProgression},
}

// SchemaOf returns the temporal schema of a category.
func SchemaOf(cat types.Category) (string, bool) {
	s, ok := schemata[cat]
	return s, ok
}

// Schematize maps every category with findings to its schema, in canonical
// category order.
func Schematize(sens *types.SensibilityOutput, data types.CategorizedData) []types.Schema {
	var features []types.Feature
	if sens != nil {
		features = sens.Features
	}
	patterns := sens.Patterns()

	out := []types.Schema{}
	for _, cat := range types.AllCategories {
		a, ok := data.Get(cat)
		if !ok || !a.Found() {
			continue
		}
		schema := schemata[cat]
		out = append(out, types.Schema{
			Category: cat,
			Schema:   schema,
			Grounded: grounded(schema, features, patterns),
		})
	}
	return out
}

func grounded(schema string, features []types.Feature, patterns []types.Pattern) bool {
	if schema == SchemaNumber {
		for _, f := range features {
			if f.Type == types.FeatureNumericValues || f.Type == types.FeatureNumericSummary || len(f.Numbers) > 0 {
				return true
			}
		}
		return false
	}
	for _, f := range features {
		if f.Type == types.FeatureTemporalMarker {
			return true
		}
	}
	want, specific := grounding[schema]
	for _, p := range patterns {
		if p.Family != types.FamilyTemporal {
			continue
		}
		if !specific {
			return true
		}
		for _, w := range want {
			if p.Type == w {
				return true
			}
		}
	}
	return false
}
