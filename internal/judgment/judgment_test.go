package judgment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"carnerd/internal/reason"
	"carnerd/internal/types"
)

func found(cats ...types.Category) types.CategorizedData {
	data := types.CategorizedData{Analyses: map[types.Category]types.Analysis{}}
	for _, c := range cats {
		data.Analyses[c] = types.Analysis{Category: c, Count: 1}
	}
	return data
}

// =============================================================================
// SCHEMATISM
// =============================================================================

func TestSchemaOf(t *testing.T) {
	for _, cat := range types.AllCategories {
		s, ok := SchemaOf(cat)
		assert.True(t, ok, cat)
		assert.NotEmpty(t, s, cat)
	}
	_, ok := SchemaOf("beauty")
	assert.False(t, ok)
}

func TestSchematize_OnlyFoundCategoriesInOrder(t *testing.T) {
	data := found(types.CategoryNecessity, types.CategoryCausality, types.CategoryUnity)
	data.Analyses[types.CategoryReality] = types.Analysis{Category: types.CategoryReality}

	got := Schematize(nil, data)
	want := []types.Schema{
		{Category: types.CategoryUnity, Schema: SchemaNumber},
		{Category: types.CategoryCausality, Schema: SchemaSuccession},
		{Category: types.CategoryNecessity, Schema: SchemaAllTime},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Schematize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSchematize_Grounding(t *testing.T) {
	data := found(types.CategoryUnity, types.CategorySubstance, types.CategoryCausality, types.CategoryExistence)
	sens := &types.SensibilityOutput{
		Features: []types.Feature{{Type: types.FeatureNumericValues, Numbers: []float64{1, 2}}},
		TemporalPatterns: []types.Pattern{
			{Type: types.PatternSequence, Family: types.FamilyTemporal},
		},
	}
	got := map[types.Category]bool{}
	for _, s := range Schematize(sens, data) {
		got[s.Category] = s.Grounded
	}
	assert.Equal(t, map[types.Category]bool{
		types.CategoryUnity:     true,  // numbers present
		types.CategorySubstance: false, // needs a cycle or trend
		types.CategoryCausality: true,  // sequence
		types.CategoryExistence: true,  // any temporal pattern
	}, got)
}

func TestSchematize_TemporalMarkerGroundsEverything(t *testing.T) {
	data := found(types.CategorySubstance, types.CategoryCommunity)
	sens := &types.SensibilityOutput{Features: []types.Feature{{Type: types.FeatureTemporalMarker, Items: []string{"before"}}}}
	for _, s := range Schematize(sens, data) {
		assert.True(t, s.Grounded, s.Category)
	}
}

// =============================================================================
// AESTHETIC JUDGMENT
// =============================================================================

func TestAssess_NoInferences(t *testing.T) {
	got := Assess(types.ReasoningOutput{}, 0.6)
	assert.Equal(t, types.AestheticAssessment{Judgment: JudgmentNothing}, got)
}

func TestAssess(t *testing.T) {
	infs := func(confs ...float64) []types.Inference {
		out := make([]types.Inference, len(confs))
		for i, c := range confs {
			out[i] = types.Inference{Type: types.InferenceCausal, Confidence: c}
		}
		return out
	}
	tests := []struct {
		name string
		r    types.ReasoningOutput
		want types.AestheticAssessment
	}{
		{
			name: "coherent and supported",
			r:    types.ReasoningOutput{Inferences: infs(0.9, 0.8), Decision: types.Decision{Action: "Act"}},
			want: types.AestheticAssessment{Harmony: 1, Simplicity: 1, Purposiveness: 1, Judgment: JudgmentHarmonious},
		},
		{
			name: "default decision has no purpose",
			r:    types.ReasoningOutput{Inferences: infs(0.4), Decision: types.Decision{Action: reason.DefaultAction}},
			want: types.AestheticAssessment{Harmony: 1, Simplicity: 1, Purposiveness: 0, Judgment: JudgmentAdequate},
		},
		{
			name: "many weak mixed inferences",
			r: types.ReasoningOutput{
				Inferences: []types.Inference{
					{Type: types.InferenceCausal, Confidence: 0.3},
					{Type: types.InferenceStructural, Confidence: 0.3},
					{Type: types.InferencePattern, Confidence: 0.3},
					{Type: types.InferenceAnalogical, Confidence: 0.3},
					{Type: types.InferenceDeductive, Confidence: 0.3},
					{Type: types.InferenceHistorical, Confidence: 0.3},
					{Type: types.InferenceStatistical, Confidence: 0.3},
					{Type: types.InferenceInductive, Confidence: 0.3},
					{Type: types.InferenceAbductive, Confidence: 0.3},
					{Type: types.InferencePredictive, Confidence: 0.3},
				},
				Decision: types.Decision{Action: "Act"},
			},
			want: types.AestheticAssessment{Harmony: 0.1, Simplicity: 0.3, Purposiveness: 0, Judgment: JudgmentFormless},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.r, 0.6)
			assert.InDelta(t, tt.want.Harmony, got.Harmony, 1e-9)
			assert.InDelta(t, tt.want.Simplicity, got.Simplicity, 1e-9)
			assert.InDelta(t, tt.want.Purposiveness, got.Purposiveness, 1e-9)
			assert.Equal(t, tt.want.Judgment, got.Judgment)
		})
	}
}
