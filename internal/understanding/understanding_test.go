package understanding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carnerd/internal/config"
	"carnerd/internal/perception"
	"carnerd/internal/types"
)

func perceive(t *testing.T, input any) *types.SensibilityOutput {
	t.Helper()
	e := perception.NewExtractor(config.DefaultSensibilityConfig(), nil)
	out := e.Perceive(types.ProcessedData{}, input)
	require.NotNil(t, out.Sensibility)
	return out.Sensibility
}

func defaultInput(features ...types.Feature) Input {
	return Input{Features: features, Thresholds: config.DefaultUnderstandingConfig().Thresholds}
}

// =============================================================================
// CATEGORIZER
// =============================================================================

func TestCategorizer_AllAnalysesAlwaysDescribe(t *testing.T) {
	c := NewCategorizer(config.DefaultUnderstandingConfig(), nil)

	inputs := []any{"", nil, 0, []any{}, map[string]any{}, "The patient has fever and cough"}
	for _, in := range inputs {
		data := c.Analyze(perceive(t, in))
		require.Len(t, data.Analyses, 12)
		for _, cat := range types.AllCategories {
			a, ok := data.Get(cat)
			require.True(t, ok, "missing %s", cat)
			assert.NotEmpty(t, a.Description, "%s for %v", cat, in)
			assert.Equal(t, cat, a.Category)
			assert.GreaterOrEqual(t, a.Count, 0)
		}
	}
}

func TestCategorizer_NilSensibility(t *testing.T) {
	c := NewCategorizer(config.DefaultUnderstandingConfig(), nil)
	data := c.Analyze(nil)
	assert.Len(t, data.Analyses, 12)
	assert.False(t, data.Analyses[types.CategoryCausality].Found())
}

func TestCategorizer_DisabledAnalysesAreAbsent(t *testing.T) {
	cfg := config.DefaultUnderstandingConfig()
	cfg.Relation.EnableCausality = false
	cfg.Modality.EnableNecessity = false

	data := NewCategorizer(cfg, nil).Analyze(perceive(t, "Smoking causes cancer"))
	assert.Len(t, data.Analyses, 10)
	_, ok := data.Get(types.CategoryCausality)
	assert.False(t, ok)
	assert.Empty(t, data.CausalRelationships())
}

func TestCategorizer_OrderIndependent(t *testing.T) {
	sens := perceive(t, "Smoking causes cancer. Cancer may cause fatigue. The patient has fever.")
	in := Input{Features: sens.Features, Patterns: sens.Patterns(), Thresholds: config.DefaultUnderstandingConfig().Thresholds}

	forward := map[types.Category]types.Analysis{}
	for _, cat := range types.AllCategories {
		a, _ := Lookup(cat)
		forward[cat] = a.Analyze(in)
	}
	for i := len(types.AllCategories) - 1; i >= 0; i-- {
		cat := types.AllCategories[i]
		a, _ := Lookup(cat)
		assert.Equal(t, forward[cat], a.Analyze(in), "%s changed with order", cat)
	}
}

func TestCategorize_AdvancesHistory(t *testing.T) {
	e := perception.NewExtractor(config.DefaultSensibilityConfig(), nil)
	data := e.Perceive(types.ProcessedData{}, "fever")
	next := NewCategorizer(config.DefaultUnderstandingConfig(), nil).Categorize(data)

	require.NotNil(t, next.Categorized)
	assert.Equal(t, []string{types.StageSensibility, types.StageUnderstanding}, next.Metadata.History.Stages())
	assert.Equal(t, 1, data.Metadata.History.Len(), "input bundle must not change")
}

// =============================================================================
// INDIVIDUAL ANALYSES
// =============================================================================

func TestAnalyzeCausality(t *testing.T) {
	in := defaultInput(
		types.Feature{Type: types.FeatureCausalStatement, Cause: "rain", Effect: "flooding"},
		types.Feature{Type: types.FeatureCausalStatement, Cause: "flooding", Effect: "closures"},
		types.Feature{Type: types.FeatureCausalStatement, Cause: "wind", Effect: "outage", Hedged: true},
		types.Feature{Type: types.FeatureCausalStatement, Cause: "rain", Effect: "flooding"},
	)
	a := analyzeCausality(in)
	require.Len(t, a.Relationships, 3)
	assert.Equal(t, types.CausalRelationship{Cause: "rain", Effect: "flooding", Confidence: 0.8, Strength: 0.85}, a.Relationships[0])
	assert.InDelta(t, 0.55, a.Relationships[2].Confidence, 1e-9)

	in.Thresholds.CausalConfidence = 0.6
	a = analyzeCausality(in)
	assert.Len(t, a.Relationships, 2)
}

func TestAnalyzeCausality_Sentinel(t *testing.T) {
	a := analyzeCausality(defaultInput())
	assert.Equal(t, "No causal relationships identified", a.Description)
	assert.Zero(t, a.Count)
}

func TestAnalyzePlurality(t *testing.T) {
	one := analyzePlurality(defaultInput(types.Feature{Type: types.FeatureSignificantTerms, Items: []string{"fever"}}))
	assert.False(t, one.Found())
	assert.Contains(t, one.Description, "No plurality")

	many := analyzePlurality(defaultInput(types.Feature{Type: types.FeatureSignificantTerms, Items: []string{"fever", "cough", "Fever"}}))
	assert.Equal(t, 2, many.Count)
}

func TestAnalyzeTotality(t *testing.T) {
	a := analyzeTotality(defaultInput(
		types.Feature{Type: types.FeatureProperty, Name: "age", Value: 40.0},
		types.Feature{Type: types.FeatureProperty, Name: "name", Value: ""},
		types.Feature{Type: types.FeatureProperty, Name: "notes", Value: nil},
		types.Feature{Type: types.FeatureProperty, Name: "tags", Value: types.KindArray, Count: 2},
	))
	assert.Equal(t, 4, a.Count)
	assert.InDelta(t, 0.5, a.Score, 1e-9)
	assert.Equal(t, []string{"name", "notes"}, a.Items)

	data := types.CategorizedData{Analyses: map[types.Category]types.Analysis{types.CategoryTotality: a}}
	assert.InDelta(t, 0.5, Completeness(data), 1e-9)
	assert.Equal(t, 1.0, Completeness(types.CategorizedData{}))
}

func TestAnalyzePossibilityAndNecessity(t *testing.T) {
	sens := perceive(t, "It will likely rain. Roads must stay open. The bridge might close.")
	in := Input{Features: sens.Features, Patterns: sens.Patterns(), Thresholds: config.DefaultUnderstandingConfig().Thresholds}

	poss := analyzePossibility(in)
	require.Len(t, poss.Possibilities, 2)
	assert.Equal(t, 0.7, poss.Possibilities[0].Likelihood)
	assert.Equal(t, 0.4, poss.Possibilities[1].Likelihood)

	nec := analyzeNecessity(in)
	assert.Equal(t, []string{"Roads must stay open"}, nec.Items)

	in.Thresholds.NecessityThreshold = 0.95
	assert.False(t, analyzeNecessity(in).Found())
}

func TestAnalyzeCommunity(t *testing.T) {
	sens := perceive(t, []any{
		map[string]any{"name": "a", "score": 1},
		map[string]any{"name": "b", "score": 2},
	})
	a := analyzeCommunity(Input{Features: sens.Features, Patterns: sens.Patterns()})
	require.True(t, a.Found())
	assert.Contains(t, a.Items, "2 records sharing fields: name, score")
}

func TestAnalyzeNegationAndReality(t *testing.T) {
	sens := perceive(t, "The test was not positive. Fever reached 39.")
	in := Input{Features: sens.Features, Thresholds: config.DefaultUnderstandingConfig().Thresholds}

	neg := analyzeNegation(in)
	assert.Equal(t, []string{"The test was not positive"}, neg.Items)

	real := analyzeReality(in)
	assert.Contains(t, real.Items, "39")
	assert.Contains(t, real.Items, "fever")
	assert.Less(t, real.Score, 1.0)
}

func TestAnalyzeUnity(t *testing.T) {
	a := analyzeUnity(defaultInput(
		types.Feature{Type: types.FeatureDomainMarker, Domain: "healthcare", Items: []string{"fever", "cough"}},
		types.Feature{Type: types.FeatureDomainMarker, Domain: "finance", Items: []string{"cost"}},
	))
	assert.Equal(t, []string{"healthcare"}, a.Items)
	assert.InDelta(t, 2.0/3.0, a.Score, 1e-9)

	assert.Equal(t, "No unifying element identified", analyzeUnity(defaultInput()).Description)
}

func TestAnalyzeSubstance(t *testing.T) {
	a := analyzeSubstance(defaultInput(
		types.Feature{Type: types.FeatureCausalStatement, Cause: "rain", Effect: "flooding"},
		types.Feature{Type: types.FeatureCausalStatement, Cause: "flooding", Effect: "closures"},
		types.Feature{Type: types.FeatureProperty, Name: "Region"},
	))
	assert.Equal(t, []string{"flooding", "region"}, a.Items)
}
