package perception

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

func newTestExtractor() *Extractor {
	return NewExtractor(config.DefaultSensibilityConfig(), nil)
}

func featuresOf(fs []types.Feature, t types.FeatureType) []types.Feature {
	var out []types.Feature
	for _, f := range fs {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// TEXT EXTRACTION
// =============================================================================

func TestExtract_PatientText(t *testing.T) {
	fs := newTestExtractor().Extract("The patient has fever and cough")

	structure := featuresOf(fs, types.FeatureTextStructure)
	require.Len(t, structure, 1)
	assert.Equal(t, 6, structure[0].Count)

	terms := featuresOf(fs, types.FeatureSignificantTerms)
	require.Len(t, terms, 1)
	assert.Equal(t, []string{"patient", "fever", "cough"}, terms[0].Items)

	markers := featuresOf(fs, types.FeatureDomainMarker)
	require.Len(t, markers, 1)
	assert.Equal(t, "healthcare", markers[0].Domain)
	assert.Equal(t, []string{"patient", "fever", "cough"}, markers[0].Items)
}

func TestExtract_TextCounts(t *testing.T) {
	fs := newTestExtractor().Extract("First paragraph here. Second sentence!\n\nAnother paragraph with 42 and 3.5.")
	structure := featuresOf(fs, types.FeatureTextStructure)
	require.Len(t, structure, 1)
	counts := structure[0].Value.(map[string]any)
	assert.Equal(t, 2, counts["paragraphs"])
	assert.Equal(t, 3, counts["sentences"])

	nums := featuresOf(fs, types.FeatureNumericValues)
	require.Len(t, nums, 1)
	assert.Equal(t, []float64{42, 3.5}, nums[0].Numbers)
}

func TestExtract_CausalStatements(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cause  string
		effect string
		hedged bool
	}{
		{"forward", "Smoking causes cancer.", "smoking", "cancer", false},
		{"leads to", "Poor sleep leads to fatigue", "poor sleep", "fatigue", false},
		{"hedged", "Stress may cause headaches", "stress", "headaches", true},
		{"backward", "The road flooded because of heavy rain", "heavy rain", "road flooded", false},
		{"nested forward", "The parser emits invalid utf8 because rain causes flooding", "rain", "flooding", false},
		{"nested backward", "Drought leads to crop failure due to poor irrigation", "drought", "crop failure", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			causal := featuresOf(newTestExtractor().Extract(tt.input), types.FeatureCausalStatement)
			require.Len(t, causal, 1)
			assert.Equal(t, tt.cause, causal[0].Cause)
			assert.Equal(t, tt.effect, causal[0].Effect)
			assert.Equal(t, tt.hedged, causal[0].Hedged)
		})
	}
}

func TestExtract_ModalNegationTemporal(t *testing.T) {
	fs := newTestExtractor().Extract("Rain might come later. Roads must stay open. The bridge is not safe.")

	modal := featuresOf(fs, types.FeatureModalStatement)
	require.Len(t, modal, 2)
	assert.Equal(t, "possibility", modal[0].Name)
	assert.Equal(t, "necessity", modal[1].Name)

	assert.Len(t, featuresOf(fs, types.FeatureNegation), 1)

	temporal := featuresOf(fs, types.FeatureTemporalMarker)
	require.Len(t, temporal, 1)
	assert.Contains(t, temporal[0].Items, "later")
}

func TestExtract_TemporalDisabled(t *testing.T) {
	cfg := config.DefaultSensibilityConfig()
	cfg.EnableTemporal = false
	fs := NewExtractor(cfg, nil).Extract("It started yesterday and got worse after lunch")
	assert.Empty(t, featuresOf(fs, types.FeatureTemporalMarker))
}

func TestExtract_SignificantTermMinLength(t *testing.T) {
	cfg := config.DefaultSensibilityConfig()
	cfg.SignificantTermMinLength = 8
	terms := featuresOf(NewExtractor(cfg, nil).Extract("hospital patient fever"), types.FeatureSignificantTerms)
	require.Len(t, terms, 1)
	assert.Equal(t, []string{"hospital"}, terms[0].Items)
}

// =============================================================================
// ARRAYS, OBJECTS, PRIMITIVES
// =============================================================================

func TestExtract_NumericArray(t *testing.T) {
	fs := newTestExtractor().Extract([]any{1.0, 2.0, 3.0, 4.0})

	typology := featuresOf(fs, types.FeatureTypology)
	require.Len(t, typology, 1)
	assert.Equal(t, "homogeneous", typology[0].Name)

	summary := featuresOf(fs, types.FeatureNumericSummary)
	require.Len(t, summary, 1)
	stats := summary[0].Value.(map[string]any)
	assert.Equal(t, 1.0, stats["min"])
	assert.Equal(t, 4.0, stats["max"])
	assert.Equal(t, 2.5, stats["mean"])
}

func TestExtract_MixedArray(t *testing.T) {
	fs := newTestExtractor().Extract([]any{"fever", 2, map[string]any{"a": 1}})
	typology := featuresOf(fs, types.FeatureTypology)
	require.Len(t, typology, 1)
	assert.Equal(t, "heterogeneous", typology[0].Name)
	if diff := cmp.Diff([]string{"number", "object", "string"}, typology[0].Items); diff != "" {
		t.Errorf("typology mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, featuresOf(fs, types.FeatureStringSummary), 1)
	assert.Len(t, featuresOf(fs, types.FeatureObjectSummary), 1)
}

func TestExtract_ObjectWithSymptoms(t *testing.T) {
	fs := newTestExtractor().Extract(map[string]any{
		"symptoms": []any{"fever", "cough"},
		"onset":    "2024-01-03",
		"cause":    "virus",
		"effect":   "fever",
	})

	markers := featuresOf(fs, types.FeatureDomainMarker)
	require.Len(t, markers, 1)
	assert.Equal(t, "healthcare", markers[0].Domain)
	assert.Contains(t, markers[0].Items, "symptoms")

	props := featuresOf(fs, types.FeatureProperty)
	assert.Len(t, props, 4)

	causal := featuresOf(fs, types.FeatureCausalStatement)
	require.Len(t, causal, 1)
	assert.Equal(t, "virus", causal[0].Cause)

	assert.NotEmpty(t, featuresOf(fs, types.FeatureTemporalMarker))
}

func TestExtract_Primitives(t *testing.T) {
	tests := []struct {
		in   any
		kind string
	}{
		{42, "number"},
		{true, "boolean"},
		{nil, "null"},
	}
	for _, tt := range tests {
		fs := newTestExtractor().Extract(tt.in)
		require.Len(t, fs, 1)
		assert.Equal(t, types.FeaturePrimitive, fs[0].Type)
		assert.Equal(t, tt.kind, fs[0].Name)
	}
}

func TestExtract_EmptyInputs(t *testing.T) {
	e := newTestExtractor()
	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("   "))
	assert.Len(t, e.Extract([]any{}), 1)
	assert.Len(t, e.Extract(map[string]any{}), 1)
}

func TestExtract_Deterministic(t *testing.T) {
	input := map[string]any{"b": "policy vote", "a": []any{1, 2}, "c": map[string]any{"d": "x"}}
	e := newTestExtractor()
	first := e.Extract(input)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, e.Extract(input)); diff != "" {
			t.Fatalf("extraction not deterministic (-first +again):\n%s", diff)
		}
	}
}

// =============================================================================
// PATTERNS
// =============================================================================

func TestDetectSpatialPatterns_SymptomCluster(t *testing.T) {
	e := newTestExtractor()
	patterns := e.DetectSpatialPatterns(e.Extract("The patient has fever and cough"))
	require.NotEmpty(t, patterns)
	assert.Equal(t, types.PatternSymptomCluster, patterns[0].Type)
	assert.InDelta(t, 0.8, patterns[0].Confidence, 1e-9)
	for i := 1; i < len(patterns); i++ {
		assert.GreaterOrEqual(t, patterns[i-1].Confidence, patterns[i].Confidence)
	}
}

func TestDetectSpatialPatterns_HierarchyAndNetwork(t *testing.T) {
	e := newTestExtractor()
	fs := e.Extract(map[string]any{
		"notes": "Rain causes flooding. Flooding causes road closures.",
		"meta":  map[string]any{"inner": map[string]any{"deep": 1}},
	})
	patterns := e.DetectSpatialPatterns(fs)
	byType := map[types.PatternType]types.Pattern{}
	for _, p := range patterns {
		byType[p.Type] = p
	}
	require.Contains(t, byType, types.PatternHierarchy)
	require.Contains(t, byType, types.PatternNetwork)
	assert.Equal(t, []string{"rain", "flooding", "road closures"}, byType[types.PatternNetwork].Elements)
}

func TestDetectTemporalPatterns(t *testing.T) {
	e := newTestExtractor()

	trend := e.DetectTemporalPatterns(e.Extract([]any{1, 2, 3, 5, 8}))
	require.Len(t, trend, 1)
	assert.Equal(t, types.PatternTrend, trend[0].Type)
	assert.Equal(t, "increasing", trend[0].Direction)

	cycle := e.DetectTemporalPatterns(e.Extract([]any{1, 2, 1, 2, 1, 2}))
	require.Len(t, cycle, 1)
	assert.Equal(t, types.PatternCycle, cycle[0].Type)

	progression := e.DetectTemporalPatterns(e.Extract("Acute onset of fever, then worsening cough"))
	kinds := map[types.PatternType]bool{}
	for _, p := range progression {
		kinds[p.Type] = true
	}
	assert.True(t, kinds[types.PatternSequence])
	assert.True(t, kinds[types.PatternDomainProgression])
}

func TestPatternThresholds(t *testing.T) {
	cfg := config.DefaultSensibilityConfig()
	cfg.PatternDetectionThresholds.MaxPatterns = 1
	e := NewExtractor(cfg, nil)
	assert.Len(t, e.DetectSpatialPatterns(e.Extract("The patient has fever and cough")), 1)

	cfg.PatternDetectionThresholds.MaxPatterns = 10
	cfg.PatternDetectionThresholds.Confidence = 0.99
	e = NewExtractor(cfg, nil)
	assert.Empty(t, e.DetectSpatialPatterns(e.Extract("The patient has fever and cough")))

	cfg = config.DefaultSensibilityConfig()
	cfg.EnableSpatialPatterns = false
	e = NewExtractor(cfg, nil)
	assert.Nil(t, e.DetectSpatialPatterns(e.Extract("The patient has fever and cough")))
}

func TestPerceive_AdvancesHistory(t *testing.T) {
	e := newTestExtractor()
	out := e.Perceive(types.ProcessedData{}, "The patient has fever and cough")
	require.NotNil(t, out.Sensibility)
	assert.Equal(t, []string{types.StageSensibility}, out.Metadata.History.Stages())
	assert.NotEmpty(t, out.Sensibility.Features)
	assert.NotEmpty(t, out.Sensibility.SpatialPatterns)
}

func TestExtract_SelfReferentialObject(t *testing.T) {
	obj := map[string]any{"note": "Patient has fever and cough"}
	obj["self"] = obj
	obj["cause"] = obj
	list := make([]any, 2)
	list[0] = "headache"
	list[1] = list

	fs := newTestExtractor().Extract(obj)
	require.NotEmpty(t, fs)
	assert.NotEmpty(t, newTestExtractor().Extract(list))

	for _, f := range featuresOf(fs, types.FeatureStructure) {
		nesting := f.Value.(map[string]any)["nesting"].(int)
		assert.LessOrEqual(t, nesting, maxDepth)
	}
}

func TestNestingDepth(t *testing.T) {
	assert.Equal(t, 0, nestingDepth("leaf", maxDepth))
	assert.Equal(t, 2, nestingDepth([]any{[]any{1.0}}, maxDepth))
	assert.Equal(t, 1, nestingDepth(map[string]any{"a": map[string]any{"b": 1.0}}, 1))
}
