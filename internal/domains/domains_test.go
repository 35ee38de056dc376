package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carnerd/internal/config"
	"carnerd/internal/perception"
	"carnerd/internal/types"
)

func contextFor(t *testing.T, domain string, input any) Context {
	t.Helper()
	e := perception.NewExtractor(config.DefaultSensibilityConfig(), nil)
	sens := e.Perceive(types.ProcessedData{}, input).Sensibility
	require.NotNil(t, sens)
	return Context{
		Domain:   domain,
		Detected: perception.DetectedDomains(sens.Features),
		Features: sens.Features,
		Patterns: sens.Patterns(),
	}
}

func texts(infs []types.Inference) []string {
	out := make([]string, len(infs))
	for i, inf := range infs {
		out[i] = inf.Inference
	}
	return out
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"education", "governance", "healthcare"}, Names())
}

func TestLookup(t *testing.T) {
	ext, ok := Lookup("Healthcare")
	require.True(t, ok)
	assert.Equal(t, "healthcare", ext.Name())

	_, ok = Lookup("astrology")
	assert.False(t, ok)
}

func TestActive_ConfiguredFirstNoDuplicates(t *testing.T) {
	ctx := Context{Domain: "governance", Detected: []string{"healthcare", "governance", "finance"}}
	var names []string
	for _, ext := range Active(ctx) {
		names = append(names, ext.Name())
	}
	assert.Equal(t, []string{"governance", "healthcare"}, names)
}

func TestActive_GeneralDomainWithoutMarkers(t *testing.T) {
	assert.Empty(t, Active(Context{Domain: "general"}))
	assert.Empty(t, Inferences(Context{Domain: "general"}))
	assert.Empty(t, Limitations(Context{Domain: "general"}))
}

// =============================================================================
// HEALTHCARE
// =============================================================================

func TestHealthcare_RespiratoryInfection(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"text", "The patient has fever and cough"},
		{"object", map[string]any{"symptoms": []any{"fever", "cough"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infs := Inferences(contextFor(t, "healthcare", tt.input))
			require.NotEmpty(t, infs)
			assert.Equal(t, "Symptoms suggest possible respiratory infection", infs[0].Inference)
			assert.Equal(t, 0.75, infs[0].Confidence)
			assert.Equal(t, types.InferenceDomainSpecific, infs[0].Type)
			assert.Contains(t, infs[0].Evidence[0], "fever")
		})
	}
}

func TestHealthcare_NoSymptomsNoInference(t *testing.T) {
	infs := Inferences(contextFor(t, "healthcare", "Quarterly revenue grew"))
	assert.Empty(t, infs)
}

func TestHealthcare_LimitationMentionsClinicalData(t *testing.T) {
	lims := Limitations(contextFor(t, "healthcare", "The patient has fever and cough"))
	require.Len(t, lims, 2)
	assert.Contains(t, lims[0], "clinical data")
	assert.Contains(t, lims[1], "medical diagnosis")
}

func TestHealthcare_DetectedWithoutConfiguration(t *testing.T) {
	infs := Inferences(contextFor(t, "general", "Fever and cough since Monday"))
	assert.Contains(t, texts(infs), "Symptoms suggest possible respiratory infection")
}

// =============================================================================
// EDUCATION AND GOVERNANCE
// =============================================================================

func TestEducation_DecliningGrades(t *testing.T) {
	ctx := contextFor(t, "education", map[string]any{"grades": []any{90, 82, 75, 61}})
	assert.Contains(t, texts(Inferences(ctx)), "Student performance is declining; early learning support may help")
	assert.Contains(t, Limitations(ctx)[0], "longitudinal")
}

func TestGovernance_PolicyAndCitizens(t *testing.T) {
	ctx := contextFor(t, "governance", "The new policy affects citizens in every district")
	infs := Inferences(ctx)
	require.NotEmpty(t, infs)
	assert.Equal(t, "Policy decisions affecting citizens require stakeholder consultation", infs[0].Inference)
	assert.Equal(t, 0.7, infs[0].Confidence)
}
