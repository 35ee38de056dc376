package ethics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

func allFormulations() config.ImperativeConfig {
	return config.ImperativeConfig{Universalizability: true, HumanityAsEnd: true, KingdomOfEnds: true}
}

// =============================================================================
// FORMULATIONS
// =============================================================================

func TestUniversalizability(t *testing.T) {
	tests := []struct {
		action string
		passes bool
	}{
		{"Deceive the patient about the risks", false},
		{"They were DECEIVED by the report", false},
		{"Lie to the auditors", false},
		{"Cheat on the allocation", false},
		{"Give special treatment to donors", false},
		{"Offer discounts only for members", false},
		{"Apply the rule to everyone except for managers", false},
		{"Believe the measured data", true},
		{"Share the results with everyone", true},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			res := Universalizability(tt.action)
			assert.Equal(t, tt.passes, res.Passes)
			assert.NotEmpty(t, res.Reasoning)
		})
	}
}

func TestUniversalizability_AnyDeceiveFails(t *testing.T) {
	for _, action := range []string{
		"deceive",
		"Please deceive nobody",
		"undeceived users",
		"Plan: DECEIVE, then apologise",
		"inform and then deceive",
	} {
		assert.False(t, Universalizability(action).Passes, action)
	}
}

func TestHumanityAsEnd(t *testing.T) {
	tests := []struct {
		name   string
		action string
		passes bool
		reason string
	}{
		{"instrumentalizing", "Manipulate users into buying", false, "merely as means"},
		{"without consent", "Enrol patients without consent", false, "merely as means"},
		{"no autonomy vocabulary", "Increase prices next quarter", false, "autonomy"},
		{"respecting", "Inform patients of their options", true, "ends in themselves"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := HumanityAsEnd(tt.action)
			assert.Equal(t, tt.passes, res.Passes)
			assert.Contains(t, res.Reasoning, tt.reason)
		})
	}
}

func TestKingdomOfEnds(t *testing.T) {
	res := KingdomOfEnds("Exclude older applicants")
	assert.False(t, res.Passes)
	assert.Contains(t, res.Reasoning, "exclude")

	res = KingdomOfEnds("Build cooperation across teams")
	assert.True(t, res.Passes)
	assert.Contains(t, res.Reasoning, "actively supports")

	res = KingdomOfEnds("Review the report")
	assert.True(t, res.Passes)
	assert.Equal(t, "Action is compatible with a kingdom of ends", res.Reasoning)
}

// =============================================================================
// GATE
// =============================================================================

func TestImperative_Passes(t *testing.T) {
	g := NewImperative(allFormulations(), zaptest.NewLogger(t))
	res := g.Evaluate("Inform patients and respect their choices")

	assert.True(t, res.Passes)
	assert.Empty(t, res.AlternativeAction)
	require.NotNil(t, res.Tests.Universalizability)
	require.NotNil(t, res.Tests.HumanityAsEnd)
	require.NotNil(t, res.Tests.KingdomOfEnds)
}

func TestImperative_FailureCarriesAlternative(t *testing.T) {
	g := NewImperative(allFormulations(), nil)
	res := g.Evaluate("Deceive customers to increase sales")

	assert.False(t, res.Passes)
	assert.Contains(t, res.Explanation, "universalizability")
	assert.Contains(t, res.Explanation, "humanity as end")
	assert.NotContains(t, res.Explanation, "kingdom of ends")
	require.NotEmpty(t, res.AlternativeAction)
	assert.True(t, g.Evaluate(res.AlternativeAction).Passes)
}

func TestImperative_DisabledFormulationsAreSkipped(t *testing.T) {
	g := NewImperative(config.ImperativeConfig{Universalizability: true}, nil)
	res := g.Evaluate("Increase prices next quarter")

	assert.True(t, res.Passes)
	assert.NotNil(t, res.Tests.Universalizability)
	assert.Nil(t, res.Tests.HumanityAsEnd)
	assert.Nil(t, res.Tests.KingdomOfEnds)
}

func TestImperative_NothingEnabled(t *testing.T) {
	res := NewImperative(config.ImperativeConfig{}, nil).Evaluate("Deceive everyone")
	assert.True(t, res.Passes)
}

func TestGateFunc(t *testing.T) {
	var g Gate = GateFunc(func(action string) types.CategoricalImperativeResult {
		return types.CategoricalImperativeResult{Passes: strings.HasPrefix(action, "ok")}
	})
	assert.True(t, g.Evaluate("ok go").Passes)
	assert.False(t, g.Evaluate("no").Passes)
}

// =============================================================================
// REWRITER
// =============================================================================

func TestRewrite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"Deceive the patient about the risks",
			"Inform the patient about the risks, ensuring fair treatment for all",
		},
		{
			"Offer discounts only for members",
			"Offer discounts while respecting the informed consent and choices of those affected, ensuring fair treatment for all",
		},
		{
			"Manipulate voters without consent",
			"Persuade openly voters with consent",
		},
		{
			"",
			"Proceed while respecting the informed consent and choices of those affected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.in))
		})
	}
}

func TestRewrite_ResultPassesGate(t *testing.T) {
	g := NewImperative(allFormulations(), nil)
	for _, action := range []string{
		"Deceive customers to increase sales",
		"Offer discounts only for members",
		"Manipulate voters without consent",
		"Exclude older applicants and discriminate against women",
		"Exploit vulnerability of elderly users",
		"Force staff to work unpaid overtime except for managers",
		"Hide from regulators the biased results",
		"",
	} {
		rewritten := Rewrite(action)
		res := g.Evaluate(rewritten)
		assert.True(t, res.Passes, "%q rewritten to %q: %s", action, rewritten, res.Explanation)
	}
}
