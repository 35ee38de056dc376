package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Domain != "general" {
		t.Errorf("expected Domain=general, got %s", cfg.Domain)
	}
	if cfg.Reason.Inference.MaxInferences != 10 {
		t.Errorf("expected MaxInferences=10, got %d", cfg.Reason.Inference.MaxInferences)
	}
	if cfg.Reason.Decision.InferenceConfidenceThreshold != 0.6 {
		t.Errorf("expected InferenceConfidenceThreshold=0.6, got %v", cfg.Reason.Decision.InferenceConfidenceThreshold)
	}
	assert.True(t, cfg.EnabledModules.AntinomyResolution)
	assert.False(t, cfg.EnabledModules.Schematism)
	assert.False(t, cfg.EnabledModules.AestheticJudgment)
	assert.Equal(t, 10, cfg.Sensibility.PatternDetectionThresholds.MaxPatterns)
	assert.NoError(t, cfg.Validate())
}

func TestUnderstandingEnabled(t *testing.T) {
	u := DefaultUnderstandingConfig()
	for _, c := range []string{"unity", "plurality", "totality", "reality", "negation", "limitation",
		"substance", "causality", "community", "possibility", "existence", "necessity"} {
		assert.True(t, u.Enabled(c), c)
	}
	assert.False(t, u.Enabled("beauty"))

	u.Relation.EnableCommunity = false
	assert.False(t, u.Enabled("community"))
}

func TestConfidenceLabels(t *testing.T) {
	th := DefaultConfig().ConfidenceThresholds
	tests := []struct {
		v    float64
		want string
	}{
		{0.95, "high"},
		{0.8, "high"},
		{0.6, "medium"},
		{0.3, "low"},
		{0.1, "very low"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Label(tt.v), "value %v", tt.v)
	}

	lt := DefaultCritiqueConfig().Confidence.Thresholds
	assert.Equal(t, "very high", lt.Level(0.9))
	assert.Equal(t, "high", lt.Level(0.7))
	assert.Equal(t, "medium", lt.Level(0.55))
	assert.Equal(t, "low", lt.Level(0.31))
	assert.Equal(t, "very low", lt.Level(0.0))
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("CARNERD_DOMAIN", "")
	t.Setenv("CARNERD_BOUNDARIES", "")
	t.Setenv("CARNERD_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "carnerd.yaml")

	cfg := DefaultConfig()
	cfg.Domain = "healthcare"
	cfg.EpistemicBoundaries = []string{"quality of life"}
	cfg.Reason.Ethics.AdditionalFrameworks = []string{"virtue", "care"}
	cfg.Critique.Confidence.UseCalibratedConfidence = true

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	if diff := cmp.Diff(cfg, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("CARNERD_DOMAIN", "")
	t.Setenv("CARNERD_BOUNDARIES", "")
	t.Setenv("CARNERD_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	t.Setenv("CARNERD_DOMAIN", "")
	t.Setenv("CARNERD_BOUNDARIES", "")
	t.Setenv("CARNERD_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "carnerd.yaml")
	data := []byte("domain: education\nreason:\n  inference:\n    max_inferences: 4\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "education", cfg.Domain)
	assert.Equal(t, 4, cfg.Reason.Inference.MaxInferences)
	assert.True(t, cfg.Reason.Inference.EnableCausal)
	assert.Equal(t, 0.8, cfg.ConfidenceThresholds.High)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carnerd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domain: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CARNERD_DOMAIN", "governance")
	t.Setenv("CARNERD_BOUNDARIES", "quality of life, , afterlife")
	t.Setenv("CARNERD_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "governance", cfg.Domain)
	assert.Equal(t, []string{"quality of life", "afterlife"}, cfg.EpistemicBoundaries)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"high below medium", func(c *Config) { c.ConfidenceThresholds.High = 0.4 }, false},
		{"medium below low", func(c *Config) { c.ConfidenceThresholds.Low = 0.6 }, false},
		{"threshold out of range", func(c *Config) { c.ConfidenceThresholds.High = 1.5 }, false},
		{"critique very high below high", func(c *Config) { c.Critique.Confidence.Thresholds.VeryHigh = 0.6 }, false},
		{"zero max inferences", func(c *Config) { c.Reason.Inference.MaxInferences = 0 }, false},
		{"too many alternatives", func(c *Config) { c.Reason.Decision.MaxAlternatives = 7 }, false},
		{"unknown framework", func(c *Config) { c.Reason.Ethics.AdditionalFrameworks = []string{"stoic"} }, false},
		{"known frameworks", func(c *Config) { c.Reason.Ethics.AdditionalFrameworks = []string{"rights", "utilitarian"} }, true},
		{"bad output mode", func(c *Config) { c.ConfidenceOutput = "fuzzy" }, false},
		{"categorical output", func(c *Config) { c.ConfidenceOutput = OutputCategorical }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "expected ErrInvalidConfig, got %v", err)
		})
	}
}

func TestConfig_ValidateReportsEveryViolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfidenceThresholds.High = 0.1
	cfg.Reason.Inference.MaxInferences = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence_thresholds.high")
	assert.Contains(t, err.Error(), "MaxInferences")
}

// =============================================================================
// CLONE
// =============================================================================

func TestConfig_CloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EpistemicBoundaries = []string{"afterlife"}
	cfg.Reason.Ethics.AdditionalFrameworks = []string{"care"}
	cfg.Logging.Categories = map[string]bool{"reason": false}

	clone := cfg.Clone()
	cfg.EpistemicBoundaries[0] = "mutated"
	cfg.Reason.Ethics.AdditionalFrameworks[0] = "rights"
	cfg.Logging.Categories["reason"] = true

	assert.Equal(t, []string{"afterlife"}, clone.EpistemicBoundaries)
	assert.Equal(t, []string{"care"}, clone.Reason.Ethics.AdditionalFrameworks)
	assert.False(t, clone.Logging.IsCategoryEnabled("reason"))
	assert.True(t, clone.Logging.IsCategoryEnabled("critique"))
}

func TestIsModuleEnabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsModuleEnabled("antinomy_resolution"))
	assert.False(t, cfg.IsModuleEnabled("schematism"))
	assert.False(t, cfg.IsModuleEnabled("unknown"))
}
