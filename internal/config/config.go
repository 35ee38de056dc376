// Package config holds the carnerd engine configuration.
//
// A Config is built once (DefaultConfig, then Load overlays YAML and environment
// overrides), validated once, and cloned into the engine. The engine never re-reads
// or re-defaults configuration per run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all carnerd configuration.
type Config struct {
	// Domain labels the deployment domain (general, healthcare, education, finance,
	// governance, science). Drives domain-specific rules and antinomy classification.
	Domain string `yaml:"domain" json:"domain"`

	// EpistemicBoundaries are topics the engine must never reason about.
	// Any input containing one of them is deferred to a human.
	EpistemicBoundaries []string `yaml:"epistemic_boundaries" json:"epistemic_boundaries"`

	// ConfidenceOutput selects how CARResult.confidence is reported: numeric or categorical.
	ConfidenceOutput string `yaml:"confidence_output" json:"confidence_output" validate:"oneof=numeric categorical"`

	// ConfidenceThresholds are the cut points for categorical confidence labels.
	ConfidenceThresholds ConfidenceThresholds `yaml:"confidence_thresholds" json:"confidence_thresholds"`

	// EnabledModules toggles optional post-processing stages.
	EnabledModules EnabledModules `yaml:"enabled_modules" json:"enabled_modules"`

	Sensibility   SensibilityConfig   `yaml:"sensibility" json:"sensibility"`
	Understanding UnderstandingConfig `yaml:"understanding" json:"understanding"`
	Reason        ReasonConfig        `yaml:"reason" json:"reason"`
	Critique      CritiqueConfig      `yaml:"critique" json:"critique"`

	// Logging
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ConfidenceThresholds maps numeric confidence to high/medium/low labels.
type ConfidenceThresholds struct {
	High   float64 `yaml:"high" json:"high" validate:"gte=0,lte=1"`
	Medium float64 `yaml:"medium" json:"medium" validate:"gte=0,lte=1"`
	Low    float64 `yaml:"low" json:"low" validate:"gte=0,lte=1"`
}

// Label returns the categorical label for a confidence value.
func (t ConfidenceThresholds) Label(v float64) string {
	switch {
	case v >= t.High:
		return "high"
	case v >= t.Medium:
		return "medium"
	case v >= t.Low:
		return "low"
	default:
		return "very low"
	}
}

// EnabledModules toggles the optional stages that run after critique.
type EnabledModules struct {
	Schematism         bool `yaml:"schematism" json:"schematism"`
	AestheticJudgment  bool `yaml:"aesthetic_judgment" json:"aesthetic_judgment"`
	AntinomyResolution bool `yaml:"antinomy_resolution" json:"antinomy_resolution"`
}

// Confidence output modes.
const (
	OutputNumeric     = "numeric"
	OutputCategorical = "categorical"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Domain:              "general",
		EpistemicBoundaries: []string{},
		ConfidenceOutput:    OutputNumeric,
		ConfidenceThresholds: ConfidenceThresholds{
			High:   0.8,
			Medium: 0.5,
			Low:    0.3,
		},
		EnabledModules: EnabledModules{
			Schematism:         false,
			AestheticJudgment:  false,
			AntinomyResolution: true,
		},
		Sensibility:   DefaultSensibilityConfig(),
		Understanding: DefaultUnderstandingConfig(),
		Reason:        DefaultReasonConfig(),
		Critique:      DefaultCritiqueConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if domain := os.Getenv("CARNERD_DOMAIN"); domain != "" {
		c.Domain = domain
	}
	if raw := os.Getenv("CARNERD_BOUNDARIES"); raw != "" {
		var boundaries []string
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				boundaries = append(boundaries, b)
			}
		}
		c.EpistemicBoundaries = boundaries
	}
	if level := os.Getenv("CARNERD_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Clone returns a deep copy. Slices are copied so that the clone shares no
// mutable state with the receiver.
func (c Config) Clone() Config {
	out := c
	out.EpistemicBoundaries = append([]string(nil), c.EpistemicBoundaries...)
	out.Reason.Ethics.AdditionalFrameworks = append([]string(nil), c.Reason.Ethics.AdditionalFrameworks...)
	if c.Logging.Categories != nil {
		out.Logging.Categories = make(map[string]bool, len(c.Logging.Categories))
		for k, v := range c.Logging.Categories {
			out.Logging.Categories[k] = v
		}
	}
	return out
}

// IsModuleEnabled reports whether an optional module is switched on.
func (c *Config) IsModuleEnabled(name string) bool {
	switch name {
	case "schematism":
		return c.EnabledModules.Schematism
	case "aesthetic_judgment":
		return c.EnabledModules.AestheticJudgment
	case "antinomy_resolution":
		return c.EnabledModules.AntinomyResolution
	default:
		return false
	}
}
