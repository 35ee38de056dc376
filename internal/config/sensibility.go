package config

// SensibilityConfig configures feature extraction and pattern detection.
type SensibilityConfig struct {
	EnableSpatial          bool `yaml:"enable_spatial" json:"enable_spatial"`
	EnableTemporal         bool `yaml:"enable_temporal" json:"enable_temporal"`
	EnableSpatialPatterns  bool `yaml:"enable_spatial_patterns" json:"enable_spatial_patterns"`
	EnableTemporalPatterns bool `yaml:"enable_temporal_patterns" json:"enable_temporal_patterns"`

	// SignificantTermMinLength is the minimum rune length of a "significant" term (default: 5)
	SignificantTermMinLength int `yaml:"significant_term_min_length" json:"significant_term_min_length" validate:"min=1"`

	PatternDetectionThresholds PatternThresholds `yaml:"pattern_detection_thresholds" json:"pattern_detection_thresholds"`
}

// PatternThresholds gates which detected patterns are kept.
type PatternThresholds struct {
	Confidence  float64 `yaml:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	MinElements int     `yaml:"min_elements" json:"min_elements" validate:"min=1"`
	MaxPatterns int     `yaml:"max_patterns" json:"max_patterns" validate:"min=1"`
}

// DefaultSensibilityConfig returns sensible defaults for perception.
func DefaultSensibilityConfig() SensibilityConfig {
	return SensibilityConfig{
		EnableSpatial:            true,
		EnableTemporal:           true,
		EnableSpatialPatterns:    true,
		EnableTemporalPatterns:   true,
		SignificantTermMinLength: 5,
		PatternDetectionThresholds: PatternThresholds{
			Confidence:  0.5,
			MinElements: 2,
			MaxPatterns: 10,
		},
	}
}
