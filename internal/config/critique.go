package config

// CritiqueConfig configures the self-critique stage.
type CritiqueConfig struct {
	EpistemicAnalysis         EpistemicAnalysisConfig `yaml:"epistemic_analysis" json:"epistemic_analysis"`
	UncertaintyQuantification UncertaintyConfig       `yaml:"uncertainty_quantification" json:"uncertainty_quantification"`
	MetacognitiveReflection   ReflectionConfig        `yaml:"metacognitive_reflection" json:"metacognitive_reflection"`
	Confidence                CritiqueConfidence      `yaml:"confidence" json:"confidence"`
}

// EpistemicAnalysisConfig toggles the limitation detectors.
type EpistemicAnalysisConfig struct {
	EnableBoundaryDetection     bool `yaml:"enable_boundary_detection" json:"enable_boundary_detection"`
	EnableDomainLimitations     bool `yaml:"enable_domain_limitations" json:"enable_domain_limitations"`
	EnableStructuralLimitations bool `yaml:"enable_structural_limitations" json:"enable_structural_limitations"`
	EnableTemporalLimitations   bool `yaml:"enable_temporal_limitations" json:"enable_temporal_limitations"`
	EnableProcessingCheck       bool `yaml:"enable_processing_check" json:"enable_processing_check"`
	EnableInferenceQuality      bool `yaml:"enable_inference_quality" json:"enable_inference_quality"`
}

// UncertaintyConfig toggles the uncertainty sources.
type UncertaintyConfig struct {
	EnableStatistical       bool `yaml:"enable_statistical" json:"enable_statistical"`
	EnableModel             bool `yaml:"enable_model" json:"enable_model"`
	EnableDistributional    bool `yaml:"enable_distributional" json:"enable_distributional"`
	EnableOutOfDistribution bool `yaml:"enable_out_of_distribution" json:"enable_out_of_distribution"`
	EnableActionSpecific    bool `yaml:"enable_action_specific" json:"enable_action_specific"`
}

// ReflectionConfig toggles the parts of the metacognitive narrative.
type ReflectionConfig struct {
	EnableReasoningSummary bool `yaml:"enable_reasoning_summary" json:"enable_reasoning_summary"`
	EnableQualitySummary   bool `yaml:"enable_quality_summary" json:"enable_quality_summary"`
	EnableCalibration      bool `yaml:"enable_calibration" json:"enable_calibration"`
	EnableBiasDetection    bool `yaml:"enable_bias_detection" json:"enable_bias_detection"`
}

// CritiqueConfidence maps critique confidence to a five-level scale.
type CritiqueConfidence struct {
	Thresholds              LevelThresholds `yaml:"thresholds" json:"thresholds"`
	UseCalibratedConfidence bool            `yaml:"use_calibrated_confidence" json:"use_calibrated_confidence"`
}

// LevelThresholds are the lower bounds of each confidence level.
type LevelThresholds struct {
	VeryHigh float64 `yaml:"very_high" json:"very_high" validate:"gte=0,lte=1"`
	High     float64 `yaml:"high" json:"high" validate:"gte=0,lte=1"`
	Medium   float64 `yaml:"medium" json:"medium" validate:"gte=0,lte=1"`
	Low      float64 `yaml:"low" json:"low" validate:"gte=0,lte=1"`
}

// Level maps a confidence to very high / high / medium / low / very low.
func (t LevelThresholds) Level(v float64) string {
	switch {
	case v >= t.VeryHigh:
		return "very high"
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

// DefaultCritiqueConfig enables every detector and source.
func DefaultCritiqueConfig() CritiqueConfig {
	return CritiqueConfig{
		EpistemicAnalysis: EpistemicAnalysisConfig{
			EnableBoundaryDetection:     true,
			EnableDomainLimitations:     true,
			EnableStructuralLimitations: true,
			EnableTemporalLimitations:   true,
			EnableProcessingCheck:       true,
			EnableInferenceQuality:      true,
		},
		UncertaintyQuantification: UncertaintyConfig{
			EnableStatistical:       true,
			EnableModel:             true,
			EnableDistributional:    true,
			EnableOutOfDistribution: true,
			EnableActionSpecific:    true,
		},
		MetacognitiveReflection: ReflectionConfig{
			EnableReasoningSummary: true,
			EnableQualitySummary:   true,
			EnableCalibration:      true,
			EnableBiasDetection:    true,
		},
		Confidence: CritiqueConfidence{
			Thresholds: LevelThresholds{
				VeryHigh: 0.85,
				High:     0.7,
				Medium:   0.5,
				Low:      0.3,
			},
			UseCalibratedConfidence: false,
		},
	}
}
