package config

// ReasonConfig configures inference generation, ethics and decision synthesis.
type ReasonConfig struct {
	Inference InferenceConfig `yaml:"inference" json:"inference"`
	Ethics    EthicsConfig    `yaml:"ethics" json:"ethics"`
	Decision  DecisionConfig  `yaml:"decision" json:"decision"`
}

// InferenceConfig toggles the inference strategies.
type InferenceConfig struct {
	EnableCausal         bool `yaml:"enable_causal" json:"enable_causal"`
	EnableStructural     bool `yaml:"enable_structural" json:"enable_structural"`
	EnablePredictive     bool `yaml:"enable_predictive" json:"enable_predictive"`
	EnableAnalogical     bool `yaml:"enable_analogical" json:"enable_analogical"`
	EnableDeductive      bool `yaml:"enable_deductive" json:"enable_deductive"`
	EnableInductive      bool `yaml:"enable_inductive" json:"enable_inductive"`
	EnableAbductive      bool `yaml:"enable_abductive" json:"enable_abductive"`
	EnableDomainSpecific bool `yaml:"enable_domain_specific" json:"enable_domain_specific"`

	// MaxInferences caps the ranked inference list (default: 10)
	MaxInferences int `yaml:"max_inferences" json:"max_inferences" validate:"min=1"`
}

// EthicsConfig toggles the ethical assessments.
type EthicsConfig struct {
	EnableAutonomy              bool `yaml:"enable_autonomy" json:"enable_autonomy"`
	EnableBeneficence           bool `yaml:"enable_beneficence" json:"enable_beneficence"`
	EnableNonMaleficence        bool `yaml:"enable_non_maleficence" json:"enable_non_maleficence"`
	EnableJustice               bool `yaml:"enable_justice" json:"enable_justice"`
	EnableCategoricalImperative bool `yaml:"enable_categorical_imperative" json:"enable_categorical_imperative"`

	// AdditionalFrameworks: any of virtue, utilitarian, care, rights.
	AdditionalFrameworks []string `yaml:"additional_frameworks" json:"additional_frameworks" validate:"dive,oneof=virtue utilitarian care rights"`

	CategoricalImperative ImperativeConfig `yaml:"categorical_imperative" json:"categorical_imperative"`
}

// ImperativeConfig toggles the three formulations of the ethical gate.
type ImperativeConfig struct {
	Universalizability bool `yaml:"universalizability" json:"universalizability"`
	HumanityAsEnd      bool `yaml:"humanity_as_end" json:"humanity_as_end"`
	KingdomOfEnds      bool `yaml:"kingdom_of_ends" json:"kingdom_of_ends"`
}

// DecisionConfig configures decision synthesis.
type DecisionConfig struct {
	InferenceConfidenceThreshold float64 `yaml:"inference_confidence_threshold" json:"inference_confidence_threshold" validate:"gte=0,lte=1"`

	// EthicalWeight scales the severity multiplier: m' = 1 - (1-m)*weight.
	EthicalWeight float64 `yaml:"ethical_weight" json:"ethical_weight" validate:"gte=0,lte=1"`

	GenerateAlternatives bool `yaml:"generate_alternatives" json:"generate_alternatives"`
	MaxAlternatives      int  `yaml:"max_alternatives" json:"max_alternatives" validate:"min=0,max=3"`
}

// DefaultReasonConfig enables every strategy and assessment.
func DefaultReasonConfig() ReasonConfig {
	return ReasonConfig{
		Inference: InferenceConfig{
			EnableCausal:         true,
			EnableStructural:     true,
			EnablePredictive:     true,
			EnableAnalogical:     true,
			EnableDeductive:      true,
			EnableInductive:      true,
			EnableAbductive:      true,
			EnableDomainSpecific: true,
			MaxInferences:        10,
		},
		Ethics: EthicsConfig{
			EnableAutonomy:              true,
			EnableBeneficence:           true,
			EnableNonMaleficence:        true,
			EnableJustice:               true,
			EnableCategoricalImperative: true,
			AdditionalFrameworks:        []string{},
			CategoricalImperative: ImperativeConfig{
				Universalizability: true,
				HumanityAsEnd:      true,
				KingdomOfEnds:      true,
			},
		},
		Decision: DecisionConfig{
			InferenceConfidenceThreshold: 0.6,
			EthicalWeight:                1.0,
			GenerateAlternatives:         true,
			MaxAlternatives:              3,
		},
	}
}
