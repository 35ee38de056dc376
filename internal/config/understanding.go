package config

// UnderstandingConfig toggles the twelve category analyses.
type UnderstandingConfig struct {
	Quantity   QuantityConfig          `yaml:"quantity" json:"quantity"`
	Quality    QualityConfig           `yaml:"quality" json:"quality"`
	Relation   RelationConfig          `yaml:"relation" json:"relation"`
	Modality   ModalityConfig          `yaml:"modality" json:"modality"`
	Thresholds UnderstandingThresholds `yaml:"thresholds" json:"thresholds"`
}

type QuantityConfig struct {
	EnableUnity     bool `yaml:"enable_unity" json:"enable_unity"`
	EnablePlurality bool `yaml:"enable_plurality" json:"enable_plurality"`
	EnableTotality  bool `yaml:"enable_totality" json:"enable_totality"`
}

type QualityConfig struct {
	EnableReality    bool `yaml:"enable_reality" json:"enable_reality"`
	EnableNegation   bool `yaml:"enable_negation" json:"enable_negation"`
	EnableLimitation bool `yaml:"enable_limitation" json:"enable_limitation"`
}

type RelationConfig struct {
	EnableSubstance bool `yaml:"enable_substance" json:"enable_substance"`
	EnableCausality bool `yaml:"enable_causality" json:"enable_causality"`
	EnableCommunity bool `yaml:"enable_community" json:"enable_community"`
}

type ModalityConfig struct {
	EnablePossibility bool `yaml:"enable_possibility" json:"enable_possibility"`
	EnableExistence   bool `yaml:"enable_existence" json:"enable_existence"`
	EnableNecessity   bool `yaml:"enable_necessity" json:"enable_necessity"`
}

// UnderstandingThresholds are the per-analysis acceptance gates.
type UnderstandingThresholds struct {
	// CausalConfidence is the minimum confidence for a causal relationship to be kept.
	CausalConfidence float64 `yaml:"causal_confidence" json:"causal_confidence" validate:"gte=0,lte=1"`

	// PluralityMinimum is the number of distinct elements needed to report plurality.
	PluralityMinimum int `yaml:"plurality_minimum" json:"plurality_minimum" validate:"min=1"`

	// NecessityThreshold is the minimum strength for a necessity claim.
	NecessityThreshold float64 `yaml:"necessity_threshold" json:"necessity_threshold" validate:"gte=0,lte=1"`
}

// Enabled reports whether the named category analysis is switched on.
func (u UnderstandingConfig) Enabled(category string) bool {
	switch category {
	case "unity":
		return u.Quantity.EnableUnity
	case "plurality":
		return u.Quantity.EnablePlurality
	case "totality":
		return u.Quantity.EnableTotality
	case "reality":
		return u.Quality.EnableReality
	case "negation":
		return u.Quality.EnableNegation
	case "limitation":
		return u.Quality.EnableLimitation
	case "substance":
		return u.Relation.EnableSubstance
	case "causality":
		return u.Relation.EnableCausality
	case "community":
		return u.Relation.EnableCommunity
	case "possibility":
		return u.Modality.EnablePossibility
	case "existence":
		return u.Modality.EnableExistence
	case "necessity":
		return u.Modality.EnableNecessity
	default:
		return false
	}
}

// DefaultUnderstandingConfig enables every analysis.
func DefaultUnderstandingConfig() UnderstandingConfig {
	return UnderstandingConfig{
		Quantity: QuantityConfig{EnableUnity: true, EnablePlurality: true, EnableTotality: true},
		Quality:  QualityConfig{EnableReality: true, EnableNegation: true, EnableLimitation: true},
		Relation: RelationConfig{EnableSubstance: true, EnableCausality: true, EnableCommunity: true},
		Modality: ModalityConfig{EnablePossibility: true, EnableExistence: true, EnableNecessity: true},
		Thresholds: UnderstandingThresholds{
			CausalConfidence:   0.5,
			PluralityMinimum:   2,
			NecessityThreshold: 0.7,
		},
	}
}
