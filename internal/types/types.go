// Package types provides the data model shared by every stage of the carnerd pipeline.
// This package exists to break import cycles between perception, understanding,
// reason, critique and the pipeline itself. Types here are plain data: every value is
// created fresh per run and treated as immutable once a stage returns it.
package types

import (
	"encoding/json"
	"time"
)

// =============================================================================
// FEATURES AND PATTERNS
// =============================================================================

// FeatureType tags a Feature with the kind of observation it records.
type FeatureType string

const (
	FeatureTextStructure    FeatureType = "text_structure"    // paragraph/sentence/word counts
	FeatureSignificantTerms FeatureType = "significant_terms" // long, content-bearing terms
	FeatureNumericValues    FeatureType = "numeric_values"    // numbers embedded in text
	FeatureCausalStatement  FeatureType = "causal_statement"  // "X causes Y" style statements
	FeatureModalStatement   FeatureType = "modal_statement"   // could/might/must statements
	FeatureNegation         FeatureType = "negation"          // negated statements
	FeatureTemporalMarker   FeatureType = "temporal_marker"   // before/after/dates
	FeatureStructure        FeatureType = "structure"         // array/object shape
	FeatureTypology         FeatureType = "typology"          // element types of an array
	FeatureNumericSummary   FeatureType = "numeric_summary"   // numeric array statistics
	FeatureStringSummary    FeatureType = "string_summary"    // string array summary
	FeatureObjectSummary    FeatureType = "object_summary"    // object array summary
	FeatureProperty         FeatureType = "property"          // one property of an object
	FeatureDomainMarker     FeatureType = "domain_marker"     // recognized domain vocabulary
	FeaturePrimitive        FeatureType = "primitive"         // number/bool/null input
)

// Feature is one observed structural, lexical, numerical or domain property of the input.
type Feature struct {
	Type    FeatureType `json:"type"`
	Name    string      `json:"name,omitempty"`
	Value   any         `json:"value,omitempty"`
	Items   []string    `json:"items,omitempty"`
	Domain  string      `json:"domain,omitempty"`
	Numbers []float64   `json:"numbers,omitempty"`
	Count   int         `json:"count,omitempty"`
	Path    string      `json:"path,omitempty"`
	Depth   int         `json:"depth,omitempty"`

	// Cause and Effect are only set on causal_statement features.
	Cause  string `json:"cause,omitempty"`
	Effect string `json:"effect,omitempty"`

	// Hedged marks statements qualified by may/might/possibly.
	Hedged bool `json:"hedged,omitempty"`
}

// PatternFamily separates spatial from temporal patterns.
type PatternFamily string

const (
	FamilySpatial  PatternFamily = "spatial"
	FamilyTemporal PatternFamily = "temporal"
)

// PatternType identifies the kind of detected pattern.
type PatternType string

const (
	PatternHierarchy         PatternType = "hierarchy"
	PatternCluster           PatternType = "cluster"
	PatternNetwork           PatternType = "network"
	PatternSymptomCluster    PatternType = "symptom_cluster"
	PatternSequence          PatternType = "sequence"
	PatternCycle             PatternType = "cycle"
	PatternTrend             PatternType = "trend"
	PatternDomainProgression PatternType = "domain_progression"
)

// Pattern is a spatial or temporal regularity detected among features.
type Pattern struct {
	Type        PatternType   `json:"type"`
	Family      PatternFamily `json:"family"`
	Description string        `json:"description"`
	Confidence  float64       `json:"confidence"`
	Elements    []string      `json:"elements,omitempty"`
	Direction   string        `json:"direction,omitempty"` // trend only: increasing/decreasing
}

// =============================================================================
// CATEGORY ANALYSES
// =============================================================================

// Category names one of the twelve structural analyses.
type Category string

const (
	CategoryUnity       Category = "unity"
	CategoryPlurality   Category = "plurality"
	CategoryTotality    Category = "totality"
	CategoryReality     Category = "reality"
	CategoryNegation    Category = "negation"
	CategoryLimitation  Category = "limitation"
	CategorySubstance   Category = "substance"
	CategoryCausality   Category = "causality"
	CategoryCommunity   Category = "community"
	CategoryPossibility Category = "possibility"
	CategoryExistence   Category = "existence"
	CategoryNecessity   Category = "necessity"
)

// AllCategories lists the twelve categories in their canonical order
// (Quantity, Quality, Relation, Modality).
var AllCategories = []Category{
	CategoryUnity, CategoryPlurality, CategoryTotality,
	CategoryReality, CategoryNegation, CategoryLimitation,
	CategorySubstance, CategoryCausality, CategoryCommunity,
	CategoryPossibility, CategoryExistence, CategoryNecessity,
}

// CausalRelationship is a cause/effect pair discovered by the causality analysis.
type CausalRelationship struct {
	Cause      string  `json:"cause"`
	Effect     string  `json:"effect"`
	Confidence float64 `json:"confidence"`
	Strength   float64 `json:"strength"`
}

// Possibility is a modal claim discovered by the possibility analysis.
type Possibility struct {
	Description string  `json:"description"`
	Likelihood  float64 `json:"likelihood"`
}

// Analysis is the result of one category analysis. Description and Count are always
// populated, including the "no X identified" case.
type Analysis struct {
	Category      Category             `json:"category"`
	Description   string               `json:"description"`
	Count         int                  `json:"count"`
	Score         float64              `json:"score"`
	Items         []string             `json:"items,omitempty"`
	Relationships []CausalRelationship `json:"relationships,omitempty"`
	Possibilities []Possibility        `json:"possibilities,omitempty"`
}

// Found reports whether the analysis identified anything.
func (a Analysis) Found() bool {
	return a.Count > 0
}

// CategorizedData bundles the enabled category analyses. Disabled analyses are absent.
type CategorizedData struct {
	Analyses map[Category]Analysis `json:"analyses"`
}

// Get returns the analysis for a category and whether it ran.
func (c CategorizedData) Get(cat Category) (Analysis, bool) {
	a, ok := c.Analyses[cat]
	return a, ok
}

// CausalRelationships returns the relationships found by the causality analysis.
func (c CategorizedData) CausalRelationships() []CausalRelationship {
	return c.Analyses[CategoryCausality].Relationships
}

// PossibilityDetails returns the possibilities found by the possibility analysis.
func (c CategorizedData) PossibilityDetails() []Possibility {
	return c.Analyses[CategoryPossibility].Possibilities
}

// =============================================================================
// INFERENCES AND ETHICS
// =============================================================================

// InferenceType tags the reasoning strategy behind an inference.
type InferenceType string

const (
	InferenceCausal         InferenceType = "causal"
	InferencePredictive     InferenceType = "predictive"
	InferenceDomainSpecific InferenceType = "domain_specific"
	InferenceStructural     InferenceType = "structural"
	InferenceDeductive      InferenceType = "deductive"
	InferenceInductive      InferenceType = "inductive"
	InferenceAbductive      InferenceType = "abductive"
	InferenceAnalogical     InferenceType = "analogical"
	InferencePattern        InferenceType = "pattern"
	InferenceHistorical     InferenceType = "historical"
	InferenceStatistical    InferenceType = "statistical"
)

// InferencePriority is the fixed tie-break order used wherever inference types
// with equal counts must be ranked.
var InferencePriority = []InferenceType{
	InferenceCausal, InferencePredictive, InferenceDomainSpecific, InferenceStructural,
	InferenceDeductive, InferenceInductive, InferenceAbductive, InferenceAnalogical,
	InferencePattern, InferenceHistorical, InferenceStatistical,
}

// PriorityOf returns the tie-break rank of a type; unknown types rank last.
func PriorityOf(t InferenceType) int {
	for i, p := range InferencePriority {
		if p == t {
			return i
		}
	}
	return len(InferencePriority)
}

// Inference is a typed, confidence-scored claim derived from category analyses.
type Inference struct {
	Type            InferenceType `json:"type"`
	Inference       string        `json:"inference"`
	Confidence      float64       `json:"confidence"`
	Evidence        []string      `json:"evidence"`
	Counterevidence []string      `json:"counterevidence"`
}

// EthicalAnalysis holds the outcome of the four ethical assessments.
type EthicalAnalysis struct {
	AutonomyImplications     string            `json:"autonomyImplications"`
	BeneficenceAssessment    string            `json:"beneficenceAssessment"`
	NonMaleficenceRisks      []string          `json:"nonMaleficenceRisks"`
	JusticeConsiderations    string            `json:"justiceConsiderations"`
	AdditionalConsiderations map[string]string `json:"additionalConsiderations,omitempty"`
}

// TestResult is the outcome of one categorical-imperative formulation.
type TestResult struct {
	Passes    bool   `json:"passes"`
	Reasoning string `json:"reasoning"`
}

// ImperativeTests groups the three formulation results. Disabled tests are nil.
type ImperativeTests struct {
	Universalizability *TestResult `json:"universalizability,omitempty"`
	HumanityAsEnd      *TestResult `json:"humanityAsEnd,omitempty"`
	KingdomOfEnds      *TestResult `json:"kingdomOfEnds,omitempty"`
}

// CategoricalImperativeResult is the verdict of the ethical gate on an action.
type CategoricalImperativeResult struct {
	Passes            bool            `json:"passes"`
	Explanation       string          `json:"explanation"`
	AlternativeAction string          `json:"alternativeAction,omitempty"`
	Tests             ImperativeTests `json:"tests"`
}

// =============================================================================
// DECISION
// =============================================================================

// Outcome is an expected consequence of the decision.
type Outcome struct {
	Outcome    string  `json:"outcome"`
	Likelihood float64 `json:"likelihood"`
	Timeframe  string  `json:"timeframe"`
}

// Decision is the synthesized action plus its support.
type Decision struct {
	Action           string    `json:"action"`
	Reasoning        string    `json:"reasoning"`
	Confidence       float64   `json:"confidence"`
	Alternatives     []string  `json:"alternatives,omitempty"`
	ExpectedOutcomes []Outcome `json:"expectedOutcomes,omitempty"`
}

// ReasoningOutput is what the reason stage adds to the processed data.
type ReasoningOutput struct {
	Inferences            []Inference                  `json:"inferences"`
	EthicalAnalysis       EthicalAnalysis              `json:"ethicalAnalysis"`
	Decision              Decision                     `json:"decision"`
	CategoricalImperative *CategoricalImperativeResult `json:"categoricalImperative,omitempty"`
}

// =============================================================================
// CRITIQUE
// =============================================================================

// UncertaintyAnalysis is the combined uncertainty estimate and its sources.
type UncertaintyAnalysis struct {
	Value        float64            `json:"value"`
	Factors      []string           `json:"factors"`
	Distribution map[string]float64 `json:"distribution"`
}

// CritiqueOutput is what the critique stage adds to the processed data.
type CritiqueOutput struct {
	EpistemicLimitations    []string            `json:"epistemicLimitations"`
	Uncertainty             UncertaintyAnalysis `json:"uncertainty"`
	Confidence              float64             `json:"confidence"`
	CalibratedConfidence    float64             `json:"calibratedConfidence"`
	ConfidenceLevel         string              `json:"confidenceLevel"`
	MetacognitiveReflection string              `json:"metacognitiveReflection"`
	Biases                  []string            `json:"biases,omitempty"`
}

// AntinomyResolutionResult reports how detected tensions were handled.
type AntinomyResolutionResult struct {
	Domain             string   `json:"domain"`
	ResolvedTension    bool     `json:"resolvedTension"`
	Explanation        string   `json:"explanation"`
	BalancedPrinciples []string `json:"balancedPrinciples"`
}

// Schema links a category to its temporal schema.
type Schema struct {
	Category Category `json:"category"`
	Schema   string   `json:"schema"`
	Grounded bool     `json:"grounded"`
}

// AestheticAssessment scores the form of the reasoning.
type AestheticAssessment struct {
	Harmony       float64 `json:"harmony"`
	Simplicity    float64 `json:"simplicity"`
	Purposiveness float64 `json:"purposiveness"`
	Judgment      string  `json:"judgment"`
}

// =============================================================================
// PROCESSED DATA
// =============================================================================

// Metadata travels with every ProcessedData value.
type Metadata struct {
	RunID     string    `json:"runId"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	History   History   `json:"processingHistory"`
}

// SensibilityOutput is what the perception stage produces.
type SensibilityOutput struct {
	Input            any       `json:"input"`
	Features         []Feature `json:"features"`
	SpatialPatterns  []Pattern `json:"spatialPatterns"`
	TemporalPatterns []Pattern `json:"temporalPatterns"`
}

// Patterns returns spatial and temporal patterns together.
func (s *SensibilityOutput) Patterns() []Pattern {
	if s == nil {
		return nil
	}
	out := make([]Pattern, 0, len(s.SpatialPatterns)+len(s.TemporalPatterns))
	out = append(out, s.SpatialPatterns...)
	return append(out, s.TemporalPatterns...)
}

// ProcessedData is the bundle passed between stages. Each stage returns a new value
// with its own output set and its name appended to the history; earlier outputs are
// carried along untouched.
type ProcessedData struct {
	Sensibility *SensibilityOutput `json:"sensibility,omitempty"`
	Categorized *CategorizedData   `json:"categorized,omitempty"`
	Reasoning   *ReasoningOutput   `json:"reasoning,omitempty"`
	Critique    *CritiqueOutput    `json:"critique,omitempty"`
	Metadata    Metadata           `json:"metadata"`
}

// Advance returns a copy of d with stage appended to the processing history.
func (d ProcessedData) Advance(stage string) ProcessedData {
	next := d
	next.Metadata.History = d.Metadata.History.Append(stage)
	return next
}

// =============================================================================
// RESULT
// =============================================================================

// Confidence is reported either as a number or as a categorical label.
type Confidence struct {
	Value   float64
	Label   string
	Numeric bool
}

// MarshalJSON encodes the number when Numeric, otherwise the label.
func (c Confidence) MarshalJSON() ([]byte, error) {
	if c.Numeric {
		return json.Marshal(c.Value)
	}
	return json.Marshal(c.Label)
}

// UnmarshalJSON accepts either encoding.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		c.Value = f
		c.Numeric = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	c.Label = s
	c.Numeric = false
	return nil
}

// String renders the confidence the way it is reported.
func (c Confidence) String() string {
	if c.Numeric {
		return formatFloat(c.Value)
	}
	return c.Label
}

// CARResult is the final output of a pipeline run.
type CARResult struct {
	RunID                   string                       `json:"runId"`
	Decision                string                       `json:"decision"`
	Reasoning               string                       `json:"reasoning"`
	Confidence              Confidence                   `json:"confidence"`
	ConfidenceLevel         string                       `json:"confidenceLevel,omitempty"`
	UncertaintyFactors      []string                     `json:"uncertaintyFactors"`
	EpistemicLimitations    []string                     `json:"epistemicLimitations"`
	MetacognitiveReflection string                       `json:"metacognitiveReflection"`
	AntinomyResolution      *AntinomyResolutionResult    `json:"antinomyResolution,omitempty"`
	Deferred                bool                         `json:"deferred,omitempty"`
	DecisionDetail          *Decision                    `json:"decisionDetail,omitempty"`
	Inferences              []Inference                  `json:"inferences,omitempty"`
	EthicalAnalysis         *EthicalAnalysis             `json:"ethicalAnalysis,omitempty"`
	CategoricalImperative   *CategoricalImperativeResult `json:"categoricalImperative,omitempty"`
	Uncertainty             *UncertaintyAnalysis         `json:"uncertainty,omitempty"`
	Schemata                []Schema                     `json:"schemata,omitempty"`
	Aesthetic               *AestheticAssessment         `json:"aesthetic,omitempty"`
	ProcessingHistory       []string                     `json:"processingHistory"`
}
