// Package understanding applies the twelve category analyses (Quantity, Quality,
// Relation, Modality) to the features produced by perception.
//
// Each analysis is a pure function registered by category. Analyses never read each
// other's results, so any subset can run in any order.
package understanding

import (
	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

// Input is everything an analysis may inspect.
type Input struct {
	Features   []types.Feature
	Patterns   []types.Pattern
	Thresholds config.UnderstandingThresholds
}

// Analyzer is one category analysis. Analyze must always return a non-empty
// description, including when nothing was found.
type Analyzer interface {
	Category() types.Category
	Analyze(in Input) types.Analysis
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc struct {
	Cat types.Category
	Fn  func(in Input) types.Analysis
}

func (a AnalyzerFunc) Category() types.Category { return a.Cat }

func (a AnalyzerFunc) Analyze(in Input) types.Analysis {
	res := a.Fn(in)
	res.Category = a.Cat
	return res
}

// registry holds the built-in analyses keyed by category.
var registry = map[types.Category]Analyzer{
	types.CategoryUnity:       AnalyzerFunc{types.CategoryUnity, analyzeUnity},
	types.CategoryPlurality:   AnalyzerFunc{types.CategoryPlurality, analyzePlurality},
	types.CategoryTotality:    AnalyzerFunc{types.CategoryTotality, analyzeTotality},
	types.CategoryReality:     AnalyzerFunc{types.CategoryReality, analyzeReality},
	types.CategoryNegation:    AnalyzerFunc{types.CategoryNegation, analyzeNegation},
	types.CategoryLimitation:  AnalyzerFunc{types.CategoryLimitation, analyzeLimitation},
	types.CategorySubstance:   AnalyzerFunc{types.CategorySubstance, analyzeSubstance},
	types.CategoryCausality:   AnalyzerFunc{types.CategoryCausality, analyzeCausality},
	types.CategoryCommunity:   AnalyzerFunc{types.CategoryCommunity, analyzeCommunity},
	types.CategoryPossibility: AnalyzerFunc{types.CategoryPossibility, analyzePossibility},
	types.CategoryExistence:   AnalyzerFunc{types.CategoryExistence, analyzeExistence},
	types.CategoryNecessity:   AnalyzerFunc{types.CategoryNecessity, analyzeNecessity},
}

// Lookup returns the built-in analyzer for a category.
func Lookup(cat types.Category) (Analyzer, bool) {
	a, ok := registry[cat]
	return a, ok
}

// Categorizer runs the enabled analyses. It is safe for concurrent use.
type Categorizer struct {
	cfg       config.UnderstandingConfig
	analyzers []Analyzer
	logger    *zap.Logger
}

// NewCategorizer creates a categorizer with the analyses enabled in cfg, in
// canonical category order.
func NewCategorizer(cfg config.UnderstandingConfig, logger *zap.Logger) *Categorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Categorizer{cfg: cfg, logger: logger}
	for _, cat := range types.AllCategories {
		if cfg.Enabled(string(cat)) {
			c.analyzers = append(c.analyzers, registry[cat])
		}
	}
	return c
}

// Analyze runs every enabled analysis over the sensibility output.
// A nil output is treated as an empty feature list.
func (c *Categorizer) Analyze(sens *types.SensibilityOutput) types.CategorizedData {
	in := Input{Thresholds: c.cfg.Thresholds}
	if sens != nil {
		in.Features = sens.Features
		in.Patterns = sens.Patterns()
	}

	out := types.CategorizedData{Analyses: make(map[types.Category]types.Analysis, len(c.analyzers))}
	for _, a := range c.analyzers {
		out.Analyses[a.Category()] = a.Analyze(in)
	}
	return out
}

// Categorize is the understanding stage: it attaches the categorized data and
// appends the stage to the history.
func (c *Categorizer) Categorize(data types.ProcessedData) types.ProcessedData {
	categorized := c.Analyze(data.Sensibility)

	found := 0
	for _, a := range categorized.Analyses {
		if a.Found() {
			found++
		}
	}
	c.logger.Debug("categorized features",
		zap.Int("analyses", len(categorized.Analyses)),
		zap.Int("with_findings", found))

	next := data.Advance(types.StageUnderstanding)
	next.Categorized = &categorized
	return next
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

func ofType(features []types.Feature, kinds ...types.FeatureType) []types.Feature {
	var out []types.Feature
	for _, f := range features {
		for _, k := range kinds {
			if f.Type == k {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func patternsOf(patterns []types.Pattern, kinds ...types.PatternType) []types.Pattern {
	var out []types.Pattern
	for _, p := range patterns {
		for _, k := range kinds {
			if p.Type == k {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func valueString(f types.Feature) string {
	if s, ok := f.Value.(string); ok {
		return s
	}
	return types.ExtractString(f.Value)
}
