// Package antinomy detects tensions between findings of a run and resolves
// them according to the kind of domain the reasoning worked in.
package antinomy

import (
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"carnerd/internal/critique"
	"carnerd/internal/kernel"
	"carnerd/internal/reason"
	"carnerd/internal/types"
)

//go:embed tensions.mg
var tensionRules string

var program = kernel.MustCompile(tensionRules)

// TensionType is the kind of antinomy.
type TensionType string

const (
	Epistemic   TensionType = "epistemic"
	Ethical     TensionType = "ethical"
	Inferential TensionType = "inferential"
)

// Tension is a pair of competing principles.
type Tension struct {
	Type  TensionType
	Poles [2]string
}

// Domain classes appended to the configured domain.
const (
	Theoretical = "_theoretical"
	Practical   = "_practical"
	Descriptive = "_descriptive"
)

// NoTensions is the explanation when nothing was detected.
const NoTensions = "No antinomies detected"

var classes = map[types.InferenceType]string{
	types.InferenceDeductive:      Theoretical,
	types.InferenceInductive:      Theoretical,
	types.InferenceAbductive:      Theoretical,
	types.InferenceCausal:         Practical,
	types.InferencePredictive:     Practical,
	types.InferenceDomainSpecific: Practical,
	types.InferenceStructural:     Descriptive,
	types.InferencePattern:        Descriptive,
	types.InferenceHistorical:     Descriptive,
	types.InferenceStatistical:    Descriptive,
	types.InferenceAnalogical:     Descriptive,
}

// ClassifyDomain appends the class of the dominant inference type to domain.
// Without inferences the domain is returned unchanged.
func ClassifyDomain(domain string, infs []types.Inference) string {
	if domain == "" {
		domain = "general"
	}
	if len(infs) == 0 {
		return domain
	}
	primary, _ := reason.RankTypes(infs)
	return domain + classes[primary]
}

// Resolver runs the antinomy stage.
type Resolver struct {
	domain         string
	highConfidence float64
	logger         *zap.Logger
}

// NewResolver creates a resolver. highConfidence is the threshold above which
// the run's confidence counts as high.
func NewResolver(domain string, highConfidence float64, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{domain: domain, highConfidence: highConfidence, logger: logger}
}

func (r *Resolver) signals(data types.ProcessedData) []kernel.Fact {
	var facts []kernel.Fact
	signal := func(name string) {
		facts = append(facts, kernel.Fact{Predicate: "signal", Args: []any{"/" + name}})
	}
	if c := data.Critique; c != nil {
		if c.Confidence >= r.highConfidence {
			signal("high_confidence")
		}
		n := 0
		for _, f := range c.Uncertainty.Factors {
			if f != critique.NoUncertaintyFactors {
				n++
			}
		}
		if n > 1 {
			signal("multiple_uncertainty_factors")
		}
	}
	if rs := data.Reasoning; rs != nil {
		if strings.Contains(strings.ToLower(rs.EthicalAnalysis.BeneficenceAssessment), "benefits") {
			signal("beneficence_benefits")
		}
		if strings.Contains(strings.ToLower(rs.EthicalAnalysis.AutonomyImplications), "limits") {
			signal("autonomy_limits")
		}
		seen := map[types.InferenceType]bool{}
		for _, inf := range rs.Inferences {
			if !seen[inf.Type] {
				seen[inf.Type] = true
				facts = append(facts, kernel.Fact{Predicate: "inference_type", Args: []any{"/" + string(inf.Type)}})
			}
		}
	}
	return facts
}

// DetectTensions evaluates the tension rules against the signals of a run.
func (r *Resolver) DetectTensions(data types.ProcessedData) []Tension {
	res, err := program.Evaluate(r.signals(data))
	if err != nil {
		r.logger.Warn("tension rules failed", zap.Error(err))
		return nil
	}
	facts, err := res.Facts("tension")
	if err != nil {
		r.logger.Warn("tension query failed", zap.Error(err))
		return nil
	}
	out := make([]Tension, 0, len(facts))
	for _, f := range facts {
		out = append(out, Tension{
			Type:  TensionType(name(f.Args[0])),
			Poles: [2]string{name(f.Args[1]), name(f.Args[2])},
		})
	}
	return out
}

func name(v any) string {
	return strings.TrimPrefix(fmt.Sprint(v), "/")
}

// resolution is one row of the resolution table.
type resolution struct {
	class   string // empty matches every domain class
	tension TensionType
	resolve func(Tension) (string, []string)
}

var table = []resolution{
	{Theoretical, Epistemic, func(t Tension) (string, []string) {
		return "Epistemic tension between confidence and uncertainty is resolved by balance: the conclusion is held provisionally while the uncertainty factors are investigated",
			[]string{t.Poles[0], t.Poles[1]}
	}},
	{Practical, Ethical, func(t Tension) (string, []string) {
		for _, p := range t.Poles {
			if p == "autonomy" {
				return "Ethical tension between beneficence and autonomy is resolved in favor of autonomy: benefits are pursued only with the consent of those affected",
					[]string{"autonomy"}
			}
		}
		return fmt.Sprintf("Ethical tension between %s and %s is resolved by balance: neither principle is given up", t.Poles[0], t.Poles[1]),
			[]string{t.Poles[0], t.Poles[1]}
	}},
	{"", Inferential, func(t Tension) (string, []string) {
		return "Inferential tension between causal and structural reasoning is resolved by integration: causal claims are read within the structure in which they occur",
			[]string{t.Poles[0], t.Poles[1]}
	}},
}

func lookup(class string, t Tension) (resolution, bool) {
	for _, row := range table {
		if row.tension == t.Type && (row.class == "" || strings.Contains(class, row.class)) {
			return row, true
		}
	}
	return resolution{}, false
}

// Verdict records whether one detected tension was resolved.
type Verdict struct {
	Tension  Tension
	Resolved bool
}

// Resolve detects the run's tensions and resolves those the table covers.
// Unmatched tensions are only counted.
func (r *Resolver) Resolve(data types.ProcessedData) types.AntinomyResolutionResult {
	out, _ := r.ResolveVerdicts(data)
	return out
}

// ResolveVerdicts is Resolve that also reports the outcome for each tension.
func (r *Resolver) ResolveVerdicts(data types.ProcessedData) (types.AntinomyResolutionResult, []Verdict) {
	var infs []types.Inference
	if data.Reasoning != nil {
		infs = data.Reasoning.Inferences
	}
	domain := ClassifyDomain(r.domain, infs)
	out := types.AntinomyResolutionResult{Domain: domain, BalancedPrinciples: []string{}}

	tensions := r.DetectTensions(data)
	if len(tensions) == 0 {
		out.Explanation = NoTensions
		return out, nil
	}

	var explanations []string
	verdicts := make([]Verdict, 0, len(tensions))
	unresolved := 0
	for _, t := range tensions {
		row, ok := lookup(domain, t)
		verdicts = append(verdicts, Verdict{Tension: t, Resolved: ok})
		if !ok {
			unresolved++
			continue
		}
		text, principles := row.resolve(t)
		explanations = append(explanations, text)
		out.BalancedPrinciples = append(out.BalancedPrinciples, principles...)
	}
	if unresolved > 0 {
		explanations = append(explanations, fmt.Sprintf("%d tension(s) remain unresolved", unresolved))
	}
	out.ResolvedTension = unresolved < len(tensions)
	out.Explanation = strings.Join(explanations, ". ")
	out.BalancedPrinciples = types.Dedupe(out.BalancedPrinciples)

	r.logger.Debug("antinomies resolved",
		zap.String("domain", domain),
		zap.Int("tensions", len(tensions)),
		zap.Int("unresolved", unresolved))
	return out, verdicts
}
