package reason

import (
	"fmt"
	"sort"
	"strings"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

// Keyword families scanned by the ethical assessments.
var (
	autonomyLimiting   = []string{"restrict", "limit", "mandatory", "require", "force", "control", "override", "prohibit"}
	autonomySupporting = []string{"choice", "consent", "option", "voluntary", "inform", "decide", "preference"}

	benefitTerms   = []string{"improve", "benefit", "help", "support", "treatment", "recovery", "increase", "growth", "protect"}
	detrimentTerms = []string{"decline", "worsen", "deteriorat", "decrease", "reduce"}

	harmFamilies = []struct {
		label string
		terms []string
	}{
		{"physical harm", []string{"harm", "injury", "damage", "death", "infection", "disease", "pain", "flooding"}},
		{"psychological harm", []string{"stress", "anxiety", "distress", "fear", "trauma"}},
		{"privacy harm", []string{"privacy", "personal data", "surveillance", "confidential"}},
		{"financial harm", []string{"loss", "debt", "fraud", "bankrupt", "outage"}},
	}
	escalationTerms = []string{"severe", "significant", "critical", "serious", "fatal"}

	injusticeTerms = []string{"unequal", "disparity", "discriminat", "bias", "unfair", "inequit", "exclu"}
	justiceTerms   = []string{"equal", "fair", "access", "equitable", "inclusive"}

	vulnerableTerms = []string{"patient", "child", "children", "elderly", "student", "minor", "vulnerable"}
	rightsTerms     = []string{"privacy", "consent", "rights", "freedom", "personal data"}
)

// Neutral findings.
const (
	NoAutonomyImplications = "No direct autonomy implications identified"
	NoBenefitsIdentified   = "No clear benefits identified"
	NoJusticeConcerns      = "No justice concerns identified"
)

// ethicalCorpus is the lowercase text the assessments scan: every inference,
// its evidence and the items of the category analyses.
func ethicalCorpus(infs []types.Inference, data types.CategorizedData) string {
	var b strings.Builder
	for _, inf := range infs {
		b.WriteString(inf.Inference)
		b.WriteByte('\n')
		for _, e := range inf.Evidence {
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}
	cats := make([]string, 0, len(data.Analyses))
	for c := range data.Analyses {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	for _, c := range cats {
		for _, it := range data.Analyses[types.Category(c)].Items {
			b.WriteString(it)
			b.WriteByte('\n')
		}
	}
	return strings.ToLower(b.String())
}

// Assess runs the enabled ethical assessments and additional frameworks.
func Assess(cfg config.EthicsConfig, infs []types.Inference, data types.CategorizedData) types.EthicalAnalysis {
	text := ethicalCorpus(infs, data)
	var ea types.EthicalAnalysis
	if cfg.EnableAutonomy {
		ea.AutonomyImplications = assessAutonomy(text)
	}
	if cfg.EnableBeneficence {
		ea.BeneficenceAssessment = assessBeneficence(text)
	}
	if cfg.EnableNonMaleficence {
		ea.NonMaleficenceRisks = assessNonMaleficence(text)
	}
	if ea.NonMaleficenceRisks == nil {
		ea.NonMaleficenceRisks = []string{}
	}
	if cfg.EnableJustice {
		ea.JusticeConsiderations = assessJustice(text)
	}

	for _, name := range cfg.AdditionalFrameworks {
		fw, ok := frameworks[name]
		if !ok {
			continue
		}
		if ea.AdditionalConsiderations == nil {
			ea.AdditionalConsiderations = map[string]string{}
		}
		ea.AdditionalConsiderations[name] = fw(text, ea)
	}
	return ea
}

func assessAutonomy(text string) string {
	if found := types.MatchingTerms(text, autonomyLimiting...); len(found) > 0 {
		return "Potential limits on autonomy: " + strings.Join(found, ", ")
	}
	if found := types.MatchingTerms(text, autonomySupporting...); len(found) > 0 {
		return "Supports autonomy through " + strings.Join(found, ", ")
	}
	return NoAutonomyImplications
}

func assessBeneficence(text string) string {
	if found := types.MatchingTerms(text, detrimentTerms...); len(found) > 0 {
		return "Potential detriment to wellbeing: " + strings.Join(found, ", ")
	}
	if found := types.MatchingTerms(text, benefitTerms...); len(found) > 0 {
		return "Potential benefits: " + strings.Join(found, ", ")
	}
	return NoBenefitsIdentified
}

func assessNonMaleficence(text string) []string {
	prefix := "Risk of"
	if types.ContainsAny(text, escalationTerms...) {
		prefix = "Severe risk of"
	}
	var risks []string
	for _, fam := range harmFamilies {
		if found := types.MatchingTerms(text, fam.terms...); len(found) > 0 {
			risks = append(risks, fmt.Sprintf("%s %s (%s)", prefix, fam.label, strings.Join(found, ", ")))
		}
	}
	return risks
}

func assessJustice(text string) string {
	if found := types.MatchingTerms(text, injusticeTerms...); len(found) > 0 {
		return "Fairness concerns: " + strings.Join(found, ", ")
	}
	if found := types.MatchingTerms(text, justiceTerms...); len(found) > 0 {
		return "Supports fair distribution through " + strings.Join(found, ", ")
	}
	return NoJusticeConcerns
}

// Concerns lists the negative findings of an ethical analysis: every
// non-maleficence risk plus negative autonomy, beneficence and justice findings.
func Concerns(ea types.EthicalAnalysis) []string {
	out := append([]string(nil), ea.NonMaleficenceRisks...)
	for _, s := range []string{ea.AutonomyImplications, ea.BeneficenceAssessment, ea.JusticeConsiderations} {
		if strings.HasPrefix(s, "Potential limits") || strings.HasPrefix(s, "Potential detriment") || strings.HasPrefix(s, "Fairness concerns") {
			out = append(out, s)
		}
	}
	return out
}

// =============================================================================
// ADDITIONAL FRAMEWORKS
// =============================================================================

type framework func(text string, ea types.EthicalAnalysis) string

var frameworks = map[string]framework{
	"virtue":      virtueEthics,
	"utilitarian": utilitarianEthics,
	"care":        careEthics,
	"rights":      rightsEthics,
}

func virtueEthics(_ string, ea types.EthicalAnalysis) string {
	if len(Concerns(ea)) > 0 {
		return "Prudence counsels caution given the identified concerns"
	}
	return "Action is consistent with prudence and integrity"
}

func utilitarianEthics(text string, ea types.EthicalAnalysis) string {
	benefits := len(types.MatchingTerms(text, benefitTerms...))
	harms := len(ea.NonMaleficenceRisks)
	if benefits > harms {
		return fmt.Sprintf("Expected benefits (%d) outweigh identified harms (%d)", benefits, harms)
	}
	return fmt.Sprintf("Expected benefits (%d) do not outweigh identified harms (%d)", benefits, harms)
}

func careEthics(text string, _ types.EthicalAnalysis) string {
	if found := types.MatchingTerms(text, vulnerableTerms...); len(found) > 0 {
		return "Attend to the needs of vulnerable parties: " + strings.Join(found, ", ")
	}
	return "Maintain relationships of trust with those affected"
}

func rightsEthics(text string, _ types.EthicalAnalysis) string {
	if found := types.MatchingTerms(text, rightsTerms...); len(found) > 0 {
		return "Protect the rights at stake: " + strings.Join(found, ", ")
	}
	return "No fundamental rights appear to be at stake"
}
