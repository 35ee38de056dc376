package transparency

import (
	"fmt"
	"sort"
	"strings"

	"carnerd/internal/types"
)

// Explainer builds markdown reports from pipeline results.
type Explainer struct {
	maxInferences int
	showDetails   bool
}

// NewExplainer creates an explainer with default settings.
func NewExplainer() *Explainer {
	return &Explainer{
		maxInferences: 5,
		showDetails:   true,
	}
}

// SetMaxInferences limits how many inferences the report lists.
func (e *Explainer) SetMaxInferences(n int) {
	e.maxInferences = n
}

// SetShowDetails configures whether to show the trace sections.
func (e *Explainer) SetShowDetails(show bool) {
	e.showDetails = show
}

// ExplainResult renders the full glass-box report for a result.
func (e *Explainer) ExplainResult(res types.CARResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Decision: %s\n\n", res.Decision))
	if res.Deferred {
		sb.WriteString("*The input touches a configured epistemic boundary and was deferred without reasoning.*\n\n")
	}
	if res.Reasoning != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", res.Reasoning))
	}
	sb.WriteString(fmt.Sprintf("**Confidence**: %s", res.Confidence))
	if res.ConfidenceLevel != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", res.ConfidenceLevel))
	}
	sb.WriteString("\n\n")

	if e.showDetails {
		e.explainDecision(&sb, res.DecisionDetail)
		e.explainInferences(&sb, res.Inferences)
		e.explainEthics(&sb, res.EthicalAnalysis, res.CategoricalImperative)
	}

	writeList(&sb, "Epistemic Limitations", res.EpistemicLimitations)
	writeList(&sb, "Uncertainty Factors", res.UncertaintyFactors)
	if e.showDetails && res.Uncertainty != nil {
		sb.WriteString(ExplainUncertainty(*res.Uncertainty))
	}

	if res.MetacognitiveReflection != "" {
		sb.WriteString("### Reflection\n")
		sb.WriteString(fmt.Sprintf("%s\n\n", res.MetacognitiveReflection))
	}

	if a := res.AntinomyResolution; a != nil {
		sb.WriteString("### Antinomies\n")
		sb.WriteString(fmt.Sprintf("**Domain**: %s\n", a.Domain))
		sb.WriteString(fmt.Sprintf("%s\n", a.Explanation))
		if len(a.BalancedPrinciples) > 0 {
			sb.WriteString(fmt.Sprintf("*Principles weighed: %s*\n", strings.Join(a.BalancedPrinciples, ", ")))
		}
		sb.WriteString("\n")
	}

	if len(res.Schemata) > 0 {
		sb.WriteString("### Schemata\n")
		for _, s := range res.Schemata {
			mark := ""
			if s.Grounded {
				mark = " **(grounded)**"
			}
			sb.WriteString(fmt.Sprintf("- %s: %s%s\n", s.Category, s.Schema, mark))
		}
		sb.WriteString("\n")
	}

	if a := res.Aesthetic; a != nil {
		sb.WriteString("### Form\n")
		sb.WriteString(fmt.Sprintf("%s (harmony %.2f, simplicity %.2f, purposiveness %.2f)\n\n",
			a.Judgment, a.Harmony, a.Simplicity, a.Purposiveness))
	}

	if e.showDetails {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("*Run %s: %s*\n", runLabel(res.RunID), strings.Join(res.ProcessingHistory, " → ")))
	}
	return sb.String()
}

func runLabel(id string) string {
	if id == "" {
		return "(unnamed)"
	}
	return id
}

func (e *Explainer) explainDecision(sb *strings.Builder, d *types.Decision) {
	if d == nil {
		return
	}
	if len(d.Alternatives) > 0 {
		sb.WriteString("### Alternatives\n")
		for _, a := range d.Alternatives {
			sb.WriteString(fmt.Sprintf("- %s\n", a))
		}
		sb.WriteString("\n")
	}
	if len(d.ExpectedOutcomes) > 0 {
		sb.WriteString("### Expected Outcomes\n")
		for _, o := range d.ExpectedOutcomes {
			sb.WriteString(fmt.Sprintf("- %s (%s, likelihood %.2f)\n", o.Outcome, o.Timeframe, o.Likelihood))
		}
		sb.WriteString("\n")
	}
}

func (e *Explainer) explainInferences(sb *strings.Builder, infs []types.Inference) {
	if len(infs) == 0 {
		return
	}
	sb.WriteString("### Inferences\n")
	for i, inf := range infs {
		if e.maxInferences > 0 && i >= e.maxInferences {
			sb.WriteString(fmt.Sprintf("*... (%d more omitted)*\n", len(infs)-i))
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s `%s` %.2f\n", i+1, inf.Inference, inf.Type, inf.Confidence))
		if len(inf.Counterevidence) > 0 {
			sb.WriteString(fmt.Sprintf("   *but: %s*\n", strings.Join(inf.Counterevidence, "; ")))
		}
	}
	sb.WriteString("\n")
}

func (e *Explainer) explainEthics(sb *strings.Builder, ea *types.EthicalAnalysis, ci *types.CategoricalImperativeResult) {
	if ea == nil && ci == nil {
		return
	}
	sb.WriteString("### Ethics\n")
	if ea != nil {
		for _, row := range [][2]string{
			{"Autonomy", ea.AutonomyImplications},
			{"Beneficence", ea.BeneficenceAssessment},
			{"Justice", ea.JusticeConsiderations},
		} {
			if row[1] != "" {
				sb.WriteString(fmt.Sprintf("- **%s**: %s\n", row[0], row[1]))
			}
		}
		for _, r := range ea.NonMaleficenceRisks {
			sb.WriteString(fmt.Sprintf("- **Risk**: %s\n", r))
		}
		names := make([]string, 0, len(ea.AdditionalConsiderations))
		for n := range ea.AdditionalConsiderations {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", n, ea.AdditionalConsiderations[n]))
		}
	}
	sb.WriteString("\n")
	if ci != nil {
		sb.WriteString(ExplainImperative(*ci))
	}
}

// ExplainImperative renders a categorical imperative verdict.
func ExplainImperative(ci types.CategoricalImperativeResult) string {
	var sb strings.Builder
	verdict := "passes"
	if !ci.Passes {
		verdict = "fails"
	}
	sb.WriteString(fmt.Sprintf("#### Categorical imperative: %s\n", verdict))
	for _, row := range []struct {
		name string
		res  *types.TestResult
	}{
		{"Universalizability", ci.Tests.Universalizability},
		{"Humanity as end", ci.Tests.HumanityAsEnd},
		{"Kingdom of ends", ci.Tests.KingdomOfEnds},
	} {
		if row.res == nil {
			continue
		}
		mark := "✓"
		if !row.res.Passes {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("- %s %s: %s\n", mark, row.name, row.res.Reasoning))
	}
	if ci.Explanation != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", ci.Explanation))
	}
	if !ci.Passes && ci.AlternativeAction != "" {
		sb.WriteString(fmt.Sprintf("\n**Suggested alternative**: %s\n", ci.AlternativeAction))
	}
	sb.WriteString("\n")
	return sb.String()
}

// ExplainUncertainty renders the per-source uncertainty table.
func ExplainUncertainty(u types.UncertaintyAnalysis) string {
	if len(u.Distribution) == 0 {
		return ""
	}
	sources := make([]string, 0, len(u.Distribution))
	for s := range u.Distribution {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	var sb strings.Builder
	sb.WriteString("| Source | Uncertainty |\n|---|---|\n")
	for _, s := range sources {
		sb.WriteString(fmt.Sprintf("| %s | %.2f |\n", s, u.Distribution[s]))
	}
	sb.WriteString(fmt.Sprintf("| **combined** | **%.2f** |\n\n", u.Value))
	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("### %s\n", title))
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("- %s\n", it))
	}
	sb.WriteString("\n")
}
