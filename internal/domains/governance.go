package domains

import (
	"carnerd/internal/types"
)

type governance struct{}

func (governance) Name() string { return "governance" }

func (governance) Inferences(ctx Context) []types.Inference {
	terms := vocabulary(ctx.Features, "governance")
	var out []types.Inference

	if hasAny(terms, "policy", "regulation", "legislation", "law") && hasAny(terms, "citizen", "citizens", "public") {
		out = append(out, inference("Policy decisions affecting citizens require stakeholder consultation",
			0.7, present(terms, "policy", "regulation", "legislation", "law", "citizen", "citizens", "public"),
			[]string{"Stakeholder positions are not represented in the input"}))
	}
	if hasAny(terms, "vote", "election", "democracy") {
		out = append(out, inference("Electoral matters require transparency and procedural fairness",
			0.65, present(terms, "vote", "election", "democracy"), nil))
	}
	if hasAny(terms, "compliance", "regulation") {
		out = append(out, inference("Compliance obligations constrain the available courses of action",
			0.6, present(terms, "compliance", "regulation"), nil))
	}
	return out
}

func (governance) Limitations(Context) []string {
	return []string{"Governance analysis lacks stakeholder input and jurisdiction-specific legal context"}
}
