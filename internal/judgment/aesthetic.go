package judgment

import (
	"math"

	"carnerd/internal/reason"
	"carnerd/internal/types"
)

// Verdicts.
const (
	JudgmentHarmonious = "The reasoning is harmonious and purposive"
	JudgmentAdequate   = "The reasoning is adequately formed"
	JudgmentFormless   = "The reasoning lacks coherent form"
	JudgmentNothing    = "Nothing to judge: no inferences were drawn"
)

// economicalInferences is the inference count beyond which simplicity declines.
const economicalInferences = 3

// Assess scores the form of a reasoning run. Inferences at or above threshold
// count as strong support for the decision.
func Assess(r types.ReasoningOutput, threshold float64) types.AestheticAssessment {
	infs := r.Inferences
	if len(infs) == 0 {
		return types.AestheticAssessment{Judgment: JudgmentNothing}
	}

	counts := map[types.InferenceType]int{}
	for _, inf := range infs {
		counts[inf.Type]++
	}
	primary, _ := reason.RankTypes(infs)
	harmony := float64(counts[primary]) / float64(len(infs))

	excess := math.Max(0, float64(len(infs)-economicalInferences))
	simplicity := types.Clamp(1-0.1*excess, 0, 1)

	purposiveness := 0.0
	if r.Decision.Action != "" && r.Decision.Action != reason.DefaultAction {
		strong := 0
		for _, inf := range infs {
			if inf.Confidence >= threshold {
				strong++
			}
		}
		purposiveness = float64(strong) / float64(len(infs))
	}

	out := types.AestheticAssessment{
		Harmony:       harmony,
		Simplicity:    simplicity,
		Purposiveness: purposiveness,
	}
	switch mean := (harmony + simplicity + purposiveness) / 3; {
	case mean >= 0.7:
		out.Judgment = JudgmentHarmonious
	case mean >= 0.4:
		out.Judgment = JudgmentAdequate
	default:
		out.Judgment = JudgmentFormless
	}
	return out
}
