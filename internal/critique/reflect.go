package critique

import (
	"fmt"
	"math"
	"strings"

	"carnerd/internal/config"
	"carnerd/internal/reason"
	"carnerd/internal/types"
)

// Calibration bounds.
const (
	MinCalibrated = 0.05
	MaxCalibrated = 0.95
)

// Reflection is the metacognitive view of one reasoning run.
type Reflection struct {
	Narrative  string
	Calibrated float64
	Biases     []string
}

// Reflect builds the narrative for a reasoning output with the given raw
// confidence and limitations. Disabled parts are left out of the narrative;
// with calibration disabled Calibrated equals confidence.
func Reflect(cfg config.ReflectionConfig, r types.ReasoningOutput, limitations []string, confidence float64) Reflection {
	out := Reflection{Calibrated: types.Clamp(confidence, 0, 1)}
	var parts []string
	if cfg.EnableReasoningSummary {
		parts = append(parts, summarizeReasoning(r.Inferences, limitations))
	}
	if cfg.EnableQualitySummary {
		parts = append(parts, summarizeQuality(r.Inferences))
	}
	if cfg.EnableCalibration {
		out.Calibrated = Calibrate(confidence, r.Inferences, limitations)
		parts = append(parts, fmt.Sprintf("Calibrated confidence is %.2f (raw %.2f).", out.Calibrated, confidence))
	}
	if cfg.EnableBiasDetection {
		out.Biases = DetectBiases(r, confidence)
		if len(out.Biases) > 0 {
			parts = append(parts, "Possible biases to review: "+strings.Join(out.Biases, "; ")+".")
		}
	}
	out.Narrative = strings.Join(parts, " ")
	return out
}

// countedLimitations ignores the no-limitations sentinel.
func countedLimitations(limitations []string) int {
	n := 0
	for _, l := range limitations {
		if l != NoLimitations {
			n++
		}
	}
	return n
}

func summarizeReasoning(infs []types.Inference, limitations []string) string {
	if len(infs) == 0 {
		return fmt.Sprintf("No inferences were drawn; %d limitation(s) were identified.", countedLimitations(limitations))
	}
	primary, secondary := reason.RankTypes(infs)
	var b strings.Builder
	fmt.Fprintf(&b, "Reasoning relied mainly on %s inference", primary)
	if secondary != "" {
		fmt.Fprintf(&b, ", supported by %s inference", secondary)
	}
	evidence := 0
	for _, inf := range infs {
		evidence += len(inf.Evidence)
	}
	density := float64(evidence) / float64(len(infs))
	switch {
	case density >= 2:
		b.WriteString(", with rich supporting evidence")
	case density >= 1:
		b.WriteString(", with adequate supporting evidence")
	default:
		b.WriteString(", with sparse supporting evidence")
	}
	fmt.Fprintf(&b, "; %d limitation(s) were identified.", countedLimitations(limitations))
	return b.String()
}

// wellSupported reports whether an inference has more evidence than counterevidence.
func wellSupported(inf types.Inference) bool {
	return len(inf.Evidence) > 0 && len(inf.Evidence) > len(inf.Counterevidence)
}

// Quality is the average inference confidence times the share of well-supported inferences.
func Quality(infs []types.Inference) float64 {
	if len(infs) == 0 {
		return 0
	}
	mean, _ := confidenceStats(infs)
	supported := 0
	for _, inf := range infs {
		if wellSupported(inf) {
			supported++
		}
	}
	return mean * float64(supported) / float64(len(infs))
}

func qualityBucket(q float64) string {
	switch {
	case q >= 0.7:
		return "strong"
	case q >= 0.5:
		return "moderate"
	case q >= 0.3:
		return "weak"
	default:
		return "very weak"
	}
}

func summarizeQuality(infs []types.Inference) string {
	q := Quality(infs)
	return fmt.Sprintf("Overall inference quality is %s (%.2f).", qualityBucket(q), q)
}

// Calibrate nudges a confidence by the limitation count, type diversity,
// evidence quantity and counterevidence ratio, then clamps it to
// [MinCalibrated, MaxCalibrated].
func Calibrate(confidence float64, infs []types.Inference, limitations []string) float64 {
	c := confidence
	if n := countedLimitations(limitations); n > 2 {
		c -= math.Min(0.03*float64(n-2), 0.15)
	}
	switch d := distinctTypes(infs); {
	case d >= 3:
		c += 0.05
	case d == 1:
		c -= 0.05
	}
	var evidence, counter int
	for _, inf := range infs {
		evidence += len(inf.Evidence)
		counter += len(inf.Counterevidence)
	}
	switch {
	case len(infs) > 0 && evidence >= 2*len(infs):
		c += 0.05
	case evidence < len(infs) || len(infs) == 0:
		c -= 0.05
	}
	if evidence > 0 && float64(counter)/float64(evidence) > 0.5 {
		c -= 0.1
	}
	return types.Clamp(c, MinCalibrated, MaxCalibrated)
}

var (
	anchoringTerms = []string{"initial", "first", "original", "baseline", "anchor"}
	vividTerms     = []string{"recent", "dramatic", "memorable", "vivid", "striking", "news"}
)

// DetectBiases returns advisory bias warnings. They never change the decision.
func DetectBiases(r types.ReasoningOutput, confidence float64) []string {
	infs := r.Inferences
	var out []string
	var evidence, counter int
	for _, inf := range infs {
		evidence += len(inf.Evidence)
		counter += len(inf.Counterevidence)
	}
	if evidence >= 3 && counter == 0 {
		out = append(out, "Confirmation bias: no counterevidence was considered")
	}
	var texts []string
	for _, inf := range infs {
		texts = append(texts, inf.Inference)
		texts = append(texts, inf.Evidence...)
	}
	text := normalize(joinLines(texts))
	if len(mentions(text, anchoringTerms...)) > 0 {
		out = append(out, "Anchoring bias: reasoning may lean on initial values")
	}
	if len(mentions(text, vividTerms...)) > 0 {
		out = append(out, "Availability bias: vivid or recent information may be overweighted")
	}
	mean, _ := confidenceStats(infs)
	if confidence > 0.8 && (len(infs) < 3 || mean < 0.6) {
		out = append(out, "Overconfidence: confidence exceeds the strength of the inferences")
	}
	if r.Decision.Action != "" && r.Decision.Action != reason.DefaultAction && Quality(infs) < 0.3 {
		out = append(out, "Action bias: acting despite weak inferential support")
	}
	return out
}
