// Package ethics implements the ethical gate applied to proposed actions.
//
// A Gate is a capability: the keyword-driven categorical-imperative gate in this
// package is one implementation, and anything else that can judge an action
// string (a classifier, a review queue) can be substituted through the interface.
package ethics

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

// Gate judges a proposed action.
type Gate interface {
	Evaluate(action string) types.CategoricalImperativeResult
}

// GateFunc adapts a plain function to the Gate interface.
type GateFunc func(action string) types.CategoricalImperativeResult

// Evaluate calls f(action).
func (f GateFunc) Evaluate(action string) types.CategoricalImperativeResult {
	return f(action)
}

// term is a labelled, case-insensitive pattern matched on word boundaries.
type term struct {
	label string
	re    *regexp.Regexp
}

// w builds a term. Without an explicit pattern the label is matched literally.
func w(label string, pattern ...string) term {
	p := regexp.QuoteMeta(label)
	if len(pattern) > 0 {
		p = pattern[0]
	}
	return term{label: label, re: regexp.MustCompile(`(?i)\b(?:` + p + `)\b`)}
}

var (
	nonUniversalizable = []term{
		w("deceive", `\w*deceiv\w*`),
		w("lie", `lie[sd]?|lying`),
		w("mislead", `mislead\w*|misled`),
		w("cheat", `cheat\w*`),
		w("exploit", `exploit\w*`),
		w("prioritize unfairly"),
		w("make exception", `make (?:an )?exceptions?`),
		w("special treatment"),
	}
	exceptionMarkers = []term{w("only for"), w("except for")}

	instrumentalizing = []term{
		w("manipulate", `manipulat\w*`),
		w("coerce", `coerc\w*`),
		w("force", `forc(?:e|es|ed|ing)`),
		w("trick", `trick\w*`),
		w("use people"),
		w("without consent"),
		w("without informing"),
		w("hide from"),
		w("exploit vulnerability", `exploit\w* vulnerabilit(?:y|ies)`),
	}
	autonomyRespecting = []term{
		w("inform", `inform\w*`),
		w("consent", `consent\w*`),
		w("choice", `choices?`),
		w("option", `options?`),
		w("preference", `preferences?`),
		w("autonomy"),
		w("respect", `respect\w*`),
		w("dignity"),
	}

	disharmony = []term{
		w("discriminate", `discriminat\w*`),
		w("unfair", `unfair\w*`),
		w("preferential"),
		w("biased"),
		w("privilege", `privileg\w*`),
		w("exclude", `exclud\w*`),
		w("marginalize", `marginali[sz]\w*`),
		w("harm community"),
		w("undermine cooperation"),
	}
	communitySupporting = []term{
		w("cooperation", `cooperat\w*`),
		w("collaboration", `collaborat\w*`),
		w("community", `communit(?:y|ies)`),
		w("together"),
		w("mutual", `mutual\w*`),
		w("shared"),
		w("collective", `collective\w*`),
		w("fairness", `fair(?:ly|ness)?`),
		w("equality", `equal\w*`),
		w("inclusion", `inclu(?:de|des|ded|ding|sion|sive)`),
	}
)

// matches returns the labels of every term found in s.
func matches(s string, list []term) []string {
	var out []string
	for _, t := range list {
		if t.re.MatchString(s) {
			out = append(out, t.label)
		}
	}
	return out
}

// =============================================================================
// FORMULATIONS
// =============================================================================

// Universalizability fails actions that could not be willed as universal law:
// deception and exploitation, or actions carved out as exceptions.
func Universalizability(action string) types.TestResult {
	if found := matches(action, nonUniversalizable); len(found) > 0 {
		return types.TestResult{
			Passes:    false,
			Reasoning: fmt.Sprintf("Action relies on %s, which cannot be willed as a universal law", strings.Join(found, ", ")),
		}
	}
	if found := matches(action, exceptionMarkers); len(found) > 0 {
		return types.TestResult{
			Passes:    false,
			Reasoning: fmt.Sprintf("Action makes an exception (%q) that could not hold for everyone", found[0]),
		}
	}
	return types.TestResult{Passes: true, Reasoning: "Action can be universalized without contradiction"}
}

// HumanityAsEnd fails actions that treat persons merely as means, and actions
// that never acknowledge the autonomy of the people affected.
func HumanityAsEnd(action string) types.TestResult {
	if found := matches(action, instrumentalizing); len(found) > 0 {
		return types.TestResult{
			Passes:    false,
			Reasoning: fmt.Sprintf("Action treats persons merely as means (%s)", strings.Join(found, ", ")),
		}
	}
	if len(matches(action, autonomyRespecting)) == 0 {
		return types.TestResult{
			Passes:    false,
			Reasoning: "Action does not acknowledge the autonomy of those affected (no reference to information, consent or choice)",
		}
	}
	return types.TestResult{Passes: true, Reasoning: "Action respects persons as ends in themselves"}
}

// KingdomOfEnds fails actions that would disrupt a community of equal rational agents.
func KingdomOfEnds(action string) types.TestResult {
	if found := matches(action, disharmony); len(found) > 0 {
		return types.TestResult{
			Passes:    false,
			Reasoning: fmt.Sprintf("Action is incompatible with a kingdom of ends (%s)", strings.Join(found, ", ")),
		}
	}
	if len(matches(action, communitySupporting)) > 0 {
		return types.TestResult{Passes: true, Reasoning: "Action actively supports a harmonious community of rational agents"}
	}
	return types.TestResult{Passes: true, Reasoning: "Action is compatible with a kingdom of ends"}
}

// =============================================================================
// GATE
// =============================================================================

// Imperative is the keyword-driven categorical-imperative gate.
type Imperative struct {
	cfg    config.ImperativeConfig
	logger *zap.Logger
}

// NewImperative creates a gate running the formulations enabled in cfg.
func NewImperative(cfg config.ImperativeConfig, logger *zap.Logger) *Imperative {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Imperative{cfg: cfg, logger: logger}
}

// Evaluate runs every enabled formulation. The action passes when all of them
// pass; otherwise a rewritten alternative is attached.
func (g *Imperative) Evaluate(action string) types.CategoricalImperativeResult {
	var res types.CategoricalImperativeResult
	var failed []string

	run := func(enabled bool, name string, test func(string) types.TestResult) *types.TestResult {
		if !enabled {
			return nil
		}
		r := test(action)
		if !r.Passes {
			failed = append(failed, name)
		}
		return &r
	}
	res.Tests.Universalizability = run(g.cfg.Universalizability, "universalizability", Universalizability)
	res.Tests.HumanityAsEnd = run(g.cfg.HumanityAsEnd, "humanity as end", HumanityAsEnd)
	res.Tests.KingdomOfEnds = run(g.cfg.KingdomOfEnds, "kingdom of ends", KingdomOfEnds)

	if len(failed) == 0 {
		res.Passes = true
		res.Explanation = "Action is consistent with every applied formulation of the categorical imperative"
		return res
	}

	res.Explanation = "Action fails the categorical imperative (" + strings.Join(failed, ", ") + ")"
	res.AlternativeAction = Rewrite(action)
	g.logger.Debug("action rejected by ethical gate",
		zap.String("action", action),
		zap.Strings("failed", failed),
		zap.String("alternative", res.AlternativeAction))
	return res
}
