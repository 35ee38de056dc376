package ethics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type substitution struct {
	re   *regexp.Regexp
	with string
}

func sub(pattern, with string) substitution {
	return substitution{re: regexp.MustCompile(`(?i)\b(?:` + pattern + `)\b`), with: with}
}

// Phrases come before the single words they contain.
var substitutions = []substitution{
	sub(`exploit\w* vulnerabilit(?:y|ies)`, "address vulnerabilities"),
	sub(`prioritize unfairly`, "prioritize fairly"),
	sub(`make (?:an )?exceptions?`, "apply the same standard"),
	sub(`special treatment`, "equal treatment"),
	sub(`use people`, "work with people"),
	sub(`without consent`, "with consent"),
	sub(`without informing`, "after informing"),
	sub(`hide from`, "disclose to"),
	sub(`harm community`, "support the community"),
	sub(`undermine cooperation`, "strengthen cooperation"),
	sub(`\w*deceiv\w*`, "inform"),
	sub(`lie[sd]?|lying`, "communicate honestly"),
	sub(`mislead\w*|misled`, "clearly inform"),
	sub(`cheat\w*`, "deal fairly with"),
	sub(`exploit\w*`, "support"),
	sub(`manipulat\w*`, "persuade openly"),
	sub(`coerc\w*|forc(?:e|es|ed|ing)`, "encourage"),
	sub(`trick\w*`, "inform"),
	sub(`discriminat\w*(?: against)?`, "treat equitably"),
	sub(`unfairly`, "fairly"),
	sub(`unfair\w*`, "fair"),
	sub(`preferential`, "equal"),
	sub(`biased`, "balanced"),
	sub(`privileg\w*`, "support"),
	sub(`exclud\w*`, "include"),
	sub(`marginali[sz]\w*`, "include"),
}

var (
	exceptionClause = regexp.MustCompile(`(?i)\s*\b(?:only|except) for\b[^,.;]*`)
	spaces          = regexp.MustCompile(`\s+`)
	danglingComma   = regexp.MustCompile(`\s+([,.;])`)
)

const (
	consentQualifier  = " while respecting the informed consent and choices of those affected"
	fairnessQualifier = ", ensuring fair treatment for all"
)

// Rewrite turns an action that fails the gate into one that passes it:
// blacklisted terms are replaced with prosocial substitutes, exception clauses
// are removed, and consent or fairness qualifiers are appended when the result
// still lacks them.
func Rewrite(action string) string {
	needsFairness := !Universalizability(action).Passes || !KingdomOfEnds(action).Passes

	out := action
	for _, s := range substitutions {
		out = s.re.ReplaceAllString(out, s.with)
	}
	out = exceptionClause.ReplaceAllString(out, "")
	out = danglingComma.ReplaceAllString(spaces.ReplaceAllString(out, " "), "$1")
	out = strings.TrimRight(strings.TrimSpace(out), " ,;.")
	if out == "" {
		out = "Proceed"
	}
	out = capitalize(out)

	if len(matches(out, autonomyRespecting)) == 0 {
		out += consentQualifier
	}
	if needsFairness && len(matches(out, communitySupporting)) == 0 {
		out += fairnessQualifier
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
