package critique

import (
	"strings"
	"unicode"

	"carnerd/internal/types"
)

// normalize lowercases s, turns punctuation into spaces and pads the result
// with single spaces so whole words and phrases can be found with " term ".
func normalize(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// mentions returns the terms that occur in normalized text as whole words or phrases.
func mentions(normalized string, terms ...string) []string {
	var out []string
	for _, t := range terms {
		if strings.Contains(normalized, " "+t+" ") {
			out = append(out, t)
		}
	}
	return out
}

func joinLines(parts []string) string {
	return strings.Join(parts, "\n")
}

var negators = []string{"not", "no", "never", "cannot", "won't", "doesn't", "isn't"}

var opposites = [][2]string{
	{"increase", "decrease"},
	{"increasing", "decreasing"},
	{"increases", "decreases"},
	{"rise", "fall"},
	{"improve", "worsen"},
	{"improves", "worsens"},
	{"likely", "unlikely"},
	{"always", "never"},
	{"positive", "negative"},
}

// withoutNegation drops negating words from normalized text.
func withoutNegation(normalized string) string {
	for _, n := range negators {
		normalized = strings.ReplaceAll(normalized, " "+n+" ", " ")
	}
	return normalized
}

// contradicts reports whether two statements assert opposite things: they are
// identical apart from negation, or apart from one word swapped for its opposite.
func contradicts(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return false
	}
	if withoutNegation(na) == withoutNegation(nb) {
		return true
	}
	for _, o := range opposites {
		for _, pair := range [][2]string{o, {o[1], o[0]}} {
			from, to := " "+pair[0]+" ", " "+pair[1]+" "
			if strings.Contains(na, from) && strings.Replace(na, from, to, 1) == nb {
				return true
			}
		}
	}
	return false
}

// Contradictions counts contradictory inference pairs.
func Contradictions(infs []types.Inference) int {
	n := 0
	for i := range infs {
		for j := i + 1; j < len(infs); j++ {
			if contradicts(infs[i].Inference, infs[j].Inference) {
				n++
			}
		}
	}
	return n
}
