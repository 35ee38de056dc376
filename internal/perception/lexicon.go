package perception

import (
	"regexp"
	"strings"
)

// =============================================================================
// LEXICON
// =============================================================================
//
// Keyword families used by the lexical extractor. Terms are lowercase; multi-word
// terms are matched as phrases, single words as whole tokens.

// DomainVocabulary maps a domain tag to the vocabulary that marks it.
var DomainVocabulary = map[string][]string{
	"healthcare": {
		"patient", "fever", "cough", "symptom", "symptoms", "diagnosis", "treatment",
		"pain", "infection", "doctor", "nurse", "medication", "hospital", "clinical",
		"disease", "headache", "fatigue", "nausea", "chills", "rash", "therapy",
		"blood pressure", "sore throat", "shortness of breath",
	},
	"education": {
		"student", "students", "teacher", "learning", "curriculum", "course", "grade",
		"grades", "exam", "school", "classroom", "lesson", "semester", "tutor", "homework",
	},
	"finance": {
		"price", "revenue", "cost", "budget", "investment", "profit", "loss", "market",
		"interest rate", "inflation", "loan", "portfolio", "stock", "dividend",
	},
	"governance": {
		"policy", "citizen", "citizens", "vote", "election", "regulation", "government",
		"law", "council", "public", "legislation", "compliance", "democracy",
	},
	"science": {
		"hypothesis", "experiment", "measurement", "theory", "data", "sample",
		"variable", "observation", "laboratory", "evidence", "replication",
	},
}

// DomainOrder is the deterministic iteration order for DomainVocabulary.
var DomainOrder = []string{"healthcare", "education", "finance", "governance", "science"}

// DomainKeys maps object keys that tag a domain on their own.
var DomainKeys = map[string]string{
	"symptoms":    "healthcare",
	"symptom":     "healthcare",
	"diagnosis":   "healthcare",
	"patient":     "healthcare",
	"medication":  "healthcare",
	"vitals":      "healthcare",
	"student":     "education",
	"students":    "education",
	"grade":       "education",
	"grades":      "education",
	"curriculum":  "education",
	"course":      "education",
	"price":       "finance",
	"revenue":     "finance",
	"budget":      "finance",
	"portfolio":   "finance",
	"policy":      "governance",
	"citizens":    "governance",
	"regulation":  "governance",
	"vote":        "governance",
	"hypothesis":  "science",
	"experiment":  "science",
	"measurement": "science",
}

// Symptoms is the subset of healthcare vocabulary that forms symptom clusters.
var Symptoms = []string{
	"fever", "cough", "headache", "fatigue", "nausea", "chills", "rash", "pain",
	"sore throat", "shortness of breath",
}

var (
	possibilityModals = []string{"may", "might", "could", "possibly", "perhaps", "likely", "probably", "can"}
	necessityModals   = []string{"must", "necessarily", "always", "required", "certainly", "inevitably", "need to"}
	hedges            = []string{"may", "might", "could", "possibly", "perhaps", "probably"}
	negations         = []string{"not", "no", "never", "none", "without", "neither", "nor", "cannot"}

	temporalTerms = []string{
		"before", "after", "then", "later", "earlier", "yesterday", "today", "tomorrow",
		"previously", "subsequently", "first", "next", "finally", "since", "until", "during",
		"daily", "weekly", "monthly", "annually", "recurring", "periodic", "cycle",
		"onset", "worsening", "improving", "progressed", "progression", "chronic", "acute", "recovery",
	}

	// Cyclic and progression vocabularies are subsets of temporalTerms.
	cyclicTerms      = []string{"daily", "weekly", "monthly", "annually", "recurring", "periodic", "cycle"}
	progressionTerms = []string{"onset", "worsening", "improving", "progressed", "progression", "chronic", "acute", "recovery"}

	temporalKeys = []string{"date", "time", "timestamp", "year", "when", "duration", "onset", "period", "history"}
)

var (
	wordRe      = regexp.MustCompile(`[\p{L}][\p{L}'-]*`)
	numberRe    = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	dateRe      = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	paragraphRe = regexp.MustCompile(`\n\s*\n`)

	// "X causes Y" forms: cause first.
	forwardCausalRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:(?:may|might|could|can|will|often|usually)\s+)?(?:causes?|caused|leads? to|led to|results? in|resulted in|triggers?|triggered|produces?|produced)\s+(.+)$`)

	// "Y because X" forms: effect first.
	backwardCausalRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:because of|because|due to|as a result of|caused by)\s+(.+)$`)
)

// tokenize returns the lowercase word tokens of text.
func tokenize(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	for i, w := range words {
		words[i] = strings.Trim(w, "'-")
	}
	return words
}

// matchTerms returns the terms present in text: single words as whole tokens,
// phrases as substrings of the lowercased text.
func matchTerms(tokens map[string]struct{}, lower string, terms []string) []string {
	var out []string
	for _, term := range terms {
		if strings.Contains(term, " ") {
			if strings.Contains(lower, term) {
				out = append(out, term)
			}
			continue
		}
		if _, ok := tokens[term]; ok {
			out = append(out, term)
		}
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
