package domains

import (
	"strings"

	"carnerd/internal/types"
)

type healthcare struct{}

func (healthcare) Name() string { return "healthcare" }

// symptomRule maps a set of co-occurring symptoms to a clinical hypothesis.
type symptomRule struct {
	requires   []string
	inference  string
	confidence float64
}

var symptomRules = []symptomRule{
	{[]string{"fever", "cough"}, "Symptoms suggest possible respiratory infection", 0.75},
	{[]string{"sore throat", "cough"}, "Symptoms suggest possible upper respiratory tract infection", 0.7},
	{[]string{"fever", "chills"}, "Symptoms suggest possible systemic infection", 0.65},
	{[]string{"headache", "nausea"}, "Symptoms are consistent with migraine", 0.6},
	{[]string{"shortness of breath"}, "Shortness of breath warrants prompt clinical assessment", 0.8},
	{[]string{"fatigue"}, "Fatigue may indicate an underlying condition requiring follow-up", 0.55},
}

var symptomKeys = []string{"symptoms", "symptom", "complaints"}

var clinicalSymptoms = []string{
	"fever", "cough", "sore throat", "chills", "headache", "nausea",
	"shortness of breath", "fatigue", "rash", "pain",
}

func (healthcare) Inferences(ctx Context) []types.Inference {
	terms := vocabulary(ctx.Features, "healthcare", symptomKeys...)
	reported := present(terms, clinicalSymptoms...)
	if len(reported) == 0 {
		return nil
	}

	evidence := []string{"Reported symptoms: " + strings.Join(reported, ", ")}
	counter := []string{"No clinical examination or laboratory confirmation available"}

	var out []types.Inference
	for _, r := range symptomRules {
		if hasAll(terms, r.requires...) {
			out = append(out, inference(r.inference, r.confidence, evidence, counter))
		}
	}
	return out
}

func (healthcare) Limitations(ctx Context) []string {
	out := []string{
		"Assessment lacks clinical data such as examination findings, laboratory results and patient history",
	}
	terms := vocabulary(ctx.Features, "healthcare", symptomKeys...)
	if len(present(terms, clinicalSymptoms...)) > 0 {
		out = append(out, "Symptom-based reasoning cannot replace a professional medical diagnosis")
	}
	return out
}
