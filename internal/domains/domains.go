// Package domains is the dispatch table of domain extensions. An extension adds
// domain-specific inferences to the reason stage and limitation strings to the
// critique stage.
package domains

import (
	"sort"
	"strings"

	"carnerd/internal/types"
)

// Context is what an extension sees.
type Context struct {
	// Domain is the configured deployment domain.
	Domain string
	// Detected are the domains marked in the input features.
	Detected    []string
	Features    []types.Feature
	Patterns    []types.Pattern
	Categorized types.CategorizedData
}

// Extension supplies domain-specific reasoning.
type Extension interface {
	Name() string
	Inferences(ctx Context) []types.Inference
	Limitations(ctx Context) []string
}

var registry = map[string]Extension{
	"healthcare": healthcare{},
	"education":  education{},
	"governance": governance{},
}

// Lookup returns the extension registered for a domain.
func Lookup(name string) (Extension, bool) {
	ext, ok := registry[strings.ToLower(name)]
	return ext, ok
}

// Names lists the registered domains in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Active returns the extensions for the configured domain followed by those for
// the detected domains, without duplicates.
func Active(ctx Context) []Extension {
	var out []Extension
	seen := map[string]bool{}
	for _, name := range append([]string{ctx.Domain}, ctx.Detected...) {
		ext, ok := Lookup(name)
		if !ok || seen[ext.Name()] {
			continue
		}
		seen[ext.Name()] = true
		out = append(out, ext)
	}
	return out
}

// Inferences runs every active extension.
func Inferences(ctx Context) []types.Inference {
	var out []types.Inference
	for _, ext := range Active(ctx) {
		out = append(out, ext.Inferences(ctx)...)
	}
	return out
}

// Limitations collects the limitation strings of every active extension.
func Limitations(ctx Context) []string {
	var out []string
	for _, ext := range Active(ctx) {
		out = append(out, ext.Limitations(ctx)...)
	}
	return types.Dedupe(out)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// vocabulary collects the lowercase terms marked for a domain, plus the string
// items of any properties named in keys.
func vocabulary(features []types.Feature, domain string, keys ...string) map[string]bool {
	terms := map[string]bool{}
	for _, f := range features {
		switch f.Type {
		case types.FeatureDomainMarker:
			if f.Domain == domain {
				for _, it := range f.Items {
					terms[strings.ToLower(it)] = true
				}
			}
		case types.FeatureProperty:
			for _, k := range keys {
				if strings.EqualFold(f.Name, k) {
					for _, it := range f.Items {
						terms[strings.ToLower(strings.TrimSpace(it))] = true
					}
				}
			}
		case types.FeatureSignificantTerms, types.FeatureStringSummary:
			for _, it := range f.Items {
				terms[strings.ToLower(it)] = true
			}
		}
	}
	return terms
}

func hasAll(terms map[string]bool, want ...string) bool {
	for _, w := range want {
		if !terms[w] {
			return false
		}
	}
	return true
}

func hasAny(terms map[string]bool, want ...string) bool {
	for _, w := range want {
		if terms[w] {
			return true
		}
	}
	return false
}

func present(terms map[string]bool, want ...string) []string {
	var out []string
	for _, w := range want {
		if terms[w] {
			out = append(out, w)
		}
	}
	return out
}

func inference(text string, confidence float64, evidence, counter []string) types.Inference {
	return types.Inference{
		Type:            types.InferenceDomainSpecific,
		Inference:       text,
		Confidence:      confidence,
		Evidence:        evidence,
		Counterevidence: counter,
	}
}
