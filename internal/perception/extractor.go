// Package perception turns raw input into typed features and detects spatial and
// temporal patterns among them. It is the first stage of the pipeline.
//
// Extraction never fails: malformed or empty input yields an empty or minimal
// feature list.
package perception

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"carnerd/internal/config"
	"carnerd/internal/types"
)

// maxDepth bounds recursion into nested arrays and objects.
const maxDepth = 4

// Extractor is the feature extractor. It is safe for concurrent use.
type Extractor struct {
	cfg    config.SensibilityConfig
	logger *zap.Logger
}

// NewExtractor creates an extractor. A nil logger is replaced by a no-op logger.
func NewExtractor(cfg config.SensibilityConfig, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SignificantTermMinLength <= 0 {
		cfg.SignificantTermMinLength = config.DefaultSensibilityConfig().SignificantTermMinLength
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Perceive runs extraction and pattern detection and returns the next ProcessedData.
func (e *Extractor) Perceive(data types.ProcessedData, input any) types.ProcessedData {
	features := e.Extract(input)
	out := &types.SensibilityOutput{
		Input:            input,
		Features:         features,
		SpatialPatterns:  e.DetectSpatialPatterns(features),
		TemporalPatterns: e.DetectTemporalPatterns(features),
	}
	e.logger.Debug("perceived input",
		zap.Int("features", len(out.Features)),
		zap.Int("spatial_patterns", len(out.SpatialPatterns)),
		zap.Int("temporal_patterns", len(out.TemporalPatterns)))

	next := data.Advance(types.StageSensibility)
	next.Sensibility = out
	return next
}

// Extract dispatches on the runtime shape of input.
func (e *Extractor) Extract(input any) []types.Feature {
	var features []types.Feature
	e.extractValue(types.Normalize(input), "", 0, &features)
	return mergeDomainMarkers(features)
}

func (e *Extractor) extractValue(v any, path string, depth int, out *[]types.Feature) {
	switch x := types.Normalize(v).(type) {
	case string:
		e.extractText(x, path, depth, out)
	case []any:
		e.extractArray(x, path, depth, out)
	case map[string]any:
		e.extractObject(x, path, depth, out)
	default:
		*out = append(*out, types.Feature{
			Type:  types.FeaturePrimitive,
			Name:  string(types.KindOf(x)),
			Value: x,
			Path:  path,
			Depth: depth,
		})
	}
}

// =============================================================================
// TEXT
// =============================================================================

func (e *Extractor) extractText(text, path string, depth int, out *[]types.Feature) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	sentences := splitSentences(trimmed)
	paragraphs := len(paragraphRe.Split(trimmed, -1))
	words := len(strings.Fields(trimmed))
	*out = append(*out, types.Feature{
		Type:  types.FeatureTextStructure,
		Name:  "text",
		Value: map[string]any{"paragraphs": paragraphs, "sentences": len(sentences), "words": words},
		Count: words,
		Path:  path,
		Depth: depth,
	})

	tokens := tokenize(trimmed)
	set := tokenSet(tokens)
	lower := strings.ToLower(trimmed)

	var significant []string
	for _, tok := range tokens {
		if len([]rune(tok)) >= e.cfg.SignificantTermMinLength {
			significant = append(significant, tok)
		}
	}
	if significant = types.Dedupe(significant); len(significant) > 0 {
		*out = append(*out, types.Feature{
			Type:  types.FeatureSignificantTerms,
			Name:  "significant_terms",
			Items: significant,
			Count: len(significant),
			Path:  path,
			Depth: depth,
		})
	}

	if nums := numberRe.FindAllString(dateRe.ReplaceAllString(trimmed, " "), -1); len(nums) > 0 {
		var values []float64
		for _, n := range nums {
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				values = append(values, f)
			}
		}
		if len(values) > 0 {
			*out = append(*out, types.Feature{
				Type:    types.FeatureNumericValues,
				Name:    "numbers",
				Numbers: values,
				Count:   len(values),
				Path:    path,
				Depth:   depth,
			})
		}
	}

	for _, s := range sentences {
		e.extractSentence(s, path, depth, out)
	}

	if e.cfg.EnableTemporal {
		markers := matchTerms(set, lower, temporalTerms)
		markers = append(markers, dateRe.FindAllString(trimmed, -1)...)
		if len(markers) > 0 {
			*out = append(*out, types.Feature{
				Type:  types.FeatureTemporalMarker,
				Name:  "temporal_markers",
				Items: markers,
				Count: len(markers),
				Path:  path,
				Depth: depth,
			})
		}
	}

	for _, domain := range DomainOrder {
		if hits := matchTerms(set, lower, DomainVocabulary[domain]); len(hits) > 0 {
			*out = append(*out, types.Feature{
				Type:   types.FeatureDomainMarker,
				Name:   domain,
				Domain: domain,
				Items:  hits,
				Count:  len(hits),
				Path:   path,
				Depth:  depth,
			})
		}
	}
}

func (e *Extractor) extractSentence(sentence, path string, depth int, out *[]types.Feature) {
	body := strings.TrimRight(strings.TrimSpace(sentence), ".!?")
	if body == "" {
		return
	}
	tokens := tokenSet(tokenize(body))
	lower := strings.ToLower(body)
	hedged := len(matchTerms(tokens, lower, hedges)) > 0

	if cause, effect, ok := parseCausal(body); ok {
		*out = append(*out, types.Feature{
			Type:   types.FeatureCausalStatement,
			Name:   "causal",
			Value:  body,
			Cause:  cause,
			Effect: effect,
			Hedged: hedged,
			Path:   path,
			Depth:  depth,
		})
	}

	if m := matchTerms(tokens, lower, necessityModals); len(m) > 0 {
		*out = append(*out, types.Feature{
			Type: types.FeatureModalStatement, Name: "necessity", Value: body, Items: m, Path: path, Depth: depth,
		})
	} else if m := matchTerms(tokens, lower, possibilityModals); len(m) > 0 {
		*out = append(*out, types.Feature{
			Type: types.FeatureModalStatement, Name: "possibility", Value: body, Items: m, Hedged: hedged, Path: path, Depth: depth,
		})
	}

	neg := matchTerms(tokens, lower, negations)
	if strings.Contains(lower, "n't") {
		neg = append(neg, "n't")
	}
	if len(neg) > 0 {
		*out = append(*out, types.Feature{
			Type: types.FeatureNegation, Name: "negation", Value: body, Items: neg, Path: path, Depth: depth,
		})
	}
}

// parseCausal recognizes "X causes Y" and "Y because X" sentences. When a
// captured clause is itself causal, the relationship inside that clause wins.
func parseCausal(sentence string) (cause, effect string, ok bool) {
	var c, e string
	if m := backwardCausalRe.FindStringSubmatch(sentence); m != nil {
		c, e = m[2], m[1]
	} else if m := forwardCausalRe.FindStringSubmatch(sentence); m != nil {
		c, e = m[1], m[2]
	} else {
		return "", "", false
	}
	for _, clause := range []string{c, e} {
		if ic, ie, ok := parseCausal(clause); ok {
			return ic, ie, true
		}
	}
	cause, effect = cleanPhrase(c), cleanPhrase(e)
	return cause, effect, cause != "" && effect != ""
}

func cleanPhrase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, " ,;:.!?")
	for _, article := range []string{"the ", "a ", "an "} {
		s = strings.TrimPrefix(s, article)
	}
	return s
}

// splitSentences cuts text after runs of . ! ? that are followed by whitespace or
// the end of text, so decimals stay intact.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) && isTerminator(text[j]) {
			j++
		}
		if j == len(text) || unicode.IsSpace(rune(text[j])) {
			if s := strings.TrimSpace(text[start:j]); s != "" {
				out = append(out, s)
			}
			start = j
		}
		i = j - 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

// =============================================================================
// ARRAYS
// =============================================================================

func (e *Extractor) extractArray(items []any, path string, depth int, out *[]types.Feature) {
	*out = append(*out, types.Feature{
		Type:  types.FeatureStructure,
		Name:  "array",
		Count: len(items),
		Path:  path,
		Depth: depth,
		Value: map[string]any{"length": len(items), "nesting": nestingDepth(items, maxDepth)},
	})
	if len(items) == 0 {
		return
	}

	kinds := map[string]int{}
	var numbers []float64
	var strs []string
	var objects []map[string]any
	for _, it := range items {
		k := types.KindOf(it)
		kinds[string(k)]++
		switch k {
		case types.KindNumber:
			f, _ := types.ExtractFloat64(it)
			numbers = append(numbers, f)
		case types.KindString:
			strs = append(strs, it.(string))
		case types.KindObject:
			m, _ := types.AsMap(it)
			objects = append(objects, m)
		}
	}

	kindNames := make([]string, 0, len(kinds))
	for k := range kinds {
		kindNames = append(kindNames, k)
	}
	sort.Strings(kindNames)
	name := "homogeneous"
	if len(kindNames) > 1 {
		name = "heterogeneous"
	}
	*out = append(*out, types.Feature{
		Type:  types.FeatureTypology,
		Name:  name,
		Items: kindNames,
		Count: len(kindNames),
		Value: toAnyMap(kinds),
		Path:  path,
		Depth: depth,
	})

	if len(numbers) > 0 {
		*out = append(*out, numericSummary(numbers, path, depth))
	}

	if len(strs) > 0 {
		*out = append(*out, types.Feature{
			Type:  types.FeatureStringSummary,
			Name:  "strings",
			Items: types.Dedupe(strs),
			Count: len(strs),
			Path:  path,
			Depth: depth,
		})
		e.extractText(joinSentences(strs), path, depth, out)
	}

	if len(objects) > 0 {
		var keys []string
		for _, m := range objects {
			keys = append(keys, types.SortedKeys(m)...)
		}
		keys = types.Dedupe(keys)
		sort.Strings(keys)
		*out = append(*out, types.Feature{
			Type:  types.FeatureObjectSummary,
			Name:  "objects",
			Items: keys,
			Count: len(objects),
			Path:  path,
			Depth: depth,
		})
	}

	if depth >= maxDepth {
		return
	}
	for i, it := range items {
		switch types.KindOf(it) {
		case types.KindArray, types.KindObject:
			e.extractValue(it, fmt.Sprintf("%s[%d]", path, i), depth+1, out)
		}
	}
}

func numericSummary(numbers []float64, path string, depth int) types.Feature {
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, n := range numbers {
		lo = math.Min(lo, n)
		hi = math.Max(hi, n)
		sum += n
	}
	return types.Feature{
		Type:    types.FeatureNumericSummary,
		Name:    "numbers",
		Numbers: numbers,
		Count:   len(numbers),
		Value:   map[string]any{"min": lo, "max": hi, "sum": sum, "mean": sum / float64(len(numbers))},
		Path:    path,
		Depth:   depth,
	}
}

// joinSentences joins array strings so each element reads as its own sentence.
func joinSentences(strs []string) string {
	parts := make([]string, 0, len(strs))
	for _, s := range strs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.ContainsAny(s[len(s)-1:], ".!?") {
			s += "."
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// nestingDepth counts container levels below v, stopping after limit levels.
func nestingDepth(v any, limit int) int {
	if limit <= 0 {
		return 0
	}
	switch x := v.(type) {
	case []any:
		d := 0
		for _, it := range x {
			d = max(d, nestingDepth(it, limit-1))
		}
		return d + 1
	case map[string]any:
		d := 0
		for _, it := range x {
			d = max(d, nestingDepth(it, limit-1))
		}
		return d + 1
	default:
		return 0
	}
}

func toAnyMap(m map[string]int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// =============================================================================
// OBJECTS
// =============================================================================

func (e *Extractor) extractObject(obj map[string]any, path string, depth int, out *[]types.Feature) {
	keys := types.SortedKeys(obj)
	*out = append(*out, types.Feature{
		Type:  types.FeatureStructure,
		Name:  "object",
		Items: keys,
		Count: len(keys),
		Path:  path,
		Depth: depth,
		Value: map[string]any{"keys": len(keys), "nesting": nestingDepth(obj, maxDepth)},
	})

	domainKeys := map[string][]string{}
	var timeKeys []string
	for _, k := range keys {
		v := obj[k]
		lk := strings.ToLower(k)
		prop := types.Feature{
			Type:  types.FeatureProperty,
			Name:  k,
			Path:  joinPath(path, k),
			Depth: depth,
		}
		switch types.KindOf(v) {
		case types.KindArray:
			prop.Value = types.KindArray
			if s, ok := types.AsSlice(v); ok {
				prop.Count = len(s)
				for _, it := range s {
					if str, ok := it.(string); ok {
						prop.Items = append(prop.Items, str)
					}
				}
			}
		case types.KindObject:
			prop.Value = types.KindObject
			if m, ok := types.AsMap(v); ok {
				prop.Count = len(m)
			}
		default:
			prop.Value = v
		}
		*out = append(*out, prop)

		if d, ok := DomainKeys[lk]; ok {
			domainKeys[d] = append(domainKeys[d], k)
		}
		if e.cfg.EnableTemporal && containsWord(temporalKeys, lk) {
			timeKeys = append(timeKeys, k)
		}
	}

	for _, d := range DomainOrder {
		if ks := domainKeys[d]; len(ks) > 0 {
			*out = append(*out, types.Feature{
				Type:   types.FeatureDomainMarker,
				Name:   d,
				Domain: d,
				Items:  ks,
				Count:  len(ks),
				Path:   path,
				Depth:  depth,
			})
		}
	}
	if len(timeKeys) > 0 {
		*out = append(*out, types.Feature{
			Type:  types.FeatureTemporalMarker,
			Name:  "temporal_keys",
			Items: timeKeys,
			Count: len(timeKeys),
			Path:  path,
			Depth: depth,
		})
	}

	cause := types.ExtractString(obj["cause"])
	effect := types.ExtractString(obj["effect"])
	if cause != "" && effect != "" {
		*out = append(*out, types.Feature{
			Type:   types.FeatureCausalStatement,
			Name:   "causal",
			Value:  cause + " causes " + effect,
			Cause:  cleanPhrase(cause),
			Effect: cleanPhrase(effect),
			Path:   path,
			Depth:  depth,
		})
	}

	if depth >= maxDepth {
		return
	}
	for _, k := range keys {
		v := obj[k]
		if (k == "cause" || k == "effect") && cause != "" && effect != "" {
			continue
		}
		switch types.KindOf(v) {
		case types.KindString, types.KindArray, types.KindObject:
			e.extractValue(v, joinPath(path, k), depth+1, out)
		}
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func containsWord(list []string, w string) bool {
	for _, l := range list {
		if l == w || strings.HasSuffix(w, "_"+l) || strings.HasPrefix(w, l+"_") {
			return true
		}
	}
	return false
}

// mergeDomainMarkers collapses domain markers into one feature per domain,
// keeping the position of the first marker for each domain.
func mergeDomainMarkers(features []types.Feature) []types.Feature {
	index := map[string]int{}
	out := make([]types.Feature, 0, len(features))
	for _, f := range features {
		if f.Type != types.FeatureDomainMarker {
			out = append(out, f)
			continue
		}
		if i, ok := index[f.Domain]; ok {
			out[i].Items = types.Dedupe(append(out[i].Items, f.Items...))
			out[i].Count = len(out[i].Items)
			continue
		}
		f.Items = append([]string(nil), f.Items...)
		index[f.Domain] = len(out)
		out = append(out, f)
	}
	return out
}

// DetectedDomains returns the domains marked in a feature list, in DomainOrder.
func DetectedDomains(features []types.Feature) []string {
	seen := map[string]bool{}
	for _, f := range features {
		if f.Type == types.FeatureDomainMarker && f.Domain != "" {
			seen[f.Domain] = true
		}
	}
	var out []string
	for _, d := range DomainOrder {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}
