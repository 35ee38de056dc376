package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// INPUT VALUE EXTRACTION UTILITIES
// =============================================================================
//
// Pipeline input is unconstrained: strings, numbers, booleans, nil, slices and
// maps arrive as `any`, either decoded from JSON (map[string]any, []any,
// float64, json.Number) or constructed directly by Go callers (typed slices,
// ints, structs). These helpers give every stage a safe, type-aware view and
// never panic on an unexpected type.

// Kind names the JSON-like shape of a value.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Normalize converts arbitrary Go values into the JSON data model
// (string, float64, bool, nil, []any, map[string]any).
// Values that cannot be encoded are rendered with fmt.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64, []any, map[string]any:
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32:
		f, _ := ExtractFloat64(x)
		return f
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []float64:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = f
		}
		return out
	case []int:
		out := make([]any, len(x))
		for i, n := range x {
			out[i] = float64(n)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(x))
		for k, s := range x {
			out[k] = s
		}
		return out
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return string(data)
	}
	return decoded
}

// KindOf reports the shape of a normalized value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBoolean
	case float64, float32, int, int64, int32, json.Number:
		return KindNumber
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindOf(Normalize(v))
	}
}

// ExtractString extracts a string representation from any value.
func ExtractString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case nil:
		return ""
	case []any, map[string]any:
		return Serialize(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ExtractFloat64 extracts a float64 from numeric values.
// Returns (value, true) on success, (0, false) if the type is incompatible.
func ExtractFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ExtractBool extracts a boolean, accepting "true"/"false" strings.
func ExtractBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(x) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// AsSlice returns the elements of an array-shaped value.
func AsSlice(v any) ([]any, bool) {
	s, ok := Normalize(v).([]any)
	return s, ok
}

// AsMap returns an object-shaped value as a map.
func AsMap(v any) (map[string]any, bool) {
	m, ok := Normalize(v).(map[string]any)
	return m, ok
}

// SortedKeys returns the keys of m in lexical order so that every walk over an
// object is deterministic.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Serialize renders a value as text for keyword matching. Strings are returned as-is;
// everything else is JSON-encoded.
func Serialize(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(Normalize(v))
	if err != nil {
		switch v.(type) {
		case []any, map[string]any:
			// Cyclic containers render as nothing.
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// ContainsAny reports whether text contains any of the terms (case-insensitive).
func ContainsAny(text string, terms ...string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// MatchingTerms returns the terms contained in text (case-insensitive), in the order given.
func MatchingTerms(text string, terms ...string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			out = append(out, t)
		}
	}
	return out
}

// Dedupe removes duplicate strings while keeping first-seen order.
func Dedupe(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
