// Package normalize coerces loosely-typed provider values into typed,
// defaulted scalars. Every function is pure and total: bad input yields
// the caller's default, never an error.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Numeric attempts to coerce v into a float64 and returns def on any
// type or format failure. Missing values (nil) also yield def.
func Numeric(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

// Text returns the surrounding-whitespace-stripped string when v is a
// non-empty, non-whitespace string, else def.
func Text(v any, def *string) *string {
	if s, ok := v.(string); ok {
		if t := strings.TrimSpace(s); t != "" {
			return &t
		}
	}
	return def
}

// Str is Text with an absent default.
func Str(v any) *string {
	return Text(v, nil)
}

// List returns v unchanged when it is a generic slice, else def;
// a nil def yields an empty slice.
func List(v any, def []any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	if def != nil {
		return def
	}
	return []any{}
}

// Get looks up key in m, returning def when the key is absent or the
// map is nil. A present key wins even when its value is nil.
func Get(m map[string]any, key string, def any) any {
	if m == nil {
		return def
	}
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
