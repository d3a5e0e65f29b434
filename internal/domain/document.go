// Package domain holds core types and sentinel errors shared across layers.
package domain

import "fmt"

// Document is a single record returned by the search engine. Field semantics
// are opaque to this package: every field maps to a scalar or a list of
// values, exactly as the engine returned them.
type Document map[string]any

// Has reports whether the document carries the given field.
func (d Document) Has(field string) bool {
	_, ok := d[field]
	return ok
}

// First returns the first value of a field rendered as a string, or ""
// when the field is absent or empty.
func (d Document) First(field string) string {
	vals := d.All(field)
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// All returns every value of a field rendered as strings. Scalar fields
// yield a single-element slice.
func (d Document) All(field string) []string {
	raw, ok := d[field]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out
	default:
		return []string{stringify(v)}
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; keep integers clean
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
