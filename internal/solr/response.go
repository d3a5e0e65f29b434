package solr

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/solrdex/solrdex/internal/domain"
)

// Response is one decoded engine response.
type Response struct {
	Header  ResponseHeader           `json:"responseHeader"`
	Data    ResultSet                `json:"response"`
	Facets  *FacetCounts             `json:"facet_counts,omitempty"`
	Grouped map[string]GroupedResult `json:"grouped,omitempty"`
	Error   *EngineError             `json:"error,omitempty"`
}

// ResponseHeader carries engine status and the echoed request parameters.
// The echo matters: some values (facet limits, offsets, sorts) are
// engine-assigned defaults the caller never sent, and downstream limit
// arithmetic reads them back from here.
type ResponseHeader struct {
	Status int          `json:"status"`
	QTime  int          `json:"QTime"`
	Params EchoedParams `json:"params"`
}

// EchoedParams are the request parameters as the engine echoed them.
// Repeated parameters echo as JSON arrays.
type EchoedParams map[string]any

// Get returns the echoed value for a key as a string. For repeated
// parameters it returns the first occurrence.
func (p EchoedParams) Get(key string) (string, bool) {
	raw, ok := p[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case []any:
		if len(v) == 0 {
			return "", false
		}
		return fmt.Sprintf("%v", v[0]), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// Int returns the echoed value for a key parsed as an integer.
func (p EchoedParams) Int(key string) (int, bool) {
	s, ok := p.Get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResultSet is the flat document list portion of a response.
type ResultSet struct {
	NumFound int64             `json:"numFound"`
	Start    int64             `json:"start"`
	Docs     []domain.Document `json:"docs"`
}

// FacetCounts holds raw facet counts keyed by field.
type FacetCounts struct {
	Fields  map[string]FacetValueList `json:"facet_fields"`
	Queries map[string]int64          `json:"facet_queries"`
}

// FacetValue is one facet bucket.
type FacetValue struct {
	Value string
	Count int64
}

// FacetValueList decodes the engine's alternating ["value", count, ...]
// facet field encoding.
type FacetValueList []FacetValue

// UnmarshalJSON decodes the flat alternating array form.
func (l *FacetValueList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("facet field list: %w", err)
	}
	if len(raw)%2 != 0 {
		return fmt.Errorf("facet field list: odd element count %d", len(raw))
	}
	out := make(FacetValueList, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		var value string
		if err := json.Unmarshal(raw[i], &value); err != nil {
			return fmt.Errorf("facet value at %d: %w", i, err)
		}
		var count int64
		if err := json.Unmarshal(raw[i+1], &count); err != nil {
			return fmt.Errorf("facet count at %d: %w", i+1, err)
		}
		out = append(out, FacetValue{Value: value, Count: count})
	}
	*l = out
	return nil
}

// GroupedResult is the grouped form of a response for one group field.
type GroupedResult struct {
	Matches int64   `json:"matches"`
	Groups  []Group `json:"groups"`
}

// Group is one result bucket.
type Group struct {
	Value   any       `json:"groupValue"`
	DocList ResultSet `json:"doclist"`
}

// Docs returns every document across the grouped buckets in order.
func (g GroupedResult) Docs() []domain.Document {
	var docs []domain.Document
	for _, grp := range g.Groups {
		docs = append(docs, grp.DocList.Docs...)
	}
	return docs
}

// EngineError is an error payload returned by the engine.
type EngineError struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

// IsGrouped reports whether the response carries grouped results.
func (r *Response) IsGrouped() bool { return len(r.Grouped) > 0 }

// FacetField returns the value list for one facet field, or nil.
func (r *Response) FacetField(field string) FacetValueList {
	if r.Facets == nil {
		return nil
	}
	return r.Facets.Fields[field]
}

// Param returns an echoed request parameter.
func (r *Response) Param(key string) (string, bool) {
	return r.Header.Params.Get(key)
}
