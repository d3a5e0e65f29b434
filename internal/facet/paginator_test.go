package facet

import (
	"reflect"
	"testing"

	"github.com/solrdex/solrdex/internal/solr"
)

func response(params map[string]any, values ...solr.FacetValue) *solr.Response {
	return &solr.Response{
		Header: solr.ResponseHeader{Params: solr.EchoedParams(params)},
		Facets: &solr.FacetCounts{
			Fields: map[string]solr.FacetValueList{"format": values},
		},
	}
}

func buckets(n int) []solr.FacetValue {
	out := make([]solr.FacetValue, n)
	for i := range out {
		out[i] = solr.FacetValue{Value: string(rune('a' + i)), Count: int64(n - i)}
	}
	return out
}

func TestPaginatorMiddlePage(t *testing.T) {
	resp := response(map[string]any{
		"f.format.facet.offset": "10",
		"f.format.facet.limit":  "6",
	}, buckets(6)...)

	p := FromResponse(resp, "format")

	if p.Field() != "format" {
		t.Errorf("field = %q", p.Field())
	}
	if p.Limit() != 5 {
		t.Errorf("limit = %d, want 5 (engine limit minus over-fetch)", p.Limit())
	}
	if got := len(p.Values()); got != 5 {
		t.Errorf("visible values = %d, want 5", got)
	}
	if !p.HasNext() {
		t.Error("HasNext = false with an over-fetched extra value")
	}
	if !p.HasPrevious() {
		t.Error("HasPrevious = false at offset 10")
	}
	if p.NextOffset() != 15 {
		t.Errorf("NextOffset = %d, want 15", p.NextOffset())
	}
	if p.PrevOffset() != 5 {
		t.Errorf("PrevOffset = %d, want 5", p.PrevOffset())
	}
}

func TestPaginatorFirstPage(t *testing.T) {
	resp := response(map[string]any{
		"f.format.facet.limit": "6",
	}, buckets(4)...)

	p := FromResponse(resp, "format")

	if p.HasPrevious() {
		t.Error("HasPrevious = true on the first page")
	}
	if p.HasNext() {
		t.Error("HasNext = true on an underfull final page")
	}
	if got := len(p.Values()); got != 4 {
		t.Errorf("visible values = %d, want 4", got)
	}
	if p.PrevOffset() != 0 {
		t.Errorf("PrevOffset = %d, want 0", p.PrevOffset())
	}
}

func TestPaginatorPrevOffsetClamped(t *testing.T) {
	resp := response(map[string]any{
		"f.format.facet.offset": "3",
		"f.format.facet.limit":  "6",
	}, buckets(6)...)

	if got := FromResponse(resp, "format").PrevOffset(); got != 0 {
		t.Errorf("PrevOffset = %d, want 0", got)
	}
}

func TestPaginatorUnlimited(t *testing.T) {
	resp := response(map[string]any{
		"f.format.facet.limit": "-1",
	}, buckets(8)...)

	p := FromResponse(resp, "format")

	if p.Limit() != 0 {
		t.Errorf("limit = %d, want 0 (unlimited)", p.Limit())
	}
	if got := len(p.Values()); got != 8 {
		t.Errorf("visible values = %d, want all 8", got)
	}
	if p.HasNext() {
		t.Error("HasNext = true with no limit")
	}
}

func TestPaginatorSortFallback(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name: "per-field sort wins",
			params: map[string]any{
				"f.format.facet.sort": "index",
				"facet.sort":          "count",
			},
			want: "index",
		},
		{
			name:   "global sort",
			params: map[string]any{"facet.sort": "index"},
			want:   "index",
		},
		{
			name:   "limited defaults to count",
			params: map[string]any{"f.format.facet.limit": "11"},
			want:   "count",
		},
		{
			name:   "unlimited defaults to index",
			params: map[string]any{},
			want:   "index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := response(tt.params, buckets(3)...)
			if got := FromResponse(resp, "format").Sort(); got != tt.want {
				t.Errorf("Sort() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaginatorValuesBorrowed(t *testing.T) {
	vals := buckets(3)
	resp := response(map[string]any{}, vals...)

	got := FromResponse(resp, "format").Values()
	if !reflect.DeepEqual([]solr.FacetValue(got), vals) {
		t.Errorf("Values() = %v, want %v", got, vals)
	}

	// an unknown field yields an empty paginator, not a panic
	empty := FromResponse(resp, "absent")
	if len(empty.Values()) != 0 || empty.HasNext() {
		t.Errorf("paginator for an absent field = %+v", empty)
	}
}
