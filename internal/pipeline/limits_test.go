package pipeline

import (
	"testing"

	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/solr"
)

func priorWithEcho(params map[string]any) *solr.Response {
	return &solr.Response{
		Header: solr.ResponseHeader{Params: solr.EchoedParams(params)},
	}
}

func TestLimitFor(t *testing.T) {
	cfg := config.Default()
	cfg.Search.FacetFields = []config.FacetFieldConfig{
		{Field: "format", Limit: config.Limit(20)},
		{Field: "language", Limit: config.DefaultLimit()},
		{Field: "subject"},
	}
	r := NewLimitResolver(&cfg)

	tests := []struct {
		name   string
		field  string
		prior  *solr.Response
		want   int
		wantOK bool
	}{
		{
			name:  "static configured limit",
			field: "format",
			want:  20, wantOK: true,
		},
		{
			name:  "system default sentinel",
			field: "language",
			want:  DefaultFacetLimit, wantOK: true,
		},
		{
			name:   "no limit configured",
			field:  "subject",
			wantOK: false,
		},
		{
			name:   "unconfigured field",
			field:  "era",
			wantOK: false,
		},
		{
			name:  "echoed limit reversed by one",
			field: "format",
			prior: priorWithEcho(map[string]any{"f.format.facet.limit": "21"}),
			want:  20, wantOK: true,
		},
		{
			name:   "echoed unlimited",
			field:  "format",
			prior:  priorWithEcho(map[string]any{"f.format.facet.limit": "-1"}),
			wantOK: false,
		},
		{
			name:   "sentinel with no echo defers to the engine",
			field:  "language",
			prior:  priorWithEcho(map[string]any{"q": "text"}),
			wantOK: false,
		},
		{
			name:  "static limit survives an unrelated echo",
			field: "format",
			prior: priorWithEcho(map[string]any{"q": "text"}),
			want:  20, wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.LimitFor(tt.field, tt.prior)
			if ok != tt.wantOK {
				t.Fatalf("LimitFor(%s) ok = %v, want %v", tt.field, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("LimitFor(%s) = %d, want %d", tt.field, got, tt.want)
			}
		})
	}
}
