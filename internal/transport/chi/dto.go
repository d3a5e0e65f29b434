package chi

import (
	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/solr"
)

type searchResponse struct {
	NumFound int64               `json:"num_found"`
	Start    int64               `json:"start"`
	Docs     []domain.Document   `json:"docs"`
	Facets   []facetListResponse `json:"facets,omitempty"`
}

type facetListResponse struct {
	Field   string               `json:"field"`
	Values  []facetValueResponse `json:"values"`
	HasMore bool                 `json:"has_more"`
}

type facetValueResponse struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type facetPageResponse struct {
	Field       string               `json:"field"`
	Values      []facetValueResponse `json:"values"`
	Offset      int                  `json:"offset"`
	Limit       int                  `json:"limit"`
	Sort        string               `json:"sort"`
	HasNext     bool                 `json:"has_next"`
	HasPrevious bool                 `json:"has_previous"`
	NextOffset  int                  `json:"next_offset,omitempty"`
	PrevOffset  int                  `json:"prev_offset,omitempty"`
}

type documentsResponse struct {
	Docs []domain.Document `json:"docs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func facetValues(values []solr.FacetValue) []facetValueResponse {
	out := make([]facetValueResponse, 0, len(values))
	for _, v := range values {
		out = append(out, facetValueResponse{Value: v.Value, Count: v.Count})
	}
	return out
}
