package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/query"
)

// FallbackPageSize is used when a page number arrives with no usable page
// size from parameters or configuration.
const FallbackPageSize = 10

// reservedParams are top-level parameter keys that never become passthrough
// query terms: they are either consumed by dedicated stages or not search
// input at all.
var reservedParams = map[string]bool{
	"q":            true,
	"search_field": true,
	"f":            true,
	"page":         true,
	"per_page":     true,
	"rows":         true,
	"sort":         true,
	"qt":           true,
	"facet.field":  true,
	"facets":       true,
}

// queryStage resolves the named search field and injects the query term.
type queryStage struct {
	cfg *config.Config
}

func (s *queryStage) Name() string { return StageQuery }

func (s *queryStage) Apply(rel *query.Relation, p *Params) {
	if s.cfg.Search.Spellcheck {
		rel.SetLocalParameter("spellcheck", "true")
	}

	field, found := s.cfg.Search.SearchField(p.SearchField)
	if found {
		if field.Handler != "" {
			rel.SetHandler(field.Handler)
		}
		switch {
		case len(field.LocalParameters) > 0:
			// Local parameters take precedence over a bare-term query.
			rel.SetQuery(localParamQuery(field.LocalParameters, p.Query))
		case p.Query != "" && field.Field != "":
			rel.SetQuery(field.Field + ":(" + p.Query + ")")
		case p.Query != "":
			rel.SetQuery(p.Query)
		}
		return
	}

	if p.Query != "" {
		rel.SetQuery(p.Query)
	}

	// Legacy passthrough: with no search field resolved, every remaining
	// top-level parameter becomes a literal field=value constraint.
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		if !reservedParams[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range p.Extra[k] {
			if v != "" {
				rel.AddFilter(k, v)
			}
		}
	}
}

// localParamQuery renders {!k1=v1 k2=v2}text with values quoted for
// local-parameter syntax.
func localParamQuery(params map[string]string, text string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+query.Quote(params[k], "'"))
	}
	return "{!" + strings.Join(parts, " ") + "}" + text
}

// filterStage turns the f parameter's facet selections into filters.
type filterStage struct{}

func (s *filterStage) Name() string { return StageFilters }

func (s *filterStage) Apply(rel *query.Relation, p *Params) {
	fields := make([]string, 0, len(p.Facets))
	for field := range p.Facets {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, value := range p.Facets[field] {
			if value == "" {
				continue // blank selections are benign no-ops
			}
			rel.AddFilter(field, value)
		}
	}
}

// facetStage injects facet requests: the legacy raw facet params first, then
// every configured facet field whose inclusion policy says include.
type facetStage struct {
	cfg    *config.Config
	limits *LimitResolver
}

func (s *facetStage) Name() string { return StageFacets }

func (s *facetStage) Apply(rel *query.Relation, p *Params) {
	// Legacy passthrough: raw facet.field / facets keys, de-duplicated.
	seen := make(map[string]bool)
	for _, key := range []string{"facet.field", "facets"} {
		for _, field := range p.Extra[key] {
			if field == "" || seen[field] {
				continue
			}
			seen[field] = true
			rel.AddFacetRequest(field, query.FacetOptions{})
		}
	}

	globalDefault := s.cfg.Search.FacetsEnabled()
	for _, fc := range s.cfg.Search.FacetFields {
		if !fc.Included(globalDefault) {
			continue
		}

		opts := query.FacetOptions{ExTag: fc.ExTag, Sort: fc.Sort}
		if len(fc.Params) > 0 {
			opts.Params = make(map[string]string, len(fc.Params))
			for k, v := range fc.Params {
				opts.Params[k] = v
			}
		}
		// Over-fetch by one value so the caller can detect a "show
		// more" page without a second round trip.
		if limit, ok := s.limits.LimitFor(fc.Field, p.Prior); ok {
			opts.Limit = limit + 1
			opts.HasLimit = true
		}

		switch {
		case len(fc.Pivot) > 0:
			rel.AddFacetPivot(strings.Join(fc.Pivot, ","))
			s.applyFieldParams(rel, fc.Field, opts)
		case fc.Query != "":
			rel.AddFacetQuery(fc.Query)
			s.applyFieldParams(rel, fc.Field, opts)
		default:
			rel.AddFacetRequest(fc.Field, opts)
		}
	}
}

// applyFieldParams writes per-field options for pivot and query facets,
// which carry no facet.field entry of their own.
func (s *facetStage) applyFieldParams(rel *query.Relation, field string, opts query.FacetOptions) {
	if opts.HasLimit {
		rel.SetFieldParam(field, "facet.limit", strconv.Itoa(opts.Limit))
	}
	if opts.Sort != "" {
		rel.SetFieldParam(field, "facet.sort", opts.Sort)
	}
	keys := make([]string, 0, len(opts.Params))
	for k := range opts.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rel.SetFieldParam(field, k, opts.Params[k])
	}
}

// fieldsStage injects the field projection and highlighting lists.
type fieldsStage struct {
	cfg *config.Config
}

func (s *fieldsStage) Name() string { return StageFields }

func (s *fieldsStage) Apply(rel *query.Relation, _ *Params) {
	for _, f := range s.cfg.Search.ShowFields {
		if f.Included() {
			rel.AddSelectField(f.Field, f.Params)
		}
	}
	for _, f := range s.cfg.Search.IndexFields {
		if !f.Included() {
			continue
		}
		rel.AddSelectField(f.Field, f.Params)
		if f.Highlight {
			rel.AddHighlightField(f.Field)
		}
	}
}

// pagingStage computes the effective limit and offset.
type pagingStage struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (s *pagingStage) Name() string { return StagePaging }

func (s *pagingStage) Apply(rel *query.Relation, p *Params) {
	max := s.cfg.Search.MaxPerPage

	limit := 0
	known := false
	switch {
	case p.Rows > 0:
		limit, known = p.Rows, true
	case p.PerPage > 0:
		limit, known = p.PerPage, true
	case s.cfg.Search.DefaultPerPage > 0:
		limit, known = s.cfg.Search.DefaultPerPage, true
	}
	if known {
		rel.SetLimit(limit)
	}

	if p.Page != 0 {
		if !known {
			limit = FallbackPageSize
			rel.SetLimit(limit)
			s.logger.Warn("no page size available, falling back",
				zap.Int("page", p.Page),
				zap.Int("fallback_rows", FallbackPageSize),
			)
		}
		if p.Page > 0 {
			rel.SetOffset(limit * (p.Page - 1))
		} else {
			rel.SetOffset(0)
		}
	}

	// Clamp once more after all adjustments: a configured default may
	// exceed the maximum.
	if cur, ok := rel.Limit(); ok && max > 0 && cur > max {
		rel.SetLimit(max)
	}
}

// sortingStage resolves the sort expression.
type sortingStage struct {
	cfg *config.Config
}

func (s *sortingStage) Name() string { return StageSorting }

func (s *sortingStage) Apply(rel *query.Relation, p *Params) {
	if p.Sort == "" {
		if def, ok := s.cfg.Search.DefaultSortField(); ok {
			rel.SetSort(def.Sort)
		}
		return
	}
	if named, ok := s.cfg.Search.SortField(p.Sort); ok {
		rel.SetSort(named.Sort)
		return
	}
	// free-form sort expressions pass through unchanged
	rel.SetSort(p.Sort)
}

// groupDedupeStage enables configured grouping, unless the user has drilled
// into a facet on the grouping field: grouping and filtering on the same
// field are mutually exclusive.
type groupDedupeStage struct {
	cfg *config.Config
}

func (s *groupDedupeStage) Name() string { return StageGroupDedupe }

func (s *groupDedupeStage) Apply(rel *query.Relation, p *Params) {
	field := s.cfg.Search.GroupField
	if field == "" {
		return
	}
	if len(p.FacetValues(field)) > 0 {
		rel.ExcludeCategory(query.CategoryGroup)
		return
	}
	rel.SetGroupField(field)
}
