// Package search orchestrates one logical search operation: pipeline
// assembly, execution, and shaping of the raw engine response into
// documents, facet lists, and navigation context.
package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/facet"
	"github.com/solrdex/solrdex/internal/pipeline"
	"github.com/solrdex/solrdex/internal/query"
	"github.com/solrdex/solrdex/internal/solr"
)

// Service runs search operations against one configured engine core.
type Service struct {
	exec   Executor
	cfg    *config.Config
	chain  *pipeline.Chain
	limits *pipeline.LimitResolver
	logger *zap.Logger
}

// New creates a search service with the default pipeline.
func New(exec Executor, cfg *config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		exec:   exec,
		cfg:    cfg,
		chain:  pipeline.Default(cfg, logger),
		limits: pipeline.NewLimitResolver(cfg),
		logger: logger,
	}
}

// WithChain replaces the assembly pipeline.
func (s *Service) WithChain(c *pipeline.Chain) *Service {
	s.chain = c
	return s
}

// FacetList is one facet field's display values with over-fetch folded into
// HasMore.
type FacetList struct {
	Field   string
	Values  []solr.FacetValue
	HasMore bool
}

// Result is a shaped search response.
type Result struct {
	Response *solr.Response
	Docs     []domain.Document
	Facets   []FacetList
}

// BuildRelation assembles a fresh relation from user parameters by running
// the pipeline.
func (s *Service) BuildRelation(p *pipeline.Params) *query.Relation {
	rel := query.NewRelation(s.cfg.Search.MaxPerPage)
	s.chain.Apply(rel, p)
	return rel
}

// Search executes one search operation end to end.
func (s *Service) Search(ctx context.Context, p *pipeline.Params) (*Result, error) {
	rel := s.BuildRelation(p)
	resp, err := s.exec.Execute(ctx, rel, "")
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &Result{
		Response: resp,
		Docs:     s.ShapeResults(resp, ""),
		Facets:   s.facetLists(resp),
	}, nil
}

// ShapeResults extracts the document list from a response. A grouped
// response addressed by groupField yields no flat documents (the caller
// reads the group structure itself); a response grouped on exactly one
// field unwraps into its bucket documents; anything else returns the plain
// document list.
func (s *Service) ShapeResults(resp *solr.Response, groupField string) []domain.Document {
	if resp.IsGrouped() {
		if groupField != "" {
			if _, ok := resp.Grouped[groupField]; ok {
				return nil
			}
		}
		if len(resp.Grouped) == 1 {
			for _, g := range resp.Grouped {
				return g.Docs()
			}
		}
	}
	return resp.Data.Docs
}

// facetLists shapes facet counts for display: configured fields first in
// configuration order, then any remaining response-only fields by name.
func (s *Service) facetLists(resp *solr.Response) []FacetList {
	if resp.Facets == nil {
		return nil
	}

	var lists []FacetList
	covered := make(map[string]bool)
	globalDefault := s.cfg.Search.FacetsEnabled()

	for _, fc := range s.cfg.Search.FacetFields {
		if !fc.Included(globalDefault) || len(fc.Pivot) > 0 || fc.Query != "" {
			continue
		}
		covered[fc.Field] = true
		lists = append(lists, s.facetList(resp, fc.Field))
	}

	rest := make([]string, 0, len(resp.Facets.Fields))
	for field := range resp.Facets.Fields {
		if !covered[field] {
			rest = append(rest, field)
		}
	}
	sort.Strings(rest)
	for _, field := range rest {
		lists = append(lists, s.facetList(resp, field))
	}
	return lists
}

func (s *Service) facetList(resp *solr.Response, field string) FacetList {
	values := resp.FacetField(field)
	list := FacetList{Field: field, Values: values}
	if limit, ok := s.limits.LimitFor(field, resp); ok && limit > 0 && len(values) > limit {
		// the extra over-fetched value proves a further page exists
		list.Values = values[:limit]
		list.HasMore = true
	}
	return list
}

// DocumentByID fetches a single document by primary key.
func (s *Service) DocumentByID(ctx context.Context, id string) (domain.Document, error) {
	rel := query.NewRelation(s.cfg.Search.MaxPerPage)
	rel.AddFilter(s.cfg.Search.UniqueKey, id)
	rel.SelectAllFields()
	rel.SetLimit(1)

	resp, err := s.exec.Execute(ctx, rel, s.cfg.Solr.DocumentHandler)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	if len(resp.Data.Docs) == 0 {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return resp.Data.Docs[0], nil
}

// DocumentsByFieldValues fetches every document whose field matches one of
// the given values. This path serves document lookup, not result display:
// facet and spellcheck work would be wasted, so those directives are
// stripped, the parser is switched to honor boolean OR syntax, and all
// fields are requested. An empty value list matches nothing, never
// everything.
func (s *Service) DocumentsByFieldValues(
	ctx context.Context, field string, values []string,
) (*solr.Response, []domain.Document, error) {
	rel := s.BuildRelation(&pipeline.Params{})
	rel.ExcludeCategory(query.CategoryFacet)
	rel.ExcludeCategory(query.CategorySpellcheck)
	rel.ExcludeCategory(query.CategoryGroup)
	rel.SetParser("lucene")
	rel.SelectAllFields()

	if len(values) == 0 {
		rel.AddRawFilter("-*:*")
	} else {
		rel.AddFilter(field, values[0])
		for _, v := range values[1:] {
			rel.OrFilter(field, v)
		}
		rel.SetLimit(len(values))
	}

	resp, err := s.exec.Execute(ctx, rel, "")
	if err != nil {
		return nil, nil, fmt.Errorf("documents by %s: %w", field, err)
	}
	return resp, resp.Data.Docs, nil
}

// Neighbors returns the documents adjacent to the 1-based position index
// within the result set described by p. Either neighbor is nil at a
// collection boundary; an undersized window is never an error.
func (s *Service) Neighbors(
	ctx context.Context, index int, p *pipeline.Params,
) (domain.Document, domain.Document, error) {
	rel := s.BuildRelation(p)
	rel.ExcludeCategory(query.CategoryFacet)
	rel.ExcludeCategory(query.CategoryGroup)

	start, rows := 0, 2
	if index > 1 {
		start, rows = index-2, 3
	}
	rel.SetOffset(start)
	rel.SetLimit(rows)

	resp, err := s.exec.Execute(ctx, rel, "")
	if err != nil {
		return nil, nil, fmt.Errorf("neighbors of %d: %w", index, err)
	}

	docs := resp.Data.Docs
	var prev, next domain.Document
	if index > 1 && len(docs) > 0 {
		prev = docs[0]
	}
	// the window's actual size decides whether a next neighbor exists
	cur := (index - 1) - start
	if cur >= 0 && cur+1 < len(docs) {
		next = docs[cur+1]
	}
	return prev, next, nil
}

// FacetPage fetches one page of a single facet's value list for "show more"
// browsing. No documents are requested.
func (s *Service) FacetPage(
	ctx context.Context, field string, offset int, p *pipeline.Params,
) (*facet.Paginator, error) {
	rel := s.BuildRelation(p)
	rel.SetLimit(0)
	if offset > 0 {
		rel.SetFacetOption(field, "facet.offset", fmt.Sprintf("%d", offset))
	}

	resp, err := s.exec.Execute(ctx, rel, "")
	if err != nil {
		return nil, fmt.Errorf("facet page %s: %w", field, err)
	}
	return facet.FromResponse(resp, field), nil
}
