// Package pipeline assembles outbound relations from user parameters via an
// ordered, configurable list of decorator stages.
package pipeline

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/query"
	"github.com/solrdex/solrdex/internal/solr"
)

// Params are the inbound user-facing search parameters. Zero values mean
// "not supplied".
type Params struct {
	Query       string              // q
	SearchField string              // search_field
	Facets      map[string][]string // f: field -> selected values
	Page        int
	PerPage     int
	Rows        int
	Sort        string
	// Extra carries remaining top-level parameters: the legacy passthrough
	// path and raw facet.field / facets keys.
	Extra url.Values
	// Prior is the response being refined, if any. The facet limit
	// resolver reads engine-echoed limits back from it.
	Prior *solr.Response
}

// FacetValues returns the selected values for one facet field.
func (p *Params) FacetValues(field string) []string {
	if p.Facets == nil {
		return nil
	}
	return p.Facets[field]
}

// Stage is one unit of the relation assembly pipeline. Apply mutates the
// relation in place; stages never return errors, they degrade to default
// behavior instead.
type Stage interface {
	Name() string
	Apply(rel *query.Relation, p *Params)
}

// Stage names of the default pipeline, in default order.
const (
	StageQuery       = "query"
	StageFilters     = "filters"
	StageFacets      = "facets"
	StageFields      = "fields"
	StagePaging      = "paging"
	StageSorting     = "sorting"
	StageGroupDedupe = "group_dedupe"
)

// DefaultOrder is the default stage execution order.
func DefaultOrder() []string {
	return []string{
		StageQuery,
		StageFilters,
		StageFacets,
		StageFields,
		StagePaging,
		StageSorting,
		StageGroupDedupe,
	}
}

// Registry maps stage names to implementations. Chains are resolved from it
// once at configuration time.
type Registry struct {
	stages map[string]Stage
}

// NewRegistry creates a registry holding the given stages.
func NewRegistry(stages ...Stage) *Registry {
	r := &Registry{stages: make(map[string]Stage, len(stages))}
	for _, s := range stages {
		r.stages[s.Name()] = s
	}
	return r
}

// Register adds or replaces a stage.
func (r *Registry) Register(s Stage) {
	r.stages[s.Name()] = s
}

// Chain resolves an ordered stage list by name. An unregistered name is a
// configuration error.
func (r *Registry) Chain(names ...string) (*Chain, error) {
	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		s, ok := r.stages[name]
		if !ok {
			return nil, fmt.Errorf("pipeline: no stage registered for %q", name)
		}
		stages = append(stages, s)
	}
	return &Chain{stages: stages}, nil
}

// Chain is a resolved, ordered stage list.
type Chain struct {
	stages []Stage
}

// Apply runs every stage in order against one shared relation.
func (c *Chain) Apply(rel *query.Relation, p *Params) {
	for _, s := range c.stages {
		s.Apply(rel, p)
	}
}

// Stages returns the resolved stage list in order.
func (c *Chain) Stages() []Stage { return c.stages }

// DefaultStages builds the default stage set for a configuration.
func DefaultStages(cfg *config.Config, logger *zap.Logger) []Stage {
	if logger == nil {
		logger = zap.NewNop()
	}
	limits := NewLimitResolver(cfg)
	return []Stage{
		&queryStage{cfg: cfg},
		&filterStage{},
		&facetStage{cfg: cfg, limits: limits},
		&fieldsStage{cfg: cfg},
		&pagingStage{cfg: cfg, logger: logger},
		&sortingStage{cfg: cfg},
		&groupDedupeStage{cfg: cfg},
	}
}

// Default builds the default chain in default order.
func Default(cfg *config.Config, logger *zap.Logger) *Chain {
	reg := NewRegistry(DefaultStages(cfg, logger)...)
	chain, err := reg.Chain(DefaultOrder()...)
	if err != nil {
		// every default name is registered above
		panic(err)
	}
	return chain
}
