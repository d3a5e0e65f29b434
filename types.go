package solrdex

import (
	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/facet"
	"github.com/solrdex/solrdex/internal/pipeline"
	"github.com/solrdex/solrdex/internal/query"
	"github.com/solrdex/solrdex/internal/solr"
	searchuc "github.com/solrdex/solrdex/internal/usecase/search"
)

// Core search types.
type (
	// Document is one engine record, an opaque field->value(s) structure.
	Document = domain.Document
	// Params are the inbound user-facing search parameters.
	Params = pipeline.Params
	// Relation is the mutable outbound request under assembly.
	Relation = query.Relation
	// FacetOptions are per-field facet request options.
	FacetOptions = query.FacetOptions
	// Response is a decoded engine response.
	Response = solr.Response
	// FacetValue is one facet bucket.
	FacetValue = solr.FacetValue
	// Result is a shaped search response.
	Result = searchuc.Result
	// FacetList is one facet field's display values.
	FacetList = searchuc.FacetList
	// Paginator browses one facet's value list.
	Paginator = facet.Paginator
)

// Pipeline extension types: integrators implement Stage and configure the
// chain through options.
type (
	// Stage is one unit of the relation assembly pipeline.
	Stage = pipeline.Stage
	// Registry maps stage names to implementations.
	Registry = pipeline.Registry
	// Chain is a resolved, ordered stage list.
	Chain = pipeline.Chain
)

// Configuration types accepted by options.
type (
	// Config is the full solrdex configuration.
	Config = config.Config
	// SearchField defines one named search field.
	SearchField = config.SearchFieldConfig
	// FacetField defines one facet field.
	FacetField = config.FacetFieldConfig
	// DisplayField defines one show or index field.
	DisplayField = config.DisplayFieldConfig
	// SortField defines one named sort key.
	SortField = config.SortFieldConfig
	// FacetLimit is an integer-or-sentinel facet limit.
	FacetLimit = config.FacetLimit
)

// Sentinel errors surfaced by client operations.
var (
	// ErrEngineUnavailable signals a failed engine connection.
	ErrEngineUnavailable = domain.ErrEngineUnavailable
	// ErrDocumentNotFound signals a lookup that matched no document.
	ErrDocumentNotFound = domain.ErrDocumentNotFound
)

// Names of the default pipeline stages, usable in WithStageOrder.
const (
	StageQuery       = pipeline.StageQuery
	StageFilters     = pipeline.StageFilters
	StageFacets      = pipeline.StageFacets
	StageFields      = pipeline.StageFields
	StagePaging      = pipeline.StagePaging
	StageSorting     = pipeline.StageSorting
	StageGroupDedupe = pipeline.StageGroupDedupe
)

// LimitOf creates an explicit integer facet limit.
func LimitOf(n int) FacetLimit { return config.Limit(n) }

// SystemDefaultLimit creates the "use system default" facet limit sentinel.
func SystemDefaultLimit() FacetLimit { return config.DefaultLimit() }

// Quote escapes a raw value for engine local-parameter syntax.
func Quote(value, quoteChar string) string { return query.Quote(value, quoteChar) }
