package solrdex

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
)

type clientConfig struct {
	cfg        config.Config
	httpClient *http.Client
	logger     *zap.Logger

	stages     []Stage
	stageOrder []string
}

// Option configures a Client.
type Option func(*clientConfig)

// WithBaseURL sets the engine base URL. Required unless WithConfig supplies
// one.
func WithBaseURL(u string) Option {
	return func(c *clientConfig) { c.cfg.Solr.BaseURL = u }
}

// WithConfig replaces the whole configuration. Options applied after this one
// override individual fields.
func WithConfig(cfg Config) Option {
	return func(c *clientConfig) { c.cfg = cfg }
}

// WithHTTPClient sets a custom HTTP client for engine requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = h }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultHandler sets the request handler path used when neither the
// relation nor the call site names one.
func WithDefaultHandler(handler string) Option {
	return func(c *clientConfig) { c.cfg.Solr.DefaultHandler = handler }
}

// WithDocumentHandler sets the handler path used for single-document lookups.
func WithDocumentHandler(handler string) Option {
	return func(c *clientConfig) { c.cfg.Solr.DocumentHandler = handler }
}

// WithUniqueKey sets the unique key field for document lookups. Defaults to
// "id".
func WithUniqueKey(field string) Option {
	return func(c *clientConfig) { c.cfg.Search.UniqueKey = field }
}

// WithPaging sets the default and maximum page sizes.
func WithPaging(perPage, maxPerPage int) Option {
	return func(c *clientConfig) {
		c.cfg.Search.DefaultPerPage = perPage
		c.cfg.Search.MaxPerPage = maxPerPage
	}
}

// WithGrouping collapses result sets on the given field unless the user
// faceted on it.
func WithGrouping(field string) Option {
	return func(c *clientConfig) { c.cfg.Search.GroupField = field }
}

// WithSpellcheck enables spelling suggestions on assembled queries.
func WithSpellcheck() Option {
	return func(c *clientConfig) { c.cfg.Search.Spellcheck = true }
}

// WithSearchFields registers the named search fields users can select with
// the search_field parameter.
func WithSearchFields(fields ...SearchField) Option {
	return func(c *clientConfig) {
		c.cfg.Search.SearchFields = append(c.cfg.Search.SearchFields, fields...)
	}
}

// WithFacetFields registers the facet fields requested on every search.
func WithFacetFields(fields ...FacetField) Option {
	return func(c *clientConfig) {
		c.cfg.Search.FacetFields = append(c.cfg.Search.FacetFields, fields...)
	}
}

// WithShowFields registers the fields returned for detail views.
func WithShowFields(fields ...DisplayField) Option {
	return func(c *clientConfig) {
		c.cfg.Search.ShowFields = append(c.cfg.Search.ShowFields, fields...)
	}
}

// WithIndexFields registers the fields returned in result lists.
func WithIndexFields(fields ...DisplayField) Option {
	return func(c *clientConfig) {
		c.cfg.Search.IndexFields = append(c.cfg.Search.IndexFields, fields...)
	}
}

// WithSortFields registers the named sort orders users can select with the
// sort parameter.
func WithSortFields(fields ...SortField) Option {
	return func(c *clientConfig) {
		c.cfg.Search.SortFields = append(c.cfg.Search.SortFields, fields...)
	}
}

// WithStages registers custom pipeline stages. A stage whose Name matches a
// default stage replaces it; other stages are appended to the chain unless
// WithStageOrder places them.
func WithStages(stages ...Stage) Option {
	return func(c *clientConfig) { c.stages = append(c.stages, stages...) }
}

// WithStageOrder replaces the pipeline order with the named stages. Unknown
// names fail New.
func WithStageOrder(names ...string) Option {
	return func(c *clientConfig) { c.stageOrder = names }
}
