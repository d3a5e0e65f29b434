package solrdex

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
	"github.com/solrdex/solrdex/internal/pipeline"
	"github.com/solrdex/solrdex/internal/solr"
	searchuc "github.com/solrdex/solrdex/internal/usecase/search"
)

// Client is the high-level entry point. It owns an engine connection and a
// configured assembly pipeline, and exposes the search and lookup operations.
type Client struct {
	cfg    config.Config
	engine *solr.Client
	svc    *searchuc.Service
	logger *zap.Logger
}

// New creates a Client from functional options. At minimum WithBaseURL (or a
// WithConfig carrying one) is required.
func New(opts ...Option) (*Client, error) {
	cc := clientConfig{
		cfg:    config.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cc)
	}
	cc.cfg.ApplyDefaults()
	if err := cc.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solrdex: %w", err)
	}

	c := &Client{
		cfg:    cc.cfg,
		logger: cc.logger,
	}

	httpc := cc.httpClient
	if httpc == nil {
		httpc = &http.Client{Timeout: time.Duration(c.cfg.Solr.TimeoutSec) * time.Second}
	}
	engine, err := solr.NewClient(c.cfg.Solr.BaseURL,
		solr.WithDefaultHandler(c.cfg.Solr.DefaultHandler),
		solr.WithHTTPClient(httpc),
		solr.WithLogger(c.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("solrdex: %w", err)
	}
	c.engine = engine

	c.svc = searchuc.New(engine, &c.cfg, c.logger)
	if len(cc.stages) > 0 || len(cc.stageOrder) > 0 {
		chain, err := buildChain(&c.cfg, c.logger, cc.stages, cc.stageOrder)
		if err != nil {
			return nil, fmt.Errorf("solrdex: %w", err)
		}
		c.svc = c.svc.WithChain(chain)
	}
	return c, nil
}

func buildChain(cfg *config.Config, logger *zap.Logger, extra []Stage, order []string) (*Chain, error) {
	reg := pipeline.NewRegistry(pipeline.DefaultStages(cfg, logger)...)
	defaults := make(map[string]bool)
	for _, name := range pipeline.DefaultOrder() {
		defaults[name] = true
	}
	for _, s := range extra {
		reg.Register(s)
	}
	if len(order) == 0 {
		order = pipeline.DefaultOrder()
		for _, s := range extra {
			if !defaults[s.Name()] {
				order = append(order, s.Name())
			}
		}
	}
	return reg.Chain(order...)
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// BuildRelation runs the pipeline over p and returns the assembled relation
// without executing it.
func (c *Client) BuildRelation(p *Params) *Relation { return c.svc.BuildRelation(p) }

// Search assembles and executes a search for p.
func (c *Client) Search(ctx context.Context, p *Params) (*Result, error) {
	return c.svc.Search(ctx, p)
}

// DocumentByID fetches a single document by unique key. Returns
// ErrDocumentNotFound when no document matches.
func (c *Client) DocumentByID(ctx context.Context, id string) (Document, error) {
	return c.svc.DocumentByID(ctx, id)
}

// DocumentsByFieldValues fetches the documents whose field matches any of
// values. An empty values list matches nothing.
func (c *Client) DocumentsByFieldValues(ctx context.Context, field string, values []string) ([]Document, error) {
	_, docs, err := c.svc.DocumentsByFieldValues(ctx, field, values)
	return docs, err
}

// Neighbors returns the documents on either side of the 1-based position
// index within the result set described by p. A nil neighbor marks a
// collection boundary.
func (c *Client) Neighbors(ctx context.Context, index int, p *Params) (prev, next Document, err error) {
	return c.svc.Neighbors(ctx, index, p)
}

// FacetPage fetches one page of a single facet's value list.
func (c *Client) FacetPage(ctx context.Context, field string, offset int, p *Params) (*Paginator, error) {
	return c.svc.FacetPage(ctx, field, offset, p)
}

// Ping checks engine reachability.
func (c *Client) Ping(ctx context.Context) error { return c.engine.Ping(ctx) }
