// Package solr executes assembled relations against a Solr-style search
// engine over HTTP and decodes the responses.
package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/metrics"
	"github.com/solrdex/solrdex/internal/query"
)

// DefaultHandler is the system-default request handler.
const DefaultHandler = "select"

const defaultTimeout = 30 * time.Second

// Client sends relations to one engine core. The HTTP client is injected
// and owned by the caller; Client performs exactly one attempt per Execute
// call and never retries.
type Client struct {
	base    string
	httpc   *http.Client
	handler string
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient injects the HTTP client (timeouts, pooling, TLS are its
// concern).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

// WithDefaultHandler overrides the system-default request handler.
func WithDefaultHandler(handler string) Option {
	return func(c *Client) {
		if handler != "" {
			c.handler = handler
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client for the given core base URL
// (e.g. http://localhost:8983/solr/catalog).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("solr: base URL required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("solr: parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("solr: base URL %q must be absolute", baseURL)
	}

	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		handler: DefaultHandler,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Execute sends the relation and returns the decoded response. The endpoint
// is resolved as: explicit override, else the relation's request handler,
// else the client default. The relation is frozen before submission.
// Connection-level failures map to domain.ErrEngineUnavailable; engine
// errors propagate as plain errors.
func (c *Client) Execute(ctx context.Context, rel *query.Relation, endpoint string) (*Response, error) {
	handler := endpoint
	if handler == "" {
		handler = rel.Handler()
	}
	if handler == "" {
		handler = c.handler
	}

	rel.Freeze()
	params := rel.Values()
	params.Set("wt", "json")

	reqURL := c.base + "/" + handler + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("solr: build request for %s: %w", handler, err)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ObserveEngineRequest(handler, "unavailable", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrEngineUnavailable, handler, c.base, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveEngineRequest(handler, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %v", domain.ErrEngineUnavailable, handler, err)
	}

	var out Response
	if decodeErr := json.Unmarshal(body, &out); decodeErr != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("solr: %s returned status %d", handler, resp.StatusCode)
		}
		return nil, fmt.Errorf("solr: decode %s response: %w", handler, decodeErr)
	}

	if out.Error != nil {
		return nil, fmt.Errorf("solr: %s error %d: %s", handler, out.Error.Code, out.Error.Msg)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solr: %s returned status %d", handler, resp.StatusCode)
	}

	c.logger.Debug("engine query",
		zap.String("handler", handler),
		zap.Int("qtime_ms", out.Header.QTime),
		zap.Int64("num_found", out.Data.NumFound),
	)
	return &out, nil
}

// Ping checks engine connectivity via the admin ping handler.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/admin/ping?wt=json", nil)
	if err != nil {
		return fmt.Errorf("solr: build ping request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping %s: %v", domain.ErrEngineUnavailable, c.base, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("solr: ping returned status %d", resp.StatusCode)
	}
	return nil
}
