// Package chi exposes the search service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/domain"
	"github.com/solrdex/solrdex/internal/facet"
	"github.com/solrdex/solrdex/internal/pipeline"
	"github.com/solrdex/solrdex/internal/solr"
	searchuc "github.com/solrdex/solrdex/internal/usecase/search"
)

// SearchService defines the search operations the gateway exposes.
type SearchService interface {
	Search(ctx context.Context, p *pipeline.Params) (*searchuc.Result, error)
	DocumentByID(ctx context.Context, id string) (domain.Document, error)
	DocumentsByFieldValues(ctx context.Context, field string, values []string) (
		*solr.Response, []domain.Document, error)
	FacetPage(ctx context.Context, field string, offset int, p *pipeline.Params) (*facet.Paginator, error)
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server handles gateway HTTP requests.
type Server struct {
	search SearchService
	pinger Pinger
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(search SearchService, pinger Pinger, logger *zap.Logger) *Server {
	return &Server{search: search, pinger: pinger, logger: logger}
}

// Routes registers the API routes on a router.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/v1/search", s.handleSearch)
	r.Get("/v1/search/facet/{field}", s.handleFacetPage)
	r.Get("/v1/documents/{id}", s.handleDocument)
	r.Get("/v1/documents", s.handleDocumentsByField)
	r.Get("/healthz", s.handleHealth)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p := paramsFromRequest(r)
	result, err := s.search.Search(r.Context(), p)
	if err != nil {
		s.writeError(w, err, "search failed")
		return
	}

	out := searchResponse{
		NumFound: result.Response.Data.NumFound,
		Start:    result.Response.Data.Start,
		Docs:     result.Docs,
	}
	for _, f := range result.Facets {
		out.Facets = append(out.Facets, facetListResponse{
			Field:   f.Field,
			Values:  facetValues(f.Values),
			HasMore: f.HasMore,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFacetPage(w http.ResponseWriter, r *http.Request) {
	field := chirouter.URLParam(r, "field")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	p := paramsFromRequest(r)
	page, err := s.search.FacetPage(r.Context(), field, offset, p)
	if err != nil {
		s.writeError(w, err, "facet page failed")
		return
	}

	out := facetPageResponse{
		Field:       page.Field(),
		Values:      facetValues(page.Values()),
		Offset:      page.Offset(),
		Limit:       page.Limit(),
		Sort:        page.Sort(),
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	}
	if page.HasNext() {
		out.NextOffset = page.NextOffset()
	}
	if page.HasPrevious() {
		out.PrevOffset = page.PrevOffset()
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")
	doc, err := s.search.DocumentByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err, "document lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDocumentsByField(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := q.Get("field")
	if field == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "field parameter is required"})
		return
	}
	_, docs, err := s.search.DocumentsByFieldValues(r.Context(), field, q["value"])
	if err != nil {
		s.writeError(w, err, "document lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, documentsResponse{Docs: docs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "engine unreachable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// paramsFromRequest maps gateway query parameters onto pipeline parameters.
// f.<field> keys become facet selections; every unrecognized key stays in
// Extra for the passthrough path.
func paramsFromRequest(r *http.Request) *pipeline.Params {
	q := r.URL.Query()
	p := &pipeline.Params{
		Query:       q.Get("q"),
		SearchField: q.Get("search_field"),
		Sort:        q.Get("sort"),
		Extra:       make(map[string][]string),
	}
	p.Page, _ = strconv.Atoi(q.Get("page"))
	p.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	p.Rows, _ = strconv.Atoi(q.Get("rows"))

	for key, values := range q {
		switch key {
		case "q", "search_field", "sort", "page", "per_page", "rows", "offset":
			continue
		}
		if field, ok := strings.CutPrefix(key, "f."); ok {
			if p.Facets == nil {
				p.Facets = make(map[string][]string)
			}
			p.Facets[field] = append(p.Facets[field], values...)
			continue
		}
		p.Extra[key] = values
	}
	return p
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "document not found"})
	case errors.Is(err, domain.ErrEngineUnavailable):
		s.logger.Error(msg, zap.Error(err))
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "search engine unavailable"})
	default:
		s.logger.Error(msg, zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
