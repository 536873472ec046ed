// Package chi exposes the search service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cigarmaestro/searchd/internal/domain"
	domhist "github.com/cigarmaestro/searchd/internal/domain/history"
	"github.com/cigarmaestro/searchd/internal/logger"
	"github.com/cigarmaestro/searchd/internal/domain/search/filter"
	"github.com/cigarmaestro/searchd/internal/domain/search/query"
	"github.com/cigarmaestro/searchd/internal/domain/search/result"
	healthuc "github.com/cigarmaestro/searchd/internal/usecase/health"
)

// Error response codes.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeCatalogError     = "catalog_error"
	codeIndexNotReady    = "index_not_ready"
	codeInternalError    = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchEngine is the query engine surface the server needs.
type SearchEngine interface {
	Search(text string, opts query.Options) (result.Response, error)
	Suggestions(partial string) []string
	IndexSize() int
	FacetValueCounts() map[string]int
}

// HistoryService is the search history surface the server needs.
type HistoryService interface {
	Entries() []domhist.Entry
	Popular(limit int) []domhist.PopularQuery
	Clear()
}

// CatalogLoader reloads catalog data and rebuilds the index.
type CatalogLoader interface {
	Load(ctx context.Context) error
}

// Server handles the searchd HTTP API. Handlers log through the
// request-scoped logger attached to the context by the middleware chain.
type Server struct {
	search        SearchEngine
	history       HistoryService
	catalog       CatalogLoader
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchEngine,
	history HistoryService,
	catalog CatalogLoader,
	health *healthuc.Service,
) *Server {
	s := &Server{
		search:  search,
		history: history,
		catalog: catalog,
		health:  health,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidCatalog, http.StatusUnprocessableEntity, codeCatalogError),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, codeIndexNotReady),
	}
	return s
}

// Routes registers the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/popular", s.handlePopular)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/export", s.handleExport)
		r.Post("/index", s.handleRebuild)
		r.Get("/health", s.handleHealth)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type searchRequest struct {
	Query           string                      `json:"query"`
	Filters         map[string]filter.Condition `json:"filters,omitempty"`
	Facets          map[string][]string         `json:"facets,omitempty"`
	SortBy          string                      `json:"sortBy,omitempty"`
	SortOrder       string                      `json:"sortOrder,omitempty"`
	Limit           int                         `json:"limit,omitempty"`
	Offset          int                         `json:"offset,omitempty"`
	FuzzyThreshold  float64                     `json:"fuzzyThreshold,omitempty"`
	IncludeSnippets *bool                       `json:"includeSnippets,omitempty"`
}

type searchResultItem struct {
	ID        string           `json:"id"`
	Category  string           `json:"category"`
	Score     float64          `json:"score"`
	Relevance float64          `json:"relevance"`
	Document  map[string]any   `json:"document"`
	Matches   []result.Match   `json:"matches,omitempty"`
	Snippets  []result.Snippet `json:"snippets,omitempty"`
}

type searchResponse struct {
	Results         []searchResultItem             `json:"results"`
	TotalCount      int                            `json:"totalCount"`
	SearchTimeMs    float64                        `json:"searchTime"`
	Query           string                         `json:"query"`
	Filters         map[string]filter.Condition    `json:"filters,omitempty"`
	Facets          map[string][]string            `json:"facets,omitempty"`
	AvailableFacets map[string]result.FacetSummary `json:"availableFacets"`
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	opts := query.Options{
		Filters:        req.Filters,
		Facets:         req.Facets,
		SortBy:         query.Sort(req.SortBy),
		SortOrder:      query.Order(req.SortOrder),
		Limit:          req.Limit,
		Offset:         req.Offset,
		FuzzyThreshold: req.FuzzyThreshold,
	}
	if req.IncludeSnippets != nil {
		opts.ExcludeSnippets = !*req.IncludeSnippets
	}

	resp, err := s.search.Search(req.Query, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseToDTO(resp))
}

// handleSuggestions handles GET /api/v1/suggestions.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")
	suggestions := s.search.Suggestions(partial)
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// handlePopular handles GET /api/v1/popular.
func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	popular := s.history.Popular(limit)
	if popular == nil {
		popular = []domhist.PopularQuery{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"popular": popular})
}

// handleHistory handles GET /api/v1/history.
func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := s.history.Entries()
	if entries == nil {
		entries = []domhist.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

// handleClearHistory handles DELETE /api/v1/history.
func (s *Server) handleClearHistory(w http.ResponseWriter, _ *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleExport handles GET /api/v1/export: a diagnostic dump of history
// and index statistics.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	entries := s.history.Entries()
	if entries == nil {
		entries = []domhist.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exportedAt":  time.Now().UTC(),
		"history":     entries,
		"indexSize":   s.search.IndexSize(),
		"facetCounts": s.search.FacetValueCounts(),
	})
}

// handleRebuild handles POST /api/v1/index: reload the catalog and swap
// in a freshly built index.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("index rebuild failed", zap.Error(err))
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"indexedDocuments": s.search.IndexSize(),
	})
}

// handleHealth handles GET /api/v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    report.Status,
		"checks":    report.Checks,
		"indexSize": report.IndexSize,
	})
}

func searchResponseToDTO(resp result.Response) searchResponse {
	items := make([]searchResultItem, len(resp.Results))
	for i, r := range resp.Results {
		items[i] = searchResultItem{
			ID:        r.Document.ID(),
			Category:  r.Document.Category(),
			Score:     r.Score,
			Relevance: r.Relevance,
			Document:  r.Document.Original(),
			Matches:   r.Matches,
			Snippets:  r.Snippets,
		}
	}

	return searchResponse{
		Results:         items,
		TotalCount:      resp.TotalCount,
		SearchTimeMs:    float64(resp.SearchTime.Microseconds()) / 1000,
		Query:           resp.Query,
		Filters:         resp.Filters,
		Facets:          resp.Facets,
		AvailableFacets: resp.AvailableFacets,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidCatalog,
		domain.ErrIndexNotReady,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
