package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchgate/internal/domain"
	"github.com/kailas-cloud/searchgate/internal/ratelimit"
	documentuc "github.com/kailas-cloud/searchgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchgate/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search and document use cases over HTTP. It owns the
// translation from the core's rate-limit decisions and sentinel errors to
// headers and status codes; the core knows nothing about HTTP.
type Server struct {
	search        *searchuc.Service
	documents     *documentuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	documents *documentuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		documents: documents,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		rateLimitHandler,
		sentinelHandler(domain.ErrInvalidTenant, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrSearchUnavailable, http.StatusServiceUnavailable, codeSearchUnavailable),
	}
	return s
}

// Mount attaches all routes to the router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/v1/tenants/{tenant}/search", s.handleSearch)
	r.Post("/v1/tenants/{tenant}/documents", s.handleCreateDocument)
	r.Put("/v1/tenants/{tenant}/documents/{id}", s.handlePutDocument)
	r.Get("/v1/tenants/{tenant}/documents/{id}", s.handleGetDocument)
	r.Delete("/v1/tenants/{tenant}/documents/{id}", s.handleDeleteDocument)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// handleSearch handles POST /v1/tenants/{tenant}/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.tenantFromPath(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	domReq, err := domain.NewSearchRequest(req.Query, req.Filters.toDomain(), req.Offset, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, dec, err := s.search.Search(r.Context(), tenant, domReq)
	setRateLimitHeaders(w, dec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToDTO(result))
}

// handleCreateDocument handles POST .../documents, assigning an ID when
// the client sends none.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	s.upsertDocument(w, r, "")
}

// handlePutDocument handles PUT .../documents/{id}.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	s.upsertDocument(w, r, chi.URLParam(r, "id"))
}

func (s *Server) upsertDocument(w http.ResponseWriter, r *http.Request, pathID string) {
	tenant, ok := s.tenantFromPath(w, r)
	if !ok {
		return
	}

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := pathID
	if id == "" {
		id = req.ID
	}
	if id == "" {
		id = uuid.NewString()
	}

	doc, err := domain.NewDocument(id, tenant, req.Title, req.Content, req.Tags, req.Author, req.Metadata)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	stored, err := s.documents.Index(r.Context(), tenant, doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if pathID == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, documentToDTO(stored))
}

// handleGetDocument handles GET .../documents/{id}.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.tenantFromPath(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, "id")

	doc, found, dec, err := s.documents.Get(r.Context(), tenant, docID)
	setRateLimitHeaders(w, dec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, codeDocumentNotFound, domain.ErrDocumentNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, documentToDTO(doc))
}

// handleDeleteDocument handles DELETE .../documents/{id}.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	tenant, ok := s.tenantFromPath(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, "id")

	found, err := s.documents.Delete(r.Context(), tenant, docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, codeDocumentNotFound, domain.ErrDocumentNotFound.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) tenantFromPath(w http.ResponseWriter, r *http.Request) (domain.TenantID, bool) {
	tenant, err := domain.NewTenantID(chi.URLParam(r, "tenant"))
	if err != nil {
		s.handleDomainError(w, err)
		return "", false
	}
	return tenant, true
}

// setRateLimitHeaders renders the admission decision. Degraded decisions
// carry no real counter state, so no headers are emitted for them.
func setRateLimitHeaders(w http.ResponseWriter, dec ratelimit.Decision) {
	if dec.ResetAt.IsZero() {
		return
	}
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(dec.ResetAt.Unix(), 10))
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidTenant,
		domain.ErrInvalidArgument,
		domain.ErrDocumentNotFound,
		domain.ErrRateLimited,
		domain.ErrSearchUnavailable,
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

// rateLimitHandler handles ErrRateLimited with Retry-After and reset headers.
func rateLimitHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrRateLimited) {
		return false
	}
	var rle *domain.RateLimitError
	if errors.As(err, &rle) {
		w.Header().Set("Retry-After", strconv.Itoa(rle.RetryAfter))
		w.Header().Set("X-RateLimit-Remaining", "0")
		if !rle.ResetAt.IsZero() {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rle.ResetAt.Unix(), 10))
		}
	}
	writeError(w, http.StatusTooManyRequests, codeRateLimited, msg)
	return true
}
