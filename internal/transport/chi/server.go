// Package chi exposes the search and ingestion usecases over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hiredeck/talentsearch/internal/domain"
	"github.com/hiredeck/talentsearch/internal/metrics"
	healthuc "github.com/hiredeck/talentsearch/internal/usecase/health"
	ingestuc "github.com/hiredeck/talentsearch/internal/usecase/ingest"
	searchuc "github.com/hiredeck/talentsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers over the usecases.
type Server struct {
	search        *searchuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBatchSize  int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	maxBatchSize int,
) *Server {
	if maxBatchSize <= 0 {
		maxBatchSize = 100
	}
	s := &Server{
		search:       search,
		ingest:       ingest,
		health:       health,
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTalentNotFound, http.StatusNotFound, codeTalentNotFound),
		sentinelHandler(ingestuc.ErrEmptyApplicantID, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusInternalServerError, codeInternalError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderErr),
		sentinelHandler(domain.ErrVectorIndexError, http.StatusBadGateway, codeVectorIndexError),
	}
	return s
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chirouter.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chimw.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chirouter.Router) {
		r.Post("/search", s.SearchTalents)
		r.Put("/talents/{applicantID}", s.UpsertTalent)
		r.Delete("/talents/{applicantID}", s.DeleteTalent)
		r.Post("/talents/batch", s.BatchUpsert)
	})
	return r
}

// SearchTalents handles POST /v1/search.
func (s *Server) SearchTalents(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToResponse(res))
}

// UpsertTalent handles PUT /v1/talents/{applicantID}.
func (s *Server) UpsertTalent(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "applicantID")

	var req upsertTalentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Profile.ApplicantID == "" {
		req.Profile.ApplicantID = id
	}
	if req.Profile.ApplicantID != id {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"applicant_id in body does not match URL")
		return
	}

	if err := s.ingest.Index(r.Context(), recordFromUpsert(req)); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTalent handles DELETE /v1/talents/{applicantID}.
func (s *Server) DeleteTalent(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "applicantID")

	if err := s.ingest.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BatchUpsert handles POST /v1/talents/batch.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req batchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Talents) == 0 || len(req.Talents) > s.maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("talents count must be between 1 and %d", s.maxBatchSize))
		return
	}

	records := make([]ingestuc.Record, len(req.Talents))
	for i, item := range req.Talents {
		records[i] = recordFromUpsert(item)
	}

	report := s.ingest.IndexBatch(r.Context(), records)

	resp := batchUpsertResponse{Indexed: report.Indexed}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, batchFailureItem{
			ApplicantID: f.ApplicantID,
			Error:       safeDomainMessage(f.Err),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTalentNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorIndexError,
		ingestuc.ErrEmptyApplicantID,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
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
