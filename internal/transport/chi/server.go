// Package chi exposes the HTTP API: document upload and management, chat
// over ingested documents, per-tenant stats, and operational endpoints.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	answeruc "github.com/kailas-cloud/ragdex/internal/usecase/answer"
	documentuc "github.com/kailas-cloud/ragdex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdex/internal/usecase/ingest"
	statsuc "github.com/kailas-cloud/ragdex/internal/usecase/stats"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the document API.
type Server struct {
	documents *documentuc.Service
	answer    *answeruc.Service
	stats     *statsuc.Service
	health    *healthuc.Service
	logger    *zap.Logger

	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. maxUploadBytes caps the request body
// read for uploads.
func NewServer(
	documents *documentuc.Service,
	answer *answeruc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents:      documents,
		answer:         answer,
		stats:          stats,
		health:         health,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrQueryTooLong, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrFileTooSmall, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrFileTooLarge, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(ingestuc.ErrQueueFull, http.StatusServiceUnavailable, codeQueueFull),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Post("/upload", s.handleUpload)
	r.Get("/files", s.handleFiles)
	r.Post("/chat", s.handleChat)
	r.Get("/stats", s.handleStats)
	r.Delete("/documents/{docID}", s.handleDeleteDocument)
}

// handleUpload accepts a multipart upload and enqueues it for background
// ingestion. The 202 response carries the pipeline status, not the result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "multipart field \"file\" is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read file")
		return
	}

	doc, err := s.documents.Upload(r.Context(), ownerFromContext(r.Context()), header.Filename, content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, uploadResponse{
		DocID:    doc.DocID,
		Filename: doc.Filename,
		Status:   string(doc.Status),
		Message:  "File uploaded successfully. Embeddings are being generated.",
	})
}

// handleFiles lists the tenant's documents, newest first.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.List(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	files := make([]fileItem, len(docs))
	for i := range docs {
		files[i] = fileItemFromDoc(&docs[i])
	}
	writeJSON(w, http.StatusOK, filesResponse{Files: files})
}

// handleChat answers a question from the tenant's documents.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.answer.Answer(r.Context(), ownerFromContext(r.Context()), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: result.Response,
		Sources:  sourceItemsFromDomain(result.Sources),
	})
}

// handleStats merges document counts with the vector index size.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	docs, err := s.documents.List(r.Context(), ownerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	nsStats, err := s.stats.Stats(r.Context(), ownerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	distribution := make(map[string]int)
	for i := range docs {
		distribution[string(docs[i].Status)]++
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalDocuments:     len(docs),
		StatusDistribution: distribution,
		VectorCount:        nsStats.TotalVectors,
		Namespace:          nsStats.Namespace,
	})
}

// handleDeleteDocument removes a document, its vectors, and its blob.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if docID == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "document id is required")
		return
	}

	if err := s.documents.Delete(r.Context(), ownerFromContext(r.Context()), docID); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports aggregated component health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
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

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrQueryTooLong,
		domain.ErrUnsupportedFormat,
		domain.ErrFileTooSmall,
		domain.ErrFileTooLarge,
		domain.ErrDocumentNotFound,
		ingestuc.ErrQueueFull,
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
