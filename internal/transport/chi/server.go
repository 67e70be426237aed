package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	healthuc "github.com/kailas-cloud/strindex/internal/usecase/health"
	recorduc "github.com/kailas-cloud/strindex/internal/usecase/record"
)

const defaultMaxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the strings API.
type Server struct {
	records       *recorduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(records *recorduc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		records:      records,
		health:       health,
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		invalidValueHandler,
		sentinelHandler(domain.ErrEmptyValue, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrUnparseable, http.StatusBadRequest, ErrorCodeUnparseableQuery),
		sentinelHandler(domain.ErrConflictingFilters, http.StatusUnprocessableEntity, ErrorCodeConflictingFilters),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeStringNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeStringAlreadyExists),
		sentinelHandler(domain.ErrStoreFull, http.StatusInsufficientStorage, ErrorCodeStoreFull),
	}
	return s
}

// WithMaxBodyBytes limits the size of request bodies. Non-positive values keep the default.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Mount registers the API routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Post("/strings", s.CreateString)
	r.Get("/strings", s.ListStrings)
	r.Get("/strings/filter-by-natural-language", s.FilterByNaturalLanguage)
	r.Get("/strings/{value}", s.GetString)
	r.Delete("/strings/{value}", s.DeleteString)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed, "method not allowed")
	})
}

// CreateString handles POST /strings.
func (s *Server) CreateString(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req CreateStringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Value) == 0 || string(req.Value) == "null" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "value is required")
		return
	}

	var value string
	if err := json.Unmarshal(req.Value, &value); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrorCodeValidationFailed, "value must be a string")
		return
	}

	rec, err := s.records.Create(r.Context(), value)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, StringResponseFrom(rec))
}

// ListStrings handles GET /strings.
func (s *Server) ListStrings(w http.ResponseWriter, r *http.Request) {
	raw, err := bindFilterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	recs, applied, err := s.records.List(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StringListResponse{
		Data:           recordsToResponse(recs),
		Count:          len(recs),
		FiltersApplied: FiltersFrom(applied),
	})
}

// FilterByNaturalLanguage handles GET /strings/filter-by-natural-language.
func (s *Server) FilterByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	var query string
	if err := runtime.BindQueryParameter("form", true, true, "query", r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "query parameter is required")
		return
	}
	if query == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "query parameter is required")
		return
	}

	recs, q, err := s.records.Search(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NaturalLanguageResponse{
		Data:             recordsToResponse(recs),
		Count:            len(recs),
		InterpretedQuery: InterpretedQueryFrom(q),
	})
}

// GetString handles GET /strings/{value}.
func (s *Server) GetString(w http.ResponseWriter, r *http.Request) {
	value, err := bindValueParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	rec, err := s.records.Get(r.Context(), value)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StringResponseFrom(rec))
}

// DeleteString handles DELETE /strings/{value}.
func (s *Server) DeleteString(w http.ResponseWriter, r *http.Request) {
	value, err := bindValueParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	if err := s.records.Delete(r.Context(), value); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindFilterParams collects the recognized filter query parameters as raw strings.
// Typed parsing is left to the filter package so errors name the offending field.
func bindFilterParams(r *http.Request) (map[string]string, error) {
	q := r.URL.Query()
	raw := make(map[string]string, len(filter.FieldNames))
	for _, name := range filter.FieldNames {
		var v *string
		if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
			return nil, fmt.Errorf("invalid query parameter %s: %w", name, err)
		}
		if v != nil {
			raw[name] = *v
		}
	}
	return raw, nil
}

func bindValueParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "value")
	// chi routes on the decoded path unless the request carried a non-canonical escaping.
	if r.URL.RawPath == "" {
		raw = url.PathEscape(raw)
	}

	var value string
	err := runtime.BindStyledParameterWithOptions("simple", "value", raw, &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", fmt.Errorf("invalid path parameter value: %w", err)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyValue,
		domain.ErrUnparseable,
		domain.ErrConflictingFilters,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrStoreFull,
		domain.ErrInvalidValue,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidValueHandler handles ErrInvalidValue, naming the offending field when known.
func invalidValueHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidValue) {
		return false
	}
	var ive *filter.InvalidValueError
	if errors.As(err, &ive) {
		msg = ive.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeInvalidFilterValue, msg)
	return true
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
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
