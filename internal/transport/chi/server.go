// Package chi is the HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/auth"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/extract"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/transport/ws"
	applicationuc "github.com/kailas-cloud/jobmatch/internal/usecase/application"
	documentuc "github.com/kailas-cloud/jobmatch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/jobmatch/internal/usecase/history"
	matchinguc "github.com/kailas-cloud/jobmatch/internal/usecase/matching"
	"github.com/kailas-cloud/jobmatch/internal/usecase/notify"
)

const maxBodyBytes = 20 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Deps are the services behind the API. Push may be nil when WebSocket delivery is disabled.
type Deps struct {
	Matching     *matchinguc.Service
	Documents    *documentuc.Service
	Applications *applicationuc.Service
	History      *historyuc.Service
	Inbox        *notify.Service
	Extractor    *extract.Registry
	Push         *ws.Hub
	Health       *healthuc.Service
	Tokens       *auth.Tokens
	Logger       *zap.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	matching      *matchinguc.Service
	documents     *documentuc.Service
	applications  *applicationuc.Service
	history       *historyuc.Service
	inbox         *notify.Service
	extractor     *extract.Registry
	push          *ws.Hub
	health        *healthuc.Service
	tokens        *auth.Tokens
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(d Deps) *Server {
	s := &Server{
		matching:     d.Matching,
		documents:    d.Documents,
		applications: d.Applications,
		history:      d.History,
		inbox:        d.Inbox,
		extractor:    d.Extractor,
		push:         d.Push,
		health:       d.Health,
		tokens:       d.Tokens,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       d.Logger,
	}
	// Order matters: the first matching sentinel wins.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidState, http.StatusConflict, CodeInvalidState),
		sentinelHandler(domain.ErrEmptyCandidateSet, http.StatusBadRequest, CodeEmptyCandidateSet),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, CodeDimensionMismatch),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, CodeUnsupportedFormat),
		sentinelHandler(domain.ErrExtraction, http.StatusUnprocessableEntity, CodeExtractionFailed),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// decodeBody reads a JSON body into dst and validates it. On failure it writes the response.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return "field " + fe.Namespace() + " failed " + fe.Tag() + "=" + fe.Param()
	}
	return "field " + fe.Namespace() + " failed " + fe.Tag()
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	tokens, calls, hits := usage.Totals()
	if calls == 0 {
		return
	}
	w.Header().Set("X-Embedding-Tokens", strconv.Itoa(tokens))
	w.Header().Set("X-Embedding-Calls", strconv.Itoa(calls))
	w.Header().Set("X-Embedding-Cache-Hits", strconv.Itoa(hits))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The client sees only the sentinel's text.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
