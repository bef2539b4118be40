// Package chi exposes the HTTP API: case file CRUD, evidence import and
// query, transcript pages and chat sessions.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
	"github.com/docketlabs/docket/internal/etl"
	chatuc "github.com/docketlabs/docket/internal/usecase/chat"
	evidenceuc "github.com/docketlabs/docket/internal/usecase/evidence"
	healthuc "github.com/docketlabs/docket/internal/usecase/health"
	ingestuc "github.com/docketlabs/docket/internal/usecase/ingest"
	processuc "github.com/docketlabs/docket/internal/usecase/process"
	transcriptuc "github.com/docketlabs/docket/internal/usecase/transcript"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers over the usecase layer.
type Server struct {
	processes     *processuc.Service
	ingest        *ingestuc.Service
	evidence      *evidenceuc.Service
	transcripts   *transcriptuc.Service
	chat          *chatuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	processes *processuc.Service,
	ingest *ingestuc.Service,
	evidence *evidenceuc.Service,
	transcripts *transcriptuc.Service,
	chat *chatuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		processes:   processes,
		ingest:      ingest,
		evidence:    evidence,
		transcripts: transcripts,
		chat:        chat,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		pageOutOfRangeHandler,
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrProcessNotFound, http.StatusNotFound, codeProcessNotFound),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrTranscriptMissing, http.StatusConflict, codeTranscriptMissing),
		sentinelHandler(domain.ErrMarkerUnconfigured, http.StatusConflict, codeMarkerUnconfigured),
		sentinelHandler(domain.ErrImportSource, http.StatusBadRequest, codeImportSource),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProvider),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/processes", func(r chi.Router) {
			r.Post("/", s.CreateProcess)
			r.Get("/", s.ListProcesses)
			r.Route("/{processID}", func(r chi.Router) {
				r.Get("/", s.GetProcess)
				r.Put("/transcript", s.SetTranscript)
				r.Post("/evidence/import", s.ImportEvidence)
				r.Get("/evidence", s.ListEvidence)
				r.Get("/evidence/kinds", s.ListEvidenceKinds)
				r.Get("/pages/{page}", s.GetPage)
				r.Post("/sessions", s.CreateSession)
				r.Get("/sessions", s.ListSessions)
			})
		})
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/messages", s.ListMessages)
			r.Post("/messages", s.SendMessage)
		})
	})
}

// CreateProcess handles POST /processes.
func (s *Server) CreateProcess(w http.ResponseWriter, r *http.Request) {
	var req createProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.processes.Create(r.Context(), req.Number, req.Title, req.PageMarker)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, processToResponse(p))
}

// ListProcesses handles GET /processes.
func (s *Server) ListProcesses(w http.ResponseWriter, r *http.Request) {
	procs, err := s.processes.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]processResponse, len(procs))
	for i, p := range procs {
		items[i] = processToResponse(p)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetProcess handles GET /processes/{processID}.
func (s *Server) GetProcess(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	p, err := s.processes.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, processToResponse(p))
}

// SetTranscript handles PUT /processes/{processID}/transcript.
func (s *Server) SetTranscript(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	var req setTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.processes.SetTranscript(r.Context(), id, req.Text, req.PageMarker); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportEvidence handles POST /processes/{processID}/evidence/import.
// The body is the spreadsheet itself; variant and format come from query
// parameters, with the format falling back to the Content-Type header.
func (s *Server) ImportEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	variant := domev.SourceType(r.URL.Query().Get("variant"))
	if variant != domev.SourceMapped && variant != domev.SourceCataloged {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"variant must be \"mapped\" or \"cataloged\"")
		return
	}

	format, err := importFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	res, err := s.ingest.Import(r.Context(), id, variant, r.Body, format)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Variant:  string(res.Variant),
		Rows:     res.Rows,
		Ingested: res.Ingested,
	})
}

// ListEvidence handles GET /processes/{processID}/evidence.
func (s *Server) ListEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	f := domev.Filter{
		Kind:  r.URL.Query().Get("kind"),
		Query: r.URL.Query().Get("q"),
	}
	var err error
	if f.PageMin, err = queryInt(r, "page_min"); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	if f.PageMax, err = queryInt(r, "page_max"); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	unified, err := s.evidence.List(r.Context(), id, f)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]unifiedEvidenceResponse, len(unified))
	for i, u := range unified {
		items[i] = unifiedToResponse(u)
	}
	writeJSON(w, http.StatusOK, items)
}

// ListEvidenceKinds handles GET /processes/{processID}/evidence/kinds.
func (s *Server) ListEvidenceKinds(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	kinds, err := s.evidence.DistinctKinds(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kinds)
}

// GetPage handles GET /processes/{processID}/pages/{page}.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "page must be an integer")
		return
	}

	text, err := s.transcripts.GetPage(r.Context(), id, page)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Page: page, Text: text})
}

// CreateSession handles POST /processes/{processID}/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	selected := make([]domain.SelectedEvidence, len(req.Evidence))
	for i, ev := range req.Evidence {
		selected[i] = domain.SelectedEvidence{
			Kind:      ev.Kind,
			Summary:   ev.Summary,
			Reference: ev.Reference,
			PageStart: ev.PageStart,
		}
	}

	session, err := s.chat.StartSession(r.Context(), id, selected)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionToResponse(session))
}

// ListSessions handles GET /processes/{processID}/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "processID")
	if !ok {
		return
	}

	sessions, err := s.chat.ListSessions(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]sessionResponse, len(sessions))
	for i, sess := range sessions {
		items[i] = sessionToResponse(sess)
	}
	writeJSON(w, http.StatusOK, items)
}

// ListMessages handles GET /sessions/{sessionID}/messages.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "sessionID")
	if !ok {
		return
	}

	msgs, err := s.chat.ListMessages(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		items[i] = messageToResponse(m)
	}
	writeJSON(w, http.StatusOK, items)
}

// SendMessage handles POST /sessions/{sessionID}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "sessionID")
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply, err := s.chat.SendMessage(r.Context(), id, req.Content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageToResponse(reply))
}

// HealthCheck handles GET /healthz.
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

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New(name + " must be an integer")
	}
	return &n, nil
}

// importFormat resolves the spreadsheet format from the format query
// parameter, falling back to the Content-Type header.
func importFormat(r *http.Request) (etl.Format, error) {
	switch r.URL.Query().Get("format") {
	case "xlsx":
		return etl.FormatXLSX, nil
	case "csv":
		return etl.FormatCSV, nil
	case "":
	default:
		return "", errors.New("format must be \"xlsx\" or \"csv\"")
	}

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(ct, "spreadsheetml"), strings.Contains(ct, "ms-excel"):
		return etl.FormatXLSX, nil
	case strings.Contains(ct, "csv"):
		return etl.FormatCSV, nil
	case strings.Contains(ct, "octet-stream"), ct == "":
		return etl.FormatXLSX, nil
	}
	return "", errors.New("unsupported content type " + strconv.Quote(ct))
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
		domain.ErrInvalidInput,
		domain.ErrProcessNotFound,
		domain.ErrSessionNotFound,
		domain.ErrTranscriptMissing,
		domain.ErrMarkerUnconfigured,
		domain.ErrImportSource,
		domain.ErrChatProviderError,
		domain.ErrNotFound,
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

// pageOutOfRangeHandler exposes the page bound to the client: the message
// names the requested page and the number of pages identified.
func pageOutOfRangeHandler(w http.ResponseWriter, err error, _ string) bool {
	var oor *domain.PageOutOfRangeError
	if !errors.As(err, &oor) {
		return false
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"code":      codePageOutOfRange,
		"message":   oor.Error(),
		"max_page":  oor.MaxPage,
		"requested": oor.Page,
	})
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
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
