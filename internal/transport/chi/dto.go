package chi

import (
	"time"

	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
)

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeProcessNotFound    = "process_not_found"
	codeSessionNotFound    = "session_not_found"
	codeNotFound           = "not_found"
	codeTranscriptMissing  = "transcript_missing"
	codeMarkerUnconfigured = "page_marker_unconfigured"
	codePageOutOfRange     = "page_out_of_range"
	codeImportSource       = "import_source_invalid"
	codeChatProvider       = "chat_provider_error"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createProcessRequest struct {
	Number     string `json:"number"`
	Title      string `json:"title"`
	PageMarker string `json:"page_marker"`
}

type processResponse struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	Title      string    `json:"title"`
	PageMarker string    `json:"page_marker"`
	CreatedAt  time.Time `json:"created_at"`
}

func processToResponse(p domain.Process) processResponse {
	return processResponse{
		ID:         p.ID,
		Number:     p.Number,
		Title:      p.Title,
		PageMarker: p.PageMarker,
		CreatedAt:  p.CreatedAt,
	}
}

type setTranscriptRequest struct {
	Text       string `json:"text"`
	PageMarker string `json:"page_marker"`
}

type importResponse struct {
	Variant  string `json:"variant"`
	Rows     int    `json:"rows"`
	Ingested int    `json:"ingested"`
}

type unifiedEvidenceResponse struct {
	ID             int64          `json:"id"`
	Source         string         `json:"source"`
	Kind           string         `json:"kind,omitempty"`
	DisplaySummary string         `json:"display_summary,omitempty"`
	PageStart      *int           `json:"page_start"`
	PageEnd        *int           `json:"page_end"`
	IssuerID       *string        `json:"issuer_id,omitempty"`
	IssueDate      *time.Time     `json:"issue_date,omitempty"`
	TotalAmount    *string        `json:"total_amount,omitempty"`
	Extras         map[string]any `json:"extras,omitempty"`
}

func unifiedToResponse(u domev.Unified) unifiedEvidenceResponse {
	return unifiedEvidenceResponse{
		ID:             u.ID,
		Source:         string(u.Source),
		Kind:           u.Kind,
		DisplaySummary: u.DisplaySummary,
		PageStart:      u.PageStart,
		PageEnd:        u.PageEnd,
		IssuerID:       u.IssuerID,
		IssueDate:      u.IssueDate,
		TotalAmount:    u.TotalAmount,
		Extras:         u.Extras,
	}
}

type pageResponse struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

type selectedEvidenceRequest struct {
	Kind      string `json:"kind"`
	Summary   string `json:"summary"`
	Reference string `json:"reference"`
	PageStart *int   `json:"page_start"`
}

type createSessionRequest struct {
	Evidence []selectedEvidenceRequest `json:"evidence"`
}

type sessionResponse struct {
	ID        int64     `json:"id"`
	ProcessID int64     `json:"process_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionToResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		ProcessID: s.ProcessID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func messageToResponse(m domain.Message) messageResponse {
	return messageResponse{
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
