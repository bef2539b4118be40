// Package chat runs conversation sessions over a case file. A session's
// context is assembled exactly once at creation and held immutably for its
// lifetime; later messages never re-run context assembly. A collaborator
// failure is captured into the transcript as the turn's assistant reply, so
// no turn is ever lost.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docketlabs/docket/internal/domain"
	domtr "github.com/docketlabs/docket/internal/domain/transcript"
)

// DefaultSystemInstruction is used when no instruction template is
// configured.
const DefaultSystemInstruction = "You are an assistant that answers questions about a legal case file " +
	"using only the evidence summaries and page texts provided as context."

// Service handles chat sessions and collaborator turns.
type Service struct {
	sessions          SessionRepository
	procs             ProcessReader
	completer         Completer
	audit             AuditRecorder
	systemInstruction string
	logger            *zap.Logger
	now               func() time.Time
}

// New creates a chat service.
func New(
	sessions SessionRepository,
	procs ProcessReader,
	completer Completer,
	audit AuditRecorder,
	systemInstruction string,
	logger *zap.Logger,
) *Service {
	if systemInstruction == "" {
		systemInstruction = DefaultSystemInstruction
	}
	return &Service{
		sessions:          sessions,
		procs:             procs,
		completer:         completer,
		audit:             audit,
		systemInstruction: systemInstruction,
		logger:            logger,
		now:               time.Now,
	}
}

// WithClock overrides the clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// StartSession assembles the context from the selected evidence and creates
// a session holding it.
func (s *Service) StartSession(
	ctx context.Context, processID int64, selected []domain.SelectedEvidence,
) (domain.Session, error) {
	proc, err := s.procs.Get(ctx, processID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("get process: %w", err)
	}

	fetch := s.pageFetcher(ctx, proc)
	contextText := BuildContext(selected, fetch)

	session, err := s.sessions.CreateSession(ctx, domain.Session{
		ProcessID: processID,
		Name:      fmt.Sprintf("Chat %s - %s", proc.Number, s.now().Format("02/01 15:04")),
		Context:   contextText,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("chat session created",
		zap.Int64("process_id", processID),
		zap.Int64("session_id", session.ID),
		zap.Int("selected_evidence", len(selected)),
	)
	return session, nil
}

// pageFetcher loads the transcript once and resolves pages against it. When
// the transcript itself is unavailable every page resolves as unavailable.
func (s *Service) pageFetcher(ctx context.Context, proc domain.Process) func(int) (string, error) {
	text, err := s.procs.GetTranscript(ctx, proc.ID)
	if err != nil {
		return func(int) (string, error) { return "", err }
	}
	doc := domtr.Document{FullText: text, Marker: proc.PageMarker}
	return func(page int) (string, error) { return doc.Page(page) }
}

// ListSessions returns a process's sessions.
func (s *Service) ListSessions(ctx context.Context, processID int64) ([]domain.Session, error) {
	if _, err := s.procs.Get(ctx, processID); err != nil {
		return nil, fmt.Errorf("get process: %w", err)
	}
	sessions, err := s.sessions.ListSessions(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListMessages returns a session's transcript.
func (s *Service) ListMessages(ctx context.Context, sessionID int64) ([]domain.Message, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	msgs, err := s.sessions.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// SendMessage persists the user turn, calls the collaborator with the fixed
// instruction, the session context and the prior history, and persists the
// reply. A collaborator failure becomes the assistant reply rather than an
// aborted turn.
func (s *Service) SendMessage(ctx context.Context, sessionID int64, content string) (domain.Message, error) {
	if content == "" {
		return domain.Message{}, fmt.Errorf("message content is required: %w", domain.ErrInvalidInput)
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return domain.Message{}, err
	}

	// History is everything before this turn.
	prior, err := s.sessions.ListMessages(ctx, sessionID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("load history: %w", err)
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: content, CreatedAt: s.now().UTC()}
	if err := s.sessions.AppendMessage(ctx, sessionID, userMsg); err != nil {
		return domain.Message{}, fmt.Errorf("store user message: %w", err)
	}

	system := s.systemInstruction
	if session.Context != "" {
		system += "\n\nCASE CONTEXT:\n" + session.Context
	}

	history := make([]domain.Turn, 0, len(prior))
	for _, m := range prior {
		history = append(history, domain.Turn{Role: m.Role, Content: m.Content})
	}

	replyText, err := s.completer.Complete(ctx, system, history, content)
	if err != nil {
		replyText = fmt.Sprintf("The assistant could not be reached: %v", err)
		s.logger.Error("collaborator call failed",
			zap.Int64("session_id", sessionID),
			zap.Error(err),
		)
	}
	s.audit.Record(sessionID, auditPrompt(system, history, content), replyText)

	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: replyText, CreatedAt: s.now().UTC()}
	if err := s.sessions.AppendMessage(ctx, sessionID, assistantMsg); err != nil {
		return domain.Message{}, fmt.Errorf("store assistant message: %w", err)
	}
	return assistantMsg, nil
}

// auditPrompt renders the exact request content handed to the collaborator.
func auditPrompt(system string, history []domain.Turn, userMessage string) string {
	var b strings.Builder
	b.WriteString("=== SYSTEM INSTRUCTION ===\n")
	b.WriteString(system)
	b.WriteString("\n\n=== HISTORY ===\n")
	for _, t := range history {
		fmt.Fprintf(&b, "[%s] %s\n", t.Role, t.Content)
	}
	b.WriteString("\n=== USER MESSAGE ===\n")
	b.WriteString(userMessage)
	return b.String()
}
