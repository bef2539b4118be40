package chat

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
)

// SessionRepository defines the storage contract for sessions and their
// message transcripts.
type SessionRepository interface {
	CreateSession(ctx context.Context, s domain.Session) (domain.Session, error)
	GetSession(ctx context.Context, id int64) (domain.Session, error)
	ListSessions(ctx context.Context, processID int64) ([]domain.Session, error)
	AppendMessage(ctx context.Context, sessionID int64, m domain.Message) error
	ListMessages(ctx context.Context, sessionID int64) ([]domain.Message, error)
}

// ProcessReader reads case files and their transcripts for context assembly.
type ProcessReader interface {
	Get(ctx context.Context, id int64) (domain.Process, error)
	GetTranscript(ctx context.Context, id int64) (string, error)
}

// Completer is the external conversational collaborator. A failure comes
// back as an explicit error result; the service decides what to do with it.
type Completer interface {
	Complete(ctx context.Context, systemInstruction string, history []domain.Turn, userMessage string) (string, error)
}

// AuditRecorder persists the exact prompt/response pair of each
// collaborator turn.
type AuditRecorder interface {
	Record(sessionID int64, prompt, response string)
}
