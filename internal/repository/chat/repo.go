// Package chat persists sessions and their ordered message transcripts.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
)

// store is the consumer interface for chat persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Incr(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string) ([]string, error)
}

// Repo implements the chat repository over db.Store.
type Repo struct {
	store store
}

// New creates a chat repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type sessionDTO struct {
	ID        int64     `json:"id"`
	ProcessID int64     `json:"process_id"`
	Name      string    `json:"name"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}

type messageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession assigns an ID and stores a new session. The context text is
// written once here and never rewritten.
func (r *Repo) CreateSession(ctx context.Context, s domain.Session) (domain.Session, error) {
	id, err := r.store.Incr(ctx, domain.KeyPrefix+"seq:session")
	if err != nil {
		return domain.Session{}, fmt.Errorf("next session id: %w", err)
	}
	s.ID = id
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(sessionDTO{
		ID: s.ID, ProcessID: s.ProcessID, Name: s.Name, Context: s.Context, CreatedAt: s.CreatedAt,
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey(id), data); err != nil {
		return domain.Session{}, fmt.Errorf("set %s: %w", sessionKey(id), err)
	}
	if err := r.store.SAdd(ctx, processSessionsKey(s.ProcessID), strconv.FormatInt(id, 10)); err != nil {
		return domain.Session{}, fmt.Errorf("register session %d: %w", id, err)
	}
	return s, nil
}

// GetSession returns one session.
func (r *Repo) GetSession(ctx context.Context, id int64) (domain.Session, error) {
	raw, err := r.store.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("get session %d: %w", id, err)
	}

	var dto sessionDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session %d: %w", id, err)
	}
	return toSession(dto), nil
}

// ListSessions returns a process's sessions, newest first.
func (r *Repo) ListSessions(ctx context.Context, processID int64) ([]domain.Session, error) {
	members, err := r.store.SMembers(ctx, processSessionsKey(processID))
	if err != nil {
		return nil, fmt.Errorf("list session ids: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, sessionKey(id))
	}

	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(values))
	for _, raw := range values {
		if raw == nil {
			continue
		}
		var dto sessionDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			continue
		}
		sessions = append(sessions, toSession(dto))
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID > sessions[j].ID })
	return sessions, nil
}

// AppendMessage appends one turn to the session transcript.
func (r *Repo) AppendMessage(ctx context.Context, sessionID int64, m domain.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(messageDTO{Role: string(m.Role), Content: m.Content, CreatedAt: m.CreatedAt})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := r.store.RPush(ctx, messagesKey(sessionID), string(data)); err != nil {
		return fmt.Errorf("append message to session %d: %w", sessionID, err)
	}
	return nil
}

// ListMessages returns the session transcript in insertion order.
func (r *Repo) ListMessages(ctx context.Context, sessionID int64) ([]domain.Message, error) {
	values, err := r.store.LRange(ctx, messagesKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list messages of session %d: %w", sessionID, err)
	}

	msgs := make([]domain.Message, 0, len(values))
	for _, raw := range values {
		var dto messageDTO
		if err := json.Unmarshal([]byte(raw), &dto); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		msgs = append(msgs, domain.Message{Role: domain.Role(dto.Role), Content: dto.Content, CreatedAt: dto.CreatedAt})
	}
	return msgs, nil
}

func toSession(dto sessionDTO) domain.Session {
	return domain.Session{ID: dto.ID, ProcessID: dto.ProcessID, Name: dto.Name, Context: dto.Context, CreatedAt: dto.CreatedAt}
}

func sessionKey(id int64) string {
	return fmt.Sprintf("%ssession:%d", domain.KeyPrefix, id)
}

func processSessionsKey(processID int64) string {
	return fmt.Sprintf("%sprocess:%d:sessions", domain.KeyPrefix, processID)
}

func messagesKey(sessionID int64) string {
	return fmt.Sprintf("%ssession:%d:messages", domain.KeyPrefix, sessionID)
}
