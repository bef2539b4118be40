package chat

import (
	"context"
	"sync"

	"github.com/docketlabs/docket/internal/domain"
)

// fakeSessions is an in-memory SessionRepository.
type fakeSessions struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]domain.Session
	messages map[int64][]domain.Message

	createErr error
	appendErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions: make(map[int64]domain.Session),
		messages: make(map[int64][]domain.Message),
	}
}

func (f *fakeSessions) CreateSession(_ context.Context, s domain.Session) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Session{}, f.createErr
	}
	f.nextID++
	s.ID = f.nextID
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeSessions) GetSession(_ context.Context, id int64) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessions) ListSessions(_ context.Context, processID int64) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Session
	for _, s := range f.sessions {
		if s.ProcessID == processID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessions) AppendMessage(_ context.Context, sessionID int64, m domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages[sessionID] = append(f.messages[sessionID], m)
	return nil
}

func (f *fakeSessions) ListMessages(_ context.Context, sessionID int64) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.messages[sessionID]...), nil
}

// fakeProcs is a ProcessReader with canned results.
type fakeProcs struct {
	proc          domain.Process
	procErr       error
	transcript    string
	transcriptErr error
}

func (f *fakeProcs) Get(_ context.Context, id int64) (domain.Process, error) {
	if f.procErr != nil {
		return domain.Process{}, f.procErr
	}
	p := f.proc
	p.ID = id
	return p, nil
}

func (f *fakeProcs) GetTranscript(_ context.Context, _ int64) (string, error) {
	if f.transcriptErr != nil {
		return "", f.transcriptErr
	}
	return f.transcript, nil
}

// fakeCompleter records calls and replies with canned output.
type fakeCompleter struct {
	reply string
	err   error

	calls       int
	lastSystem  string
	lastHistory []domain.Turn
	lastMessage string
}

func (f *fakeCompleter) Complete(
	_ context.Context, system string, history []domain.Turn, userMessage string,
) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastHistory = append([]domain.Turn(nil), history...)
	f.lastMessage = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeAudit records the last recorded pair.
type fakeAudit struct {
	calls        int
	lastSession  int64
	lastPrompt   string
	lastResponse string
}

func (f *fakeAudit) Record(sessionID int64, prompt, response string) {
	f.calls++
	f.lastSession = sessionID
	f.lastPrompt = prompt
	f.lastResponse = response
}
