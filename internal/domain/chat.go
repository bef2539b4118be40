package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is a chat conversation over one case file. The context is
// assembled exactly once when the session is created and never changes
// afterwards.
type Session struct {
	ID        int64
	ProcessID int64
	Name      string
	Context   string
	CreatedAt time.Time
}

// Message is one turn in a session transcript.
type Message struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}

// Turn is a (role, text) pair of prior history handed to the
// conversational provider.
type Turn struct {
	Role    Role
	Content string
}

// SelectedEvidence is one evidence item chosen by the caller to seed a
// session's context. Only the fields the context builder needs are carried.
type SelectedEvidence struct {
	Kind      string
	Summary   string
	Reference string
	PageStart *int
}
