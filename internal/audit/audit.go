// Package audit persists the exact prompt/response pair of each
// collaborator turn, one file per turn, for later review. Content is the
// contract; the surrounding format is incidental.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// FileRecorder writes one audit file per collaborator turn.
type FileRecorder struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewFileRecorder creates a recorder writing into dir, creating it if
// needed.
func NewFileRecorder(dir string, logger *zap.Logger) (*FileRecorder, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &FileRecorder{dir: dir, logger: logger, now: time.Now}, nil
}

// Record writes the prompt/response pair. Audit failures are logged, never
// propagated: a broken audit disk must not break the conversation.
func (r *FileRecorder) Record(sessionID int64, prompt, response string) {
	name := fmt.Sprintf("prompt_session_%d_%s.txt", sessionID, r.now().UTC().Format("20060102_150405.000000000"))
	path := filepath.Join(r.dir, name)

	content := "=== PROMPT ===\n" + prompt + "\n\n=== RESPONSE ===\n" + response + "\n"
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		r.logger.Error("audit record write failed", zap.String("path", path), zap.Error(err))
		return
	}

	r.logger.Info("collaborator turn audited",
		zap.Int64("session_id", sessionID),
		zap.String("path", path),
	)
}

// Nop is an AuditRecorder that discards records (tests, audit disabled).
type Nop struct{}

// Record discards the pair.
func (Nop) Record(int64, string, string) {}
