// Package transcript serves page lookups over a case file's transcript.
// The three failure conditions (transcript missing, marker unconfigured,
// page out of range) are distinct typed outcomes and are never substituted
// for one another.
package transcript

import (
	"context"
	"fmt"

	domtr "github.com/docketlabs/docket/internal/domain/transcript"
)

// Service handles transcript page lookups.
type Service struct {
	repo Repository
}

// New creates a transcript service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetPage returns the text of the 1-based page pageNum of a process's
// transcript.
func (s *Service) GetPage(ctx context.Context, processID int64, pageNum int) (string, error) {
	p, err := s.repo.Get(ctx, processID)
	if err != nil {
		return "", fmt.Errorf("get process: %w", err)
	}

	text, err := s.repo.GetTranscript(ctx, processID)
	if err != nil {
		return "", fmt.Errorf("get transcript: %w", err)
	}

	doc := domtr.Document{FullText: text, Marker: p.PageMarker}
	page, err := doc.Page(pageNum)
	if err != nil {
		return "", err
	}
	return page, nil
}
