// Package process manages case files and their transcripts.
package process

import (
	"context"
	"fmt"
	"strings"

	"github.com/docketlabs/docket/internal/domain"
)

// Service handles case file lifecycle.
type Service struct {
	repo Repository
}

// New creates a process service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new case file. The page marker may be empty; page
// lookup stays unavailable until one is configured.
func (s *Service) Create(ctx context.Context, number, title, pageMarker string) (domain.Process, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return domain.Process{}, fmt.Errorf("process number is required: %w", domain.ErrInvalidInput)
	}

	p, err := s.repo.Create(ctx, domain.Process{
		Number:     number,
		Title:      strings.TrimSpace(title),
		PageMarker: pageMarker,
	})
	if err != nil {
		return domain.Process{}, fmt.Errorf("create process: %w", err)
	}
	return p, nil
}

// Get returns one case file.
func (s *Service) Get(ctx context.Context, id int64) (domain.Process, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Process{}, fmt.Errorf("get process: %w", err)
	}
	return p, nil
}

// List returns all case files.
func (s *Service) List(ctx context.Context) ([]domain.Process, error) {
	procs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return procs, nil
}

// SetTranscript stores transcript text for a case file, optionally updating
// the page marker in the same call.
func (s *Service) SetTranscript(ctx context.Context, id int64, text, marker string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("transcript text is required: %w", domain.ErrInvalidInput)
	}
	if err := s.repo.SetTranscript(ctx, id, text, marker); err != nil {
		return fmt.Errorf("set transcript: %w", err)
	}
	return nil
}
