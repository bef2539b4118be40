package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProcessNotFound signals a missing case file.
	ErrProcessNotFound = errors.New("process not found")
	// ErrSessionNotFound signals a missing chat session.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrTranscriptMissing signals that no transcript text is stored for the process.
	ErrTranscriptMissing = errors.New("transcript not available")
	// ErrMarkerUnconfigured signals that the process has no page marker, so
	// page lookup is impossible in principle. Distinct from a page that is
	// simply out of range.
	ErrMarkerUnconfigured = errors.New("page marker not configured")
	// ErrPageOutOfRange signals a page number outside the segmented transcript.
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrImportSource signals that a spreadsheet could not be read as tabular
	// data. No records are ingested for that import.
	ErrImportSource = errors.New("unreadable import source")
	// ErrChatProviderError signals a conversational provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
)

// PageOutOfRangeError wraps ErrPageOutOfRange with the highest valid page,
// so callers can tell the user how far the transcript actually goes.
type PageOutOfRangeError struct {
	Page    int
	MaxPage int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page %d not found in transcript (pages identified: %d)", e.Page, e.MaxPage)
}

func (e *PageOutOfRangeError) Unwrap() error { return ErrPageOutOfRange }

// NewPageOutOfRange creates a page out-of-range error.
func NewPageOutOfRange(page, maxPage int) error {
	return &PageOutOfRangeError{Page: page, MaxPage: maxPage}
}
