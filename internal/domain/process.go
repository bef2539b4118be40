package domain

import "time"

// Process is a case file: the owning entity for evidence and one transcript.
type Process struct {
	ID         int64
	Number     string
	Title      string
	PageMarker string
	CreatedAt  time.Time
}
