package transcript

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
)

// Repository reads case files and their stored transcripts.
type Repository interface {
	Get(ctx context.Context, id int64) (domain.Process, error)
	GetTranscript(ctx context.Context, id int64) (string, error)
}
