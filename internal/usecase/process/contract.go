package process

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
)

// Repository defines the storage contract for case files.
type Repository interface {
	Create(ctx context.Context, p domain.Process) (domain.Process, error)
	Get(ctx context.Context, id int64) (domain.Process, error)
	List(ctx context.Context) ([]domain.Process, error)
	SetTranscript(ctx context.Context, id int64, text, marker string) error
}
