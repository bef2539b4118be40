package evidence

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
)

// Repository defines the read contract over both evidence collections.
type Repository interface {
	ListMapped(ctx context.Context, processID int64) ([]domev.Mapped, error)
	ListCataloged(ctx context.Context, processID int64) ([]domev.Cataloged, error)
}

// ProcessReader checks that the owning case file exists.
type ProcessReader interface {
	Get(ctx context.Context, id int64) (domain.Process, error)
}
