package ingest

import (
	"context"

	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
)

// Repository defines the batch-insert contract for evidence records.
type Repository interface {
	InsertMapped(ctx context.Context, records []domev.Mapped) error
	InsertCataloged(ctx context.Context, records []domev.Cataloged) error
}

// ProcessReader checks that the owning case file exists.
type ProcessReader interface {
	Get(ctx context.Context, id int64) (domain.Process, error)
}
