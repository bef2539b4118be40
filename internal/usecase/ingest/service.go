// Package ingest imports spreadsheet exports into canonical evidence
// records. One import is one atomic unit: a source that cannot be read as
// tabular data ingests zero records, while row-level anomalies are absorbed
// by the normalizer and never abort the rest of the batch.
package ingest

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
	"github.com/docketlabs/docket/internal/etl"
	"github.com/docketlabs/docket/internal/metrics"
)

// Service handles evidence spreadsheet imports.
type Service struct {
	repo   Repository
	procs  ProcessReader
	logger *zap.Logger
}

// New creates an ingest service.
func New(repo Repository, procs ProcessReader, logger *zap.Logger) *Service {
	return &Service{repo: repo, procs: procs, logger: logger}
}

// Result reports what one import call did.
type Result struct {
	Variant  domev.SourceType
	Rows     int
	Ingested int
}

// Import reads a tabular source and commits all normalized records of the
// requested variant in one batch.
func (s *Service) Import(
	ctx context.Context, processID int64, variant domev.SourceType, src io.Reader, format etl.Format,
) (Result, error) {
	if _, err := s.procs.Get(ctx, processID); err != nil {
		return Result{}, fmt.Errorf("get process: %w", err)
	}

	table, err := etl.ReadTable(src, format)
	if err != nil {
		metrics.IngestImportsTotal.WithLabelValues(string(variant), "source_error").Inc()
		return Result{}, fmt.Errorf("read import source: %w", err)
	}

	res := Result{Variant: variant, Rows: len(table.Rows)}

	switch variant {
	case domev.SourceMapped:
		records := make([]domev.Mapped, 0, len(table.Rows))
		for _, row := range table.Rows {
			records = append(records, etl.NormalizeMappedRow(processID, row))
		}
		if err := s.repo.InsertMapped(ctx, records); err != nil {
			metrics.IngestImportsTotal.WithLabelValues(string(variant), "store_error").Inc()
			return Result{}, fmt.Errorf("commit mapped batch: %w", err)
		}
		res.Ingested = len(records)

	case domev.SourceCataloged:
		records := make([]domev.Cataloged, 0, len(table.Rows))
		for _, row := range table.Rows {
			records = append(records, etl.NormalizeCatalogedRow(processID, row))
		}
		if err := s.repo.InsertCataloged(ctx, records); err != nil {
			metrics.IngestImportsTotal.WithLabelValues(string(variant), "store_error").Inc()
			return Result{}, fmt.Errorf("commit cataloged batch: %w", err)
		}
		res.Ingested = len(records)

	default:
		return Result{}, fmt.Errorf("unknown evidence variant %q: %w", variant, domain.ErrInvalidInput)
	}

	metrics.IngestImportsTotal.WithLabelValues(string(variant), "success").Inc()
	metrics.IngestRowsTotal.WithLabelValues(string(variant)).Add(float64(res.Ingested))

	s.logger.Info("evidence import committed",
		zap.Int64("process_id", processID),
		zap.String("variant", string(variant)),
		zap.Int("rows", res.Rows),
		zap.Int("ingested", res.Ingested),
	)
	return res, nil
}
