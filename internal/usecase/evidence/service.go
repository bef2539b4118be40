// Package evidence serves the unified read-only view over both evidence
// record shapes. The two collections only share a projection, not a
// schema, so listing filters each collection independently, projects the
// survivors, concatenates and then sorts; there is no single query that
// could produce the merged sequence.
package evidence

import (
	"context"
	"fmt"
	"sort"

	domev "github.com/docketlabs/docket/internal/domain/evidence"
)

// Service handles unified evidence queries.
type Service struct {
	repo  Repository
	procs ProcessReader
}

// New creates an evidence query service.
func New(repo Repository, procs ProcessReader) *Service {
	return &Service{repo: repo, procs: procs}
}

// List returns the page-ordered unified evidence sequence of a process.
// The sort is stable with an absent page start treated as 0, so page-less
// evidence sorts first and equal pages keep collection order.
func (s *Service) List(ctx context.Context, processID int64, f domev.Filter) ([]domev.Unified, error) {
	if _, err := s.procs.Get(ctx, processID); err != nil {
		return nil, fmt.Errorf("get process: %w", err)
	}

	mapped, err := s.repo.ListMapped(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("list mapped evidence: %w", err)
	}
	cataloged, err := s.repo.ListCataloged(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("list cataloged evidence: %w", err)
	}

	unified := make([]domev.Unified, 0, len(mapped)+len(cataloged))
	for _, m := range mapped {
		if f.MatchesMapped(m) {
			unified = append(unified, m.Unify())
		}
	}
	for _, c := range cataloged {
		if f.MatchesCataloged(c) {
			unified = append(unified, c.Unify())
		}
	}

	sort.SliceStable(unified, func(i, j int) bool {
		return pageOrZero(unified[i].PageStart) < pageOrZero(unified[j].PageStart)
	})
	return unified, nil
}

// DistinctKinds returns the sorted union of evidence categories across both
// collections. Blank kinds are excluded.
func (s *Service) DistinctKinds(ctx context.Context, processID int64) ([]string, error) {
	if _, err := s.procs.Get(ctx, processID); err != nil {
		return nil, fmt.Errorf("get process: %w", err)
	}

	mapped, err := s.repo.ListMapped(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("list mapped evidence: %w", err)
	}
	cataloged, err := s.repo.ListCataloged(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("list cataloged evidence: %w", err)
	}

	seen := make(map[string]bool)
	for _, m := range mapped {
		if m.Kind != "" {
			seen[m.Kind] = true
		}
	}
	for _, c := range cataloged {
		if c.Kind != "" {
			seen[c.Kind] = true
		}
	}

	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds, nil
}

func pageOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
