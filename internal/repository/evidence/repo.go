// Package evidence persists both evidence record variants as JSON blobs
// with per-process membership sets.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
	domev "github.com/docketlabs/docket/internal/domain/evidence"
)

// store is the consumer interface for evidence (ISP).
type store interface {
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	SetMulti(ctx context.Context, items []db.KVItem) error
	Incr(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the evidence repository over db.Store.
type Repo struct {
	store store
}

// New creates an evidence repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// InsertMapped assigns IDs and writes a whole import batch in one
// pipelined commit.
func (r *Repo) InsertMapped(ctx context.Context, records []domev.Mapped) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.KVItem, 0, len(records))
	members := make(map[int64][]string) // process id -> record ids
	for i := range records {
		id, err := r.store.Incr(ctx, seqKey(domev.SourceMapped))
		if err != nil {
			return fmt.Errorf("next mapped id: %w", err)
		}
		records[i].ID = id

		data, err := json.Marshal(mappedFromDomain(records[i]))
		if err != nil {
			return fmt.Errorf("marshal mapped %d: %w", id, err)
		}
		items = append(items, db.KVItem{Key: recordKey(domev.SourceMapped, id), Value: data})
		pid := records[i].ProcessID
		members[pid] = append(members[pid], strconv.FormatInt(id, 10))
	}

	if err := r.store.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("write mapped batch: %w", err)
	}
	for pid, ids := range members {
		if err := r.store.SAdd(ctx, membershipKey(pid, domev.SourceMapped), ids...); err != nil {
			return fmt.Errorf("register mapped batch: %w", err)
		}
	}
	return nil
}

// InsertCataloged assigns IDs and writes a whole import batch in one
// pipelined commit.
func (r *Repo) InsertCataloged(ctx context.Context, records []domev.Cataloged) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.KVItem, 0, len(records))
	members := make(map[int64][]string)
	for i := range records {
		id, err := r.store.Incr(ctx, seqKey(domev.SourceCataloged))
		if err != nil {
			return fmt.Errorf("next cataloged id: %w", err)
		}
		records[i].ID = id

		data, err := json.Marshal(catalogedFromDomain(records[i]))
		if err != nil {
			return fmt.Errorf("marshal cataloged %d: %w", id, err)
		}
		items = append(items, db.KVItem{Key: recordKey(domev.SourceCataloged, id), Value: data})
		pid := records[i].ProcessID
		members[pid] = append(members[pid], strconv.FormatInt(id, 10))
	}

	if err := r.store.SetMulti(ctx, items); err != nil {
		return fmt.Errorf("write cataloged batch: %w", err)
	}
	for pid, ids := range members {
		if err := r.store.SAdd(ctx, membershipKey(pid, domev.SourceCataloged), ids...); err != nil {
			return fmt.Errorf("register cataloged batch: %w", err)
		}
	}
	return nil
}

// ListMapped returns all mapped records of a process, ordered by ID so
// identical reads return identical sequences.
func (r *Repo) ListMapped(ctx context.Context, processID int64) ([]domev.Mapped, error) {
	values, err := r.fetch(ctx, processID, domev.SourceMapped)
	if err != nil {
		return nil, err
	}

	records := make([]domev.Mapped, 0, len(values))
	for _, raw := range values {
		var dto mappedDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal mapped record: %w", err)
		}
		records = append(records, mappedToDomain(dto))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// ListCataloged returns all cataloged records of a process, ordered by ID.
func (r *Repo) ListCataloged(ctx context.Context, processID int64) ([]domev.Cataloged, error) {
	values, err := r.fetch(ctx, processID, domev.SourceCataloged)
	if err != nil {
		return nil, err
	}

	records := make([]domev.Cataloged, 0, len(values))
	for _, raw := range values {
		var dto catalogedDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal cataloged record: %w", err)
		}
		records = append(records, catalogedToDomain(dto))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (r *Repo) fetch(ctx context.Context, processID int64, source domev.SourceType) ([][]byte, error) {
	members, err := r.store.SMembers(ctx, membershipKey(processID, source))
	if err != nil {
		return nil, fmt.Errorf("list %s ids: %w", source, err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		keys = append(keys, recordKey(source, id))
	}

	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget %s records: %w", source, err)
	}

	present := values[:0]
	for _, v := range values {
		if v != nil {
			present = append(present, v)
		}
	}
	return present, nil
}

func seqKey(source domev.SourceType) string {
	return fmt.Sprintf("%sseq:evidence:%s", domain.KeyPrefix, source)
}

func recordKey(source domev.SourceType, id int64) string {
	return fmt.Sprintf("%sevidence:%s:%d", domain.KeyPrefix, source, id)
}

func membershipKey(processID int64, source domev.SourceType) string {
	return fmt.Sprintf("%sprocess:%d:evidence:%s", domain.KeyPrefix, processID, source)
}
