// Package process persists case files and their transcripts.
package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/domain"
)

// store is the consumer interface for case files (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Incr(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the process repository over db.Store.
type Repo struct {
	store store
}

// New creates a process repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type processDTO struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	Title      string    `json:"title"`
	PageMarker string    `json:"page_marker,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create assigns an ID and stores a new case file.
func (r *Repo) Create(ctx context.Context, p domain.Process) (domain.Process, error) {
	id, err := r.store.Incr(ctx, domain.KeyPrefix+"seq:process")
	if err != nil {
		return domain.Process{}, fmt.Errorf("next process id: %w", err)
	}
	p.ID = id
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(fromDomain(p))
	if err != nil {
		return domain.Process{}, fmt.Errorf("marshal process: %w", err)
	}
	if err := r.store.Set(ctx, processKey(id), data); err != nil {
		return domain.Process{}, fmt.Errorf("set %s: %w", processKey(id), err)
	}
	if err := r.store.SAdd(ctx, allKey(), strconv.FormatInt(id, 10)); err != nil {
		return domain.Process{}, fmt.Errorf("register process %d: %w", id, err)
	}
	return p, nil
}

// Get returns one case file.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Process, error) {
	raw, err := r.store.Get(ctx, processKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Process{}, domain.ErrProcessNotFound
		}
		return domain.Process{}, fmt.Errorf("get %s: %w", processKey(id), err)
	}

	var dto processDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.Process{}, fmt.Errorf("unmarshal process %d: %w", id, err)
	}
	return toDomain(dto), nil
}

// List returns all case files ordered by ID.
func (r *Repo) List(ctx context.Context) ([]domain.Process, error) {
	members, err := r.store.SMembers(ctx, allKey())
	if err != nil {
		return nil, fmt.Errorf("list process ids: %w", err)
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
		keys = append(keys, processKey(id))
	}

	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget processes: %w", err)
	}

	procs := make([]domain.Process, 0, len(values))
	for _, raw := range values {
		if raw == nil {
			continue
		}
		var dto processDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			continue
		}
		procs = append(procs, toDomain(dto))
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].ID < procs[j].ID })
	return procs, nil
}

// SetTranscript stores the transcript text of a case file and, when marker
// is non-empty, updates the page marker.
func (r *Repo) SetTranscript(ctx context.Context, id int64, text, marker string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, transcriptKey(id), []byte(text)); err != nil {
		return fmt.Errorf("set transcript %d: %w", id, err)
	}

	if marker != "" && marker != p.PageMarker {
		p.PageMarker = marker
		data, err := json.Marshal(fromDomain(p))
		if err != nil {
			return fmt.Errorf("marshal process: %w", err)
		}
		if err := r.store.Set(ctx, processKey(id), data); err != nil {
			return fmt.Errorf("update marker %d: %w", id, err)
		}
	}
	return nil
}

// GetTranscript returns the stored transcript text.
func (r *Repo) GetTranscript(ctx context.Context, id int64) (string, error) {
	raw, err := r.store.Get(ctx, transcriptKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrTranscriptMissing
		}
		return "", fmt.Errorf("get transcript %d: %w", id, err)
	}
	return string(raw), nil
}

func fromDomain(p domain.Process) processDTO {
	return processDTO{ID: p.ID, Number: p.Number, Title: p.Title, PageMarker: p.PageMarker, CreatedAt: p.CreatedAt}
}

func toDomain(dto processDTO) domain.Process {
	return domain.Process{ID: dto.ID, Number: dto.Number, Title: dto.Title, PageMarker: dto.PageMarker, CreatedAt: dto.CreatedAt}
}

func processKey(id int64) string {
	return fmt.Sprintf("%sprocess:%d", domain.KeyPrefix, id)
}

func transcriptKey(id int64) string {
	return fmt.Sprintf("%sprocess:%d:transcript", domain.KeyPrefix, id)
}

func allKey() string {
	return domain.KeyPrefix + "processes"
}
