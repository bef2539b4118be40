package chat

import (
	"context"
	"sync"

	"github.com/docketlabs/docket/internal/db"
)

// fakeStore is an in-memory stand-in for the consumer store interface.
type fakeStore struct {
	mu       sync.Mutex
	kv       map[string][]byte
	sets     map[string]map[string]bool
	lists    map[string][]string
	counters map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		kv:       make(map[string][]byte),
		sets:     make(map[string]map[string]bool),
		lists:    make(map[string][]string),
		counters: make(map[string]int64),
	}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) GetMulti(_ context.Context, keys []string) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = f.kv[k]
	}
	return values, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kv[key] = value
	return nil
}

func (f *fakeStore) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeStore) SAdd(_ context.Context, key string, members ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := f.sets[key]
	if set == nil {
		set = make(map[string]bool)
		f.sets[key] = set
	}
	for _, m := range members {
		set[m] = true
	}
	return nil
}

func (f *fakeStore) SMembers(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []string
	for m := range f.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

func (f *fakeStore) RPush(_ context.Context, key string, values ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[key] = append(f.lists[key], values...)
	return nil
}

func (f *fakeStore) LRange(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lists[key]...), nil
}
