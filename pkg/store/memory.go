package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in memory. Records are copied on the way in and
// out, so callers cannot alias stored data.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return clone(rec), nil
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = clone(rec)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, clone(rec))
	}
	sortRecords(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func clone(rec *Record) *Record {
	c := *rec
	c.Data = slices.Clone(rec.Data)
	return &c
}

var _ Store = (*MemoryStore)(nil)
