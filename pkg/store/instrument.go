package store

import (
	"context"

	"github.com/matzehuels/knotedit/pkg/observability"
)

// instrumented reports every operation of a store to the observability hooks.
type instrumented struct {
	Store
	backend string
}

func instrument(backend string, s Store) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := s.Store.Get(ctx, id)
	observability.Store().OnGet(ctx, s.backend, id, rec != nil, err)
	return rec, err
}

func (s *instrumented) Put(ctx context.Context, rec *Record) error {
	err := s.Store.Put(ctx, rec)
	observability.Store().OnPut(ctx, s.backend, rec.ID, len(rec.Data), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnDelete(ctx, s.backend, id, err)
	return err
}
