// Package memory implements the record store as a mutex-guarded in-process map.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/record"
)

// Store holds records keyed by content hash and remembers insertion order.
// A single RWMutex guards both; records are immutable, so List filters under the read lock.
type Store struct {
	mu         sync.RWMutex
	records    map[string]record.Record
	order      []string
	maxRecords int
}

// New creates an empty store.
func New() *Store {
	return &Store{records: make(map[string]record.Record)}
}

// WithMaxRecords caps the number of stored records. Zero or negative means unlimited.
func (s *Store) WithMaxRecords(n int) *Store {
	if n > 0 {
		s.maxRecords = n
	}
	return s
}

// Put stores r. Returns ErrAlreadyExists if a record with the same ID is present.
func (s *Store) Put(_ context.Context, r record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[r.ID()]; ok {
		return fmt.Errorf("put %s: %w", r.ID(), domain.ErrAlreadyExists)
	}
	if s.maxRecords > 0 && len(s.records) >= s.maxRecords {
		return fmt.Errorf("put %s: %w (max %d)", r.ID(), domain.ErrStoreFull, s.maxRecords)
	}
	s.records[r.ID()] = r
	s.order = append(s.order, r.ID())
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(_ context.Context, id string) (record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return record.Record{}, domain.ErrNotFound
	}
	return r, nil
}

// List returns records matching f in insertion order.
func (s *Store) List(_ context.Context, f filter.Set) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.Record, 0, len(s.order))
	for _, id := range s.order {
		r := s.records[id]
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Delete removes the record with the given ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ping always succeeds; it lets the store take part in health checks.
func (s *Store) Ping(_ context.Context) error {
	return nil
}
