package order

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development
// when no order database is wired up.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[int64]Order
	notes  map[int64][]string
	meta   map[int64]map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: map[int64]Order{},
		notes:  map[int64][]string{},
		meta:   map[int64]map[string]string{},
	}
}

// Seed inserts or replaces an order record.
func (s *MemoryStore) Seed(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// GetOrder implements Store.
func (s *MemoryStore) GetOrder(_ context.Context, id int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// UpdateStatus implements Store.
func (s *MemoryStore) UpdateStatus(_ context.Context, id int64, status Status, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	s.orders[id] = o
	if note != "" {
		s.notes[id] = append(s.notes[id], note)
	}
	return nil
}

// AddNote implements Store.
func (s *MemoryStore) AddNote(_ context.Context, id int64, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	s.notes[id] = append(s.notes[id], note)
	return nil
}

// SetMeta implements Store.
func (s *MemoryStore) SetMeta(_ context.Context, id int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	m := s.meta[id]
	if m == nil {
		m = map[string]string{}
		s.meta[id] = m
	}
	m[key] = value
	return nil
}

// Notes returns a copy of the note log for an order.
func (s *MemoryStore) Notes(id int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notes[id]))
	copy(out, s.notes[id])
	return out
}

// Meta returns the stored metadata value for an order, if any.
func (s *MemoryStore) Meta(id int64, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.meta[id][key]
	return v, ok
}
