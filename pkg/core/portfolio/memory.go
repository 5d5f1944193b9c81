package portfolio

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store, used when no database is configured and
// in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Symbol < entries[j].Symbol })
	return entries, nil
}

func (s *MemoryStore) Get(ctx context.Context, symbol string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[symbol]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *MemoryStore) Save(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[e.Symbol]; ok {
		e.AddedAt = prev.AddedAt
	} else {
		e.AddedAt = time.Now()
	}
	s.entries[e.Symbol] = e
	return e, nil
}

func (s *MemoryStore) Delete(ctx context.Context, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, symbol)
	return nil
}

func (s *MemoryStore) Symbols(ctx context.Context) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
	}
	return symbols, nil
}
