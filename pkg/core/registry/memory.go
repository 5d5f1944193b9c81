package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store with in-memory storage for development and
// testing.
type MemoryStore struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{defs: make(map[string]Definition)}
}

func (s *MemoryStore) List(ctx context.Context) ([]Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := make([]Definition, 0, len(s.defs))
	for _, d := range s.defs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Name != defs[j].Name {
			return defs[i].Name < defs[j].Name
		}
		return defs[i].ID < defs[j].ID
	})
	return defs, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.defs[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (s *MemoryStore) Save(ctx context.Context, def Definition) (Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *Definition
	if def.ID != "" {
		if d, ok := s.defs[def.ID]; ok {
			existing = &d
		}
	}

	prepared, err := prepareSave(def, existing)
	if err != nil {
		return Definition{}, err
	}
	s.defs[prepared.ID] = prepared
	return prepared, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.defs, id)
	return nil
}

func (s *MemoryStore) IncrementUsage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.defs[id]; ok {
		d.UsageCount++
		s.defs[id] = d
	}
	return nil
}
