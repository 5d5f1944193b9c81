package league

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and database-less runs.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]WeekScore
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]WeekScore)}
}

func (s *MemoryStore) List(ctx context.Context) ([]WeekScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(WeekScore) bool { return true }), nil
}

func (s *MemoryStore) ListWeek(ctx context.Context, week int) ([]WeekScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(ws WeekScore) bool { return ws.Week == week }), nil
}

func (s *MemoryStore) collect(keep func(WeekScore) bool) []WeekScore {
	var scores []WeekScore
	for _, ws := range s.scores {
		if keep(ws) {
			scores = append(scores, ws)
		}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Week != scores[j].Week {
			return scores[i].Week < scores[j].Week
		}
		return scores[i].Player < scores[j].Player
	})
	return scores
}

func (s *MemoryStore) Save(ctx context.Context, ws WeekScore) (WeekScore, error) {
	ws, err := prepareSave(ws)
	if err != nil {
		return WeekScore{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[ws.ID] = ws
	return ws, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scores, id)
	return nil
}
