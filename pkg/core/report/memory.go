package report

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory storage for development and
// testing.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []GeneratedReport
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, ticker string, reportType Type, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := GeneratedReport{
		ID:         uuid.NewString(),
		Ticker:     ticker,
		ReportType: reportType,
		Content:    content,
		SavedAt:    time.Now(),
	}
	s.reports = append(s.reports, r)
	return r.ID, nil
}

func (s *MemoryStore) ListVersions(ctx context.Context, ticker string, reportType Type) ([]GeneratedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []GeneratedReport
	for _, r := range s.reports {
		if r.Ticker == ticker && r.ReportType == reportType {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}
