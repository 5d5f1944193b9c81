// Package portfolio tracks the user's tickers and the metadata attached to
// them. Adding an entry is what first populates the data cache for its
// symbol.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid marks entries that fail validation on save.
var ErrInvalid = errors.New("invalid portfolio entry")

// Entry is one tracked ticker. Symbol is the identity; everything else is
// user metadata.
type Entry struct {
	Symbol   string    `json:"symbol"`
	Status   string    `json:"status"` // e.g. "watching", "owned"
	Sector   string    `json:"sector"`
	Industry string    `json:"industry"`
	Thesis   string    `json:"thesis"` // free text
	AddedAt  time.Time `json:"added_at"`
}

// Store is the persistence contract for portfolio entries.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, symbol string) (*Entry, error)
	Save(ctx context.Context, e Entry) (Entry, error)
	Delete(ctx context.Context, symbol string) error
	// Symbols lists tracked symbols, for the refresh scheduler.
	Symbols(ctx context.Context) ([]string, error)
}

// Refresher triggers a cache population run for one symbol.
type Refresher interface {
	Refresh(ctx context.Context, symbol string) (int, error)
}

// Service wraps a Store and kicks off the first refresh when a new symbol
// appears.
type Service struct {
	store     Store
	refresher Refresher
}

func NewService(store Store, refresher Refresher) *Service {
	return &Service{store: store, refresher: refresher}
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, symbol string) (*Entry, error) {
	return s.store.Get(ctx, normalize(symbol))
}

// Add saves the entry and, for symbols not seen before, runs an initial
// refresh. The refresh is best effort: a provider outage must not block
// tracking the ticker.
func (s *Service) Add(ctx context.Context, e Entry) (Entry, error) {
	e.Symbol = normalize(e.Symbol)
	if e.Symbol == "" {
		return Entry{}, fmt.Errorf("%w: symbol is required", ErrInvalid)
	}

	existing, err := s.store.Get(ctx, e.Symbol)
	if err != nil {
		return Entry{}, err
	}

	saved, err := s.store.Save(ctx, e)
	if err != nil {
		return Entry{}, err
	}

	if existing == nil && s.refresher != nil {
		count, err := s.refresher.Refresh(ctx, saved.Symbol)
		if err != nil {
			fmt.Printf("[PORTFOLIO] Initial refresh failed for %s: %v\n", saved.Symbol, err)
		} else {
			fmt.Printf("[PORTFOLIO] Initial refresh for %s cached %d endpoints\n", saved.Symbol, count)
		}
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, symbol string) error {
	return s.store.Delete(ctx, normalize(symbol))
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
