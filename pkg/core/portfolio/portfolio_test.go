package portfolio

import (
	"context"
	"errors"
	"testing"
)

// MockRefresher records refresh calls.
type MockRefresher struct {
	RefreshFunc func(ctx context.Context, symbol string) (int, error)
	Calls       []string
}

func (m *MockRefresher) Refresh(ctx context.Context, symbol string) (int, error) {
	m.Calls = append(m.Calls, symbol)
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, symbol)
	}
	return 1, nil
}

func TestAdd_NewSymbolTriggersRefresh(t *testing.T) {
	refresher := &MockRefresher{}
	svc := NewService(NewMemoryStore(), refresher)

	saved, err := svc.Add(context.Background(), Entry{Symbol: "acme", Status: "watching"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if saved.Symbol != "ACME" {
		t.Errorf("Expected normalized symbol ACME, got %s", saved.Symbol)
	}
	if len(refresher.Calls) != 1 || refresher.Calls[0] != "ACME" {
		t.Errorf("Expected one refresh for ACME, got %v", refresher.Calls)
	}
}

func TestAdd_ExistingSymbolDoesNotRefresh(t *testing.T) {
	refresher := &MockRefresher{}
	svc := NewService(NewMemoryStore(), refresher)

	if _, err := svc.Add(context.Background(), Entry{Symbol: "ACME"}); err != nil {
		t.Fatalf("First Add failed: %v", err)
	}
	if _, err := svc.Add(context.Background(), Entry{Symbol: "ACME", Thesis: "updated"}); err != nil {
		t.Fatalf("Second Add failed: %v", err)
	}

	if len(refresher.Calls) != 1 {
		t.Errorf("Expected refresh only on first add, got %d calls", len(refresher.Calls))
	}

	got, err := svc.Get(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Thesis != "updated" {
		t.Errorf("Expected updated thesis to be stored, got %+v", got)
	}
}

func TestAdd_RefreshFailureDoesNotBlockSave(t *testing.T) {
	refresher := &MockRefresher{
		RefreshFunc: func(ctx context.Context, symbol string) (int, error) {
			return 0, errors.New("provider down")
		},
	}
	svc := NewService(NewMemoryStore(), refresher)

	if _, err := svc.Add(context.Background(), Entry{Symbol: "ACME"}); err != nil {
		t.Fatalf("Add should succeed despite refresh failure: %v", err)
	}

	got, err := svc.Get(context.Background(), "ACME")
	if err != nil || got == nil {
		t.Fatalf("Entry should be stored, got %+v err %v", got, err)
	}
}

func TestAdd_EmptySymbolRejected(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)

	_, err := svc.Add(context.Background(), Entry{Symbol: "  "})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for blank symbol, got %v", err)
	}
}

func TestSymbols_SortedForScheduler(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	for _, sym := range []string{"msft", "AAPL", "Nvda"} {
		if _, err := svc.Add(ctx, Entry{Symbol: sym}); err != nil {
			t.Fatalf("Add %s failed: %v", sym, err)
		}
	}

	symbols, err := store.Symbols(ctx)
	if err != nil {
		t.Fatalf("Symbols failed: %v", err)
	}
	want := []string{"AAPL", "MSFT", "NVDA"}
	if len(symbols) != len(want) {
		t.Fatalf("Expected %d symbols, got %v", len(want), symbols)
	}
	for i, sym := range want {
		if symbols[i] != sym {
			t.Errorf("Position %d: expected %s, got %s", i, sym, symbols[i])
		}
	}
}

func TestDelete_RemovesEntry(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)
	ctx := context.Background()

	if _, err := svc.Add(ctx, Entry{Symbol: "ACME"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Delete(ctx, "acme"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := svc.Get(ctx, "ACME")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected entry gone after delete, got %+v", got)
	}
}
