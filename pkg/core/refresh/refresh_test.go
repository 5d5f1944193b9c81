package refresh

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"stock_research/pkg/core/registry"
	"stock_research/pkg/core/snapcache"
)

// --- Mocks ---

type MockFetcher struct {
	GetFunc func(ctx context.Context, url string) (interface{}, error)
	URLs    []string
}

func (m *MockFetcher) Get(ctx context.Context, url string) (interface{}, error) {
	m.URLs = append(m.URLs, url)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, url)
	}
	return []interface{}{map[string]interface{}{"ok": true}}, nil
}

type RecordingWriter struct {
	mu    sync.Mutex
	Puts  map[string]interface{} // "SYMBOL/endpoint" -> payload
	Fail  map[string]bool
	Count int
}

func NewRecordingWriter() *RecordingWriter {
	return &RecordingWriter{Puts: make(map[string]interface{}), Fail: make(map[string]bool)}
}

func (w *RecordingWriter) Put(ctx context.Context, symbol, endpointID string, data interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	key := symbol + "/" + endpointID
	if w.Fail[key] {
		return fmt.Errorf("write rejected for %s", key)
	}
	w.Puts[key] = data
	w.Count++
	return nil
}

func newRegistry(t *testing.T, defs ...registry.Definition) registry.Store {
	t.Helper()
	s := registry.NewMemoryStore()
	for _, d := range defs {
		if _, err := s.Save(context.Background(), d); err != nil {
			t.Fatalf("seed registry: %v", err)
		}
	}
	return s
}

// --- Tests ---

func TestRefresh_MissingAPIKey(t *testing.T) {
	r := NewRoutine(newRegistry(t), NewRecordingWriter(), &MockFetcher{}, "")
	_, err := r.Refresh(context.Background(), "ACME")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got: %v", err)
	}
}

func TestRefresh_EndToEndURLSubstitution(t *testing.T) {
	reg := newRegistry(t, registry.Definition{
		Name:        "profile",
		URLTemplate: "https://api.example.com/profile/${symbol}?apikey=${apiKey}",
	})
	cache := snapcache.NewCache(nil, t.TempDir())
	fetcher := &MockFetcher{
		GetFunc: func(ctx context.Context, url string) (interface{}, error) {
			return []interface{}{map[string]interface{}{"symbol": "ACME", "companyName": "Acme Corp"}}, nil
		},
	}

	r := NewRoutine(reg, cache, fetcher, "KEY1")
	r.SetBuiltins(nil) // registry only for this scenario

	count, err := r.Refresh(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 successful fetch, got %d", count)
	}
	if len(fetcher.URLs) != 1 || fetcher.URLs[0] != "https://api.example.com/profile/ACME?apikey=KEY1" {
		t.Fatalf("unexpected fetch URLs: %v", fetcher.URLs)
	}

	merged, err := cache.Read(context.Background(), "ACME")
	if err != nil || merged == nil {
		t.Fatalf("expected cached snapshot, got %v err %v", merged, err)
	}
	row := merged.Data["profile"].([]interface{})[0].(map[string]interface{})
	if row["companyName"] != "Acme Corp" {
		t.Errorf("unexpected cached payload: %#v", row)
	}
	if merged.CachedAt.IsZero() {
		t.Error("merged snapshot missing cache timestamp")
	}
}

func TestRefresh_PartialFailureIsolation(t *testing.T) {
	// Five endpoints, one always throws: the run must cache the other four
	// and report four.
	var defs []registry.Definition
	for i := 1; i <= 5; i++ {
		defs = append(defs, registry.Definition{
			Name:        fmt.Sprintf("ep%d", i),
			URLTemplate: fmt.Sprintf("https://x/ep%d/${symbol}", i),
		})
	}
	reg := newRegistry(t, defs...)
	writer := NewRecordingWriter()
	fetcher := &MockFetcher{
		GetFunc: func(ctx context.Context, url string) (interface{}, error) {
			if strings.Contains(url, "ep3") {
				return nil, errors.New("provider outage")
			}
			return []interface{}{map[string]interface{}{"ok": true}}, nil
		},
	}

	r := NewRoutine(reg, writer, fetcher, "KEY1")
	r.SetBuiltins(nil)

	count, err := r.Refresh(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("refresh should tolerate per-endpoint failures: %v", err)
	}
	if count != 4 {
		t.Errorf("expected 4 successes, got %d", count)
	}
	if writer.Count != 4 {
		t.Errorf("expected 4 cache writes, got %d", writer.Count)
	}
	if _, ok := writer.Puts["ACME/ep3"]; ok {
		t.Error("failing endpoint must not be cached")
	}
}

func TestRefresh_EmptyPayloadSkipped(t *testing.T) {
	reg := newRegistry(t,
		registry.Definition{Name: "empty", URLTemplate: "https://x/empty/${symbol}"},
		registry.Definition{Name: "full", URLTemplate: "https://x/full/${symbol}"},
	)
	writer := NewRecordingWriter()
	fetcher := &MockFetcher{
		GetFunc: func(ctx context.Context, url string) (interface{}, error) {
			if strings.Contains(url, "empty") {
				return []interface{}{}, nil
			}
			return []interface{}{map[string]interface{}{"ok": true}}, nil
		},
	}

	r := NewRoutine(reg, writer, fetcher, "KEY1")
	r.SetBuiltins(nil)

	count, err := r.Refresh(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if count != 1 {
		t.Errorf("empty payload should not count as a success, got %d", count)
	}
	if _, ok := writer.Puts["ACME/empty"]; ok {
		t.Error("empty payload must not be cached")
	}
}

func TestRefresh_UsageCounterOnlyOnSuccess(t *testing.T) {
	reg := newRegistry(t,
		registry.Definition{Name: "good", URLTemplate: "https://x/good/${symbol}"},
		registry.Definition{Name: "bad", URLTemplate: "https://x/bad/${symbol}"},
	)
	fetcher := &MockFetcher{
		GetFunc: func(ctx context.Context, url string) (interface{}, error) {
			if strings.Contains(url, "bad") {
				return nil, errors.New("boom")
			}
			return map[string]interface{}{"ok": true}, nil
		},
	}

	r := NewRoutine(reg, NewRecordingWriter(), fetcher, "KEY1")
	r.SetBuiltins(nil)
	if _, err := r.Refresh(context.Background(), "ACME"); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	good, _ := reg.Get(context.Background(), "good")
	bad, _ := reg.Get(context.Background(), "bad")
	if good.UsageCount != 1 {
		t.Errorf("successful endpoint usage = %d, expected 1", good.UsageCount)
	}
	if bad.UsageCount != 0 {
		t.Errorf("failed endpoint usage = %d, expected 0", bad.UsageCount)
	}
}

func TestRefresh_BuiltinsAndGating(t *testing.T) {
	writer := NewRecordingWriter()
	fetcher := &MockFetcher{}

	r := NewRoutine(newRegistry(t), writer, fetcher, "KEY1")
	r.SetBaseURL("https://api.example.com/v3")
	r.SetBuiltins([]Builtin{
		{ID: "profile", Path: "profile"},
		{ID: "grades", Path: "grades", QuerySymbol: true},
		{ID: "executive-compensation", Path: "governance/executive_compensation", QuerySymbol: true, Gated: true},
	})
	r.SetGate(func(endpointID, symbol string) bool {
		return symbol == "BIGCO"
	})

	count, err := r.Refresh(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if count != 2 {
		t.Errorf("gated endpoint should be skipped for ACME, got %d successes", count)
	}
	if len(fetcher.URLs) != 2 {
		t.Fatalf("expected 2 fetches, got %v", fetcher.URLs)
	}
	if fetcher.URLs[0] != "https://api.example.com/v3/profile/ACME?apikey=KEY1" {
		t.Errorf("path convention URL wrong: %s", fetcher.URLs[0])
	}
	if fetcher.URLs[1] != "https://api.example.com/v3/grades?symbol=ACME&apikey=KEY1" {
		t.Errorf("query convention URL wrong: %s", fetcher.URLs[1])
	}

	fetcher.URLs = nil
	count, err = r.Refresh(context.Background(), "BIGCO")
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if count != 3 {
		t.Errorf("gate should admit BIGCO, got %d successes", count)
	}
}

func TestIsEmptyPayload(t *testing.T) {
	tests := []struct {
		name  string
		in    interface{}
		empty bool
	}{
		{"nil", nil, true},
		{"empty array", []interface{}{}, true},
		{"empty object", map[string]interface{}{}, true},
		{"empty string", "", true},
		{"array with row", []interface{}{1.0}, false},
		{"object with field", map[string]interface{}{"a": 1.0}, false},
		{"number", 3.14, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isEmptyPayload(tc.in); got != tc.empty {
				t.Errorf("isEmptyPayload(%#v) = %v, expected %v", tc.in, got, tc.empty)
			}
		})
	}
}
