package snapcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newFileCache(t *testing.T) *Cache {
	t.Helper()
	return NewCache(nil, t.TempDir())
}

func TestRead_NilWhenNeverCached(t *testing.T) {
	c := newFileCache(t)
	merged, err := c.Read(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if merged != nil {
		t.Fatalf("expected nil for uncached symbol, got: %#v", merged)
	}
}

func TestPut_OverwritesSingleSnapshot(t *testing.T) {
	c := newFileCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "acme", "profile", []interface{}{map[string]interface{}{"v": 1.0}}); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	first, err := c.Timestamp(ctx, "ACME", "profile")
	if err != nil || first.IsZero() {
		t.Fatalf("expected timestamp after first put, got %v err %v", first, err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := c.Put(ctx, "ACME", "profile", []interface{}{map[string]interface{}{"v": 2.0}}); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	merged, err := c.Read(ctx, "ACME")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(merged.Data) != 1 {
		t.Fatalf("expected exactly one snapshot after overwrite, got %d", len(merged.Data))
	}

	second, _ := c.Timestamp(ctx, "ACME", "profile")
	if !second.After(first) {
		t.Errorf("overwrite timestamp %v not after original %v", second, first)
	}

	payload := merged.Data["profile"].([]interface{})[0].(map[string]interface{})
	if payload["v"] != 2.0 {
		t.Errorf("expected latest payload, got: %#v", payload)
	}
}

func TestRead_MaxTimestampAcrossEndpoints(t *testing.T) {
	c := newFileCache(t)
	ctx := context.Background()

	// Write in non-chronological endpoint order; the merged timestamp must
	// still be the max.
	var last time.Time
	for _, id := range []string{"ratios", "profile", "grades"} {
		if err := c.Put(ctx, "ACME", id, map[string]interface{}{"e": id}); err != nil {
			t.Fatalf("put %s failed: %v", id, err)
		}
		ts, _ := c.Timestamp(ctx, "ACME", id)
		if ts.After(last) {
			last = ts
		}
		time.Sleep(2 * time.Millisecond)
	}

	merged, err := c.Read(ctx, "ACME")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(merged.Data) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(merged.Data))
	}
	if !merged.CachedAt.Equal(last) {
		t.Errorf("merged timestamp %v, expected max %v", merged.CachedAt, last)
	}
}

func TestKeyedByName(t *testing.T) {
	m := &Merged{
		Symbol: "ACME",
		Data: map[string]interface{}{
			"profile": "p",
			"mystery": "m",
		},
	}
	named := m.KeyedByName(map[string]string{"profile": "Company Profile"})
	if named["Company Profile"] != "p" {
		t.Errorf("known id not renamed: %#v", named)
	}
	if named["Endpoint mystery"] != "m" {
		t.Errorf("unknown id should keep placeholder label: %#v", named)
	}
}

func TestTimestamp_MissIsZeroNotError(t *testing.T) {
	c := newFileCache(t)

	ts, err := c.Timestamp(context.Background(), "ACME", "profile")
	if err != nil {
		t.Fatalf("missing snapshot should not be an error, got %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("expected zero time for missing snapshot, got %v", ts)
	}
}

func TestTimestamp_CorruptSnapshotIsError(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(nil, dir)
	ctx := context.Background()

	if err := c.Put(ctx, "ACME", "profile", "p"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "ACME", "profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Timestamp(ctx, "ACME", "profile"); err == nil {
		t.Error("corrupt snapshot file should surface an error, not a zero-time miss")
	}
}

func TestSymbolsAreIsolated(t *testing.T) {
	c := newFileCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "ACME", "profile", "a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, "OTHER", "profile", "b"); err != nil {
		t.Fatal(err)
	}

	merged, err := c.Read(ctx, "ACME")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if merged.Data["profile"] != "a" {
		t.Errorf("cross-symbol contamination: %#v", merged.Data)
	}
}
