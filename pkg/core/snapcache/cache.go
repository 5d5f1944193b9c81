// Package snapcache stores the last fetched payload for every
// (symbol, endpoint) pair and assembles the merged per-symbol view the UI
// and the report pipeline read from.
package snapcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Snapshot is the stored result of fetching one endpoint for one symbol.
// Data is whatever JSON the provider returned, object or array.
type Snapshot struct {
	Symbol     string      `json:"symbol"`
	EndpointID string      `json:"endpoint_id"`
	CachedAt   time.Time   `json:"cached_at"`
	Data       interface{} `json:"data"`
}

// Merged is the aggregate view of all cached snapshots for one symbol.
// CachedAt is the most recent timestamp across the constituents, so callers
// can show staleness.
type Merged struct {
	Symbol   string                 `json:"symbol"`
	Data     map[string]interface{} `json:"data"`
	CachedAt time.Time              `json:"cached_at"`
}

// KeyedByName re-keys the merged data by display name using the supplied
// id -> name mapping. Identifiers with no known name keep a placeholder
// label so the payload is never silently dropped.
func (m *Merged) KeyedByName(names map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m.Data))
	for id, payload := range m.Data {
		name, ok := names[id]
		if !ok || name == "" {
			name = fmt.Sprintf("Endpoint %s", id)
		}
		out[name] = payload
	}
	return out
}

// Cache persists snapshots. Hybrid storage: DB when a pool is supplied,
// otherwise a local JSON file tree (one directory per symbol).
type Cache struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewCache creates a snapshot cache. If pool is nil it falls back to a
// file-based cache in dir; an empty dir defaults to .cache/snapshots.
func NewCache(pool *pgxpool.Pool, dir string) *Cache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "snapshots")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check snapshot cache dir: %v\n", err)
		}
	}
	return &Cache{pool: pool, fileDir: dir}
}

// Put overwrites the snapshot for (symbol, endpointID) with the given
// payload and the current timestamp. Last write wins; there is no
// versioning at this layer.
func (c *Cache) Put(ctx context.Context, symbol, endpointID string, data interface{}) error {
	snap := Snapshot{
		Symbol:     strings.ToUpper(symbol),
		EndpointID: endpointID,
		CachedAt:   time.Now(),
		Data:       data,
	}

	if c.pool != nil {
		dataJSON, err := json.Marshal(snap.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot payload: %w", err)
		}
		_, err = c.pool.Exec(ctx, `
			INSERT INTO stock_cache (symbol, endpoint_id, cached_at, data)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (symbol, endpoint_id)
			DO UPDATE SET cached_at = EXCLUDED.cached_at, data = EXCLUDED.data
		`, snap.Symbol, snap.EndpointID, snap.CachedAt, dataJSON)
		if err != nil {
			return fmt.Errorf("failed to save snapshot to db: %w", err)
		}
		return nil
	}

	dir := filepath.Join(c.fileDir, snap.Symbol)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create symbol cache dir: %w", err)
	}
	fileBytes, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(c.snapshotPath(snap.Symbol, snap.EndpointID), fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to save snapshot to file: %w", err)
	}
	return nil
}

// Read assembles the merged view for a symbol. Returns nil when the symbol
// has never been cached; that is distinct from cached-but-empty payloads.
func (c *Cache) Read(ctx context.Context, symbol string) (*Merged, error) {
	symbol = strings.ToUpper(symbol)

	if c.pool != nil {
		return c.readFromDB(ctx, symbol)
	}
	return c.readFromFiles(symbol)
}

func (c *Cache) readFromDB(ctx context.Context, symbol string) (*Merged, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT endpoint_id, cached_at, data FROM stock_cache WHERE symbol = $1`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache for %s: %w", symbol, err)
	}
	defer rows.Close()

	merged := &Merged{Symbol: symbol, Data: make(map[string]interface{})}
	for rows.Next() {
		var (
			endpointID string
			cachedAt   time.Time
			dataJSON   []byte
		)
		if err := rows.Scan(&endpointID, &cachedAt, &dataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var payload interface{}
		if err := json.Unmarshal(dataJSON, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached payload for %s/%s: %w", symbol, endpointID, err)
		}
		merged.Data[endpointID] = payload
		if cachedAt.After(merged.CachedAt) {
			merged.CachedAt = cachedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(merged.Data) == 0 {
		return nil, nil
	}
	return merged, nil
}

func (c *Cache) readFromFiles(symbol string) (*Merged, error) {
	dir := filepath.Join(c.fileDir, symbol)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil // never cached
	}

	merged := &Merged{Symbol: symbol, Data: make(map[string]interface{})}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		fileBytes, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(fileBytes, &snap); err != nil {
			continue
		}
		merged.Data[snap.EndpointID] = snap.Data
		if snap.CachedAt.After(merged.CachedAt) {
			merged.CachedAt = snap.CachedAt
		}
	}
	if len(merged.Data) == 0 {
		return nil, nil
	}
	return merged, nil
}

// Timestamp returns the stored fetch time for one (symbol, endpoint) pair.
// The zero time means no snapshot exists; a failed lookup is an error, not a
// miss.
func (c *Cache) Timestamp(ctx context.Context, symbol, endpointID string) (time.Time, error) {
	symbol = strings.ToUpper(symbol)

	if c.pool != nil {
		var cachedAt time.Time
		err := c.pool.QueryRow(ctx,
			`SELECT cached_at FROM stock_cache WHERE symbol = $1 AND endpoint_id = $2`,
			symbol, endpointID).Scan(&cachedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to read timestamp for %s/%s: %w", symbol, endpointID, err)
		}
		return cachedAt, nil
	}

	fileBytes, err := os.ReadFile(c.snapshotPath(symbol, endpointID))
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot file for %s/%s: %w", symbol, endpointID, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(fileBytes, &snap); err != nil {
		return time.Time{}, fmt.Errorf("corrupt snapshot file for %s/%s: %w", symbol, endpointID, err)
	}
	return snap.CachedAt, nil
}

func (c *Cache) snapshotPath(symbol, endpointID string) string {
	// Slashes would escape the cache tree
	safe := strings.ReplaceAll(endpointID, string(filepath.Separator), "_")
	return filepath.Join(c.fileDir, symbol, safe+".json")
}
