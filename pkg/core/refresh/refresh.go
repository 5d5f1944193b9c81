// Package refresh implements the per-symbol data refresh routine: walk the
// built-in endpoints and the user registry, fetch each one, and cache
// whatever came back. One bad endpoint never blocks the rest.
package refresh

import (
	"context"
	"errors"
	"fmt"

	"stock_research/pkg/core/registry"
)

// ErrMissingAPIKey is returned before any network activity when the
// financial data provider key is not configured.
var ErrMissingAPIKey = errors.New("financial data API key is not configured")

// Fetcher issues one GET and returns the decoded JSON payload.
type Fetcher interface {
	Get(ctx context.Context, url string) (interface{}, error)
}

// SnapshotWriter persists one endpoint payload for a symbol.
type SnapshotWriter interface {
	Put(ctx context.Context, symbol, endpointID string, data interface{}) error
}

// GatePredicate reports whether a gated built-in applies to a symbol.
// Plan-tier gating is a business rule, so it is injected, not hard coded.
type GatePredicate func(endpointID, symbol string) bool

// Routine drives one refresh run. Endpoints are fetched strictly
// sequentially; each cache write is an independent last-write-wins upsert.
type Routine struct {
	registry registry.Store
	cache    SnapshotWriter
	fetcher  Fetcher
	apiKey   string
	baseURL  string
	builtins []Builtin
	gate     GatePredicate
}

func NewRoutine(reg registry.Store, cache SnapshotWriter, fetcher Fetcher, apiKey string) *Routine {
	return &Routine{
		registry: reg,
		cache:    cache,
		fetcher:  fetcher,
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		builtins: DefaultBuiltins(),
	}
}

// SetBuiltins replaces the fixed endpoint set (pass nil to fetch only the
// user registry).
func (r *Routine) SetBuiltins(builtins []Builtin) {
	r.builtins = builtins
}

// SetGate installs the plan-tier predicate for gated built-ins.
func (r *Routine) SetGate(gate GatePredicate) {
	r.gate = gate
}

func (r *Routine) SetBaseURL(baseURL string) {
	r.baseURL = baseURL
}

// Refresh fetches every configured endpoint for one symbol and returns the
// number of endpoints successfully cached this run. Per-endpoint failures
// and empty payloads are logged and skipped; partial cache population beats
// none.
func (r *Routine) Refresh(ctx context.Context, symbol string) (int, error) {
	if r.apiKey == "" {
		return 0, ErrMissingAPIKey
	}

	count := 0

	for _, b := range r.builtins {
		if b.Gated && r.gate != nil && !r.gate(b.ID, symbol) {
			fmt.Printf("[REFRESH] Skipping %s for %s (not available on this plan)\n", b.ID, symbol)
			continue
		}
		if r.fetchAndStore(ctx, symbol, b.ID, b.URL(r.baseURL, symbol, r.apiKey)) {
			count++
		}
	}

	defs, err := r.registry.List(ctx)
	if err != nil {
		return count, fmt.Errorf("failed to read endpoint registry: %w", err)
	}

	for _, def := range defs {
		if !r.fetchAndStore(ctx, symbol, def.ID, def.URL(symbol, r.apiKey)) {
			continue
		}
		count++
		if err := r.registry.IncrementUsage(ctx, def.ID); err != nil {
			fmt.Printf("[REFRESH] Warning: failed to bump usage for %s: %v\n", def.ID, err)
		}
	}

	fmt.Printf("[REFRESH] %s: cached %d endpoints\n", symbol, count)
	return count, nil
}

func (r *Routine) fetchAndStore(ctx context.Context, symbol, endpointID, url string) bool {
	payload, err := r.fetcher.Get(ctx, url)
	if err != nil {
		fmt.Printf("[REFRESH] Warning: %s fetch failed for %s: %v. Skipping.\n", endpointID, symbol, err)
		return false
	}
	if isEmptyPayload(payload) {
		fmt.Printf("[REFRESH] Warning: %s returned no data for %s. Skipping.\n", endpointID, symbol)
		return false
	}
	if err := r.cache.Put(ctx, symbol, endpointID, payload); err != nil {
		fmt.Printf("[REFRESH] Warning: failed to cache %s for %s: %v. Skipping.\n", endpointID, symbol, err)
		return false
	}
	return true
}

// isEmptyPayload reports payloads that succeeded at the HTTP layer but carry
// nothing usable: empty arrays are the provider's way of saying "no data for
// this symbol".
func isEmptyPayload(v interface{}) bool {
	switch payload := v.(type) {
	case nil:
		return true
	case []interface{}:
		return len(payload) == 0
	case map[string]interface{}:
		return len(payload) == 0
	case string:
		return payload == ""
	default:
		return false
	}
}
