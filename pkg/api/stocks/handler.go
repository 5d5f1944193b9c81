package stocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stock_research/pkg/core/refresh"
	"stock_research/pkg/core/registry"
	"stock_research/pkg/core/snapcache"
)

// Handler holds dependencies for the stock data endpoints.
type Handler struct {
	Routine *refresh.Routine
	Cache   *snapcache.Cache
	Store   registry.Store
}

func NewHandler(routine *refresh.Routine, cache *snapcache.Cache, store registry.Store) *Handler {
	return &Handler{Routine: routine, Cache: cache, Store: store}
}

type RefreshRequest struct {
	Symbol string `json:"symbol"`
}

type RefreshResponse struct {
	Symbol    string `json:"symbol"`
	Refreshed int    `json:"refreshed"`
}

// HandleRefresh serves POST /api/stocks/refresh: re-fetch every endpoint for
// one symbol.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	fmt.Printf("[STOCKS] Refresh requested for %s\n", symbol)
	count, err := h.Routine.Refresh(r.Context(), symbol)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, refresh.ErrMissingAPIKey) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RefreshResponse{Symbol: symbol, Refreshed: count})
}

// HandleSnapshot serves GET /api/stocks/{symbol}: the merged cached view of
// one symbol. With ?keyed=name the payload is keyed by endpoint display name
// instead of endpoint id.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	symbol := strings.TrimPrefix(r.URL.Path, "/api/stocks/")
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	merged, err := h.Cache.Read(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if merged == nil {
		http.Error(w, fmt.Sprintf("No cached data for %s", strings.ToUpper(symbol)), http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("keyed") == "name" {
		names := make(map[string]string)
		if defs, err := h.Store.List(r.Context()); err == nil {
			for _, d := range defs {
				names[d.ID] = d.Name
			}
		}
		merged.Data = merged.KeyedByName(names)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(merged)
}
