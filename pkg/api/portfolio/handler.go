package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stock_research/pkg/core/portfolio"
)

// Handler holds dependencies for the portfolio endpoints.
type Handler struct {
	Service *portfolio.Service
}

func NewHandler(service *portfolio.Service) *Handler {
	return &Handler{Service: service}
}

// HandlePortfolio serves /api/portfolio: GET lists, POST adds or updates.
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entries, err := h.Service.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)

	case http.MethodPost:
		var entry portfolio.Entry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		saved, err := h.Service.Add(r.Context(), entry)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, portfolio.ErrInvalid) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(saved)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleEntry serves /api/portfolio/{symbol}: GET reads, DELETE stops
// tracking. Cached data for the symbol is kept.
func (h *Handler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	symbol := strings.TrimPrefix(r.URL.Path, "/api/portfolio/")
	if symbol == "" {
		http.Error(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := h.Service.Get(r.Context(), symbol)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entry == nil {
			http.Error(w, fmt.Sprintf("Not tracked: %s", strings.ToUpper(symbol)), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entry)

	case http.MethodDelete:
		if err := h.Service.Delete(r.Context(), symbol); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
