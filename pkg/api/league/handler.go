package league

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"stock_research/pkg/core/league"
)

// Handler holds dependencies for the word game league grid.
type Handler struct {
	Store league.Store
}

func NewHandler(store league.Store) *Handler {
	return &Handler{Store: store}
}

// HandleScores serves /api/league/scores: GET lists (optionally ?week=N),
// POST creates or updates a score.
func (h *Handler) HandleScores(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var scores []league.WeekScore
		var err error
		if weekParam := r.URL.Query().Get("week"); weekParam != "" {
			week, convErr := strconv.Atoi(weekParam)
			if convErr != nil {
				http.Error(w, "Invalid week parameter", http.StatusBadRequest)
				return
			}
			scores, err = h.Store.ListWeek(r.Context(), week)
		} else {
			scores, err = h.Store.List(r.Context())
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(scores)

	case http.MethodPost:
		var score league.WeekScore
		if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		saved, err := h.Store.Save(r.Context(), score)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, league.ErrInvalid) {
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

// HandleScore serves DELETE /api/league/scores/{id}.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/league/scores/")
	if id == "" {
		http.Error(w, "Score id is required", http.StatusBadRequest)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
