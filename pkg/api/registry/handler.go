package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stock_research/pkg/core/registry"
)

// Handler holds dependencies for the endpoint registry CRUD.
type Handler struct {
	Store registry.Store
}

func NewHandler(store registry.Store) *Handler {
	return &Handler{Store: store}
}

// HandleEndpoints serves /api/endpoints: GET lists, POST creates or updates.
func (h *Handler) HandleEndpoints(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		defs, err := h.Store.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(defs)

	case http.MethodPost:
		var def registry.Definition
		if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		saved, err := h.Store.Save(r.Context(), def)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, registry.ErrInvalid) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		fmt.Printf("[REGISTRY] Saved endpoint %s\n", saved.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(saved)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleEndpoint serves /api/endpoints/{id}: GET reads, DELETE removes.
func (h *Handler) HandleEndpoint(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/endpoints/")
	if id == "" {
		http.Error(w, "Endpoint id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		def, err := h.Store.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if def == nil {
			http.Error(w, fmt.Sprintf("Endpoint not found: %s", id), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(def)

	case http.MethodDelete:
		if err := h.Store.Delete(r.Context(), id); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fmt.Printf("[REGISTRY] Deleted endpoint %s\n", id)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
