package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stock_research/pkg/core/llm"
	"stock_research/pkg/core/report"
	"stock_research/pkg/core/snapcache"
	"stock_research/pkg/core/utils"
)

// Handler holds dependencies for report generation and versioning.
type Handler struct {
	Pipeline *report.Pipeline
	Store    report.Store
	Cache    *snapcache.Cache
}

func NewHandler(pipeline *report.Pipeline, store report.Store, cache *snapcache.Cache) *Handler {
	return &Handler{Pipeline: pipeline, Store: store, Cache: cache}
}

type GenerateRequest struct {
	Ticker     string `json:"ticker"`
	ReportType string `json:"report_type"`
}

type GenerateResponse struct {
	Ticker     string      `json:"ticker"`
	ReportType report.Type `json:"report_type"`
	Content    string      `json:"content"`
}

// HandleGenerate serves POST /api/reports/generate. The result is returned
// to the caller only; nothing is stored until an explicit save.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reportType, err := report.ParseType(req.ReportType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	merged, err := h.Cache.Read(r.Context(), ticker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Printf("[REPORTS] Generating %s for %s\n", reportType, ticker)
	content, err := h.Pipeline.Generate(r.Context(), reportType, ticker, merged)
	if err != nil {
		status := http.StatusInternalServerError
		var terminated *llm.GenerationTerminatedError
		switch {
		case errors.Is(err, report.ErrNoData):
			status = http.StatusConflict
		case errors.Is(err, llm.ErrTimeout):
			status = http.StatusGatewayTimeout
		case errors.As(err, &terminated):
			status = http.StatusBadGateway
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GenerateResponse{
		Ticker:     ticker,
		ReportType: reportType,
		Content:    utils.CleanMarkdown(content),
	})
}

type SaveRequest struct {
	Ticker     string `json:"ticker"`
	ReportType string `json:"report_type"`
	Content    string `json:"content"`
}

// HandleSave serves POST /api/reports/save. Every save creates a new
// version; prior versions stay untouched.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reportType, err := report.ParseType(req.ReportType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" || strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Ticker and content are required", http.StatusBadRequest)
		return
	}

	content := utils.CleanMarkdown(req.Content)
	if !utils.ValidateMarkdown(content) {
		http.Error(w, "Content is not parseable markdown", http.StatusBadRequest)
		return
	}

	id, err := h.Store.Save(r.Context(), ticker, reportType, content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fmt.Printf("[REPORTS] Saved %s/%s as version %s\n", ticker, reportType, id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// HandleVersions serves GET /api/reports?ticker=X&type=Y, newest first. With
// &id=Z it returns that single version instead.
func (h *Handler) HandleVersions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	reportType, err := report.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		http.Error(w, "Ticker is required", http.StatusBadRequest)
		return
	}

	versions, err := h.Store.ListVersions(r.Context(), ticker, reportType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if id := r.URL.Query().Get("id"); id != "" {
		selected := report.SelectVersion(versions, id)
		if selected == nil {
			http.Error(w, fmt.Sprintf("Version not found: %s", id), http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(selected)
		return
	}
	json.NewEncoder(w).Encode(versions)
}

// HandleSessionLog serves /api/reports/session-log: GET lists the prompts
// and responses of this process, DELETE clears them.
func (h *Handler) HandleSessionLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Pipeline.SessionLog().Entries())
	case http.MethodDelete:
		h.Pipeline.SessionLog().Clear()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
