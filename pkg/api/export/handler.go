package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"stock_research/pkg/core/driveexport"
	"stock_research/pkg/core/report"
	"stock_research/pkg/core/utils"
)

// Handler holds dependencies for the Drive export endpoint.
type Handler struct {
	Exporter   *driveexport.Exporter
	Store      report.Store
	FolderName string
}

func NewHandler(exporter *driveexport.Exporter, store report.Store, folderName string) *Handler {
	if folderName == "" {
		folderName = "Research Reports"
	}
	return &Handler{Exporter: exporter, Store: store, FolderName: folderName}
}

type ExportRequest struct {
	Ticker     string `json:"ticker"`
	ReportType string `json:"report_type"`
	VersionID  string `json:"version_id"` // empty means latest
}

// HandleExport serves POST /api/export: upload a saved report version to
// Google Drive as markdown.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if h.Exporter == nil {
		http.Error(w, "Drive export is not configured", http.StatusServiceUnavailable)
		return
	}

	var req ExportRequest
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

	versions, err := h.Store.ListVersions(r.Context(), ticker, reportType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(versions) == 0 {
		http.Error(w, fmt.Sprintf("No saved reports for %s/%s", ticker, reportType), http.StatusNotFound)
		return
	}

	selected := &versions[0]
	if req.VersionID != "" {
		selected = report.SelectVersion(versions, req.VersionID)
		if selected == nil {
			http.Error(w, fmt.Sprintf("Version not found: %s", req.VersionID), http.StatusNotFound)
			return
		}
	}

	content := selected.Content
	// Saved reports may carry rendered HTML from the dashboard editor.
	if strings.Contains(content, "<") && strings.Contains(content, ">") {
		if stripped, err := driveexport.StripHTML(content); err == nil && stripped != "" {
			content = stripped
		}
	}
	content = utils.CleanMarkdown(content)

	fileID, err := h.Exporter.Export(r.Context(), h.FolderName, ticker, string(reportType), content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"file_id": fileID})
}
