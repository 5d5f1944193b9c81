package reports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock_research/pkg/core/report"
	"stock_research/pkg/core/snapcache"
)

func newTestHandler(t *testing.T) (*Handler, report.Store) {
	t.Helper()
	store := report.NewMemoryStore()
	cache := snapcache.NewCache(nil, t.TempDir())
	return NewHandler(report.NewPipeline(nil), store, cache), store
}

func TestHandleSave_CleansFencedMarkdown(t *testing.T) {
	h, store := newTestHandler(t)

	body := `{"ticker": "acme", "report_type": "FinancialAnalysis",
		"content": "` + "```markdown\\n# Thesis\\nBody\\n```" + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/save", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	versions, err := store.ListVersions(req.Context(), "ACME", report.TypeFinancialAnalysis)
	if err != nil || len(versions) != 1 {
		t.Fatalf("expected one saved version, got %v err %v", versions, err)
	}
	if versions[0].Content != "# Thesis\nBody" {
		t.Errorf("fence should be stripped before save, got %q", versions[0].Content)
	}
}

func TestHandleSave_RejectsUnknownType(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"ticker": "ACME", "report_type": "Sonnet", "content": "# x"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/save", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown report type, got %d", rec.Code)
	}
}

func TestHandleVersions_Preflight(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/reports?ticker=ACME&type=BullVsBear", nil)
	rec := httptest.NewRecorder()
	h.HandleVersions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", rec.Code)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "GET") {
		t.Errorf("preflight should advertise GET, got %q", methods)
	}
}
