package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		subs     map[string]string
		expected string
	}{
		{
			"basic substitution",
			"Analyze ${companyName} (${ticker}).",
			map[string]string{"companyName": "Acme Corp", "ticker": "ACME"},
			"Analyze Acme Corp (ACME).",
		},
		{
			"repeated placeholder",
			"${ticker} and again ${ticker}",
			map[string]string{"ticker": "ACME"},
			"ACME and again ACME",
		},
		{
			"unmapped placeholder stays visible",
			"Data: ${jsonData}",
			map[string]string{"ticker": "ACME"},
			"Data: ${jsonData}",
		},
		{
			"no placeholders",
			"static text",
			map[string]string{"ticker": "ACME"},
			"static text",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fill(tc.template, tc.subs); got != tc.expected {
				t.Errorf("Fill() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestLoadFromDirectory(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "prompts", "report")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"name": "Financial Analysis", "user_prompt": "Analyze ${ticker}."}`
	if err := os.WriteFile(filepath.Join(dir, "financial_analysis.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	Get().Clear()
	if err := LoadFromDirectory(base); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	pt, err := Get().GetPrompt("report.financial_analysis")
	if err != nil {
		t.Fatalf("derived ID lookup failed: %v", err)
	}
	if pt.Category != "report" {
		t.Errorf("category = %q, expected report", pt.Category)
	}
	if got := pt.FillTemplate(map[string]string{"ticker": "ACME"}); got != "Analyze ACME." {
		t.Errorf("FillTemplate = %q", got)
	}
}
