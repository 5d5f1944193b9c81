package utils

import (
	"strings"
	"testing"
)

func TestCleanMarkdown_StripsCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"markdown fence", "```markdown\n# Report\nBody\n```", "# Report\nBody"},
		{"bare fence", "```\n# Report\n```", "# Report"},
		{"no fence", "# Report\nBody", "# Report\nBody"},
		{"whitespace", "  \n# Report\n  ", "# Report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.input); got != tt.want {
				t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanMarkdown_DropsPreamble(t *testing.T) {
	input := "Here is the polished report you asked for:\n# Investment Thesis\nBody"
	got := CleanMarkdown(input)
	if !strings.HasPrefix(got, "# Investment Thesis") {
		t.Errorf("Expected preamble stripped, got %q", got)
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("# Heading\n\nSome **bold** text.") {
		t.Error("Expected plain markdown to validate")
	}
	if !ValidateMarkdown("") {
		t.Error("Goldmark accepts empty input")
	}
}

func TestLenientUnmarshal(t *testing.T) {
	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name  string
		input string
	}{
		{"strict json", `{"name": "quote", "count": 2}`},
		{"trailing comma", `{"name": "quote", "count": 2,}`},
		{"single quotes", `{'name': 'quote', 'count': 2}`},
		{"code fence", "```json\n{\"name\": \"quote\", \"count\": 2}\n```"},
		{"hjson comments", "{\n  # weekly quote endpoint\n  name: quote\n  count: 2\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d doc
			if err := LenientUnmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("LenientUnmarshal failed: %v", err)
			}
			if d.Name != "quote" || d.Count != 2 {
				t.Errorf("Unexpected decode result %+v", d)
			}
		})
	}
}

func TestLenientUnmarshal_Hopeless(t *testing.T) {
	var out map[string]interface{}
	if err := LenientUnmarshal([]byte("<html>not json</html>"), &out); err == nil {
		t.Error("Expected error for non-JSON input")
	}
}
