package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown normalizes raw LLM report output before it is saved or
// exported. Models often wrap the whole report in a code fence or lead with
// a conversational line; both are stripped here.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	// Strip an outer ```markdown ... ``` fence, or a bare ``` fence.
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	// Drop a leading "Here is the report:" style preamble when the real
	// content starts at the next heading.
	if idx := strings.Index(cleaned, "\n#"); idx > 0 {
		firstLine := strings.ToLower(strings.TrimSpace(cleaned[:idx]))
		if strings.HasPrefix(firstLine, "here is") || strings.HasPrefix(firstLine, "here's") ||
			strings.HasPrefix(firstLine, "below is") {
			cleaned = strings.TrimSpace(cleaned[idx:])
		}
	}

	return cleaned
}

// ValidateMarkdown reports whether the string parses as Markdown. Goldmark
// accepts nearly anything, so this only catches pathological output.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
