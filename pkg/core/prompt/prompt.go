// Package prompt provides a centralized prompt library for LLM interactions.
// Prompts live in JSON files under resources/prompts and are loaded at
// runtime, so wording changes never require a rebuild.
package prompt

import "strings"

// Template is one reusable prompt with metadata.
type Template struct {
	ID           string     `json:"id"`       // e.g. "report.financial_analysis"
	Name         string     `json:"name"`     // Human-readable name
	Category     string     `json:"category"` // report, polish, ...
	Description  string     `json:"description"`
	SystemPrompt string     `json:"system_prompt"`
	UserPrompt   string     `json:"user_prompt"` // body with ${...} placeholders
	Variables    []Variable `json:"variables"`
	Version      string     `json:"version"`
}

// Variable documents one placeholder used by a template.
type Variable struct {
	Name        string `json:"name"` // e.g. "companyName"
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Fill substitutes every ${name} occurrence with its mapped value.
// Placeholders without a mapping are left in place so a missing substitution
// is visible instead of silently blank. Substitution is plain text
// replacement; nothing else in the template is touched.
func Fill(template string, subs map[string]string) string {
	out := template
	for name, value := range subs {
		out = strings.ReplaceAll(out, "${"+name+"}", value)
	}
	return out
}

// FillTemplate renders a template's user prompt with the given substitutions.
func (t *Template) FillTemplate(subs map[string]string) string {
	return Fill(t.UserPrompt, subs)
}
