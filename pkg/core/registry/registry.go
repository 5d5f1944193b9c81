// Package registry manages the user-editable list of financial data
// endpoints. Each definition is a named URL template; the refresh routine
// expands the template per symbol and caches whatever comes back.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks definitions that fail validation on save.
var ErrInvalid = errors.New("invalid endpoint definition")

// Definition is one configured external data source.
// URLTemplate may contain ${symbol} and ${apiKey} placeholders; a template
// without placeholders is legal and simply symbol independent.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URLTemplate string `json:"url_template"`
	UsageCount  int    `json:"usage_count"`
}

// URL expands the template for a concrete symbol and API key.
func (d Definition) URL(symbol, apiKey string) string {
	url := strings.ReplaceAll(d.URLTemplate, "${symbol}", symbol)
	return strings.ReplaceAll(url, "${apiKey}", apiKey)
}

// SlugFromName derives a stable identifier from a display name:
// lower-cased, whitespace runs collapsed to single hyphens.
func SlugFromName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}

// prepareSave applies the shared save semantics for both store
// implementations: new definitions require name and template and get a
// derived slug plus a zero usage counter; saves against an existing record
// are partial merges where empty fields keep the stored value.
func prepareSave(def Definition, existing *Definition) (Definition, error) {
	def.Name = strings.TrimSpace(def.Name)
	def.URLTemplate = strings.TrimSpace(def.URLTemplate)

	if existing != nil {
		merged := *existing
		if def.Name != "" {
			merged.Name = def.Name
		}
		if def.URLTemplate != "" {
			merged.URLTemplate = def.URLTemplate
		}
		return merged, nil
	}

	if def.Name == "" {
		return Definition{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if def.URLTemplate == "" {
		return Definition{}, fmt.Errorf("%w: url template is required", ErrInvalid)
	}
	if def.ID == "" {
		def.ID = SlugFromName(def.Name)
	}
	def.UsageCount = 0
	return def, nil
}
