package refresh

import "fmt"

// DefaultBaseURL is the financial data provider's API root.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Builtin is one of the fixed endpoints fetched ahead of the user-defined
// registry. The provider splits its API across two URL conventions, so each
// built-in declares whether the symbol rides in the path or the query string.
type Builtin struct {
	ID          string `yaml:"id"`
	Path        string `yaml:"path"`
	QuerySymbol bool   `yaml:"query_symbol"`
	// Gated endpoints are subject to the plan-tier predicate and may be
	// skipped per symbol.
	Gated bool `yaml:"gated"`
}

// URL builds the fetch URL for a symbol under either convention.
func (b Builtin) URL(baseURL, symbol, apiKey string) string {
	if b.QuerySymbol {
		return fmt.Sprintf("%s/%s?symbol=%s&apikey=%s", baseURL, b.Path, symbol, apiKey)
	}
	return fmt.Sprintf("%s/%s/%s?apikey=%s", baseURL, b.Path, symbol, apiKey)
}

// DefaultBuiltins mirrors the provider's core fundamentals set.
func DefaultBuiltins() []Builtin {
	return []Builtin{
		{ID: "profile", Path: "profile"},
		{ID: "income-statement", Path: "income-statement"},
		{ID: "balance-sheet-statement", Path: "balance-sheet-statement"},
		{ID: "cash-flow-statement", Path: "cash-flow-statement"},
		{ID: "ratios", Path: "ratios"},
		{ID: "grades", Path: "grades", QuerySymbol: true},
		{ID: "analyst-estimates", Path: "analyst-estimates", QuerySymbol: true},
		{ID: "executive-compensation", Path: "governance/executive_compensation", QuerySymbol: true, Gated: true},
	}
}
