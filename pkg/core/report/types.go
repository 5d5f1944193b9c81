// Package report generates narrative research reports from cached stock
// data and keeps every explicitly saved version.
package report

import (
	"fmt"
	"time"
)

// Type tags which narrative template produced a report.
type Type string

const (
	TypeFinancialAnalysis   Type = "FinancialAnalysis"
	TypeUndervaluedAnalysis Type = "UndervaluedAnalysis"
	TypeBullVsBear          Type = "BullVsBear"
	TypeLongFormArticle     Type = "LongFormArticle"
)

// PromptID maps a report type to its template in the prompt registry.
func (t Type) PromptID() string {
	switch t {
	case TypeFinancialAnalysis:
		return "report.financial_analysis"
	case TypeUndervaluedAnalysis:
		return "report.undervalued_analysis"
	case TypeBullVsBear:
		return "report.bull_vs_bear"
	case TypeLongFormArticle:
		return "report.long_form_article"
	default:
		return "report." + string(t)
	}
}

// ParseType validates a report type string coming from a request.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeFinancialAnalysis, TypeUndervaluedAnalysis, TypeBullVsBear, TypeLongFormArticle:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown report type: %s", s)
}

// GeneratedReport is one saved analysis document. Reports are immutable
// once saved; versions of the same (ticker, type) pair accumulate rather
// than overwrite.
type GeneratedReport struct {
	ID         string    `json:"id"`
	Ticker     string    `json:"ticker"`
	ReportType Type      `json:"report_type"`
	Content    string    `json:"content"`
	SavedAt    time.Time `json:"saved_at"`
}

// SelectVersion finds a report by ID in an already loaded version list.
// Pure lookup, no I/O.
func SelectVersion(reports []GeneratedReport, id string) *GeneratedReport {
	for i := range reports {
		if reports[i].ID == id {
			return &reports[i]
		}
	}
	return nil
}
