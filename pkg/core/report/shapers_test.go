package report

import (
	"testing"

	"stock_research/pkg/core/snapcache"
)

func fundamentalsFixture() *snapcache.Merged {
	return &snapcache.Merged{
		Symbol: "ACME",
		Data: map[string]interface{}{
			"profile": []interface{}{map[string]interface{}{
				"companyName": "Acme Corp",
				"price":       50.0,
				"mktCap":      1000000.0,
			}},
			"ratios": []interface{}{map[string]interface{}{
				"priceEarningsRatio": 20.0,
				"priceToBookRatio":   2.5,
			}},
			"income-statement": []interface{}{map[string]interface{}{
				"revenue":   200.0,
				"netIncome": 50.0,
			}},
			"grades": []interface{}{map[string]interface{}{"grade": "Buy"}},
			"noise":  []interface{}{map[string]interface{}{"x": 1.0}},
		},
	}
}

func TestUndervaluedPayload(t *testing.T) {
	payload := ShapePayload(TypeUndervaluedAnalysis, fundamentalsFixture())
	metrics, ok := payload["metrics"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing metrics object: %#v", payload)
	}
	if metrics["peRatio"] != "20" {
		t.Errorf("peRatio = %v", metrics["peRatio"])
	}
	if metrics["earningsYield"] != "0.05" {
		t.Errorf("earningsYield = %v", metrics["earningsYield"])
	}
	if metrics["netMargin"] != "0.25" {
		t.Errorf("netMargin = %v", metrics["netMargin"])
	}
	if metrics["price"] != "50" {
		t.Errorf("price = %v", metrics["price"])
	}
}

func TestBullVsBearPayloadSubset(t *testing.T) {
	payload := ShapePayload(TypeBullVsBear, fundamentalsFixture())
	if _, ok := payload["grades"]; !ok {
		t.Error("grades should be kept")
	}
	if _, ok := payload["noise"]; ok {
		t.Error("unrelated endpoints should be dropped")
	}
	if _, ok := payload["analyst-estimates"]; ok {
		t.Error("absent endpoints must not be invented")
	}
}

func TestDefaultShaperPassesFullData(t *testing.T) {
	m := fundamentalsFixture()
	payload := ShapePayload(TypeFinancialAnalysis, m)
	if len(payload) != len(m.Data) {
		t.Errorf("default shaper should pass everything through, got %d of %d keys",
			len(payload), len(m.Data))
	}
}

func TestCompanyName(t *testing.T) {
	if got := CompanyName(fundamentalsFixture(), "ACME"); got != "Acme Corp" {
		t.Errorf("CompanyName = %q", got)
	}
	empty := &snapcache.Merged{Symbol: "X", Data: map[string]interface{}{}}
	if got := CompanyName(empty, "X"); got != "X" {
		t.Errorf("fallback CompanyName = %q", got)
	}
}

func TestDecHandlesStringsAndNumbers(t *testing.T) {
	row := map[string]interface{}{"a": 1.5, "b": "2.25", "c": "nope", "d": true}
	if v, ok := dec(row, "a"); !ok || v.String() != "1.5" {
		t.Errorf("float64: %v %v", v, ok)
	}
	if v, ok := dec(row, "b"); !ok || v.String() != "2.25" {
		t.Errorf("numeric string: %v %v", v, ok)
	}
	if _, ok := dec(row, "c"); ok {
		t.Error("non-numeric string accepted")
	}
	if _, ok := dec(row, "d"); ok {
		t.Error("bool accepted")
	}
	if _, ok := dec(row, "missing"); ok {
		t.Error("missing key accepted")
	}
}
