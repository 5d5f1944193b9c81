package report

import (
	"sync"

	"github.com/shopspring/decimal"

	"stock_research/pkg/core/snapcache"
)

// Shaper turns a merged snapshot into the payload object embedded in a
// report prompt. Report types that want derived metrics instead of the raw
// endpoint dump register one here; dispatch is by report type, never a
// chain of string comparisons at the call site.
type Shaper func(m *snapcache.Merged) map[string]interface{}

var (
	shaperMu sync.RWMutex
	shapers  = map[Type]Shaper{}
)

// RegisterShaper installs the payload transform for a report type.
func RegisterShaper(t Type, s Shaper) {
	shaperMu.Lock()
	defer shaperMu.Unlock()
	shapers[t] = s
}

// ShapePayload applies the registered transform, or passes the full merged
// data through when the report type has none.
func ShapePayload(t Type, m *snapcache.Merged) map[string]interface{} {
	shaperMu.RLock()
	shaper, ok := shapers[t]
	shaperMu.RUnlock()
	if !ok {
		return m.Data
	}
	return shaper(m)
}

func init() {
	RegisterShaper(TypeUndervaluedAnalysis, undervaluedPayload)
	RegisterShaper(TypeBullVsBear, bullVsBearPayload)
}

// undervaluedPayload condenses the cached fundamentals into the valuation
// figures the undervalued-analysis prompt asks about.
func undervaluedPayload(m *snapcache.Merged) map[string]interface{} {
	profile := firstRow(m.Data["profile"])
	ratios := firstRow(m.Data["ratios"])
	income := firstRow(m.Data["income-statement"])

	metrics := map[string]interface{}{}

	if price, ok := dec(profile, "price"); ok {
		metrics["price"] = price.String()
	}
	if mktCap, ok := dec(profile, "mktCap"); ok {
		metrics["marketCap"] = mktCap.String()
	}
	if beta, ok := dec(profile, "beta"); ok {
		metrics["beta"] = beta.String()
	}

	if pe, ok := dec(ratios, "priceEarningsRatio"); ok {
		metrics["peRatio"] = pe.Round(2).String()
		if !pe.IsZero() {
			metrics["earningsYield"] = decimal.NewFromInt(1).Div(pe).Round(4).String()
		}
	}
	if pb, ok := dec(ratios, "priceToBookRatio"); ok {
		metrics["priceToBook"] = pb.Round(2).String()
	}
	if dy, ok := dec(ratios, "dividendYield"); ok {
		metrics["dividendYield"] = dy.Round(4).String()
	}
	if de, ok := dec(ratios, "debtEquityRatio"); ok {
		metrics["debtToEquity"] = de.Round(2).String()
	}

	revenue, hasRevenue := dec(income, "revenue")
	netIncome, hasNet := dec(income, "netIncome")
	if hasRevenue && hasNet && !revenue.IsZero() {
		metrics["netMargin"] = netIncome.Div(revenue).Round(4).String()
	}

	return map[string]interface{}{
		"profile": profile,
		"metrics": metrics,
	}
}

// bullVsBearPayload keeps the endpoints both sides of the debate actually
// cite and drops the rest of the cache.
func bullVsBearPayload(m *snapcache.Merged) map[string]interface{} {
	out := map[string]interface{}{}
	for _, id := range []string{"profile", "ratios", "grades", "analyst-estimates"} {
		if payload, ok := m.Data[id]; ok {
			out[id] = payload
		}
	}
	return out
}

// CompanyName pulls the display name from the cached profile, falling back
// to the ticker when the profile is absent.
func CompanyName(m *snapcache.Merged, fallback string) string {
	profile := firstRow(m.Data["profile"])
	if name, ok := profile["companyName"].(string); ok && name != "" {
		return name
	}
	return fallback
}

// firstRow normalizes a cached payload to a single object: arrays yield
// their first element, objects pass through, anything else is empty.
func firstRow(v interface{}) map[string]interface{} {
	switch payload := v.(type) {
	case []interface{}:
		if len(payload) > 0 {
			if row, ok := payload[0].(map[string]interface{}); ok {
				return row
			}
		}
	case map[string]interface{}:
		return payload
	}
	return map[string]interface{}{}
}

// dec reads a numeric field from a decoded JSON object. Providers are
// inconsistent about numbers vs numeric strings, so both are accepted.
func dec(row map[string]interface{}, key string) (decimal.Decimal, bool) {
	switch v := row[key].(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
