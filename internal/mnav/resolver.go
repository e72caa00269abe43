// Package mnav implements the Modified Net Asset Value valuation engine.
//
// mNAV is commonly used for valuing REITs, asset managers, and other
// companies with significant tangible assets:
//
//	mNAV = (Fair Value of Assets - Liabilities - Minority Interest) / Shares Outstanding
package mnav

import (
	"math"
	"strings"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// keyVariants generates the ordered spelling variants tried against a
// balance sheet. Data sources disagree on key naming (snake_case,
// Title Case, no separators, casing), so all schema tolerance lives here.
var keyVariants = []func(string) string{
	func(k string) string { return k },
	strings.ToLower,
	strings.ToUpper,
	func(k string) string { return strings.ReplaceAll(k, "_", "") },
	titleWithSpaces,
}

// titleWithSpaces converts "total_assets" to "Total Assets".
func titleWithSpaces(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, " ")
}

// Resolve looks up a canonical field name in a balance sheet snapshot,
// trying each key spelling variant in priority order. The first present,
// usable value wins. Missing fields return def rather than an error:
// partial balance sheet data still produces a best-effort valuation, and
// callers needing strict validation must sanity-check all-zero results
// themselves.
func Resolve(snapshot models.BalanceSheetSnapshot, canonical string, def float64) float64 {
	for _, variant := range keyVariants {
		key := variant(canonical)
		value, ok := snapshot.Fields[key]
		if !ok {
			continue
		}
		if math.IsNaN(value) {
			return def
		}
		return value
	}
	return def
}

// ResolveAll resolves a set of canonical names against a snapshot, returning
// the values and how many were actually found. The count lets callers gauge
// how much of the sheet was usable without changing the degradation policy.
func ResolveAll(snapshot models.BalanceSheetSnapshot, canonicals []string) (map[string]float64, int) {
	values := make(map[string]float64, len(canonicals))
	resolved := 0

	for _, name := range canonicals {
		missing := math.NaN()
		v := Resolve(snapshot, name, missing)
		if math.IsNaN(v) {
			values[name] = 0
			continue
		}
		values[name] = v
		resolved++
	}

	return values, resolved
}
