package market

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// Sample data generation for offline operation. Output is deterministic
// per symbol so repeated runs and tests see identical series.

const (
	sampleBaseVolume     = 1_000_000
	sampleSharesStanding = 10_000_000
)

func sampleSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64() & math.MaxInt64)
}

// GenerateSampleData builds a full synthetic dataset for a symbol
func GenerateSampleData(symbol string, lookbackDays int) *models.MarketData {
	now := time.Now().UTC()
	return &models.MarketData{
		Symbol:        symbol,
		Profile:       sampleProfile(symbol, now),
		EOD:           GenerateSampleBars(symbol, lookbackDays),
		BalanceSheets: []models.BalanceSheetSnapshot{sampleBalanceSheet(now)},
		Source:        "sample",
		LastUpdated:   now,
	}
}

// GenerateSampleBars produces a random-walk daily series over business
// days, most recent first, seeded by the symbol.
func GenerateSampleBars(symbol string, lookbackDays int) []models.EODBar {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}

	rng := rand.New(rand.NewSource(sampleSeed(symbol)))

	// Start somewhere in the 20..120 range so per-symbol series differ
	price := 20.0 + rng.Float64()*100.0

	start := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	var bars []models.EODBar

	for d := start; !d.After(time.Now().UTC()); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		// Daily return with slight upward drift
		change := rng.NormFloat64()*0.02 + 0.0005
		open := price
		closePrice := open * (1 + change)
		if closePrice < 1 {
			closePrice = 1
		}

		high := math.Max(open, closePrice) * (1 + rng.Float64()*0.01)
		low := math.Min(open, closePrice) * (1 - rng.Float64()*0.01)

		// Volume between 0.5x and 2x the base
		volume := int64(float64(sampleBaseVolume) * (0.5 + rng.Float64()*1.5))

		bars = append(bars, models.EODBar{
			Date:     time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			AdjClose: closePrice,
			Volume:   volume,
		})

		price = closePrice
	}

	// Generated oldest first; flip to most recent first
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return bars
}

func sampleProfile(symbol string, now time.Time) *models.CompanyProfile {
	return &models.CompanyProfile{
		Symbol:            symbol,
		Name:              symbol + " (Sample Data)",
		Sector:            "Financial Services",
		Industry:          "Capital Markets",
		SharesOutstanding: sampleSharesStanding,
		LastUpdated:       now,
	}
}

func sampleBalanceSheet(now time.Time) models.BalanceSheetSnapshot {
	// Year-end of the last completed fiscal year
	periodEnd := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	return models.BalanceSheetSnapshot{
		PeriodEnd: periodEnd,
		Fields: map[string]float64{
			"total_assets":      1_000_000_000,
			"total_liabilities": 600_000_000,
			"total_equity":      400_000_000,
			"minority_interest": 50_000_000,
		},
	}
}
