package models

import (
	"time"
)

// CalculationKind identifies which valuation model produced a result
type CalculationKind string

const (
	CalculationBasic             CalculationKind = "Basic NAV (Book Value)"
	CalculationFairValueAdjusted CalculationKind = "Modified NAV (Fair Value Adjusted)"
)

// FairValueAdjustment revalues an asset class from book to fair value.
// FairValue and BookValue travel together: a revaluation gain exists only
// when both are set. DeferredTaxRate applies to the gain component alone.
type FairValueAdjustment struct {
	FairValue       *float64 `json:"fair_value,omitempty"`
	BookValue       *float64 `json:"book_value,omitempty"`
	DeferredTaxRate float64  `json:"deferred_tax_rate"`
}

// HasRevaluation reports whether both sides of the revaluation pair are present.
func (a FairValueAdjustment) HasRevaluation() bool {
	return a.FairValue != nil && a.BookValue != nil
}

// ValuationResult is the output of a NAV or mNAV calculation.
// Created fresh per valuation call, never mutated after construction.
type ValuationResult struct {
	Total                 float64         `json:"total"`     // NAV or mNAV in aggregate
	PerShare              float64         `json:"per_share"` // Total / SharesOutstanding
	TotalAssets           float64         `json:"total_assets"`
	AdjustedAssets        float64         `json:"adjusted_assets"`
	TotalLiabilities      float64         `json:"total_liabilities"`
	Equity                float64         `json:"equity"`
	MinorityInterest      float64         `json:"minority_interest"`
	FairValue             float64         `json:"fair_value,omitempty"`
	BookValue             float64         `json:"book_value,omitempty"`
	RevaluationGain       float64         `json:"revaluation_gain"`
	DeferredTaxRate       float64         `json:"deferred_tax_rate"`
	DeferredTaxAdjustment float64         `json:"deferred_tax_adjustment"`
	SharesOutstanding     float64         `json:"shares_outstanding"`
	Kind                  CalculationKind `json:"calculation_kind"`
}

// ValuationStatus classifies price relative to a reference valuation
type ValuationStatus string

const (
	StatusPremium   ValuationStatus = "premium"
	StatusDiscount  ValuationStatus = "discount"
	StatusFairValue ValuationStatus = "fair_value"
)

// Interpretation returns the human-readable reading of the status.
func (s ValuationStatus) Interpretation() string {
	switch s {
	case StatusPremium:
		return "Trading at Premium"
	case StatusDiscount:
		return "Trading at Discount"
	default:
		return "Trading near Fair Value"
	}
}

// PremiumDiscountResult compares a market price to a per-share reference value
type PremiumDiscountResult struct {
	CurrentPrice   float64         `json:"current_price"`
	ReferenceValue float64         `json:"reference_value"` // per-share NAV or mNAV
	Ratio          float64         `json:"ratio"`           // price / reference
	Pct            float64         `json:"pct"`             // (price - reference) / reference * 100
	Delta          float64         `json:"delta"`           // price - reference
	Status         ValuationStatus `json:"status"`
}

// HistoricalRatioPoint is one date's price projected against a constant
// per-share valuation
type HistoricalRatioPoint struct {
	Date           time.Time       `json:"date"`
	Price          float64         `json:"price"`
	ReferenceValue float64         `json:"reference_value"`
	Ratio          float64         `json:"ratio"`
	Pct            float64         `json:"pct"`
	Delta          float64         `json:"delta"`
	Status         ValuationStatus `json:"status"`
}

// ScenarioRow is one scenario's premium/discount comparison
type ScenarioRow struct {
	Scenario string                `json:"scenario"`
	Value    float64               `json:"value"` // candidate per-share valuation
	Result   PremiumDiscountResult `json:"result"`
}

// Scenario pairs a label with a candidate per-share valuation.
// A slice of Scenario preserves caller ordering, which a map would not.
type Scenario struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
