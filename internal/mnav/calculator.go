package mnav

import (
	"errors"
	"fmt"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

var (
	// ErrInvalidInput indicates malformed construction arguments. The caller
	// must not proceed with a valuation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidValuation indicates a non-positive per-share reference value
	// at the point premium/discount math is attempted. Fatal to that
	// calculation only; the calculator remains usable.
	ErrInvalidValuation = errors.New("invalid valuation")
)

// Default classification thresholds: price more than 5% above the reference
// is a premium, more than 5% below is a discount. Policy constants, not
// derived values.
const (
	DefaultPremiumThresholdPct  = 5.0
	DefaultDiscountThresholdPct = -5.0
)

// Thresholds holds the premium/discount classification cutoffs in percent.
// Both boundaries are exclusive.
type Thresholds struct {
	PremiumPct  float64
	DiscountPct float64
}

// Calculator computes NAV and mNAV valuations from a balance sheet snapshot.
// A Calculator is immutable after construction and safe for concurrent use.
type Calculator struct {
	snapshot   models.BalanceSheetSnapshot
	shares     float64
	thresholds Thresholds
}

// Option configures the calculator
type Option func(*Calculator)

// WithThresholds overrides the premium/discount classification thresholds.
func WithThresholds(premiumPct, discountPct float64) Option {
	return func(c *Calculator) {
		c.thresholds = Thresholds{PremiumPct: premiumPct, DiscountPct: discountPct}
	}
}

// NewCalculator creates a calculator from a chronological snapshot sequence
// (most recent first) and a share count. The most recent snapshot is copied
// at construction so out-of-band mutation by the caller cannot skew later
// valuations.
func NewCalculator(snapshots []models.BalanceSheetSnapshot, sharesOutstanding float64, opts ...Option) (*Calculator, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: balance sheet cannot be empty", ErrInvalidInput)
	}
	if sharesOutstanding <= 0 {
		return nil, fmt.Errorf("%w: shares outstanding must be positive, got %v", ErrInvalidInput, sharesOutstanding)
	}

	c := &Calculator{
		snapshot: snapshots[0].Clone(),
		shares:   sharesOutstanding,
		thresholds: Thresholds{
			PremiumPct:  DefaultPremiumThresholdPct,
			DiscountPct: DefaultDiscountThresholdPct,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SharesOutstanding returns the share count the calculator was built with.
func (c *Calculator) SharesOutstanding() float64 {
	return c.shares
}

// Snapshot returns a copy of the balance sheet snapshot in use.
func (c *Calculator) Snapshot() models.BalanceSheetSnapshot {
	return c.snapshot.Clone()
}

// BasicNAV calculates Net Asset Value from book values:
// nav = total assets - total liabilities.
func (c *Calculator) BasicNAV() models.ValuationResult {
	totalAssets := Resolve(c.snapshot, "total_assets", 0)
	totalLiabilities := Resolve(c.snapshot, "total_liabilities", 0)

	// Equity fallback chain, first non-zero wins. A resolved-but-zero equity
	// is indistinguishable from an absent one.
	equity := Resolve(c.snapshot, "total_equity", 0)
	if equity == 0 {
		equity = Resolve(c.snapshot, "shareholders_equity", 0)
	}
	if equity == 0 {
		equity = Resolve(c.snapshot, "stockholders_equity", 0)
	}
	if equity == 0 {
		equity = totalAssets - totalLiabilities
	}

	nav := totalAssets - totalLiabilities

	return models.ValuationResult{
		Total:             nav,
		PerShare:          nav / c.shares,
		TotalAssets:       totalAssets,
		AdjustedAssets:    totalAssets,
		TotalLiabilities:  totalLiabilities,
		Equity:            equity,
		SharesOutstanding: c.shares,
		Kind:              models.CalculationBasic,
	}
}

// MNAVWithFairValue calculates Modified NAV with fair value adjustments.
// A revaluation gain exists only when both fair and book value are supplied;
// deferred tax applies to the gain alone, modelling the liability realised
// on disposal of the revalued asset at fair value.
func (c *Calculator) MNAVWithFairValue(adj models.FairValueAdjustment) models.ValuationResult {
	totalAssets := Resolve(c.snapshot, "total_assets", 0)
	totalLiabilities := Resolve(c.snapshot, "total_liabilities", 0)
	minorityInterest := Resolve(c.snapshot, "minority_interest", 0)

	var revaluationGain, fairValue, bookValue float64
	adjustedAssets := totalAssets
	if adj.HasRevaluation() {
		fairValue = *adj.FairValue
		bookValue = *adj.BookValue
		revaluationGain = fairValue - bookValue // may be negative
		adjustedAssets = totalAssets + revaluationGain
	}

	deferredTax := revaluationGain * adj.DeferredTaxRate

	mnav := adjustedAssets - totalLiabilities - minorityInterest - deferredTax

	return models.ValuationResult{
		Total:                 mnav,
		PerShare:              mnav / c.shares,
		TotalAssets:           totalAssets,
		AdjustedAssets:        adjustedAssets,
		TotalLiabilities:      totalLiabilities,
		MinorityInterest:      minorityInterest,
		FairValue:             fairValue,
		BookValue:             bookValue,
		RevaluationGain:       revaluationGain,
		DeferredTaxRate:       adj.DeferredTaxRate,
		DeferredTaxAdjustment: deferredTax,
		SharesOutstanding:     c.shares,
		Kind:                  models.CalculationFairValueAdjusted,
	}
}

// PremiumDiscount compares a market price to a per-share reference value.
// A non-positive reference cannot be meaningfully divided into a price, so
// it fails loudly rather than producing Inf/NaN.
func (c *Calculator) PremiumDiscount(currentPrice, referenceValue float64) (models.PremiumDiscountResult, error) {
	if referenceValue <= 0 {
		return models.PremiumDiscountResult{}, fmt.Errorf(
			"%w: per-share reference value must be positive, got %v", ErrInvalidValuation, referenceValue)
	}

	pct := ((currentPrice - referenceValue) / referenceValue) * 100

	return models.PremiumDiscountResult{
		CurrentPrice:   currentPrice,
		ReferenceValue: referenceValue,
		Ratio:          currentPrice / referenceValue,
		Pct:            pct,
		Delta:          currentPrice - referenceValue,
		Status:         c.classify(pct),
	}, nil
}

// classify maps a premium/discount percentage to a status. Thresholds are
// exclusive: exactly +5% or -5% classifies as fair value.
func (c *Calculator) classify(pct float64) models.ValuationStatus {
	switch {
	case pct > c.thresholds.PremiumPct:
		return models.StatusPremium
	case pct < c.thresholds.DiscountPct:
		return models.StatusDiscount
	default:
		return models.StatusFairValue
	}
}
