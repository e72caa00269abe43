package mnav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

func TestRenderSummary(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	valuation := calc.MNAVWithFairValue(models.FairValueAdjustment{
		FairValue:       float64Ptr(500_000_000),
		BookValue:       float64Ptr(400_000_000),
		DeferredTaxRate: 0.10,
	})
	premDisc, err := calc.PremiumDiscount(38.50, valuation.PerShare)
	require.NoError(t, err)

	summary := RenderSummary(valuation, premDisc)

	assert.Contains(t, summary, "mNAV ANALYSIS SUMMARY")
	assert.Contains(t, summary, "$44.00")
	assert.Contains(t, summary, "$38.50")
	assert.Contains(t, summary, "-12.50%")
	assert.Contains(t, summary, "Trading at Discount")
	assert.Contains(t, summary, "FAIR VALUE ADJUSTMENTS")
	assert.Contains(t, summary, "$100,000,000")
	assert.Contains(t, summary, "Deferred Tax (10.0%)")
	assert.Contains(t, summary, "10,000,000")
}

func TestRenderSummaryBasicOmitsFairValueSection(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	valuation := calc.BasicNAV()
	premDisc, err := calc.PremiumDiscount(41.0, valuation.PerShare)
	require.NoError(t, err)

	summary := RenderSummary(valuation, premDisc)

	assert.NotContains(t, summary, "FAIR VALUE ADJUSTMENTS")
	assert.Contains(t, summary, "Trading near Fair Value")
}
