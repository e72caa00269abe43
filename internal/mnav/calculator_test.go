package mnav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }

func sampleSnapshots() []models.BalanceSheetSnapshot {
	return []models.BalanceSheetSnapshot{
		{Fields: map[string]float64{
			"total_assets":      1_000_000_000,
			"total_liabilities": 600_000_000,
			"minority_interest": 50_000_000,
		}},
	}
}

func TestNewCalculator(t *testing.T) {
	tests := []struct {
		name      string
		snapshots []models.BalanceSheetSnapshot
		shares    float64
		wantErr   error
	}{
		{
			name:      "valid input",
			snapshots: sampleSnapshots(),
			shares:    10_000_000,
		},
		{
			name:      "empty snapshot sequence",
			snapshots: nil,
			shares:    10_000_000,
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "zero shares",
			snapshots: sampleSnapshots(),
			shares:    0,
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "negative shares",
			snapshots: sampleSnapshots(),
			shares:    -100,
			wantErr:   ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := NewCalculator(tt.snapshots, tt.shares)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, calc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.shares, calc.SharesOutstanding())
		})
	}
}

func TestCalculatorCopiesSnapshot(t *testing.T) {
	snapshots := sampleSnapshots()
	calc, err := NewCalculator(snapshots, 10_000_000)
	require.NoError(t, err)

	// Mutating the caller's snapshot must not affect later valuations.
	snapshots[0].Fields["total_assets"] = 0

	result := calc.BasicNAV()
	assert.InDelta(t, 1_000_000_000, result.TotalAssets, 1e-9)
}

func TestBasicNAV(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	result := calc.BasicNAV()

	assert.InDelta(t, 400_000_000, result.Total, 1e-9)
	assert.InDelta(t, 40.0, result.PerShare, 1e-9)
	assert.InDelta(t, 1_000_000_000, result.TotalAssets, 1e-9)
	assert.InDelta(t, 600_000_000, result.TotalLiabilities, 1e-9)
	assert.Equal(t, models.CalculationBasic, result.Kind)
}

func TestBasicNAVEquityFallback(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]float64
		expected float64
	}{
		{
			name: "total_equity preferred",
			fields: map[string]float64{
				"total_assets": 100, "total_liabilities": 40,
				"total_equity": 55, "shareholders_equity": 50,
			},
			expected: 55,
		},
		{
			name: "shareholders_equity second",
			fields: map[string]float64{
				"total_assets": 100, "total_liabilities": 40,
				"shareholders_equity": 50, "stockholders_equity": 45,
			},
			expected: 50,
		},
		{
			name: "stockholders_equity third",
			fields: map[string]float64{
				"total_assets": 100, "total_liabilities": 40,
				"stockholders_equity": 45,
			},
			expected: 45,
		},
		{
			name: "assets minus liabilities fallback",
			fields: map[string]float64{
				"total_assets": 100, "total_liabilities": 40,
			},
			expected: 60,
		},
		{
			name: "zero equity falls through",
			fields: map[string]float64{
				"total_assets": 100, "total_liabilities": 40,
				"total_equity": 0,
			},
			expected: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := NewCalculator([]models.BalanceSheetSnapshot{{Fields: tt.fields}}, 10)
			require.NoError(t, err)

			result := calc.BasicNAV()
			assert.InDelta(t, tt.expected, result.Equity, 1e-9)
		})
	}
}

func TestBasicNAVMissingDataDegradesToZero(t *testing.T) {
	calc, err := NewCalculator([]models.BalanceSheetSnapshot{{Fields: map[string]float64{}}}, 1000)
	require.NoError(t, err)

	result := calc.BasicNAV()

	assert.Zero(t, result.Total)
	assert.Zero(t, result.PerShare)
}

func TestMNAVWithFairValue(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	result := calc.MNAVWithFairValue(models.FairValueAdjustment{
		FairValue:       float64Ptr(500_000_000),
		BookValue:       float64Ptr(400_000_000),
		DeferredTaxRate: 0.10,
	})

	assert.InDelta(t, 100_000_000, result.RevaluationGain, 1e-9)
	assert.InDelta(t, 10_000_000, result.DeferredTaxAdjustment, 1e-9)
	assert.InDelta(t, 1_100_000_000, result.AdjustedAssets, 1e-9)
	assert.InDelta(t, 440_000_000, result.Total, 1e-9)
	assert.InDelta(t, 44.0, result.PerShare, 1e-9)
	assert.Equal(t, models.CalculationFairValueAdjusted, result.Kind)
}

func TestMNAVWithoutAdjustment(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	result := calc.MNAVWithFairValue(models.FairValueAdjustment{DeferredTaxRate: 0.30})

	assert.Zero(t, result.RevaluationGain)
	assert.Zero(t, result.DeferredTaxAdjustment)
	assert.InDelta(t, 1_000_000_000, result.AdjustedAssets, 1e-9)
	// mnav = assets - liabilities - minority interest
	assert.InDelta(t, 350_000_000, result.Total, 1e-9)
}

func TestMNAVEqualFairAndBookValueIsNoOp(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	for _, rate := range []float64{0, 0.10, 0.30, 1.0} {
		result := calc.MNAVWithFairValue(models.FairValueAdjustment{
			FairValue:       float64Ptr(400_000_000),
			BookValue:       float64Ptr(400_000_000),
			DeferredTaxRate: rate,
		})
		assert.Zero(t, result.RevaluationGain)
		assert.Zero(t, result.DeferredTaxAdjustment)
	}
}

func TestMNAVNegativeRevaluation(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	result := calc.MNAVWithFairValue(models.FairValueAdjustment{
		FairValue:       float64Ptr(300_000_000),
		BookValue:       float64Ptr(400_000_000),
		DeferredTaxRate: 0.10,
	})

	assert.InDelta(t, -100_000_000, result.RevaluationGain, 1e-9)
	assert.InDelta(t, -10_000_000, result.DeferredTaxAdjustment, 1e-9)
	assert.InDelta(t, 900_000_000, result.AdjustedAssets, 1e-9)
}

func TestPremiumDiscount(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	tests := []struct {
		name      string
		price     float64
		reference float64
		wantRatio float64
		wantPct   float64
		wantState models.ValuationStatus
	}{
		{
			name:      "discount",
			price:     38.50,
			reference: 44.0,
			wantRatio: 38.50 / 44.0,
			wantPct:   -12.5,
			wantState: models.StatusDiscount,
		},
		{
			name:      "premium",
			price:     50.0,
			reference: 40.0,
			wantRatio: 1.25,
			wantPct:   25.0,
			wantState: models.StatusPremium,
		},
		{
			name:      "exactly at reference",
			price:     40.0,
			reference: 40.0,
			wantRatio: 1.0,
			wantPct:   0,
			wantState: models.StatusFairValue,
		},
		{
			name:      "exactly +5 pct boundary is fair value",
			price:     42.0,
			reference: 40.0,
			wantRatio: 1.05,
			wantPct:   5.0,
			wantState: models.StatusFairValue,
		},
		{
			name:      "exactly -5 pct boundary is fair value",
			price:     38.0,
			reference: 40.0,
			wantRatio: 0.95,
			wantPct:   -5.0,
			wantState: models.StatusFairValue,
		},
		{
			name:      "just above +5 pct",
			price:     42.01,
			reference: 40.0,
			wantRatio: 42.01 / 40.0,
			wantPct:   5.025,
			wantState: models.StatusPremium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.PremiumDiscount(tt.price, tt.reference)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantRatio, result.Ratio, 1e-9)
			assert.InDelta(t, tt.wantPct, result.Pct, 1e-9)
			assert.InDelta(t, tt.price-tt.reference, result.Delta, 1e-9)
			assert.Equal(t, tt.wantState, result.Status)
		})
	}
}

func TestPremiumDiscountInvalidReference(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	for _, reference := range []float64{0, -5} {
		_, err := calc.PremiumDiscount(38.50, reference)
		assert.ErrorIs(t, err, ErrInvalidValuation)
	}
}

func TestCustomThresholds(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000, WithThresholds(10, -10))
	require.NoError(t, err)

	result, err := calc.PremiumDiscount(43.0, 40.0) // +7.5%
	require.NoError(t, err)
	assert.Equal(t, models.StatusFairValue, result.Status)

	result, err = calc.PremiumDiscount(44.5, 40.0) // +11.25%
	require.NoError(t, err)
	assert.Equal(t, models.StatusPremium, result.Status)
}

// Full worked example: fair-value adjusted mNAV followed by premium/discount.
func TestFairValueScenarioEndToEnd(t *testing.T) {
	calc, err := NewCalculator(sampleSnapshots(), 10_000_000)
	require.NoError(t, err)

	valuation := calc.MNAVWithFairValue(models.FairValueAdjustment{
		FairValue:       float64Ptr(500_000_000),
		BookValue:       float64Ptr(400_000_000),
		DeferredTaxRate: 0.10,
	})
	require.InDelta(t, 44.0, valuation.PerShare, 1e-9)

	result, err := calc.PremiumDiscount(38.50, valuation.PerShare)
	require.NoError(t, err)

	assert.InDelta(t, -12.5, result.Pct, 1e-9)
	assert.Equal(t, models.StatusDiscount, result.Status)
}
