package valuation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
	"github.com/Lantern567/openbb-for-bmnr/internal/services/market"
)

type fakeMarket struct {
	data *models.MarketData
	err  error
}

func (f *fakeMarket) GetMarketData(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeMarket) RefreshMarketData(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error) {
	return f.GetMarketData(ctx, symbol, lookbackDays)
}

func float64Ptr(v float64) *float64 { return &v }

func testMarketData(price float64) *models.MarketData {
	bars := make([]models.EODBar, 60)
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.EODBar{
			Date:     date.AddDate(0, 0, -i),
			Open:     price,
			High:     price + 1,
			Low:      price - 1,
			Close:    price,
			AdjClose: price,
			Volume:   1_000_000,
		}
	}
	bars[0].Close = price

	return &models.MarketData{
		Symbol:  "BMNR",
		Profile: &models.CompanyProfile{Symbol: "BMNR", SharesOutstanding: 10_000_000},
		EOD:     bars,
		BalanceSheets: []models.BalanceSheetSnapshot{{
			PeriodEnd: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			Fields: map[string]float64{
				"total_assets":      1_000_000_000,
				"total_liabilities": 600_000_000,
				"minority_interest": 50_000_000,
			},
		}},
		Source:      "sample",
		LastUpdated: time.Now().UTC(),
	}
}

func newTestService(data *models.MarketData) *Service {
	return NewService(&fakeMarket{data: data}, common.NewDefaultConfig(), common.NewSilentLogger())
}

func fairValueRequest() interfaces.ValuationRequest {
	return interfaces.ValuationRequest{
		Symbol:          "BMNR",
		FairValue:       float64Ptr(500_000_000),
		BookValue:       float64Ptr(400_000_000),
		DeferredTaxRate: float64Ptr(0.10),
	}
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(testMarketData(38.50))

	analysis, err := svc.Analyze(context.Background(), fairValueRequest())
	require.NoError(t, err)

	assert.Equal(t, "BMNR", analysis.Symbol)
	assert.Equal(t, 38.50, analysis.CurrentPrice)

	require.NotNil(t, analysis.MNAV)
	assert.InDelta(t, 440_000_000, analysis.MNAV.Total, 0.001)
	assert.InDelta(t, 44.0, analysis.MNAV.PerShare, 0.001)

	require.NotNil(t, analysis.BasicNAV)
	assert.InDelta(t, 400_000_000, analysis.BasicNAV.Total, 0.001)

	require.NotNil(t, analysis.PremiumDiscount)
	assert.InDelta(t, -12.5, analysis.PremiumDiscount.Pct, 0.001)
	assert.Equal(t, models.StatusDiscount, analysis.PremiumDiscount.Status)

	assert.Contains(t, analysis.Summary, "mNAV ANALYSIS SUMMARY")
}

func TestAnalyzeSharesOverride(t *testing.T) {
	data := testMarketData(38.50)
	data.Profile = nil

	svc := newTestService(data)

	req := fairValueRequest()
	req.SharesOutstanding = float64Ptr(20_000_000)

	analysis, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 22.0, analysis.MNAV.PerShare, 0.001)
}

func TestAnalyzeWithoutShares(t *testing.T) {
	data := testMarketData(38.50)
	data.Profile = nil

	svc := newTestService(data)

	_, err := svc.Analyze(context.Background(), interfaces.ValuationRequest{Symbol: "BMNR"})
	require.Error(t, err)
}

func TestAnalyzeNoBalanceSheets(t *testing.T) {
	data := testMarketData(38.50)
	data.BalanceSheets = nil

	svc := newTestService(data)

	_, err := svc.Analyze(context.Background(), fairValueRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no balance sheet data")
}

func TestAnalyzeMarketError(t *testing.T) {
	svc := NewService(&fakeMarket{err: errors.New("boom")}, common.NewDefaultConfig(), common.NewSilentLogger())

	_, err := svc.Analyze(context.Background(), fairValueRequest())
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	svc := newTestService(testMarketData(38.50))

	req := fairValueRequest()
	req.Limit = 10

	points, err := svc.History(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, points, 10)

	// Reference value is constant across the series
	for _, p := range points {
		assert.InDelta(t, 44.0, p.ReferenceValue, 0.001)
		assert.Equal(t, models.StatusDiscount, p.Status)
	}
}

func TestScenariosDefaults(t *testing.T) {
	svc := newTestService(testMarketData(38.50))

	rows, err := svc.Scenarios(context.Background(), fairValueRequest(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Conservative", rows[0].Scenario)
	assert.InDelta(t, 35.2, rows[0].Value, 0.001) // 0.8 x 44.0
	assert.Equal(t, "Base", rows[1].Scenario)
	assert.InDelta(t, 44.0, rows[1].Value, 0.001)
	assert.Equal(t, "Optimistic", rows[2].Scenario)
	assert.InDelta(t, 52.8, rows[2].Value, 0.001)

	// 38.50 against 35.20 is a 9.4% premium
	assert.Equal(t, models.StatusPremium, rows[0].Result.Status)
	assert.Equal(t, models.StatusDiscount, rows[1].Result.Status)
	assert.Equal(t, models.StatusDiscount, rows[2].Result.Status)
}

func TestScenariosExplicit(t *testing.T) {
	svc := newTestService(testMarketData(38.50))

	rows, err := svc.Scenarios(context.Background(), fairValueRequest(), []models.Scenario{
		{Label: "Bear", Value: 30},
		{Label: "Bull", Value: 50},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bear", rows[0].Scenario)
	assert.Equal(t, models.StatusPremium, rows[0].Result.Status)
	assert.Equal(t, "Bull", rows[1].Scenario)
	assert.Equal(t, models.StatusDiscount, rows[1].Result.Status)
}

func TestSignals(t *testing.T) {
	data := &models.MarketData{
		Symbol:      "BMNR",
		EOD:         market.GenerateSampleBars("BMNR", 365),
		Source:      "sample",
		LastUpdated: time.Now().UTC(),
	}
	svc := newTestService(data)

	sig, err := svc.Signals(context.Background(), "BMNR")
	require.NoError(t, err)
	assert.Equal(t, "BMNR", sig.Symbol)
	assert.NotZero(t, sig.SMA20)
	assert.NotZero(t, sig.RSI14)
}

func TestPriceChart(t *testing.T) {
	data := &models.MarketData{
		Symbol: "BMNR",
		EOD:    market.GenerateSampleBars("BMNR", 180),
		Profile: &models.CompanyProfile{
			Symbol: "BMNR", SharesOutstanding: 10_000_000,
		},
		BalanceSheets: testMarketData(38.50).BalanceSheets,
		Source:        "sample",
		LastUpdated:   time.Now().UTC(),
	}
	svc := newTestService(data)

	png, err := svc.PriceChart(context.Background(), "BMNR")
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, png[:4])
}

func TestRatioChart(t *testing.T) {
	data := testMarketData(38.50)
	svc := newTestService(data)

	png, err := svc.RatioChart(context.Background(), fairValueRequest())
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, png[:4])
}
