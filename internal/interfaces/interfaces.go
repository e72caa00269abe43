// Package interfaces defines contracts between layers of the mNAV service
package interfaces

import (
	"context"
	"time"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// MarketDataClient retrieves market data from an upstream provider
type MarketDataClient interface {
	// GetEOD fetches daily price history for a symbol, most recent first
	GetEOD(ctx context.Context, symbol string, from, to time.Time) ([]models.EODBar, error)

	// GetProfile fetches company reference data including shares outstanding
	GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)

	// GetBalanceSheets fetches up to limit reporting periods, most recent first
	GetBalanceSheets(ctx context.Context, symbol string, limit int) ([]models.BalanceSheetSnapshot, error)
}

// MarketService provides cached market data with sample fallback
type MarketService interface {
	// GetMarketData returns the full dataset for a symbol covering lookbackDays
	GetMarketData(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error)

	// RefreshMarketData bypasses the cache and refetches from the provider
	RefreshMarketData(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error)
}

// ValuationService computes mNAV analysis over market data
type ValuationService interface {
	// Analyze produces the valuation bundle for a symbol
	Analyze(ctx context.Context, req ValuationRequest) (*ValuationAnalysis, error)

	// History projects price against mNAV per share across the EOD series
	History(ctx context.Context, req ValuationRequest) ([]models.HistoricalRatioPoint, error)

	// Scenarios evaluates the current price against alternate mNAV values
	Scenarios(ctx context.Context, req ValuationRequest, scenarios []models.Scenario) ([]models.ScenarioRow, error)

	// Signals computes technical indicators for a symbol
	Signals(ctx context.Context, symbol string) (*models.TickerSignals, error)

	// PriceChart renders a PNG price chart with moving averages
	PriceChart(ctx context.Context, symbol string) ([]byte, error)

	// RatioChart renders a PNG price-to-mNAV ratio chart
	RatioChart(ctx context.Context, req ValuationRequest) ([]byte, error)
}

// ValuationRequest carries the inputs for a valuation run. Optional
// fields override values derived from market data or configuration.
type ValuationRequest struct {
	Symbol            string
	SharesOutstanding *float64
	FairValue         *float64
	BookValue         *float64
	DeferredTaxRate   *float64
	Limit             int
}

// ValuationAnalysis bundles the outputs of a valuation run
type ValuationAnalysis struct {
	Symbol          string                        `json:"symbol"`
	Source          string                        `json:"source"`
	AsOf            time.Time                     `json:"as_of"`
	PeriodEnd       time.Time                     `json:"period_end"`
	CurrentPrice    float64                       `json:"current_price"`
	BasicNAV        *models.ValuationResult       `json:"basic_nav"`
	MNAV            *models.ValuationResult       `json:"mnav"`
	PremiumDiscount *models.PremiumDiscountResult `json:"premium_discount,omitempty"`
	Summary         string                        `json:"summary"`
}
