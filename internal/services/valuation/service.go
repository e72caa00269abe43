// Package valuation orchestrates mNAV analysis over market data
package valuation

import (
	"context"
	"fmt"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
	"github.com/Lantern567/openbb-for-bmnr/internal/mnav"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
	"github.com/Lantern567/openbb-for-bmnr/internal/signals"
)

// Default scenario multipliers applied to the computed mNAV per share
// when the caller supplies no explicit scenarios.
var defaultScenarioMultipliers = []struct {
	label      string
	multiplier float64
}{
	{"Conservative", 0.8},
	{"Base", 1.0},
	{"Optimistic", 1.2},
}

// Service implements ValuationService
type Service struct {
	market   interfaces.MarketService
	computer *signals.Computer
	config   *common.Config
	logger   *common.Logger
}

// NewService creates a valuation service
func NewService(market interfaces.MarketService, cfg *common.Config, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		market:   market,
		computer: signals.NewComputer(logger),
		config:   cfg,
		logger:   logger,
	}
}

// prepare fetches market data and builds a calculator honoring request overrides
func (s *Service) prepare(ctx context.Context, req interfaces.ValuationRequest) (*models.MarketData, *mnav.Calculator, error) {
	data, err := s.market.GetMarketData(ctx, req.Symbol, s.config.LookbackDays)
	if err != nil {
		return nil, nil, fmt.Errorf("market data: %w", err)
	}

	if len(data.BalanceSheets) == 0 {
		return nil, nil, fmt.Errorf("no balance sheet data for %s", data.Symbol)
	}

	shares := 0.0
	if req.SharesOutstanding != nil {
		shares = *req.SharesOutstanding
	} else if data.Profile != nil {
		shares = data.Profile.SharesOutstanding
	}

	calc, err := mnav.NewCalculator(
		data.BalanceSheets,
		shares,
		mnav.WithThresholds(s.config.Valuation.PremiumThresholdPct, s.config.Valuation.DiscountThresholdPct),
	)
	if err != nil {
		return nil, nil, err
	}

	return data, calc, nil
}

// adjustment builds the fair value adjustment from request overrides,
// defaulting the deferred tax rate from configuration.
func (s *Service) adjustment(req interfaces.ValuationRequest) models.FairValueAdjustment {
	rate := s.config.Valuation.DeferredTaxRate
	if req.DeferredTaxRate != nil {
		rate = *req.DeferredTaxRate
	}
	return models.FairValueAdjustment{
		FairValue:       req.FairValue,
		BookValue:       req.BookValue,
		DeferredTaxRate: rate,
	}
}

// Analyze produces the full valuation bundle for a symbol
func (s *Service) Analyze(ctx context.Context, req interfaces.ValuationRequest) (*interfaces.ValuationAnalysis, error) {
	data, calc, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	basic := calc.BasicNAV()
	adjusted := calc.MNAVWithFairValue(s.adjustment(req))
	price := data.LatestClose()

	analysis := &interfaces.ValuationAnalysis{
		Symbol:       data.Symbol,
		Source:       data.Source,
		AsOf:         data.LastUpdated,
		PeriodEnd:    calc.Snapshot().PeriodEnd,
		CurrentPrice: price,
		BasicNAV:     &basic,
		MNAV:         &adjusted,
	}

	pd, err := calc.PremiumDiscount(price, adjusted.PerShare)
	if err != nil {
		// A degenerate balance sheet can produce a non-positive mNAV; the
		// valuation itself is still reportable without the comparison.
		s.logger.Warn().Err(err).Str("symbol", data.Symbol).Msg("Premium/discount unavailable")
	} else {
		analysis.PremiumDiscount = &pd
	}

	analysis.Summary = mnav.RenderSummary(adjusted, pd)

	s.logger.Info().
		Str("symbol", data.Symbol).
		Float64("mnav_per_share", adjusted.PerShare).
		Float64("price", price).
		Msg("Valuation analysis complete")

	return analysis, nil
}

// History projects market price against mNAV per share across the EOD series
func (s *Service) History(ctx context.Context, req interfaces.ValuationRequest) ([]models.HistoricalRatioPoint, error) {
	data, calc, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	adjusted := calc.MNAVWithFairValue(s.adjustment(req))

	bars := data.EOD
	if req.Limit > 0 && req.Limit < len(bars) {
		bars = bars[:req.Limit]
	}

	return calc.ProjectOverSeries(bars, adjusted.PerShare, nil)
}

// Scenarios evaluates the current price against alternate mNAV values.
// With no scenarios supplied, a Conservative/Base/Optimistic ladder is
// derived from the computed mNAV per share.
func (s *Service) Scenarios(ctx context.Context, req interfaces.ValuationRequest, scenarios []models.Scenario) ([]models.ScenarioRow, error) {
	data, calc, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(scenarios) == 0 {
		adjusted := calc.MNAVWithFairValue(s.adjustment(req))
		for _, m := range defaultScenarioMultipliers {
			scenarios = append(scenarios, models.Scenario{
				Label: m.label,
				Value: adjusted.PerShare * m.multiplier,
			})
		}
	}

	return calc.CompareScenarios(data.LatestClose(), scenarios)
}

// Signals computes technical indicators for a symbol
func (s *Service) Signals(ctx context.Context, symbol string) (*models.TickerSignals, error) {
	data, err := s.market.GetMarketData(ctx, symbol, s.config.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("market data: %w", err)
	}

	return s.computer.Compute(data.Symbol, data.EOD)
}

// Ensure Service implements ValuationService
var _ interfaces.ValuationService = (*Service)(nil)
