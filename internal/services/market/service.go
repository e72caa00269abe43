// Package market provides cached market data with sample fallback
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

const balanceSheetPeriods = 4

// Service retrieves market data through a provider client, caching
// results on disk and falling back to generated sample data when no
// provider is available.
type Service struct {
	client      interfaces.MarketDataClient
	logger      *common.Logger
	cachePath   string
	cacheExpiry time.Duration
}

// NewService creates a market data service. A nil client puts the
// service in sample-only mode.
func NewService(client interfaces.MarketDataClient, cfg *common.Config, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		client:      client,
		logger:      logger,
		cachePath:   cfg.Cache.Path,
		cacheExpiry: cfg.Cache.GetExpiry(),
	}
}

// GetMarketData returns the dataset for a symbol, preferring a fresh
// cache entry, then the provider, then sample data.
func (s *Service) GetMarketData(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	if cached, ok := s.readCache(symbol); ok {
		s.logger.Debug().Str("symbol", symbol).Str("source", cached.Source).Msg("Serving market data from cache")
		return cached, nil
	}

	return s.fetch(ctx, symbol, lookbackDays)
}

// RefreshMarketData bypasses the cache and refetches from the provider
func (s *Service) RefreshMarketData(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return s.fetch(ctx, symbol, lookbackDays)
}

func (s *Service) fetch(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error) {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}

	if s.client == nil {
		s.logger.Info().Str("symbol", symbol).Msg("No provider configured, generating sample data")
		data := GenerateSampleData(symbol, lookbackDays)
		s.writeCache(data)
		return data, nil
	}

	data, err := s.fetchFromProvider(ctx, symbol, lookbackDays)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Provider fetch failed, falling back to sample data")
		data = GenerateSampleData(symbol, lookbackDays)
	}

	s.writeCache(data)
	return data, nil
}

func (s *Service) fetchFromProvider(ctx context.Context, symbol string, lookbackDays int) (*models.MarketData, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -lookbackDays)

	bars, err := s.client.GetEOD(ctx, symbol, from, now)
	if err != nil {
		return nil, fmt.Errorf("eod fetch: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history for %s", symbol)
	}

	data := &models.MarketData{
		Symbol:      symbol,
		EOD:         bars,
		Source:      "openbb",
		LastUpdated: now,
	}

	// Profile and balance sheets are best-effort; the valuation engine
	// degrades missing fields to zero rather than failing the fetch.
	if profile, err := s.client.GetProfile(ctx, symbol); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Profile fetch failed")
	} else {
		data.Profile = profile
	}

	if sheets, err := s.client.GetBalanceSheets(ctx, symbol, balanceSheetPeriods); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Balance sheet fetch failed")
	} else {
		data.BalanceSheets = sheets
	}

	s.logger.Info().
		Str("symbol", symbol).
		Int("bars", len(data.EOD)).
		Int("balance_sheets", len(data.BalanceSheets)).
		Msg("Fetched market data from provider")

	return data, nil
}

func (s *Service) cacheFile(symbol string) string {
	return filepath.Join(s.cachePath, strings.ToLower(symbol)+"_market.json")
}

func (s *Service) readCache(symbol string) (*models.MarketData, bool) {
	if s.cachePath == "" {
		return nil, false
	}

	raw, err := os.ReadFile(s.cacheFile(symbol))
	if err != nil {
		return nil, false
	}

	var data models.MarketData
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Discarding unreadable cache entry")
		return nil, false
	}

	if time.Since(data.LastUpdated) > s.cacheExpiry {
		return nil, false
	}

	return &data, true
}

func (s *Service) writeCache(data *models.MarketData) {
	if s.cachePath == "" {
		return
	}

	if err := os.MkdirAll(s.cachePath, 0o755); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to create cache directory")
		return
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode cache entry")
		return
	}

	if err := os.WriteFile(s.cacheFile(data.Symbol), raw, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("symbol", data.Symbol).Msg("Failed to write cache entry")
	}
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
