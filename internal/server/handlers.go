package server

import (
	"fmt"
	"net/http"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig exposes the non-sensitive runtime configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":            cfg.Environment,
		"symbol":                 cfg.Symbol,
		"lookback_days":          cfg.LookbackDays,
		"provider":               cfg.Clients.OpenBB.Provider,
		"provider_configured":    s.app.OpenBBClient != nil,
		"premium_threshold_pct":  cfg.Valuation.PremiumThresholdPct,
		"discount_threshold_pct": cfg.Valuation.DiscountThresholdPct,
		"deferred_tax_rate":      cfg.Valuation.DeferredTaxRate,
		"cache_expiry":           cfg.Cache.GetExpiry().String(),
	})
}

// --- Stock handlers ---

// valuationRequest builds a ValuationRequest from query parameters.
func valuationRequest(r *http.Request, symbol string) interfaces.ValuationRequest {
	return interfaces.ValuationRequest{
		Symbol:            symbol,
		SharesOutstanding: QueryFloat(r, "shares"),
		FairValue:         QueryFloat(r, "fair_value"),
		BookValue:         QueryFloat(r, "book_value"),
		DeferredTaxRate:   QueryFloat(r, "tax_rate"),
	}
}

func (s *Server) handleMNAV(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.app.ValuationService.Analyze(r.Context(), valuationRequest(r, symbol))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Valuation failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleMNAVHistory(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req := valuationRequest(r, symbol)
	req.Limit = QueryInt(r, "limit", 0)

	points, err := s.app.ValuationService.History(r.Context(), req)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("History projection failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"points": points,
	})
}

func (s *Server) handleMNAVScenarios(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rows, err := s.app.ValuationService.Scenarios(r.Context(), valuationRequest(r, symbol), nil)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Scenario analysis failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"scenarios": rows,
	})
}

// handleMetrics returns the combined valuation and technical snapshot
// for the dashboard header.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.app.ValuationService.Analyze(r.Context(), valuationRequest(r, symbol))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Valuation failed: %v", err))
		return
	}

	metrics := map[string]interface{}{
		"symbol":        analysis.Symbol,
		"source":        analysis.Source,
		"as_of":         analysis.AsOf,
		"current_price": analysis.CurrentPrice,
		"valuation":     analysis.MNAV,
		"basic_nav":     analysis.BasicNAV,
	}
	if analysis.PremiumDiscount != nil {
		metrics["premium_discount"] = analysis.PremiumDiscount
	}

	// Technicals are best-effort: a short price history should not hide
	// the valuation metrics.
	if sig, err := s.app.ValuationService.Signals(r.Context(), symbol); err == nil {
		metrics["signals"] = sig
	}

	WriteJSON(w, http.StatusOK, metrics)
}

// priceRow is one row of the price table.
type priceRow struct {
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	ChangePct float64 `json:"change_pct"`
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	data, err := s.app.MarketService.GetMarketData(r.Context(), symbol, s.app.Config.LookbackDays)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Market data unavailable: %v", err))
		return
	}

	limit := QueryInt(r, "limit", 30)
	bars := data.EOD
	if limit > 0 && limit < len(bars) {
		bars = bars[:limit]
	}

	rows := make([]priceRow, len(bars))
	for i, bar := range bars {
		row := priceRow{
			Date:   bar.Date.Format("2006-01-02"),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		}
		// Day-over-day change against the next (older) bar
		if i+1 < len(data.EOD) && data.EOD[i+1].Close != 0 {
			row.ChangePct = (bar.Close - data.EOD[i+1].Close) / data.EOD[i+1].Close * 100
		}
		rows[i] = row
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": data.Symbol,
		"source": data.Source,
		"prices": rows,
	})
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sig, err := s.app.ValuationService.Signals(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Signal computation failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, sig)
}

func (s *Server) handlePriceChart(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.ValuationService.PriceChart(r.Context(), symbol)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Chart render failed: %v", err))
		return
	}

	WritePNG(w, png)
}

func (s *Server) handleMNAVChart(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.ValuationService.RatioChart(r.Context(), valuationRequest(r, symbol))
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Chart render failed: %v", err))
		return
	}

	WritePNG(w, png)
}
