// Package models defines data structures for the mNAV service
package models

import (
	"time"
)

// EODBar represents a single day's price data
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// PriceSelector extracts the price of interest from a bar. The engine
// defaults to closing price but callers may project any field.
type PriceSelector func(bar EODBar) float64

// SelectClose returns the bar's closing price (the default selector).
func SelectClose(bar EODBar) float64 { return bar.Close }

// SelectAdjClose returns the bar's adjusted closing price.
func SelectAdjClose(bar EODBar) float64 { return bar.AdjClose }

// CompanyProfile holds company reference data from the provider
type CompanyProfile struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Sector            string    `json:"sector,omitempty"`
	Industry          string    `json:"industry,omitempty"`
	SharesOutstanding float64   `json:"shares_outstanding"`
	MarketCap         float64   `json:"market_cap,omitempty"`
	Description       string    `json:"description,omitempty"`
	LastUpdated       time.Time `json:"last_updated"`
}

// BalanceSheetSnapshot is one reporting period's financial position.
// Field keys vary by data source (snake_case, Title Case, no separators),
// so values are held in a flat map and read through the mnav field resolver.
// Snapshots are read-only to the valuation engine.
type BalanceSheetSnapshot struct {
	PeriodEnd time.Time          `json:"period_end"`
	Fields    map[string]float64 `json:"fields"`
}

// Clone returns a deep copy of the snapshot.
func (s BalanceSheetSnapshot) Clone() BalanceSheetSnapshot {
	fields := make(map[string]float64, len(s.Fields))
	for k, v := range s.Fields {
		fields[k] = v
	}
	return BalanceSheetSnapshot{PeriodEnd: s.PeriodEnd, Fields: fields}
}

// MarketData holds all retrieved data for a ticker
type MarketData struct {
	Symbol        string                 `json:"symbol"`
	Profile       *CompanyProfile        `json:"profile,omitempty"`
	EOD           []EODBar               `json:"eod"`
	BalanceSheets []BalanceSheetSnapshot `json:"balance_sheets,omitempty"`
	Source        string                 `json:"source"` // "openbb" or "sample"
	LastUpdated   time.Time              `json:"last_updated"`
}

// LatestClose returns the most recent closing price, or 0 when no bars exist.
// EOD bars are ordered most recent first.
func (m *MarketData) LatestClose() float64 {
	if len(m.EOD) == 0 {
		return 0
	}
	return m.EOD[0].Close
}

// TrendType classifies the overall price trend
type TrendType string

const (
	TrendBullish TrendType = "bullish"
	TrendBearish TrendType = "bearish"
	TrendNeutral TrendType = "neutral"
)

// TickerSignals holds computed technical indicators for a ticker
type TickerSignals struct {
	Symbol           string    `json:"symbol"`
	CurrentPrice     float64   `json:"current_price"`
	Change           float64   `json:"change"`
	ChangePct        float64   `json:"change_pct"`
	SMA20            float64   `json:"sma_20"`
	SMA50            float64   `json:"sma_50"`
	SMA200           float64   `json:"sma_200"`
	EMA12            float64   `json:"ema_12"`
	EMA26            float64   `json:"ema_26"`
	RSI14            float64   `json:"rsi_14"`
	MACD             float64   `json:"macd"`
	MACDSignal       float64   `json:"macd_signal"`
	MACDHistogram    float64   `json:"macd_histogram"`
	BollingerUpper   float64   `json:"bollinger_upper"`
	BollingerMiddle  float64   `json:"bollinger_middle"`
	BollingerLower   float64   `json:"bollinger_lower"`
	ATR14            float64   `json:"atr_14"`
	StochasticK      float64   `json:"stochastic_k"`
	StochasticD      float64   `json:"stochastic_d"`
	OBV              float64   `json:"obv"`
	VWAP             float64   `json:"vwap"`
	High52Week       float64   `json:"high_52_week"`
	Low52Week        float64   `json:"low_52_week"`
	VolumeRatio      float64   `json:"volume_ratio"`
	Trend            TrendType `json:"trend"`
	ComputeTimestamp time.Time `json:"compute_timestamp"`
}
