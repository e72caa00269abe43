package signals

import (
	"fmt"
	"time"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

const minBarsForSignals = 30

// Computer derives technical indicators from EOD price history
type Computer struct {
	logger *common.Logger
}

// NewComputer creates a signal computer
func NewComputer(logger *common.Logger) *Computer {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Computer{logger: logger}
}

// Compute calculates the full indicator set for a symbol.
// Bars must be ordered most recent first.
func (c *Computer) Compute(symbol string, bars []models.EODBar) (*models.TickerSignals, error) {
	if len(bars) < minBarsForSignals {
		return nil, fmt.Errorf("insufficient history for %s: have %d bars, need %d", symbol, len(bars), minBarsForSignals)
	}

	macd, macdSignal, macdHist := MACD(bars, 12, 26, 9)
	bbUpper, bbMiddle, bbLower := BollingerBands(bars, 20, 2.0)
	stochK, stochD := Stochastic(bars, 14, 3)

	currentPrice := bars[0].Close
	change := currentPrice - bars[1].Close
	changePct := 0.0
	if bars[1].Close != 0 {
		changePct = change / bars[1].Close * 100
	}

	sig := &models.TickerSignals{
		Symbol:           symbol,
		CurrentPrice:     currentPrice,
		Change:           change,
		ChangePct:        changePct,
		SMA20:            SMA(bars, 20),
		SMA50:            SMA(bars, 50),
		SMA200:           SMA(bars, 200),
		EMA12:            EMA(bars, 12),
		EMA26:            EMA(bars, 26),
		RSI14:            RSI(bars, 14),
		MACD:             macd,
		MACDSignal:       macdSignal,
		MACDHistogram:    macdHist,
		BollingerUpper:   bbUpper,
		BollingerMiddle:  bbMiddle,
		BollingerLower:   bbLower,
		ATR14:            ATR(bars, 14),
		StochasticK:      stochK,
		StochasticD:      stochD,
		OBV:              OBV(bars),
		VWAP:             VWAP(bars, 20),
		High52Week:       High52Week(bars),
		Low52Week:        Low52Week(bars),
		VolumeRatio:      VolumeRatio(bars, 20),
		ComputeTimestamp: time.Now().UTC(),
	}

	sig.Trend = DetermineTrend(currentPrice, sig.SMA20, sig.SMA50, sig.SMA200)

	c.logger.Debug().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Float64("rsi14", sig.RSI14).
		Str("trend", string(sig.Trend)).
		Msg("Computed technical signals")

	return sig, nil
}
