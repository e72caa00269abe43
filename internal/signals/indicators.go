// Package signals provides technical indicator calculations
package signals

import (
	"math"

	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// All indicator functions expect bars ordered most recent first.

// SMA calculates Simple Moving Average for the given period
func SMA(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// EMA calculates Exponential Moving Average for the given period
func EMA(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	multiplier := 2.0 / float64(period+1)
	ema := SMA(bars[len(bars)-period:], period) // Seed with SMA of the oldest window

	// Smooth from oldest to newest
	for i := len(bars) - period - 1; i >= 0; i-- {
		ema = (bars[i].Close-ema)*multiplier + ema
	}

	return ema
}

// RSI calculates Relative Strength Index
func RSI(bars []models.EODBar, period int) float64 {
	if len(bars) < period+1 {
		return 50 // Neutral default
	}

	var gains, losses float64
	for i := 0; i < period; i++ {
		change := bars[i].Close - bars[i+1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates Moving Average Convergence Divergence.
// Returns MACD line, signal line (EMA of the MACD series), and histogram.
func MACD(bars []models.EODBar, fastPeriod, slowPeriod, signalPeriod int) (float64, float64, float64) {
	if len(bars) < slowPeriod+signalPeriod {
		return 0, 0, 0
	}

	// MACD value at each of the last signalPeriod offsets
	macdVals := make([]float64, signalPeriod)
	for i := 0; i < signalPeriod; i++ {
		macdVals[i] = EMA(bars[i:], fastPeriod) - EMA(bars[i:], slowPeriod)
	}

	macdLine := macdVals[0]

	// Signal line: EMA over the MACD series, seeded with its mean
	multiplier := 2.0 / float64(signalPeriod+1)
	sum := 0.0
	for _, v := range macdVals {
		sum += v
	}
	signalLine := sum / float64(signalPeriod)
	for i := signalPeriod - 1; i >= 0; i-- {
		signalLine = (macdVals[i]-signalLine)*multiplier + signalLine
	}

	return macdLine, signalLine, macdLine - signalLine
}

// BollingerBands calculates the Bollinger Bands for the given period and
// standard deviation multiplier. Returns upper, middle, lower.
func BollingerBands(bars []models.EODBar, period int, stdDevs float64) (float64, float64, float64) {
	if period <= 0 || len(bars) < period {
		return 0, 0, 0
	}

	middle := SMA(bars, period)

	variance := 0.0
	for i := 0; i < period; i++ {
		d := bars[i].Close - middle
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))

	return middle + stdDevs*std, middle, middle - stdDevs*std
}

// ATR calculates Average True Range
func ATR(bars []models.EODBar, period int) float64 {
	if len(bars) < period+1 {
		return 0
	}

	trSum := 0.0
	for i := 0; i < period; i++ {
		high := bars[i].High
		low := bars[i].Low
		prevClose := bars[i+1].Close

		tr1 := high - low
		tr2 := math.Abs(high - prevClose)
		tr3 := math.Abs(low - prevClose)

		trSum += math.Max(tr1, math.Max(tr2, tr3))
	}

	return trSum / float64(period)
}

// Stochastic calculates the stochastic oscillator.
// Returns %K for the most recent bar and %D (SMA of the last dPeriod %K values).
func Stochastic(bars []models.EODBar, kPeriod, dPeriod int) (float64, float64) {
	if len(bars) < kPeriod+dPeriod-1 {
		return 50, 50
	}

	kAt := func(offset int) float64 {
		window := bars[offset : offset+kPeriod]
		high := window[0].High
		low := window[0].Low
		for _, b := range window[1:] {
			if b.High > high {
				high = b.High
			}
			if b.Low < low {
				low = b.Low
			}
		}
		if high == low {
			return 50
		}
		return (window[0].Close - low) / (high - low) * 100
	}

	k := kAt(0)

	dSum := 0.0
	for i := 0; i < dPeriod; i++ {
		dSum += kAt(i)
	}

	return k, dSum / float64(dPeriod)
}

// OBV calculates On-Balance Volume across the full series
func OBV(bars []models.EODBar) float64 {
	obv := 0.0
	// Accumulate oldest to newest
	for i := len(bars) - 2; i >= 0; i-- {
		switch {
		case bars[i].Close > bars[i+1].Close:
			obv += float64(bars[i].Volume)
		case bars[i].Close < bars[i+1].Close:
			obv -= float64(bars[i].Volume)
		}
	}
	return obv
}

// VWAP calculates Volume Weighted Average Price over the given period
func VWAP(bars []models.EODBar, period int) float64 {
	if period <= 0 {
		return 0
	}
	if len(bars) < period {
		period = len(bars)
	}

	var priceVolume, volume float64
	for i := 0; i < period; i++ {
		typical := (bars[i].High + bars[i].Low + bars[i].Close) / 3
		priceVolume += typical * float64(bars[i].Volume)
		volume += float64(bars[i].Volume)
	}

	if volume == 0 {
		return 0
	}
	return priceVolume / volume
}

// AverageVolume calculates average volume over a period
func AverageVolume(bars []models.EODBar, period int) int64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	var sum int64
	for i := 0; i < period; i++ {
		sum += bars[i].Volume
	}
	return sum / int64(period)
}

// VolumeRatio calculates current volume as ratio of average
func VolumeRatio(bars []models.EODBar, period int) float64 {
	if len(bars) == 0 {
		return 1.0
	}

	avg := AverageVolume(bars, period)
	if avg == 0 {
		return 1.0
	}

	return float64(bars[0].Volume) / float64(avg)
}

// High52Week returns the highest high in the last 252 trading days
func High52Week(bars []models.EODBar) float64 {
	period := 252
	if len(bars) < period {
		period = len(bars)
	}

	high := 0.0
	for i := 0; i < period; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
	}
	return high
}

// Low52Week returns the lowest low in the last 252 trading days
func Low52Week(bars []models.EODBar) float64 {
	period := 252
	if len(bars) < period {
		period = len(bars)
	}

	low := math.MaxFloat64
	for i := 0; i < period; i++ {
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	if low == math.MaxFloat64 {
		return 0
	}
	return low
}

// DetermineTrend classifies the overall trend from price vs moving averages
func DetermineTrend(currentPrice, sma20, sma50, sma200 float64) models.TrendType {
	if currentPrice > sma200 && sma20 > sma50 {
		return models.TrendBullish
	}

	if currentPrice < sma200 && sma20 < sma50 {
		return models.TrendBearish
	}

	return models.TrendNeutral
}
