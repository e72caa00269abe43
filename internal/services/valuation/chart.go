package valuation

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
	"github.com/Lantern567/openbb-for-bmnr/internal/signals"
)

// PriceChart renders a PNG closing price chart with 20 and 50 day
// moving average overlays.
func (s *Service) PriceChart(ctx context.Context, symbol string) ([]byte, error) {
	data, err := s.market.GetMarketData(ctx, symbol, s.config.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("market data: %w", err)
	}
	if len(data.EOD) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(data.EOD))
	}

	bars := data.EOD
	n := len(bars)

	// Bars are most recent first; charts draw oldest to newest
	xValues := make([]time.Time, n)
	closeY := make([]float64, n)
	sma20Y := make([]float64, n)
	sma50Y := make([]float64, n)

	for i := 0; i < n; i++ {
		bar := bars[n-1-i]
		xValues[i] = bar.Date
		closeY[i] = bar.Close
		sma20Y[i] = rollingSMA(bars, n-1-i, 20, bar.Close)
		sma50Y[i] = rollingSMA(bars, n-1-i, 50, bar.Close)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Price", data.Symbol),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Close",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: closeY,
			},
			chart.TimeSeries{
				Name: "SMA 20",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("f59e0b"), // amber-500
					StrokeWidth: 1.5,
				},
				XValues: xValues,
				YValues: sma20Y,
			},
			chart.TimeSeries{
				Name: "SMA 50",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: sma50Y,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RatioChart renders a PNG of the price-to-mNAV ratio over time with a
// fair value line at 1.0x.
func (s *Service) RatioChart(ctx context.Context, req interfaces.ValuationRequest) ([]byte, error) {
	points, err := s.History(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	n := len(points)
	xValues := make([]time.Time, n)
	ratioY := make([]float64, n)
	fairY := make([]float64, n)

	// Points follow bar order, most recent first
	for i := 0; i < n; i++ {
		p := points[n-1-i]
		xValues[i] = p.Date
		ratioY[i] = p.Ratio
		fairY[i] = 1.0
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Price / mNAV", req.Symbol),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2fx", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "P/mNAV",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: ratioY,
			},
			chart.TimeSeries{
				Name: "Fair Value (1.0x)",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: fairY,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// rollingSMA computes the moving average ending at index idx in a most
// recent first series, falling back to the bar's own close when the
// window is not yet filled.
func rollingSMA(bars []models.EODBar, idx, period int, fallback float64) float64 {
	if v := signals.SMA(bars[idx:], period); v != 0 {
		return v
	}
	return fallback
}
