package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("mNAV MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleGetStockData implements the get_stock_data tool
func handleGetStockData(marketService interfaces.MarketService, config *common.Config, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := request.GetString("symbol", config.Symbol)
		refresh := request.GetBool("refresh", false)

		fetch := marketService.GetMarketData
		if refresh {
			fetch = marketService.RefreshMarketData
		}

		data, err := fetch(ctx, symbol, config.LookbackDays)
		if err != nil {
			logger.Error().Err(err).Str("symbol", symbol).Msg("Stock data fetch failed")
			return errorResult(fmt.Sprintf("Error getting stock data: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s\n\n", data.Symbol)
		if data.Profile != nil {
			fmt.Fprintf(&sb, "**%s**", data.Profile.Name)
			if data.Profile.Sector != "" {
				fmt.Fprintf(&sb, " (%s)", data.Profile.Sector)
			}
			sb.WriteString("\n\n")
			fmt.Fprintf(&sb, "- Shares Outstanding: %s\n", common.FormatCount(data.Profile.SharesOutstanding))
		}
		fmt.Fprintf(&sb, "- Latest Close: %s\n", common.FormatMoney(data.LatestClose()))
		fmt.Fprintf(&sb, "- Price History: %d bars\n", len(data.EOD))
		fmt.Fprintf(&sb, "- Source: %s (as of %s)\n", data.Source, data.LastUpdated.Format("2006-01-02 15:04"))

		if len(data.BalanceSheets) > 0 {
			sheet := data.BalanceSheets[0]
			fmt.Fprintf(&sb, "\n## Latest Balance Sheet (%s)\n\n", sheet.PeriodEnd.Format("2006-01-02"))
			fmt.Fprintf(&sb, "- Reported Fields: %d\n", len(sheet.Fields))
			for _, key := range []string{"total_assets", "total_liabilities", "total_equity", "minority_interest"} {
				if v, ok := sheet.Fields[key]; ok {
					fmt.Fprintf(&sb, "- %s: %s\n", key, common.FormatWholeMoney(v))
				}
			}
		}

		return textResult(sb.String()), nil
	}
}

// valuationRequest builds a ValuationRequest from common tool parameters
func valuationRequest(request mcp.CallToolRequest, config *common.Config) interfaces.ValuationRequest {
	return interfaces.ValuationRequest{
		Symbol:            request.GetString("symbol", config.Symbol),
		SharesOutstanding: optionalFloat(request, "shares_outstanding"),
		FairValue:         optionalFloat(request, "fair_value"),
		BookValue:         optionalFloat(request, "book_value"),
		DeferredTaxRate:   optionalFloat(request, "tax_rate"),
	}
}

// handleCalculateMNAV implements the calculate_mnav tool
func handleCalculateMNAV(valuationService interfaces.ValuationService, config *common.Config, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := valuationRequest(request, config)

		analysis, err := valuationService.Analyze(ctx, req)
		if err != nil {
			logger.Error().Err(err).Str("symbol", req.Symbol).Msg("Valuation failed")
			return errorResult(fmt.Sprintf("Valuation error: %v", err)), nil
		}

		return textResult(analysis.Summary), nil
	}
}

// handleMNAVScenarios implements the mnav_scenarios tool
func handleMNAVScenarios(valuationService interfaces.ValuationService, config *common.Config, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := valuationRequest(request, config)

		rows, err := valuationService.Scenarios(ctx, req, nil)
		if err != nil {
			logger.Error().Err(err).Str("symbol", req.Symbol).Msg("Scenario analysis failed")
			return errorResult(fmt.Sprintf("Scenario error: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s mNAV Scenarios\n\n", req.Symbol)
		sb.WriteString("| Scenario | mNAV/Share | Price | Premium/Discount | Status |\n")
		sb.WriteString("|----------|-----------:|------:|-----------------:|--------|\n")
		for _, row := range rows {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				row.Scenario,
				common.FormatMoney(row.Value),
				common.FormatMoney(row.Result.CurrentPrice),
				common.FormatSignedPct(row.Result.Pct),
				row.Result.Status.Interpretation(),
			)
		}

		return textResult(sb.String()), nil
	}
}

// handleMNAVHistory implements the mnav_history tool
func handleMNAVHistory(valuationService interfaces.ValuationService, config *common.Config, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := valuationRequest(request, config)
		req.Limit = request.GetInt("limit", 30)

		points, err := valuationService.History(ctx, req)
		if err != nil {
			logger.Error().Err(err).Str("symbol", req.Symbol).Msg("History projection failed")
			return errorResult(fmt.Sprintf("History error: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s Price vs mNAV History\n\n", req.Symbol)
		sb.WriteString("| Date | Price | P/mNAV | Premium/Discount | Status |\n")
		sb.WriteString("|------|------:|-------:|-----------------:|--------|\n")
		for _, p := range points {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				p.Date.Format("2006-01-02"),
				common.FormatMoney(p.Price),
				common.FormatRatio(p.Ratio),
				common.FormatSignedPct(p.Pct),
				string(p.Status),
			)
		}

		return textResult(sb.String()), nil
	}
}

// handleDetectSignals implements the detect_signals tool
func handleDetectSignals(valuationService interfaces.ValuationService, config *common.Config, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := request.GetString("symbol", config.Symbol)

		sig, err := valuationService.Signals(ctx, symbol)
		if err != nil {
			logger.Error().Err(err).Str("symbol", symbol).Msg("Signal detection failed")
			return errorResult(fmt.Sprintf("Signal detection error: %v", err)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "# %s Technical Signals\n\n", sig.Symbol)
		fmt.Fprintf(&sb, "Price: %s (%s) | Trend: %s\n\n",
			common.FormatMoney(sig.CurrentPrice), common.FormatSignedPct(sig.ChangePct), sig.Trend)

		fmt.Fprintf(&sb, "- SMA 20/50/200: %.2f / %.2f / %.2f\n", sig.SMA20, sig.SMA50, sig.SMA200)
		fmt.Fprintf(&sb, "- EMA 12/26: %.2f / %.2f\n", sig.EMA12, sig.EMA26)
		fmt.Fprintf(&sb, "- RSI(14): %.1f\n", sig.RSI14)
		fmt.Fprintf(&sb, "- MACD: %.3f (signal %.3f, histogram %.3f)\n", sig.MACD, sig.MACDSignal, sig.MACDHistogram)
		fmt.Fprintf(&sb, "- Bollinger: %.2f / %.2f / %.2f\n", sig.BollingerUpper, sig.BollingerMiddle, sig.BollingerLower)
		fmt.Fprintf(&sb, "- Stochastic %%K/%%D: %.1f / %.1f\n", sig.StochasticK, sig.StochasticD)
		fmt.Fprintf(&sb, "- ATR(14): %.2f\n", sig.ATR14)
		fmt.Fprintf(&sb, "- OBV: %.0f\n", sig.OBV)
		fmt.Fprintf(&sb, "- VWAP(20): %.2f\n", sig.VWAP)
		fmt.Fprintf(&sb, "- 52 Week Range: %s - %s\n", common.FormatMoney(sig.Low52Week), common.FormatMoney(sig.High52Week))
		fmt.Fprintf(&sb, "- Volume Ratio: %.2f\n", sig.VolumeRatio)

		return textResult(sb.String()), nil
	}
}

// Helper functions

// optionalFloat returns a pointer to the argument value when present,
// nil when the caller omitted it. GetFloat's zero default cannot make
// that distinction.
func optionalFloat(request mcp.CallToolRequest, key string) *float64 {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
