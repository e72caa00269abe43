package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the mNAV MCP server version and status. Use this to verify connectivity."),
	)
}

// createGetStockDataTool returns the get_stock_data tool definition
func createGetStockDataTool() mcp.Tool {
	return mcp.NewTool("get_stock_data",
		mcp.WithDescription("Get market data for a ticker: latest price, company profile, and balance sheet summary."),
		mcp.WithString("symbol",
			mcp.Description("Stock ticker (e.g., 'BMNR'). Defaults to the configured symbol."),
		),
		mcp.WithBoolean("refresh",
			mcp.Description("Bypass the cache and refetch from the provider (default: false)"),
		),
	)
}

// createCalculateMNAVTool returns the calculate_mnav tool definition
func createCalculateMNAVTool() mcp.Tool {
	return mcp.NewTool("calculate_mnav",
		mcp.WithDescription("Calculate Modified Net Asset Value for a ticker and compare it to the current market price. Optionally applies a fair value revaluation with deferred tax."),
		mcp.WithString("symbol",
			mcp.Description("Stock ticker (e.g., 'BMNR'). Defaults to the configured symbol."),
		),
		mcp.WithNumber("shares_outstanding",
			mcp.Description("Override shares outstanding (default: from company profile)"),
		),
		mcp.WithNumber("fair_value",
			mcp.Description("Fair value of the revalued asset class. Requires book_value."),
		),
		mcp.WithNumber("book_value",
			mcp.Description("Book value of the revalued asset class. Requires fair_value."),
		),
		mcp.WithNumber("tax_rate",
			mcp.Description("Deferred tax rate applied to the revaluation gain (e.g., 0.10)"),
		),
	)
}

// createMNAVScenariosTool returns the mnav_scenarios tool definition
func createMNAVScenariosTool() mcp.Tool {
	return mcp.NewTool("mnav_scenarios",
		mcp.WithDescription("Compare the current market price against alternate mNAV per-share scenarios. Without explicit values, a Conservative/Base/Optimistic ladder is derived from the computed mNAV."),
		mcp.WithString("symbol",
			mcp.Description("Stock ticker (e.g., 'BMNR'). Defaults to the configured symbol."),
		),
		mcp.WithNumber("shares_outstanding",
			mcp.Description("Override shares outstanding (default: from company profile)"),
		),
		mcp.WithNumber("fair_value",
			mcp.Description("Fair value of the revalued asset class. Requires book_value."),
		),
		mcp.WithNumber("book_value",
			mcp.Description("Book value of the revalued asset class. Requires fair_value."),
		),
		mcp.WithNumber("tax_rate",
			mcp.Description("Deferred tax rate applied to the revaluation gain"),
		),
	)
}

// createMNAVHistoryTool returns the mnav_history tool definition
func createMNAVHistoryTool() mcp.Tool {
	return mcp.NewTool("mnav_history",
		mcp.WithDescription("Project the daily closing price against mNAV per share over the price history. Returns ratio, premium/discount, and classification per day."),
		mcp.WithString("symbol",
			mcp.Description("Stock ticker (e.g., 'BMNR'). Defaults to the configured symbol."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum rows to return, most recent first (default: 30)"),
		),
		mcp.WithNumber("shares_outstanding",
			mcp.Description("Override shares outstanding (default: from company profile)"),
		),
		mcp.WithNumber("fair_value",
			mcp.Description("Fair value of the revalued asset class. Requires book_value."),
		),
		mcp.WithNumber("book_value",
			mcp.Description("Book value of the revalued asset class. Requires fair_value."),
		),
		mcp.WithNumber("tax_rate",
			mcp.Description("Deferred tax rate applied to the revaluation gain"),
		),
	)
}

// createDetectSignalsTool returns the detect_signals tool definition
func createDetectSignalsTool() mcp.Tool {
	return mcp.NewTool("detect_signals",
		mcp.WithDescription("Compute technical indicators for a ticker: moving averages, RSI, MACD, Bollinger Bands, stochastic, OBV, VWAP, and trend classification."),
		mcp.WithString("symbol",
			mcp.Description("Stock ticker (e.g., 'BMNR'). Defaults to the configured symbol."),
		),
	)
}
