// Package app wires configuration, clients, services, and the MCP server
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Lantern567/openbb-for-bmnr/internal/clients/openbb"
	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
	"github.com/Lantern567/openbb-for-bmnr/internal/services/market"
	"github.com/Lantern567/openbb-for-bmnr/internal/services/valuation"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	OpenBBClient     *openbb.Client
	MarketService    interfaces.MarketService
	ValuationService interfaces.ValuationService
	MCPServer        *server.MCPServer
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients, and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, MNAV_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("MNAV_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "mnav.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/mnav.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative cache path to binary directory
	if config.Cache.Path != "" && !filepath.IsAbs(config.Cache.Path) {
		config.Cache.Path = filepath.Join(binDir, config.Cache.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// A missing API key is not fatal: the market service falls back to
	// deterministic sample data so the engine stays usable offline.
	apiKey := common.ResolveAPIKey(config.Clients.OpenBB.APIKey)

	var openbbClient *openbb.Client
	if apiKey != "" {
		openbbClient = openbb.NewClient(apiKey,
			openbb.WithBaseURL(config.Clients.OpenBB.BaseURL),
			openbb.WithProvider(config.Clients.OpenBB.Provider),
			openbb.WithLogger(logger),
			openbb.WithRateLimit(config.Clients.OpenBB.RateLimit),
			openbb.WithTimeout(config.Clients.OpenBB.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("OpenBB API key not configured - serving sample data")
	}

	var marketClient interfaces.MarketDataClient
	if openbbClient != nil {
		marketClient = openbbClient
	}

	marketService := market.NewService(marketClient, config, logger)
	valuationService := valuation.NewService(marketService, config, logger)

	mcpServer := server.NewMCPServer(
		"mnav",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		OpenBBClient:     openbbClient,
		MarketService:    marketService,
		ValuationService: valuationService,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetStockDataTool(), handleGetStockData(a.MarketService, a.Config, logger))
	s.AddTool(createCalculateMNAVTool(), handleCalculateMNAV(a.ValuationService, a.Config, logger))
	s.AddTool(createMNAVScenariosTool(), handleMNAVScenarios(a.ValuationService, a.Config, logger))
	s.AddTool(createMNAVHistoryTool(), handleMNAVHistory(a.ValuationService, a.Config, logger))
	s.AddTool(createDetectSignalsTool(), handleDetectSignals(a.ValuationService, a.Config, logger))
}
