package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lantern567/openbb-for-bmnr/internal/app"
	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/services/market"
	"github.com/Lantern567/openbb-for-bmnr/internal/services/valuation"
)

// newTestServer builds a server over sample market data with no provider.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Cache.Path = t.TempDir()

	logger := common.NewSilentLogger()
	marketService := market.NewService(nil, cfg, logger)
	valuationService := valuation.NewService(marketService, cfg, logger)

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		MarketService:    marketService,
		ValuationService: valuationService,
		MCPServer:        mcpserver.NewMCPServer("mnav-test", "0.0.0-test"),
	}

	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHealthMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "build")
	assert.Contains(t, body, "commit")
}

func TestConfig(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/config")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "BMNR", body["symbol"])
	assert.Equal(t, false, body["provider_configured"])
	assert.NotContains(t, rec.Body.String(), "api_key")
}

func TestMNAVEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet,
		"/api/stocks/BMNR/mnav?fair_value=500000000&book_value=400000000&tax_rate=0.10")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "BMNR", body["symbol"])
	assert.Equal(t, "sample", body["source"])

	mnav, ok := body["mnav"].(map[string]interface{})
	require.True(t, ok)
	// Sample balance sheet: 1B assets, 600M liabilities, 50M minority;
	// 100M revaluation gain taxed at 10% over 10M shares
	assert.InDelta(t, 440_000_000, mnav["total"].(float64), 0.001)
	assert.InDelta(t, 44.0, mnav["per_share"].(float64), 0.001)

	require.Contains(t, body, "premium_discount")
	require.Contains(t, body, "summary")
}

func TestMNAVHistoryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/mnav/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	points, ok := body["points"].([]interface{})
	require.True(t, ok)
	assert.Len(t, points, 5)
}

func TestMNAVScenariosEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/mnav/scenarios")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	scenarios, ok := body["scenarios"].([]interface{})
	require.True(t, ok)
	require.Len(t, scenarios, 3)

	first := scenarios[0].(map[string]interface{})
	assert.Equal(t, "Conservative", first["scenario"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/metrics")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body, "current_price")
	assert.Contains(t, body, "valuation")
	assert.Contains(t, body, "signals")
}

func TestPricesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/prices?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	prices, ok := body["prices"].([]interface{})
	require.True(t, ok)
	assert.Len(t, prices, 10)

	row := prices[0].(map[string]interface{})
	assert.Contains(t, row, "date")
	assert.Contains(t, row, "close")
	assert.Contains(t, row, "change_pct")
}

func TestSignalsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/signals")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "BMNR", body["symbol"])
	assert.Contains(t, body, "rsi_14")
	assert.Contains(t, body, "trend")
}

func TestPriceChartEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/charts/price")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, rec.Body.Bytes()[:4])
}

func TestUnknownStockRoute(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/stocks/BMNR/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodOptions, "/api/health")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDAssigned(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestCorrelationIDPreserved(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc123", rec.Header().Get("X-Correlation-ID"))
}
