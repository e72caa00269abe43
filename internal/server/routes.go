package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Stocks
	mux.HandleFunc("/api/stocks/", s.routeStocks)
}

// routeStocks dispatches /api/stocks/{symbol}/... requests.
func (s *Server) routeStocks(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/stocks/"

	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	symbol := parts[0]
	if symbol == "" {
		WriteError(w, http.StatusNotFound, "Symbol is required")
		return
	}

	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch sub {
	case "mnav":
		s.handleMNAV(w, r, symbol)
	case "mnav/history":
		s.handleMNAVHistory(w, r, symbol)
	case "mnav/scenarios":
		s.handleMNAVScenarios(w, r, symbol)
	case "metrics":
		s.handleMetrics(w, r, symbol)
	case "prices":
		s.handlePrices(w, r, symbol)
	case "signals":
		s.handleSignals(w, r, symbol)
	case "charts/price":
		s.handlePriceChart(w, r, symbol)
	case "charts/mnav":
		s.handleMNAVChart(w, r, symbol)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
