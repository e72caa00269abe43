// Package openbb provides a client for the OpenBB Platform API
package openbb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Lantern567/openbb-for-bmnr/internal/common"
	"github.com/Lantern567/openbb-for-bmnr/internal/interfaces"
	"github.com/Lantern567/openbb-for-bmnr/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://api.openbb.dev/api/v1"
	DefaultProvider  = "yfinance"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the MarketDataClient interface against the OpenBB
// Platform REST API.
type Client struct {
	baseURL    string
	apiKey     string
	provider   string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithProvider sets the upstream data provider OpenBB routes to
func WithProvider(provider string) ClientOption {
	return func(c *Client) {
		c.provider = provider
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new OpenBB client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		provider: DefaultProvider,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenBB API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// resultsEnvelope is the standard OpenBB response wrapper
type resultsEnvelope struct {
	Results json.RawMessage `json:"results"`
}

// get performs a rate-limited GET request and unwraps the results envelope
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("provider", c.provider)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("OpenBB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	var envelope resultsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Results == nil {
		return fmt.Errorf("response missing results: %s", path)
	}

	if err := json.Unmarshal(envelope.Results, result); err != nil {
		return fmt.Errorf("failed to decode results: %w", err)
	}

	return nil
}

// eodBarResponse represents one row of equity price history
type eodBarResponse struct {
	Date     string      `json:"date"`
	Open     float64     `json:"open"`
	High     float64     `json:"high"`
	Low      float64     `json:"low"`
	Close    float64     `json:"close"`
	AdjClose flexFloat64 `json:"adj_close"`
	Volume   int64       `json:"volume"`
}

// GetEOD retrieves daily price history, most recent first
func (c *Client) GetEOD(ctx context.Context, symbol string, from, to time.Time) ([]models.EODBar, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1d")
	if !from.IsZero() {
		params.Set("start_date", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("end_date", to.Format("2006-01-02"))
	}

	var rows []eodBarResponse
	if err := c.get(ctx, "/equity/price/historical", params, &rows); err != nil {
		return nil, err
	}

	bars := make([]models.EODBar, len(rows))
	for i, row := range rows {
		date, _ := time.Parse("2006-01-02", row.Date)
		adjClose := float64(row.AdjClose)
		if adjClose == 0 {
			adjClose = row.Close
		}
		bars[i] = models.EODBar{
			Date:     date,
			Open:     row.Open,
			High:     row.High,
			Low:      row.Low,
			Close:    row.Close,
			AdjClose: adjClose,
			Volume:   row.Volume,
		}
	}

	// OpenBB returns ascending date order; callers expect most recent first
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	c.logger.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("Fetched EOD history")

	return bars, nil
}

// profileResponse represents the equity profile payload
type profileResponse struct {
	Symbol            string      `json:"symbol"`
	Name              string      `json:"name"`
	Sector            string      `json:"sector"`
	Industry          string      `json:"industry_category"`
	SharesOutstanding flexFloat64 `json:"shares_outstanding"`
	MarketCap         flexFloat64 `json:"market_cap"`
	Description       string      `json:"long_description"`
}

// GetProfile retrieves company reference data
func (c *Client) GetProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var rows []profileResponse
	if err := c.get(ctx, "/equity/profile", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no profile data for %s", symbol)
	}

	row := rows[0]
	return &models.CompanyProfile{
		Symbol:            symbol,
		Name:              row.Name,
		Sector:            row.Sector,
		Industry:          row.Industry,
		SharesOutstanding: float64(row.SharesOutstanding),
		MarketCap:         float64(row.MarketCap),
		Description:       row.Description,
		LastUpdated:       time.Now().UTC(),
	}, nil
}

// GetBalanceSheets retrieves the latest balance sheet reporting periods,
// most recent first. Field names vary by provider, so every numeric field
// is kept verbatim for the valuation engine's resolver to interpret.
func (c *Client) GetBalanceSheets(ctx context.Context, symbol string, limit int) ([]models.BalanceSheetSnapshot, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("period", "annual")
	params.Set("limit", strconv.Itoa(limit))

	var rows []map[string]json.RawMessage
	if err := c.get(ctx, "/equity/fundamental/balance", params, &rows); err != nil {
		return nil, err
	}

	snapshots := make([]models.BalanceSheetSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshot := models.BalanceSheetSnapshot{
			Fields: make(map[string]float64, len(row)),
		}
		for key, raw := range row {
			if key == "period_ending" || key == "date" {
				var s string
				if err := json.Unmarshal(raw, &s); err == nil {
					if t, err := time.Parse("2006-01-02", s); err == nil {
						snapshot.PeriodEnd = t
					}
				}
				continue
			}
			if v, ok := numericField(raw); ok {
				snapshot.Fields[key] = v
			}
		}
		snapshots = append(snapshots, snapshot)
	}

	c.logger.Debug().Str("symbol", symbol).Int("periods", len(snapshots)).Msg("Fetched balance sheets")

	return snapshots, nil
}

// numericField parses a raw JSON value as a number, accepting numeric
// strings. Non-numeric values are skipped rather than stored as zero.
func numericField(raw json.RawMessage) (float64, bool) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if num, err := strconv.ParseFloat(s, 64); err == nil {
			return num, true
		}
	}
	return 0, false
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
