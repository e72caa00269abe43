// Package common provides shared utilities for the mNAV service
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the mNAV service
type Config struct {
	Environment  string          `toml:"environment"`
	Symbol       string          `toml:"symbol"`        // default ticker to analyse
	LookbackDays int             `toml:"lookback_days"` // price history window
	Server       ServerConfig    `toml:"server"`
	Clients      ClientsConfig   `toml:"clients"`
	Valuation    ValuationConfig `toml:"valuation"`
	Cache        CacheConfig     `toml:"cache"`
	Logging      LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	OpenBB OpenBBConfig `toml:"openbb"`
}

// OpenBBConfig holds OpenBB Platform API configuration
type OpenBBConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Provider  string `toml:"provider"` // upstream data provider, e.g. "yfinance"
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *OpenBBConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValuationConfig holds valuation engine policy settings
type ValuationConfig struct {
	PremiumThresholdPct  float64 `toml:"premium_threshold_pct"`  // pct above which price trades at a premium
	DiscountThresholdPct float64 `toml:"discount_threshold_pct"` // pct below which price trades at a discount
	DeferredTaxRate      float64 `toml:"deferred_tax_rate"`
}

// CacheConfig holds market data cache configuration
type CacheConfig struct {
	Path   string `toml:"path"`
	Expiry string `toml:"expiry"`
}

// GetExpiry parses and returns the cache expiry duration
func (c *CacheConfig) GetExpiry() time.Duration {
	d, err := time.ParseDuration(c.Expiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:  "development",
		Symbol:       "BMNR",
		LookbackDays: 365,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			OpenBB: OpenBBConfig{
				BaseURL:   "https://api.openbb.dev/api/v1",
				Provider:  "yfinance",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Valuation: ValuationConfig{
			PremiumThresholdPct:  5.0,
			DiscountThresholdPct: -5.0,
			DeferredTaxRate:      0.0,
		},
		Cache: CacheConfig{
			Path:   "data/cache",
			Expiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateThresholds(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MNAV_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MNAV_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MNAV_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MNAV_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if symbol := os.Getenv("MNAV_SYMBOL"); symbol != "" {
		config.Symbol = strings.ToUpper(symbol)
	}

	if path := os.Getenv("MNAV_CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}

	if key := os.Getenv("MNAV_OPENBB_API_KEY"); key != "" {
		config.Clients.OpenBB.APIKey = key
	}
	if key := os.Getenv("OPENBB_PAT"); key != "" && config.Clients.OpenBB.APIKey == "" {
		config.Clients.OpenBB.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves the OpenBB API key from environment or config fallback.
// An empty result is not an error: the market service falls back to sample data.
func ResolveAPIKey(fallback string) string {
	for _, name := range []string{"MNAV_OPENBB_API_KEY", "OPENBB_PAT"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return fallback
}

// validateThresholds restores the ±5% classification defaults when the
// configured thresholds are inverted or zeroed.
func validateThresholds(config *Config) {
	v := &config.Valuation
	if v.PremiumThresholdPct <= 0 {
		v.PremiumThresholdPct = 5.0
	}
	if v.DiscountThresholdPct >= 0 {
		v.DiscountThresholdPct = -5.0
	}
}
