package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CurrencyPair is one from/to pair to snapshot, e.g. XAU/USD.
type CurrencyPair struct {
	From string
	To   string
}

// Config holds all configuration for the market quotes service.
type Config struct {
	// Alpha Vantage access
	AlphavantageAPIKey            string  `mapstructure:"alphavantage_api_key"`
	AlphavantageBaseURL           string  `mapstructure:"alphavantage_base_url"`
	AlphavantageRequestsPerMinute float64 `mapstructure:"alphavantage_requests_per_minute"`

	// Transport policy
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	HTTPRetryCount int           `mapstructure:"http_retry_count"`

	// HTTP server
	ListenAddr         string   `mapstructure:"listen_addr"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Items to fetch in snapshot mode
	StockSymbols  []string `mapstructure:"stock_symbols"`
	CurrencyPairs []string `mapstructure:"currency_pairs"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - ALPHAVANTAGE_API_KEY
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - ALPHAVANTAGE_REQUESTS_PER_MINUTE (optional, 0 = unlimited)
//   - HTTP_TIMEOUT (optional, defaults to 10s)
//   - HTTP_RETRY_COUNT (optional, defaults to 0)
//   - LISTEN_ADDR (optional, defaults to :8080)
//   - CORS_ALLOWED_ORIGINS (optional, comma separated)
//   - LOG_LEVEL (optional: debug, info, warn, error)
//   - LOG_FORMAT (optional: text, json)
//   - STOCK_SYMBOLS, CURRENCY_PAIRS (optional, comma separated, pairs as FROM/TO)
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("alphavantage_requests_per_minute", 0)
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("http_retry_count", 0)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.marketquotes")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	for _, key := range []string{
		"alphavantage_api_key",
		"alphavantage_base_url",
		"alphavantage_requests_per_minute",
		"http_timeout",
		"http_retry_count",
		"listen_addr",
		"cors_allowed_origins",
		"log_level",
		"log_format",
		"stock_symbols",
		"currency_pairs",
	} {
		v.BindEnv(key, strings.ToUpper(key))
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	var missing []string
	if strings.TrimSpace(config.AlphavantageAPIKey) == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if _, err := config.Pairs(); err != nil {
		return nil, err
	}
	if config.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %s", config.HTTPTimeout)
	}

	return config, nil
}

// Pairs parses CurrencyPairs entries of the form FROM/TO.
func (c *Config) Pairs() ([]CurrencyPair, error) {
	pairs := make([]CurrencyPair, 0, len(c.CurrencyPairs))
	for _, raw := range c.CurrencyPairs {
		from, to, ok := strings.Cut(strings.TrimSpace(raw), "/")
		if !ok || strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return nil, fmt.Errorf("invalid currency pair %q, want FROM/TO", raw)
		}
		pairs = append(pairs, CurrencyPair{From: strings.TrimSpace(from), To: strings.TrimSpace(to)})
	}
	return pairs, nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
