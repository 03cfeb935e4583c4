package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"marketquotes/internal/fetcher"
	"marketquotes/internal/normalize"
	"marketquotes/internal/ratelimit"
)

const (
	// DefaultBaseURL is the production query endpoint
	DefaultBaseURL = "https://www.alphavantage.co/query"

	defaultTimeout = 10 * time.Second
)

// Client fetches raw Alpha Vantage payloads and hands them to the normalizer.
// It owns the transport concerns: timeouts, optional pacing and the API key.
type Client struct {
	apiKey     string
	baseURL    string
	client     *resty.Client
	limiter    *ratelimit.Limiter
	normalizer *normalize.Normalizer
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the query endpoint. Ignored when WithHTTPClient is used.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the resty client used for outbound requests
func WithHTTPClient(client *resty.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLimiter paces outbound requests through limiter
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithNormalizer replaces the normalizer, mostly to pin the capture clock in tests
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *Client) {
		c.normalizer = n
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, options ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("alphavantage API key has not been configured")
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
	}
	for _, option := range options {
		option(c)
	}

	if c.client == nil {
		c.client = fetcher.NewHTTPClient(c.baseURL, defaultTimeout, 0)
	}
	if c.normalizer == nil {
		c.normalizer = normalize.New()
	}

	return c, nil
}

// GetQuote retrieves and normalizes the GLOBAL_QUOTE for symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (normalize.QuoteRecord, error) {
	if strings.TrimSpace(symbol) == "" {
		return normalize.QuoteRecord{}, fetcher.NewInvalidInputError("symbol cannot be empty")
	}

	raw, err := c.fetch(ctx, map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
	})
	if err != nil {
		return normalize.QuoteRecord{}, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}

	return c.normalizer.Quote(symbol, raw)
}

// GetExchangeRate retrieves and normalizes the CURRENCY_EXCHANGE_RATE for from/to
func (c *Client) GetExchangeRate(ctx context.Context, from, to string) (normalize.ExchangeRateRecord, error) {
	if strings.TrimSpace(from) == "" {
		return normalize.ExchangeRateRecord{}, fetcher.NewInvalidInputError("source currency cannot be empty")
	}
	if strings.TrimSpace(to) == "" {
		return normalize.ExchangeRateRecord{}, fetcher.NewInvalidInputError("target currency cannot be empty")
	}

	raw, err := c.fetch(ctx, map[string]string{
		"function":      "CURRENCY_EXCHANGE_RATE",
		"from_currency": from,
		"to_currency":   to,
	})
	if err != nil {
		return normalize.ExchangeRateRecord{}, fmt.Errorf("failed to fetch exchange rate for %s: %w", normalize.Pair(from, to), err)
	}

	return c.normalizer.ExchangeRate(from, to, raw)
}

// GetGoldPrice retrieves the XAU/USD rate
func (c *Client) GetGoldPrice(ctx context.Context) (normalize.ExchangeRateRecord, error) {
	return c.GetExchangeRate(ctx, "XAU", "USD")
}

// fetch performs one query and returns the raw body.
// Caller cancellation is returned as the context error, never as a transport failure.
func (c *Client) fetch(ctx context.Context, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// the next slot lies beyond the caller's deadline
		return nil, fmt.Errorf("%v: %w", err, context.DeadlineExceeded)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apikey", c.apiKey).
		Get("")

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fetcher.NewTransportError(err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.NewStatusError(resp.StatusCode())
	}

	return resp.Bytes(), nil
}
