package alphavantage

import (
	"context"
	"fmt"
	"strings"
)

// StockFetcher fetches one stock quote from AlphaVantage
type StockFetcher struct {
	client *Client
	ticker string
}

// NewStockFetcher creates a new stock quote fetcher
func NewStockFetcher(client *Client, ticker string) *StockFetcher {
	return &StockFetcher{
		client: client,
		ticker: ticker,
	}
}

// Fetch retrieves the current quote
func (f *StockFetcher) Fetch(ctx context.Context) (fmt.Stringer, error) {
	quote, err := f.client.GetQuote(ctx, f.ticker)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// Key returns the snapshot key for this fetcher
func (f *StockFetcher) Key() string {
	return fmt.Sprintf("fetcher:alphavantage:quote:%s", strings.ToUpper(f.ticker))
}

// FXFetcher fetches one currency exchange rate from AlphaVantage
type FXFetcher struct {
	client *Client
	from   string
	to     string
}

// NewFXFetcher creates a new exchange rate fetcher
func NewFXFetcher(client *Client, from, to string) *FXFetcher {
	return &FXFetcher{
		client: client,
		from:   from,
		to:     to,
	}
}

// Fetch retrieves the current exchange rate
func (f *FXFetcher) Fetch(ctx context.Context) (fmt.Stringer, error) {
	rate, err := f.client.GetExchangeRate(ctx, f.from, f.to)
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// Key returns the snapshot key for this fetcher
func (f *FXFetcher) Key() string {
	return fmt.Sprintf("fetcher:alphavantage:fx:%s/%s", strings.ToUpper(f.from), strings.ToUpper(f.to))
}
