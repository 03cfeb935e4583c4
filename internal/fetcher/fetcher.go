package fetcher

import (
	"context"
	"fmt"
)

// Fetcher is the contract the snapshot coordinator runs.
// Each fetcher retrieves one normalized record and provides a snapshot key for it.
type Fetcher interface {
	// Fetch retrieves the record. The returned value prints a one-line summary.
	// Returns an error if the fetch operation fails.
	Fetch(ctx context.Context) (fmt.Stringer, error)

	// Key returns the hierarchical snapshot key for this fetcher.
	// Format: fetcher:{source}:{kind}:{identifier}
	// Examples:
	//   - fetcher:alphavantage:quote:AAPL
	//   - fetcher:alphavantage:fx:XAU/USD
	Key() string
}
