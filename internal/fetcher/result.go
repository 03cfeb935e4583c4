package fetcher

import "fmt"

// Result represents the outcome of a fetch operation.
// It's sent through a channel from worker goroutines to the coordinator.
type Result struct {
	// Key is the hierarchical snapshot key for this data point
	Key string

	// Value is the fetched record (quote, exchange rate).
	Value fmt.Stringer

	// Error contains any error that occurred during the fetch operation.
	// If Error is not nil, Value should be considered invalid.
	Error error
}
