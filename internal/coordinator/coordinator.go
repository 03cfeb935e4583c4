package coordinator

import (
	"context"
	"fmt"
	"io"
	"sync"

	"marketquotes/internal/fetcher"
)

// Coordinator manages concurrent fetchers and aggregates results
type Coordinator struct {
	fetchers []fetcher.Fetcher
	out      io.Writer
}

// New creates a new Coordinator with the given fetchers, printing to out
func New(fetchers []fetcher.Fetcher, out io.Writer) *Coordinator {
	return &Coordinator{
		fetchers: fetchers,
		out:      out,
	}
}

// Run executes all fetchers concurrently and prints results to out
// Each fetcher runs in its own goroutine and sends results to a shared channel
// Results are printed as they arrive in the format:
//   - Success: "KEY: SUMMARY"
//   - Error: "KEY: ERROR - error message"
//
// It returns the number of failed fetches.
func (c *Coordinator) Run(ctx context.Context) (int, error) {
	if len(c.fetchers) == 0 {
		return 0, fmt.Errorf("no fetchers configured")
	}

	// Create a channel for collecting results
	resultChan := make(chan fetcher.Result, len(c.fetchers))

	// WaitGroup to track all worker goroutines
	var wg sync.WaitGroup

	// Launch a goroutine for each fetcher
	for _, f := range c.fetchers {
		wg.Add(1)
		go func(ft fetcher.Fetcher) {
			defer wg.Done()

			value, err := ft.Fetch(ctx)

			resultChan <- fetcher.Result{
				Key:   ft.Key(),
				Value: value,
				Error: err,
			}
		}(f)
	}

	// Close the result channel when all workers are done
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	failed := 0
	for result := range resultChan {
		if result.Error != nil {
			failed++
			fmt.Fprintf(c.out, "%s: ERROR - %v\n", result.Key, result.Error)
		} else {
			fmt.Fprintf(c.out, "%s: %s\n", result.Key, result.Value)
		}
	}

	return failed, nil
}
