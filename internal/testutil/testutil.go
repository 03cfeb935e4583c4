package testutil

import (
	"context"
	"fmt"

	"marketquotes/internal/fetcher"
)

// Summary is a fixed fmt.Stringer for mock results
type Summary string

func (s Summary) String() string { return string(s) }

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context) (fmt.Stringer, error)
	KeyFunc   func() string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context) (fmt.Stringer, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return Summary(""), nil
}

// Key implements the Fetcher interface
func (m *MockFetcher) Key() string {
	if m.KeyFunc != nil {
		return m.KeyFunc()
	}
	return "mock:key"
}

// NewMockFetcher creates a simple mock fetcher with a predefined summary
func NewMockFetcher(key, summary string, err error) fetcher.Fetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context) (fmt.Stringer, error) {
			if err != nil {
				return nil, err
			}
			return Summary(summary), nil
		},
		KeyFunc: func() string {
			return key
		},
	}
}
