package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIAlphaVantage represents the AlphaVantage API
	APIAlphaVantage API = "alphavantage"
)

// Limiter paces outbound requests per API. APIs without a configured rate are unlimited.
// A nil *Limiter never blocks.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New returns a Limiter with no limits configured
func New() *Limiter {
	return &Limiter{
		limiters: make(map[API]*rate.Limiter),
	}
}

// SetRate limits the given API to perMinute requests per minute with a burst of one.
// A non-positive rate removes the limit.
//
// AlphaVantage free tier: 5 requests per minute, i.e. one request every 12 seconds.
func (l *Limiter) SetRate(api API, perMinute float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if perMinute <= 0 {
		delete(l.limiters, api)
		return
	}
	l.limiters[api] = rate.NewLimiter(rate.Limit(perMinute/60.0), 1)
}

func (l *Limiter) get(api API) (*rate.Limiter, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	limiter, exists := l.limiters[api]
	return limiter, exists
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	limiter, exists := l.get(api)
	if !exists {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}
