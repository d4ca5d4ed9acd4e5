package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"parsifly/pkg/config"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow reports whether a request may proceed now, consuming a token if so
	Allow() bool
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
	// Reset refills the limiter to its burst size
	Reset()
}

// TokenBucket is a Limiter backed by golang.org/x/time/rate
type TokenBucket struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewTokenBucket allows requestsPerMinute on average with bursts of up to burst
func NewTokenBucket(requestsPerMinute, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &TokenBucket{
		limit:   limit,
		burst:   burst,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// FromConfig builds a TokenBucket from the rate_limit section
func FromConfig(cfg config.RateLimitConfig) *TokenBucket {
	return NewTokenBucket(cfg.RequestsPerMinute, cfg.BurstSize)
}

// Unlimited returns a Limiter that never blocks
func Unlimited() *TokenBucket {
	return NewTokenBucket(0, 1)
}

func (tb *TokenBucket) current() *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limiter
}

func (tb *TokenBucket) Allow() bool {
	return tb.current().Allow()
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.current().Wait(ctx)
}

func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.limiter = rate.NewLimiter(tb.limit, tb.burst)
}

// Interval returns the configured spacing between requests, zero when unlimited
func (tb *TokenBucket) Interval() time.Duration {
	if tb.limit == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(tb.limit))
}
