// Package ratelimit throttles outbound requests to the public fallback API.
//
// TokenBucket wraps golang.org/x/time/rate behind the Limiter interface so
// callers can wait with a context and tests can swap in Unlimited:
//
//	limiter := ratelimit.FromConfig(cfg.RateLimit)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
