// Package alternative fetches profile numbers from a public, unauthenticated
// user API when no first-party platform API is available.
//
// The Client wraps net/http with a rate limiter and typed errors. The
// Fetcher maps the public record onto a profile, guards the Client with a
// circuit breaker, and never fails: any error falls through to synthetic
// data, which is written to the cache.
//
// Usage:
//
//	client := alternative.NewClient(cfg.Alternative, ratelimit.FromConfig(cfg.RateLimit), log)
//	fetcher := alternative.NewFetcher(client, store, alternative.Options{
//	    Generator: synthetic.NewGenerator(),
//	}, log)
//	p := fetcher.Fetch(ctx, profile.TikTok, "jane")
package alternative
