// Package dashboard is the entry point for profile lookups.
//
// The Orchestrator picks a chain of data sources per request and tries each
// once, in order, until one produces a profile:
//
//   - a platform with a configured API key: platform API, then the
//     alternative source
//   - otherwise: the cache, then the alternative source
//
// The alternative source never fails; when the public API is unreachable it
// returns synthetic data. Every fallback is logged as a warning carrying the
// request ID.
//
// Usage:
//
//	o, closer, err := dashboard.NewFromConfig(cfg, logger.GetLogger())
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	p, err := o.GetProfileByTimeRange(ctx, "TikTok", "jane", profile.Range90d)
package dashboard
