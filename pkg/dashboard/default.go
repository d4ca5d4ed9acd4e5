package dashboard

import (
	"context"
	"sync"

	"parsifly/pkg/alternative"
	"parsifly/pkg/config"
	"parsifly/pkg/logger"
	"parsifly/pkg/platform"
	"parsifly/pkg/profile"
	"parsifly/pkg/ratelimit"
)

var (
	defaultMu           sync.Mutex
	defaultOrchestrator *Orchestrator
)

// SetDefault replaces the orchestrator used by the package-level helpers
func SetDefault(o *Orchestrator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOrchestrator = o
}

// Default returns the package-level orchestrator, building one from the
// default configuration (in-memory cache) on first use
func Default() *Orchestrator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultOrchestrator == nil {
		defaultOrchestrator = newDefault(config.DefaultConfig(), logger.GetLogger())
	}
	return defaultOrchestrator
}

// newDefault builds the orchestrator for cfg. When the cache backend cannot
// be opened it runs without a cache, so lookups go straight to the
// alternative source.
func newDefault(cfg *config.Config, log logger.Logger) *Orchestrator {
	o, _, err := NewFromConfig(cfg, log)
	if err == nil {
		return o
	}
	log.WithError(err).Error("Cache backend unavailable, continuing without cache")

	client := alternative.NewClient(cfg.Alternative, ratelimit.FromConfig(cfg.RateLimit), log)
	fetcher := alternative.NewFetcher(client, nil, alternative.OptionsFromConfig(cfg.Alternative), log)
	return New(cfg.Platforms, platform.DefaultRegistry(cfg.Platforms), nil, fetcher, log)
}

// FetchProfileData resolves a profile through the default orchestrator
func FetchProfileData(ctx context.Context, platform, username string) (*profile.Profile, error) {
	return Default().GetProfile(ctx, platform, username)
}

// FetchProfileDataByTimeRange resolves a profile through the default
// orchestrator and rescales it to r
func FetchProfileDataByTimeRange(ctx context.Context, platform, username string, r profile.TimeRange) (*profile.Profile, error) {
	return Default().GetProfileByTimeRange(ctx, platform, username, r)
}
