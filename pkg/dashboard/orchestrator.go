package dashboard

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"parsifly/pkg/alternative"
	"parsifly/pkg/cache"
	"parsifly/pkg/config"
	errs "parsifly/pkg/errors"
	"parsifly/pkg/logger"
	"parsifly/pkg/platform"
	"parsifly/pkg/profile"
	"parsifly/pkg/ratelimit"
	"parsifly/pkg/storage"
	"parsifly/pkg/synthetic"
	"parsifly/pkg/timerange"
)

// Strategy names, in the order they can appear in a chain
const (
	StrategyPlatformAPI = "platform-api"
	StrategyCache       = "cache"
	StrategyAlternative = "alternative"
)

type strategy struct {
	name string
	run  func(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error)
}

// Orchestrator resolves profile lookups through a chain of data sources
type Orchestrator struct {
	platforms   config.PlatformsConfig
	apis        PlatformFetcher
	cache       ProfileCache
	alternative AlternativeSource
	logger      logger.Logger
}

// New creates an Orchestrator. cfg decides which platforms use their
// first-party API.
func New(cfg config.PlatformsConfig, apis PlatformFetcher, cache ProfileCache, alt AlternativeSource, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Orchestrator{
		platforms:   cfg,
		apis:        apis,
		cache:       cache,
		alternative: alt,
		logger:      log.WithField("component", "dashboard"),
	}
}

// NewFromConfig wires the full stack described by cfg: platform registry,
// cache backend, rate-limited alternative client and synthetic generator.
// The returned Closer releases the cache backend.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Orchestrator, io.Closer, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	kv, err := storage.Open(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache backend: %w", err)
	}
	logger.LogComponentStart(log, "cache", map[string]interface{}{
		"backend": cfg.Cache.Backend,
		"ttl":     cfg.Cache.TTL,
	})

	store := cache.New(kv, cache.Options{TTL: cfg.Cache.TTL, Prefix: cfg.Cache.KeyPrefix}, log)
	client := alternative.NewClient(cfg.Alternative, ratelimit.FromConfig(cfg.RateLimit), log)

	opts := alternative.OptionsFromConfig(cfg.Alternative)
	opts.Generator = synthetic.NewGenerator()
	fetcher := alternative.NewFetcher(client, store, opts, log)

	o := New(cfg.Platforms, platform.DefaultRegistry(cfg.Platforms), store, fetcher, log)
	return o, kv, nil
}

// Chain returns the strategy names GetProfile would try for p
func (o *Orchestrator) Chain(p profile.Platform) []string {
	chain := o.chain(p)
	names := make([]string, len(chain))
	for i, s := range chain {
		names[i] = s.name
	}
	return names
}

func (o *Orchestrator) chain(p profile.Platform) []strategy {
	alt := strategy{name: StrategyAlternative, run: o.fromAlternative}
	if o.platforms.HasAPIKey(p) {
		return []strategy{{name: StrategyPlatformAPI, run: o.fromPlatformAPI}, alt}
	}
	return []strategy{{name: StrategyCache, run: o.fromCache}, alt}
}

func (o *Orchestrator) fromPlatformAPI(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error) {
	if o.apis == nil {
		return nil, errs.New(errs.ErrorTypeNotImplemented, "no platform clients configured")
	}
	return o.apis.Fetch(ctx, p, username)
}

func (o *Orchestrator) fromCache(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error) {
	if o.cache == nil {
		return nil, errs.New(errs.ErrorTypeNotFound, "no cache configured")
	}
	cached, ok := o.cache.Get(ctx, p, username)
	if !ok {
		return nil, errs.New(errs.ErrorTypeNotFound, "no fresh cache entry for %s/%s", p, username)
	}
	out := cached.Clone()
	out.Source = profile.SourceCache
	return out, nil
}

func (o *Orchestrator) fromAlternative(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error) {
	if o.alternative == nil {
		return nil, errs.New(errs.ErrorTypeNotImplemented, "no alternative source configured")
	}
	out := o.alternative.Fetch(ctx, p, username)
	if out == nil {
		return nil, errs.New(errs.ErrorTypeUnknown, "alternative source returned no profile")
	}
	return out, nil
}

// GetProfile resolves platformName and runs its strategy chain
func (o *Orchestrator) GetProfile(ctx context.Context, platformName, username string) (*profile.Profile, error) {
	p, err := profile.ParsePlatform(platformName)
	if err != nil {
		return nil, err
	}

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = WithRequestID(ctx, requestID)
	}
	log := o.logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"platform":   string(p),
		"username":   username,
	})

	chain := o.chain(p)
	var lastErr error
	for i, s := range chain {
		result, err := s.run(ctx, p, username)
		if err == nil {
			log.WithField("strategy", s.name).Debug("Profile resolved")
			return result, nil
		}
		if !errs.IsFallbackable(err) {
			return nil, err
		}
		lastErr = err

		if i+1 < len(chain) {
			log.WithError(err).WithFields(map[string]interface{}{
				"strategy": s.name,
				"next":     chain[i+1].name,
			}).Warn(fmt.Sprintf("Strategy %s failed, falling back to %s", s.name, chain[i+1].name))
		}
	}

	log.WithError(lastErr).Error("All data sources failed")
	return nil, errs.Wrap(errs.ErrorTypeExhausted, lastErr, "failed to fetch %s profile data for %s", p, username)
}

// GetProfileByTimeRange runs GetProfile and rescales growth figures to r
func (o *Orchestrator) GetProfileByTimeRange(ctx context.Context, platformName, username string, r profile.TimeRange) (*profile.Profile, error) {
	p, err := o.GetProfile(ctx, platformName, username)
	if err != nil {
		return nil, err
	}
	return timerange.Apply(p, r), nil
}
