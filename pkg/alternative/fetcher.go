package alternative

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"parsifly/pkg/config"
	errs "parsifly/pkg/errors"
	"parsifly/pkg/logger"
	"parsifly/pkg/profile"
	"parsifly/pkg/synthetic"
)

// Cache is the write side of the profile cache
type Cache interface {
	Put(ctx context.Context, platform profile.Platform, username string, p *profile.Profile)
}

// UserSource looks up a public user record
type UserSource interface {
	FetchUser(ctx context.Context, username string) (*User, error)
}

// Options configures a Fetcher
type Options struct {
	Generator *synthetic.Generator
	// Random draws the growth figures of mapped profiles
	Random synthetic.RandomSource
	// CacheResults also caches successful public lookups, not only
	// synthetic fallbacks
	CacheResults    bool
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	Now             func() time.Time
}

// OptionsFromConfig fills the breaker and caching options from cfg
func OptionsFromConfig(cfg config.AlternativeConfig) Options {
	return Options{
		CacheResults:    cfg.CacheResults,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
	}
}

// Fetcher produces a profile from the public API, or synthetic data when
// the API cannot answer
type Fetcher struct {
	source       UserSource
	cache        Cache
	breaker      *gobreaker.CircuitBreaker[*User]
	generator    *synthetic.Generator
	random       synthetic.RandomSource
	cacheResults bool
	now          func() time.Time
	logger       logger.Logger
}

// NewFetcher creates a Fetcher. cache may be nil.
func NewFetcher(source UserSource, cache Cache, opts Options, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "alternative")

	if opts.Generator == nil {
		opts.Generator = synthetic.NewGenerator()
	}
	if opts.Random == nil {
		opts.Random = synthetic.DefaultSource()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 3
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = time.Minute
	}

	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker[*User](gobreaker.Settings{
		Name:        "alternative-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errs.IsBreakerFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Fetcher{
		source:       source,
		cache:        cache,
		breaker:      breaker,
		generator:    opts.Generator,
		random:       opts.Random,
		cacheResults: opts.CacheResults,
		now:          opts.Now,
		logger:       log,
	}
}

// Fetch never fails. A successful public lookup yields source=alternative;
// anything else yields synthetic data with source=local, which is cached.
func (f *Fetcher) Fetch(ctx context.Context, platform profile.Platform, username string) *profile.Profile {
	log := f.logger.WithFields(map[string]interface{}{
		"platform": platform,
		"username": username,
	})

	user, err := f.breaker.Execute(func() (*User, error) {
		return f.source.FetchUser(ctx, username)
	})
	if err == nil {
		p := f.fromUser(platform, username, user)
		if f.cacheResults && f.cache != nil {
			f.cache.Put(ctx, platform, username, p)
		}
		log.Debug("Profile built from alternative source")
		return p
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.WithError(err).Warn("Alternative source unavailable, using local data")
	} else {
		log.WithError(err).Warn("Alternative source failed, using local data")
	}

	p := f.generator.Generate(platform, username)
	if f.cache != nil {
		f.cache.Put(ctx, platform, username, p)
	}
	return p
}

func (f *Fetcher) fromUser(platform profile.Platform, username string, u *User) *profile.Profile {
	p := &profile.Profile{
		Username:         username,
		Platform:         platform,
		Followers:        u.Followers * FollowersMultiplier,
		Likes:            u.PublicRepos * LikesMultiplier,
		Views:            u.Followers * ViewsMultiplier,
		FollowersGrowth:  f.draw(10, 0),
		LikesGrowth:      f.draw(8, 0),
		Engagement:       f.draw(10, 2),
		EngagementGrowth: f.draw(6, -2),
		ViewsGrowth:      f.draw(15, 0),
		Avatar:           u.AvatarURL,
		Status:           profile.StatusActive,
		FetchDate:        f.now().UTC(),
		Source:           profile.SourceAlternative,
	}
	p.ClampCounts()
	return p
}

// draw returns r*scale+offset rounded to one decimal
func (f *Fetcher) draw(scale, offset float64) float64 {
	return profile.RoundTenth(f.random.Float64()*scale + offset)
}

// BreakerState reports the circuit breaker state
func (f *Fetcher) BreakerState() gobreaker.State {
	return f.breaker.State()
}
