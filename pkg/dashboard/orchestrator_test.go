package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsifly/pkg/cache"
	"parsifly/pkg/config"
	errs "parsifly/pkg/errors"
	"parsifly/pkg/logger"
	"parsifly/pkg/platform"
	"parsifly/pkg/profile"
	"parsifly/pkg/storage"
)

type fakeAPIs struct {
	mu    sync.Mutex
	calls int
	out   *profile.Profile
	err   error
}

func (f *fakeAPIs) Fetch(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.out, f.err
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*profile.Profile
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*profile.Profile)}
}

func (c *fakeCache) Get(ctx context.Context, p profile.Platform, username string) (*profile.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[string(p)+"/"+username]
	return v, ok
}

type fakeAlternative struct {
	mu    sync.Mutex
	calls int
	out   *profile.Profile
}

func (a *fakeAlternative) Fetch(ctx context.Context, p profile.Platform, username string) *profile.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if a.out == nil {
		return nil
	}
	out := a.out.Clone()
	out.Platform = p
	out.Username = username
	return out
}

func withKey(p profile.Platform) config.PlatformsConfig {
	var cfg config.PlatformsConfig
	cfg.SetAPIKey(p, "secret")
	return cfg
}

func TestChainSelection(t *testing.T) {
	o := New(withKey(profile.TikTok), nil, nil, nil, logger.NewNopLogger())

	assert.Equal(t, []string{StrategyPlatformAPI, StrategyAlternative}, o.Chain(profile.TikTok))
	assert.Equal(t, []string{StrategyCache, StrategyAlternative}, o.Chain(profile.YouTube))
}

func TestGetProfileUnsupportedPlatform(t *testing.T) {
	alt := &fakeAlternative{out: &profile.Profile{Source: profile.SourceLocal}}
	o := New(config.PlatformsConfig{}, nil, newFakeCache(), alt, logger.NewNopLogger())

	_, err := o.GetProfile(context.Background(), "Snapchat", "jane")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Snapchat")
	assert.True(t, errs.IsType(err, errs.ErrorTypeUnsupportedPlatform))
	assert.Equal(t, 0, alt.calls)
}

func TestGetProfileCacheHit(t *testing.T) {
	c := newFakeCache()
	stored := &profile.Profile{Username: "jane", Platform: profile.Instagram, Followers: 10, Source: profile.SourceLocal}
	c.entries["Instagram/jane"] = stored
	alt := &fakeAlternative{out: &profile.Profile{Source: profile.SourceLocal}}

	o := New(config.PlatformsConfig{}, nil, c, alt, logger.NewNopLogger())

	p, err := o.GetProfile(context.Background(), "instagram", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceCache, p.Source)
	assert.Equal(t, int64(10), p.Followers)
	assert.Equal(t, 0, alt.calls)
	// the stored entry is left as it was
	assert.Equal(t, profile.SourceLocal, stored.Source)
}

func TestGetProfileCacheMissFallsBack(t *testing.T) {
	tl := logger.NewTestLogger()
	alt := &fakeAlternative{out: &profile.Profile{Source: profile.SourceAlternative}}
	o := New(config.PlatformsConfig{}, &fakeAPIs{}, newFakeCache(), alt, tl)

	p, err := o.GetProfile(context.Background(), "YouTube", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceAlternative, p.Source)
	assert.Equal(t, profile.YouTube, p.Platform)

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "Strategy cache failed, falling back to alternative", warns[0].Message)
	assert.Equal(t, StrategyCache, warns[0].Fields["strategy"])
	assert.NotEmpty(t, warns[0].Fields["request_id"])
}

func TestGetProfileAPIKeySkipsCache(t *testing.T) {
	apis := &fakeAPIs{out: &profile.Profile{Username: "jane", Source: profile.SourceAPI}}
	c := newFakeCache()
	alt := &fakeAlternative{}
	o := New(withKey(profile.TikTok), apis, c, alt, logger.NewNopLogger())

	p, err := o.GetProfile(context.Background(), "TikTok", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceAPI, p.Source)
	assert.Equal(t, 1, apis.calls)
	assert.Equal(t, 0, c.gets)
	assert.Equal(t, 0, alt.calls)
}

func TestGetProfilePendingAPIFallsBackToAlternative(t *testing.T) {
	tl := logger.NewTestLogger()
	cfg := withKey(profile.Instagram)
	alt := &fakeAlternative{out: &profile.Profile{Source: profile.SourceLocal}}
	o := New(cfg, platform.DefaultRegistry(cfg), newFakeCache(), alt, tl)

	p, err := o.GetProfile(context.Background(), "Instagram", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceLocal, p.Source)
	assert.Equal(t, 1, alt.calls)
	assert.True(t, tl.HasMessage("Strategy platform-api failed, falling back to alternative"))
}

func TestGetProfileExhausted(t *testing.T) {
	tl := logger.NewTestLogger()
	apis := &fakeAPIs{err: errs.New(errs.ErrorTypeNetwork, "down")}
	alt := &fakeAlternative{} // returns nil
	o := New(withKey(profile.YouTube), apis, nil, alt, tl)

	_, err := o.GetProfile(context.Background(), "YouTube", "jane")
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeExhausted))
	assert.Contains(t, err.Error(), "failed to fetch YouTube profile data for jane")
	assert.Equal(t, 1, apis.calls)
	assert.Equal(t, 1, alt.calls)
	assert.True(t, tl.HasMessage("All data sources failed"))
}

func TestGetProfileUsesContextRequestID(t *testing.T) {
	tl := logger.NewTestLogger()
	alt := &fakeAlternative{out: &profile.Profile{}}
	o := New(config.PlatformsConfig{}, nil, newFakeCache(), alt, tl)

	ctx := WithRequestID(context.Background(), "req-123")
	_, err := o.GetProfile(ctx, "TikTok", "jane")
	require.NoError(t, err)

	warns := tl.GetMessagesByLevel("WARN")
	require.NotEmpty(t, warns)
	assert.Equal(t, "req-123", warns[0].Fields["request_id"])
}

func TestGetProfileByTimeRange(t *testing.T) {
	alt := &fakeAlternative{out: &profile.Profile{FollowersGrowth: 5, LikesGrowth: 1, Source: profile.SourceAlternative}}
	o := New(config.PlatformsConfig{}, nil, newFakeCache(), alt, logger.NewNopLogger())

	p, err := o.GetProfileByTimeRange(context.Background(), "TikTok", "jane", profile.Range90d)
	require.NoError(t, err)
	assert.Equal(t, 11.0, p.FollowersGrowth)
	assert.Equal(t, 2.2, p.LikesGrowth)
	assert.Equal(t, profile.Range90d, p.TimeRange)

	_, err = o.GetProfileByTimeRange(context.Background(), "MySpace", "jane", profile.Range7d)
	assert.Error(t, err)
}

// End to end through the real cache, alternative fetcher and a fake public API.
func TestNewFromConfigEndToEnd(t *testing.T) {
	var hits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Alternative.BaseURL = server.URL
	cfg.Alternative.Timeout = 2 * time.Second
	cfg.Cache.Backend = config.BackendFile
	cfg.Cache.Directory = t.TempDir()

	o, closer, err := NewFromConfig(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer closer.Close()

	ctx := context.Background()
	first, err := o.GetProfile(ctx, "TikTok", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceLocal, first.Source)
	assert.Equal(t, int64(627199), first.Followers)

	// the synthetic fallback was cached, so the second call never reaches the API
	second, err := o.GetProfile(ctx, "TikTok", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceCache, second.Source)
	assert.Equal(t, first.Followers, second.Followers)
	assert.Equal(t, first.FollowersGrowth, second.FollowersGrowth)
	assert.Equal(t, 1, hits)
}

func TestCacheStoreSatisfiesInterfaces(t *testing.T) {
	store := cache.New(storage.NewMemoryKV(), cache.Options{}, nil)
	var _ ProfileCache = store
	var _ PlatformFetcher = platform.NewRegistry()
}

func TestDefaultHelpers(t *testing.T) {
	alt := &fakeAlternative{out: &profile.Profile{FollowersGrowth: 10}}
	SetDefault(New(config.PlatformsConfig{}, nil, newFakeCache(), alt, logger.NewNopLogger()))
	t.Cleanup(func() { SetDefault(nil) })

	p, err := FetchProfileData(context.Background(), "tiktok", "jane")
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.FollowersGrowth)

	p, err = FetchProfileDataByTimeRange(context.Background(), "tiktok", "jane", profile.Range7d)
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.FollowersGrowth)
}

func TestNewDefaultWithoutCacheBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"jane","avatar_url":"https://example.com/a.png","followers":10,"public_repos":2}`))
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Alternative.BaseURL = server.URL
	cfg.Alternative.Timeout = 2 * time.Second
	cfg.Cache.Backend = "bogus"

	tl := logger.NewTestLogger()
	o := newDefault(cfg, tl)
	require.NotNil(t, o)
	assert.True(t, tl.HasMessage("Cache backend unavailable, continuing without cache"))

	p, err := o.GetProfile(context.Background(), "instagram", "jane")
	require.NoError(t, err)
	assert.Equal(t, profile.SourceAlternative, p.Source)
	assert.Equal(t, int64(750), p.Followers)
}
