// Package platform holds the first-party platform API clients.
package platform

import (
	"context"
	"sort"
	"sync"

	"parsifly/pkg/config"
	errs "parsifly/pkg/errors"
	"parsifly/pkg/profile"
)

// Client fetches a profile from one platform's own API
type Client interface {
	Platform() profile.Platform
	FetchProfile(ctx context.Context, username string) (*profile.Profile, error)
}

// PendingClient is a first-party client whose integration has not been
// built yet. It holds its endpoint and key and always reports
// ErrorTypeNotImplemented, which sends callers to their next data source.
type PendingClient struct {
	platform profile.Platform
	baseURL  string
	apiKey   string
}

// NewPendingClient creates a PendingClient for p
func NewPendingClient(p profile.Platform, cfg config.PlatformConfig) *PendingClient {
	return &PendingClient{platform: p, baseURL: cfg.BaseURL, apiKey: cfg.APIKey}
}

func (c *PendingClient) Platform() profile.Platform { return c.platform }

// BaseURL returns the configured endpoint
func (c *PendingClient) BaseURL() string { return c.baseURL }

// APIKey returns the key requests would authenticate with
func (c *PendingClient) APIKey() string { return c.apiKey }

func (c *PendingClient) FetchProfile(ctx context.Context, username string) (*profile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "%s API request cancelled", c.platform)
	}
	return nil, errs.New(errs.ErrorTypeNotImplemented, "%s API integration not implemented", c.platform)
}

// Registry maps platforms to their clients
type Registry struct {
	mu      sync.RWMutex
	clients map[profile.Platform]Client
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{clients: make(map[profile.Platform]Client)}
}

// DefaultRegistry registers a pending client for every supported platform
func DefaultRegistry(cfg config.PlatformsConfig) *Registry {
	r := NewRegistry()
	for _, p := range profile.Platforms() {
		pc, _ := cfg.For(p)
		r.Register(NewPendingClient(p, pc))
	}
	return r
}

// Register adds or replaces the client for c.Platform()
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Platform()] = c
}

// Get returns the client for p
func (r *Registry) Get(p profile.Platform) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[p]
	return c, ok
}

// Platforms lists the registered platforms in name order
func (r *Registry) Platforms() []profile.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]profile.Platform, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Fetch dispatches to the client registered for p. A platform without a
// client is an unsupported platform.
func (r *Registry) Fetch(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error) {
	c, ok := r.Get(p)
	if !ok {
		return nil, errs.UnsupportedPlatform(string(p))
	}
	return c.FetchProfile(ctx, username)
}
