package dashboard

import (
	"context"

	"parsifly/pkg/profile"
)

// PlatformFetcher dispatches to first-party platform clients
type PlatformFetcher interface {
	Fetch(ctx context.Context, p profile.Platform, username string) (*profile.Profile, error)
}

// ProfileCache is the read side of the profile cache
type ProfileCache interface {
	Get(ctx context.Context, p profile.Platform, username string) (*profile.Profile, bool)
}

// AlternativeSource always produces a profile, synthetic if it must
type AlternativeSource interface {
	Fetch(ctx context.Context, p profile.Platform, username string) *profile.Profile
}
