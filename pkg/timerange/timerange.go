// Package timerange rescales growth figures to a reporting window.
package timerange

import (
	"parsifly/pkg/profile"
)

var multipliers = map[profile.TimeRange]float64{
	profile.Range7d:  0.4,
	profile.Range30d: 1.0,
	profile.Range90d: 2.2,
}

// Multiplier returns the growth scale for r; unknown ranges scale like 7d
func Multiplier(r profile.TimeRange) float64 {
	if m, ok := multipliers[r]; ok {
		return m
	}
	return multipliers[profile.Range7d]
}

// Apply returns a copy of p with its growth figures scaled to r and
// rounded to one decimal. p itself is not modified.
func Apply(p *profile.Profile, r profile.TimeRange) *profile.Profile {
	if p == nil {
		return nil
	}
	m := Multiplier(r)

	out := p.Clone()
	out.FollowersGrowth = profile.RoundTenth(p.FollowersGrowth * m)
	out.LikesGrowth = profile.RoundTenth(p.LikesGrowth * m)
	out.ViewsGrowth = profile.RoundTenth(p.ViewsGrowth * m)
	out.EngagementGrowth = profile.RoundTenth(p.EngagementGrowth * m)
	out.TimeRange = r
	return out
}
