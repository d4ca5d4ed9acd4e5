package profile

import (
	"math"
	"strings"
	"time"

	errs "parsifly/pkg/errors"
)

// Platform identifies a supported social media platform
type Platform string

const (
	TikTok    Platform = "TikTok"
	Instagram Platform = "Instagram"
	YouTube   Platform = "YouTube"
)

// Platforms returns every supported platform
func Platforms() []Platform {
	return []Platform{TikTok, Instagram, YouTube}
}

// ParsePlatform resolves a platform name regardless of casing
func ParsePlatform(name string) (Platform, error) {
	trimmed := strings.TrimSpace(name)
	for _, p := range Platforms() {
		if strings.EqualFold(string(p), trimmed) {
			return p, nil
		}
	}
	return "", errs.UnsupportedPlatform(name)
}

// Valid reports whether p is one of the supported platforms
func (p Platform) Valid() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// Lower returns the lowercase platform name used in keys and lookups
func (p Platform) Lower() string {
	return strings.ToLower(string(p))
}

// Source records where a profile's numbers came from
type Source string

const (
	SourceAPI         Source = "api"
	SourceCache       Source = "cache"
	SourceAlternative Source = "alternative"
	SourceLocal       Source = "local"
)

// Status is the visibility of an account
type Status string

const (
	StatusActive  Status = "Active"
	StatusPrivate Status = "Private"
)

// TimeRange is the window growth figures are reported over
type TimeRange string

const (
	Range7d  TimeRange = "7d"
	Range30d TimeRange = "30d"
	Range90d TimeRange = "90d"
)

// ParseTimeRange validates a time range string
func ParseTimeRange(value string) (TimeRange, bool) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(value))); r {
	case Range7d, Range30d, Range90d:
		return r, true
	default:
		return "", false
	}
}

// Profile is the normalized metrics record for one platform/username pair
type Profile struct {
	Username string   `json:"username" yaml:"username"`
	Platform Platform `json:"platform" yaml:"platform"`

	Followers  int64   `json:"followers" yaml:"followers"`
	Likes      int64   `json:"likes" yaml:"likes"`
	Views      int64   `json:"views" yaml:"views"`
	Engagement float64 `json:"engagement" yaml:"engagement"`

	FollowersGrowth  float64 `json:"followersGrowth" yaml:"followers_growth"`
	LikesGrowth      float64 `json:"likesGrowth" yaml:"likes_growth"`
	ViewsGrowth      float64 `json:"viewsGrowth" yaml:"views_growth"`
	EngagementGrowth float64 `json:"engagementGrowth" yaml:"engagement_growth"`

	Avatar    string    `json:"avatar" yaml:"avatar"`
	Status    Status    `json:"status" yaml:"status"`
	FetchDate time.Time `json:"fetchDate" yaml:"fetch_date"`
	Source    Source    `json:"source" yaml:"source"`
	TimeRange TimeRange `json:"timeRange,omitempty" yaml:"time_range,omitempty"`
}

// Clone returns a copy that can be modified without touching p
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ClampCounts forces the count metrics to be non-negative
func (p *Profile) ClampCounts() {
	if p.Followers < 0 {
		p.Followers = 0
	}
	if p.Likes < 0 {
		p.Likes = 0
	}
	if p.Views < 0 {
		p.Views = 0
	}
}

// RoundTenth rounds to one decimal place, the precision growth and engagement are shown at
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
