// Package insights derives rule-based commentary from profile metrics.
package insights

import (
	"fmt"
	"strings"

	"parsifly/pkg/profile"
)

// Health buckets an account's overall trajectory
type Health string

const (
	HealthExcellent  Health = "excellent"
	HealthGood       Health = "good"
	HealthConcerning Health = "concerning"
	HealthModerate   Health = "moderate"
)

// Insights is the generated commentary for one profile
type Insights struct {
	Summary       string   `json:"summary" yaml:"summary"`
	Strengths     []string `json:"strengths" yaml:"strengths"`
	Weaknesses    []string `json:"weaknesses" yaml:"weaknesses"`
	Suggestions   []string `json:"suggestions" yaml:"suggestions"`
	OverallHealth Health   `json:"overallHealth" yaml:"overall_health"`
}

const (
	strengthExceptionalGrowth = "Exceptional follower growth rate"
	strengthHealthyGrowth     = "Healthy follower growth"
	strengthHighEngagement    = "Excellent engagement rate above industry average"
	strengthEngagementTrend   = "Improving engagement trend"

	weaknessDecliningFollowers  = "Declining follower count"
	weaknessLowEngagement       = "Below average engagement rate"
	weaknessDecliningEngagement = "Declining engagement trend"

	suggestRetention  = "Review recent content strategy changes that may have affected audience retention"
	suggestEngaging   = "Focus on creating more engaging content that encourages comments and shares"
	suggestFormats    = "Experiment with different content formats to find what resonates with your audience"
	suggestConsistent = "Post consistently to maintain audience interest"
	suggestRespond    = "Engage with your followers by responding to comments"
)

// platform tips apply when engagement is below the platform's threshold
var platformTips = map[string]struct {
	below float64
	tip   string
}{
	"tiktok":    {5, "Try using trending sounds and hashtags to boost TikTok visibility"},
	"instagram": {4, "Increase Instagram Stories frequency and use interactive elements like polls and questions"},
	"youtube":   {3, "Add clear calls-to-action in your YouTube videos to encourage likes and comments"},
}

// ClassifyHealth buckets follower growth and engagement. Checks run in
// order, so the first matching bucket wins.
func ClassifyHealth(followersGrowth, engagement float64) Health {
	switch {
	case followersGrowth > 5 && engagement > 7:
		return HealthExcellent
	case followersGrowth > 0 && engagement > 4:
		return HealthGood
	case followersGrowth < 0 && engagement < 3:
		return HealthConcerning
	default:
		return HealthModerate
	}
}

// Summarize builds Insights from p's growth and engagement figures. A nil
// profile yields nil.
func Summarize(p *profile.Profile) *Insights {
	if p == nil {
		return nil
	}
	growth := p.FollowersGrowth
	engagement := p.Engagement
	trend := p.EngagementGrowth

	in := &Insights{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Suggestions:   []string{},
		OverallHealth: ClassifyHealth(growth, engagement),
	}

	switch {
	case growth > 10:
		in.Strengths = append(in.Strengths, strengthExceptionalGrowth)
	case growth > 5:
		in.Strengths = append(in.Strengths, strengthHealthyGrowth)
	case growth < 0:
		in.Weaknesses = append(in.Weaknesses, weaknessDecliningFollowers)
		in.Suggestions = append(in.Suggestions, suggestRetention)
	}

	switch {
	case engagement > 8:
		in.Strengths = append(in.Strengths, strengthHighEngagement)
	case engagement < 3:
		in.Weaknesses = append(in.Weaknesses, weaknessLowEngagement)
		in.Suggestions = append(in.Suggestions, suggestEngaging)
	}

	switch {
	case trend > 2:
		in.Strengths = append(in.Strengths, strengthEngagementTrend)
	case trend < -2:
		in.Weaknesses = append(in.Weaknesses, weaknessDecliningEngagement)
		in.Suggestions = append(in.Suggestions, suggestFormats)
	}

	if tip, ok := platformTips[strings.ToLower(string(p.Platform))]; ok && engagement < tip.below {
		in.Suggestions = append(in.Suggestions, tip.tip)
	}

	if len(in.Suggestions) < 2 {
		in.Suggestions = append(in.Suggestions, suggestConsistent, suggestRespond)
	}

	in.Summary = summaryText(p.Platform, in, growth, engagement)
	return in
}

func summaryText(platform profile.Platform, in *Insights, growth, engagement float64) string {
	direction := "declining"
	if growth > 0 {
		direction = "growing"
	}
	strength := "moderate to low"
	if engagement > 5 {
		strength = "strong"
	}

	summary := fmt.Sprintf("This %s account shows %s performance with %s follower numbers and %s engagement rates.",
		platform, in.OverallHealth, direction, strength)
	if len(in.Strengths) > 0 {
		summary += " Notable strengths include " + strings.ToLower(in.Strengths[0]) + "."
	}
	return summary
}
