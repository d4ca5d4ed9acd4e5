package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"parsifly/pkg/format"
	"parsifly/pkg/insights"
	"parsifly/pkg/profile"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonMagenta).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(neonYellow).
			Width(10).
			Align(lipgloss.Right)
)

var healthColors = map[insights.Health]lipgloss.Color{
	insights.HealthExcellent:  neonGreen,
	insights.HealthGood:       neonCyan,
	insights.HealthModerate:   neonYellow,
	insights.HealthConcerning: neonRed,
}

func growthStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(neonGreen)
	case v < 0:
		return lipgloss.NewStyle().Foreground(neonRed)
	default:
		return lipgloss.NewStyle().Foreground(dimWhite)
	}
}

func metricRow(label, value string, growth float64) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(value),
		"  ",
		growthStyle(growth).Render(format.Growth(growth)),
	)
}

// RenderProfile renders p as a bordered panel
func RenderProfile(p *profile.Profile) string {
	title := fmt.Sprintf("@%s on %s", p.Username, p.Platform)
	if p.TimeRange != "" {
		title += " (" + string(p.TimeRange) + ")"
	}

	rows := []string{
		titleStyle.Render(title),
		"",
		metricRow("Followers", format.Number(p.Followers), p.FollowersGrowth),
		metricRow("Likes", format.Number(p.Likes), p.LikesGrowth),
		metricRow("Views", format.Number(p.Views), p.ViewsGrowth),
		metricRow("Engagement", format.Percent(p.Engagement), p.EngagementGrowth),
		"",
		Dim(fmt.Sprintf("status %s · source %s · fetched %s",
			p.Status, p.Source, p.FetchDate.Format("2006-01-02 15:04 MST"))),
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

// RenderInsights renders in as a bordered panel
func RenderInsights(in *insights.Insights) string {
	health := lipgloss.NewStyle().Bold(true).Foreground(healthColors[in.OverallHealth])

	var b strings.Builder
	b.WriteString(titleStyle.Render("Insights"))
	b.WriteString("  ")
	b.WriteString(health.Render(strings.ToUpper(string(in.OverallHealth))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(64).Render(in.Summary))
	b.WriteString("\n")

	section := func(name, bullet string, items []string, style lipgloss.Style) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(name))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString(style.Render(bullet + " " + item))
			b.WriteString("\n")
		}
	}
	section("Strengths", "+", in.Strengths, lipgloss.NewStyle().Foreground(neonGreen))
	section("Weaknesses", "-", in.Weaknesses, lipgloss.NewStyle().Foreground(neonRed))
	section("Suggestions", "›", in.Suggestions, lipgloss.NewStyle().Foreground(dimWhite))

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// PrintProfile prints the profile panel. It is shown in quiet mode.
func PrintProfile(p *profile.Profile) {
	PrintData("%s\n", RenderProfile(p))
}

// PrintInsights prints the insights panel. It is shown in quiet mode.
func PrintInsights(in *insights.Insights) {
	PrintData("%s\n", RenderInsights(in))
}
