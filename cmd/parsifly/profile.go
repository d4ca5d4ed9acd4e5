package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"parsifly/pkg/insights"
	"parsifly/pkg/profile"
	"parsifly/pkg/report"
	"parsifly/pkg/ui"
)

var (
	timeRange    string
	withInsights bool
	outputFile   string
)

var profileCmd = &cobra.Command{
	Use:   "profile <platform> <username>",
	Short: "Show metrics for a profile",
	Long: `Show follower, like, view and engagement metrics for a profile.

Supported platforms: TikTok, Instagram, YouTube (case-insensitive).
Growth figures are scaled to the requested time range.`,
	Example: `  parsifly profile tiktok jane
  parsifly profile YouTube jane --range 90d --insights
  parsifly profile instagram jane --output jane.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runProfile,
}

var insightsCmd = &cobra.Command{
	Use:     "insights <platform> <username>",
	Short:   "Show generated insights for a profile",
	Example: `  parsifly insights tiktok jane`,
	Args:    cobra.ExactArgs(2),
	RunE:    runInsights,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(insightsCmd)

	profileCmd.Flags().StringVarP(&timeRange, "range", "r", string(profile.Range30d), "time range for growth figures (7d, 30d, 90d)")
	profileCmd.Flags().BoolVarP(&withInsights, "insights", "i", false, "also show generated insights")
	profileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write a report to this file (.json, .yaml or .yml)")

	insightsCmd.Flags().StringVarP(&timeRange, "range", "r", string(profile.Range30d), "time range for growth figures (7d, 30d, 90d)")
}

func parseRange(value string) (profile.TimeRange, error) {
	r, ok := profile.ParseTimeRange(strings.ToLower(value))
	if !ok {
		return "", fmt.Errorf("invalid time range %q (use 7d, 30d or 90d)", value)
	}
	return r, nil
}

func fetch(cmd *cobra.Command, platform, username string) (*profile.Profile, error) {
	r, err := parseRange(timeRange)
	if err != nil {
		return nil, err
	}

	o, closer, err := newOrchestrator()
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	return o.GetProfileByTimeRange(ctx, platform, username, r)
}

func runProfile(cmd *cobra.Command, args []string) error {
	p, err := fetch(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	ui.PrintProfile(p)
	if p.Source == profile.SourceLocal {
		ui.PrintWarning("No live source answered; these metrics are synthetic")
	}

	rep := report.New(p, withInsights || outputFile != "")
	if withInsights {
		ui.PrintInsights(rep.Insights)
	}

	if outputFile != "" {
		if err := rep.WriteFile(outputFile); err != nil {
			return err
		}
		ui.PrintSuccess("Report written to " + outputFile)
	}
	return nil
}

func runInsights(cmd *cobra.Command, args []string) error {
	p, err := fetch(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	ui.PrintInsights(insights.Summarize(p))
	return nil
}

// cmd.Context is nil when commands are invoked directly in tests
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
