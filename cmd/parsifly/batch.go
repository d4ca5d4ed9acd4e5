package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"parsifly/internal/batch"
	"parsifly/pkg/format"
	"parsifly/pkg/logger"
	"parsifly/pkg/profile"
	"parsifly/pkg/ui"
)

var (
	batchWorkers int
	batchRange   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <platform> <username>...",
	Short: "Fetch metrics for several profiles concurrently",
	Example: `  parsifly batch tiktok jane john alex
  parsifly batch youtube jane john --workers 2 --range 7d`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 3, "number of concurrent lookups")
	batchCmd.Flags().StringVarP(&batchRange, "range", "r", string(profile.Range30d), "time range for growth figures (7d, 30d, 90d)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	r, err := parseRange(batchRange)
	if err != nil {
		return err
	}
	if _, err := profile.ParsePlatform(args[0]); err != nil {
		return err
	}

	o, closer, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	usernames := args[1:]
	progress := ui.NewBatchProgress(len(usernames))
	results := batch.Run(ctx, progressFetcher{o, progress}, args[0], usernames, r, batchWorkers, logger.GetLogger())
	progress.Finish()

	ui.PrintData("%s\n", batchTable(results))

	if _, failed := progress.Counts(); failed == len(usernames) {
		return fmt.Errorf("all %d lookups failed", failed)
	}
	return nil
}

// progressFetcher records each finished lookup on the progress line
type progressFetcher struct {
	next     batch.ProfileFetcher
	progress *ui.BatchProgress
}

func (f progressFetcher) GetProfileByTimeRange(ctx context.Context, platform, username string, r profile.TimeRange) (*profile.Profile, error) {
	p, err := f.next.GetProfileByTimeRange(ctx, platform, username, r)
	f.progress.Record(err)
	return p, err
}

func batchTable(results []batch.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %10s %8s %10s %8s %11s  %s\n",
		"USERNAME", "FOLLOWERS", "GROWTH", "VIEWS", "ENGAGE", "SOURCE", "TIME")
	for _, res := range results {
		if res.Error != nil {
			fmt.Fprintf(&b, "%-20s %s\n", res.Job.Username, ui.Red("error: "+res.Error.Error()))
			continue
		}
		p := res.Profile
		fmt.Fprintf(&b, "%-20s %10s %8s %10s %8s %11s  %s\n",
			p.Username,
			format.Number(p.Followers),
			format.Growth(p.FollowersGrowth),
			format.Number(p.Views),
			format.Percent(p.Engagement),
			p.Source,
			res.Duration.Round(1e6),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
