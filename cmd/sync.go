package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/syncer"
)

var (
	flagSource string
	flagFrom   string
	flagTo     string
	flagForce  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fill the cache for a date range",
	Long: `Fetch the days missing from the cache for every configured source.

The default range is the trailing window_days ending today in the configured
timezone. --force discards and refetches every day of the range.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEngine(ctx, engineOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		orchs, err := selectOrchestrators(e.orchestrators, flagSource)
		if err != nil {
			return err
		}
		if len(orchs) == 0 {
			return fmt.Errorf("no sources configured (edit %s)", flagConfigOrDefault())
		}
		today := e.today()
		r, err := parseWindow(flagFrom, flagTo, today, e.cfg.WindowDays)
		if err != nil {
			return err
		}

		start := time.Now()
		outcomes := syncer.SyncAll(ctx, orchs, syncer.Request{Range: r, Force: flagForce})
		printOutcomes(cmd.OutOrStdout(), r, today, outcomes)
		fmt.Fprintf(cmd.OutOrStdout(), "Done in %s.\n", formatDuration(time.Since(start)))

		for _, o := range outcomes {
			if o.Err != nil {
				return fmt.Errorf("%d source(s) failed", countFailed(outcomes))
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&flagSource, "source", "", "only sync this source (github or youtube)")
	syncCmd.Flags().StringVar(&flagFrom, "from", "", "first day to sync (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&flagTo, "to", "", "last day to sync (YYYY-MM-DD, default today)")
	syncCmd.Flags().BoolVar(&flagForce, "force", false, "refetch days that are already cached")
}

func printOutcomes(w io.Writer, r activity.Range, today activity.Date, outcomes []syncer.Outcome) {
	fmt.Fprintf(w, "Range %s to %s (%d days)\n", r.Start, r.End, r.Len())
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "  %-8s error: %v\n", o.Source, o.Err)
			continue
		}
		sum := activity.Summarize(o.Result.Records)
		s := activity.Streaks(o.Result.Records, today)
		fmt.Fprintf(w, "  %-8s %d total, %d active days, fetched %d, streak %d (longest %d)\n",
			o.Source, sum.Total, sum.ActiveDays, o.Result.Fetched, s.Current, s.Longest)
	}
}

func countFailed(outcomes []syncer.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
