package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/config"
	"github.com/sadopc/tally/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize cached activity without fetching",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEngine(ctx, engineOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		today := e.today()
		r, err := parseWindow(flagFrom, flagTo, today, e.cfg.WindowDays)
		if err != nil {
			return err
		}

		sources := activity.Sources
		if flagSource != "" {
			src := activity.Source(flagSource)
			if !src.Valid() {
				return fmt.Errorf("unknown source %q", flagSource)
			}
			sources = []activity.Source{src}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", e.cfg.DatabasePath())
		fmt.Fprintf(out, "Range:    %s to %s\n\n", r.Start, r.End)
		for _, src := range sources {
			records, err := e.store.Read(ctx, src, r)
			if err != nil {
				return fmt.Errorf("reading %s: %w", src, err)
			}
			b, ok, err := e.store.Bounds(ctx, src)
			if err != nil {
				return fmt.Errorf("reading %s bounds: %w", src, err)
			}
			cur, err := e.store.GetCursor(ctx, src)
			if err != nil {
				return err
			}
			printStats(out, src, records, today, b, ok, cur)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&flagSource, "source", "", "only show this source (github or youtube)")
	statsCmd.Flags().StringVar(&flagFrom, "from", "", "first day (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&flagTo, "to", "", "last day (YYYY-MM-DD, default today)")
}

func printStats(w io.Writer, src activity.Source, records []activity.Record, today activity.Date, b store.Bounds, cached bool, cur store.Cursor) {
	sum := activity.Summarize(records)
	s := activity.Streaks(records, today)

	fmt.Fprintf(w, "%s\n", src)
	fmt.Fprintf(w, "  Total:          %d\n", sum.Total)
	fmt.Fprintf(w, "  Active days:    %d\n", sum.ActiveDays)
	fmt.Fprintf(w, "  Current streak: %d\n", s.Current)
	fmt.Fprintf(w, "  Longest streak: %d\n", s.Longest)
	if sum.Busiest.Count > 0 {
		fmt.Fprintf(w, "  Busiest day:    %s (%d)\n", sum.Busiest.Date, sum.Busiest.Count)
	}
	if cached {
		fmt.Fprintf(w, "  Cached:         %d days, %s to %s\n", b.Days, b.First, b.Last)
	} else {
		fmt.Fprintf(w, "  Cached:         nothing yet\n")
	}
	if cur.Initialized {
		fmt.Fprintf(w, "  Last synced:    %s\n", cur.LastSyncDate)
	}
	fmt.Fprintln(w)
}

func flagConfigOrDefault() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}
