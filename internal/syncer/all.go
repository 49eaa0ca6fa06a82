package syncer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sadopc/tally/internal/activity"
)

// Outcome is one source's share of a SyncAll call.
type Outcome struct {
	Source activity.Source
	Result Result
	Err    error
}

// SyncAll runs req against every orchestrator concurrently. Sources do not
// share a cancellation scope: one failing or slow source leaves the others
// alone. Outcomes are returned in the order of orchs.
func SyncAll(ctx context.Context, orchs []*Orchestrator, req Request) []Outcome {
	out := make([]Outcome, len(orchs))
	var eg errgroup.Group
	for i, o := range orchs {
		eg.Go(func() error {
			res, err := o.Sync(ctx, req)
			out[i] = Outcome{Source: o.Source(), Result: res, Err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
