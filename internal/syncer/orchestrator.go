// Package syncer keeps the cache in step with upstream sources.
//
// A sync request walks Idle, GapCheck, Fetching, Persisting, Reading and Done
// in order. Fetching and Persisting are skipped when nothing is missing. The
// answer is always read back from the cache.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/metrics"
	"github.com/sadopc/tally/internal/source"
	"github.com/sadopc/tally/internal/store"
)

// Cache is the persistence the orchestrator needs. *store.Store satisfies it.
type Cache interface {
	MissingDates(ctx context.Context, src activity.Source, r activity.Range) ([]activity.Date, error)
	Write(ctx context.Context, src activity.Source, records []activity.Record, policy store.WritePolicy) error
	Read(ctx context.Context, src activity.Source, r activity.Range) ([]activity.Record, error)
	AdvanceCursor(ctx context.Context, src activity.Source, d activity.Date) error
}

type State int

const (
	Idle State = iota
	GapCheck
	Fetching
	Persisting
	Reading
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case GapCheck:
		return "gap_check"
	case Fetching:
		return "fetching"
	case Persisting:
		return "persisting"
	case Reading:
		return "reading"
	case Done:
		return "done"
	}
	return "unknown"
}

// Request asks for every record in Range. Force discards the cached range
// and fetches all of it again.
type Request struct {
	Range activity.Range
	Force bool
}

type Result struct {
	Source activity.Source
	Range  activity.Range
	// Records are ordered by date. Dates without a record count as zero.
	Records []activity.Record
	// Fetched is the number of days requested upstream.
	Fetched int
}

type Options struct {
	Logger  zerolog.Logger
	Metrics metrics.Recorder
	Clock   quartz.Clock
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// Orchestrator syncs one source into the cache.
type Orchestrator struct {
	cache   Cache
	adapter source.Adapter
	log     zerolog.Logger
	metrics metrics.Recorder
	clock   quartz.Clock
	observe func(from, to State)
}

func New(cache Cache, adapter source.Adapter, opts Options) *Orchestrator {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	return &Orchestrator{
		cache:   cache,
		adapter: adapter,
		log:     opts.Logger.With().Str("source", string(adapter.Source())).Logger(),
		metrics: opts.Metrics,
		clock:   opts.Clock,
		observe: opts.OnTransition,
	}
}

func (o *Orchestrator) Source() activity.Source { return o.adapter.Source() }

// Sync runs one request to completion. Upstream failures never surface here;
// only an invalid range or a cache failure does.
func (o *Orchestrator) Sync(ctx context.Context, req Request) (res Result, err error) {
	src := o.adapter.Source()
	if err := req.Range.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}

	start := o.clock.Now()
	state := Idle
	to := func(next State) {
		o.log.Trace().Stringer("from", state).Stringer("to", next).Msg("sync state")
		if o.observe != nil {
			o.observe(state, next)
		}
		state = next
	}
	defer func() {
		o.advanceCursor(ctx, req.Range.End)
		o.metrics.ObserveSync(string(src), req.Force, o.clock.Since(start), err)
		if err != nil {
			o.log.Error().Err(err).Stringer("range", req.Range).Stringer("state", state).Msg("sync failed")
		}
	}()

	res = Result{Source: src, Range: req.Range}

	to(GapCheck)
	var missing []activity.Date
	if req.Force {
		missing = req.Range.Dates()
	} else {
		missing, err = o.cache.MissingDates(ctx, src, req.Range)
		if err != nil {
			return Result{}, &PersistenceError{Op: "find gaps", Source: src, Err: err}
		}
	}

	if len(missing) > 0 {
		o.metrics.AddGapDays(string(src), len(missing))

		to(Fetching)
		fetched := o.adapter.Fetch(ctx, missing)
		res.Fetched = len(missing)

		to(Persisting)
		var policy store.WritePolicy = store.Merge{}
		if req.Force {
			policy = store.Replace{Range: req.Range}
		}
		if err = o.cache.Write(ctx, src, fetched, policy); err != nil {
			return Result{}, &PersistenceError{Op: "write", Source: src, Err: err}
		}
	}

	to(Reading)
	res.Records, err = o.cache.Read(ctx, src, req.Range)
	if err != nil {
		return Result{}, &PersistenceError{Op: "read", Source: src, Err: err}
	}

	to(Done)
	o.log.Debug().
		Stringer("range", req.Range).
		Bool("force", req.Force).
		Int("fetched", res.Fetched).
		Int("records", len(res.Records)).
		Dur("took", o.clock.Since(start)).
		Msg("sync complete")
	return res, nil
}

// cursorTimeout bounds how long a stuck cursor write can hold up Sync.
const cursorTimeout = time.Second

// advanceCursor moves the bookmark to end. A failure is logged and does not
// affect the sync result.
func (o *Orchestrator) advanceCursor(ctx context.Context, end activity.Date) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cursorTimeout)
	defer cancel()
	if err := o.cache.AdvanceCursor(ctx, o.adapter.Source(), end); err != nil {
		o.log.Warn().Err(err).Msg("advance sync cursor")
	}
}

// Today is the current calendar day in loc.
func Today(clock quartz.Clock, loc *time.Location) activity.Date {
	return activity.DateOf(clock.Now(), loc)
}
