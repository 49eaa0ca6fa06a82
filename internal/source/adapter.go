// Package source fetches per-day activity from upstream platforms and
// normalizes it into activity records.
//
// Adapters never return upstream errors. When a whole batch fails they log
// the failure and hand back zero-count placeholders for every requested
// date, so the cache has no hole that would be re-fetched on every request.
// A forced refresh is the recovery path once the upstream recovers.
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/metrics"
)

// Adapter fetches activity for a set of dates. Fetch returns exactly one
// record per input date, in input order.
type Adapter interface {
	Source() activity.Source
	Fetch(ctx context.Context, dates []activity.Date) []activity.Record
}

// ErrChannelNotFound is returned when no lookup strategy resolves a channel.
var ErrChannelNotFound = errors.New("channel not found")

// Options are shared by every adapter.
type Options struct {
	Logger  zerolog.Logger
	Metrics metrics.Recorder
	// Location decides which calendar day an upstream timestamp falls on.
	Location *time.Location
	// NewBackOff builds the retry schedule for a batch call. MaxRetries
	// caps it.
	NewBackOff func() backoff.BackOff
	MaxRetries uint64
}

func (o Options) withDefaults() Options {
	if o.Metrics == nil {
		o.Metrics = metrics.Nop{}
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.NewBackOff == nil {
		o.NewBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 30 * time.Second
			return b
		}
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 2
	}
	return o
}

// retry runs op on the configured schedule. Errors wrapped with
// backoff.Permanent stop immediately.
func (o Options) retry(ctx context.Context, op func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(o.NewBackOff(), o.MaxRetries), ctx)
	return backoff.Retry(op, b)
}

// degrade logs a whole-batch failure and returns placeholders for dates.
func (o Options) degrade(src activity.Source, dates []activity.Date, err error) []activity.Record {
	o.Logger.Warn().Err(err).
		Str("source", string(src)).
		Int("days", len(dates)).
		Msg("upstream fetch failed, caching empty days")
	o.Metrics.IncUpstreamFailure(string(src))
	return activity.Placeholders(dates)
}

// window converts the span of dates into the half-open instant range
// [first day 00:00, last day + 1 00:00) in loc.
func window(dates []activity.Date, loc *time.Location) (from, to time.Time, ok bool) {
	span, ok := activity.Span(dates)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return span.Start.In(loc), span.End.AddDays(1).In(loc), true
}

// permanentStatus reports whether an HTTP status will not improve on retry.
func permanentStatus(code int) bool {
	return code >= http.StatusBadRequest && code < http.StatusInternalServerError &&
		code != http.StatusTooManyRequests && code != http.StatusRequestTimeout
}
