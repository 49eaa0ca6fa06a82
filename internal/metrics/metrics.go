// Package metrics exposes Prometheus collectors for the sync engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives sync telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveSync(source string, forced bool, d time.Duration, err error)
	AddGapDays(source string, n int)
	IncUpstreamFailure(source string)
	IncDetailFailure(source string)
}

type Prometheus struct {
	syncs           *prometheus.CounterVec
	syncDuration    *prometheus.HistogramVec
	gapDays         *prometheus.CounterVec
	upstreamFailure *prometheus.CounterVec
	detailFailure   *prometheus.CounterVec
}

// NewPrometheus registers the sync collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		syncs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_sync_total",
			Help: "Sync passes by source, mode and outcome",
		}, []string{"source", "mode", "outcome"}),
		syncDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tally_sync_duration_seconds",
			Help:    "Duration of sync passes",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		gapDays: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_sync_gap_days_total",
			Help: "Days found missing from the cache and sent upstream",
		}, []string{"source"}),
		upstreamFailure: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_upstream_failures_total",
			Help: "Whole-batch upstream failures replaced with placeholders",
		}, []string{"source"}),
		detailFailure: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tally_detail_failures_total",
			Help: "Per-day detail lookups that failed",
		}, []string{"source"}),
	}
}

func (p *Prometheus) ObserveSync(source string, forced bool, d time.Duration, err error) {
	mode := "merge"
	if forced {
		mode = "replace"
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.syncs.WithLabelValues(source, mode, outcome).Inc()
	p.syncDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *Prometheus) AddGapDays(source string, n int) {
	p.gapDays.WithLabelValues(source).Add(float64(n))
}

func (p *Prometheus) IncUpstreamFailure(source string) {
	p.upstreamFailure.WithLabelValues(source).Inc()
}

func (p *Prometheus) IncDetailFailure(source string) {
	p.detailFailure.WithLabelValues(source).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveSync(string, bool, time.Duration, error) {}
func (Nop) AddGapDays(string, int)                         {}
func (Nop) IncUpstreamFailure(string)                      {}
func (Nop) IncDetailFailure(string)                        {}
