package tui

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/store"
	"github.com/sadopc/tally/internal/syncer"
)

// Env is what the views share: the cache, the per-source orchestrators and
// the canonical clock.
type Env struct {
	Store         *store.Store
	Orchestrators []*syncer.Orchestrator
	Clock         quartz.Clock
	Location      *time.Location
	Logger        zerolog.Logger
	// ExportDir receives exported files. Defaults to the home directory.
	ExportDir string
}

func (e *Env) today() activity.Date {
	return syncer.Today(e.Clock, e.Location)
}

func (e *Env) orchestrator(src activity.Source) *syncer.Orchestrator {
	for _, o := range e.Orchestrators {
		if o.Source() == src {
			return o
		}
	}
	return nil
}

// sources lists the configured sources, or every source when none is
// configured so cached data stays browsable.
func (e *Env) sources() []activity.Source {
	if len(e.Orchestrators) == 0 {
		return activity.Sources
	}
	out := make([]activity.Source, 0, len(e.Orchestrators))
	for _, o := range e.Orchestrators {
		out = append(out, o.Source())
	}
	return out
}

// viewState represents the currently active view.
type viewState int

const (
	viewHeatmap viewState = iota
	viewReports
	viewRefresh
	viewSettings
)

var viewNames = []string{"Heatmap", "Reports", "Refresh", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// prefsChangedMsg tells the views to reload the persisted view settings.
type prefsChangedMsg struct{}

// --- Helpers ---

func sourceLabel(src activity.Source) string {
	switch src {
	case activity.GitHub:
		return "GitHub"
	case activity.YouTube:
		return "YouTube"
	}
	return string(src)
}

// unit names what a source counts.
func unit(src activity.Source, n int) string {
	word := "contribution"
	if src == activity.YouTube {
		word = "upload"
	}
	if n != 1 {
		word += "s"
	}
	return fmt.Sprintf("%d %s", n, word)
}

func formatDay(d activity.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

func formatSpan(start, end activity.Date) string {
	if start.IsZero() {
		return ""
	}
	if start == end {
		return start.Format("Jan 2")
	}
	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}

func nextSource(list []activity.Source, cur activity.Source) activity.Source {
	for i, s := range list {
		if s == cur {
			return list[(i+1)%len(list)]
		}
	}
	if len(list) == 0 {
		return cur
	}
	return list[0]
}
