package store

import (
	"time"

	"github.com/sadopc/tally/internal/activity"
)

// Cursor is the advisory sync bookmark for a source. Gap detection never
// reads it.
type Cursor struct {
	Source       activity.Source
	LastSyncDate activity.Date
	Initialized  bool
	UpdatedAt    time.Time
}

type Setting struct {
	Key   string
	Value string
}

// Bounds describes what the cache holds for a source.
type Bounds struct {
	First activity.Date
	Last  activity.Date
	Days  int
}

// WritePolicy selects how Write lands a batch: Merge upserts by date,
// Replace clears a range first.
type WritePolicy interface {
	writePolicy()
}

// Merge upserts each record by date and leaves other rows alone.
type Merge struct{}

// Replace deletes every row inside Range before inserting the batch.
type Replace struct {
	Range activity.Range
}

func (Merge) writePolicy()   {}
func (Replace) writePolicy() {}
