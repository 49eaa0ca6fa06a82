// Package activity holds the per-day activity model and the pure analytics
// computed over it: streaks, intensity levels and calendar grids.
package activity

import "sort"

// Source identifies an upstream platform.
type Source string

const (
	GitHub  Source = "github"
	YouTube Source = "youtube"
)

// Sources lists every supported source in display order.
var Sources = []Source{GitHub, YouTube}

func (s Source) Valid() bool {
	switch s {
	case GitHub, YouTube:
		return true
	}
	return false
}

// Record is one day of activity for a source. Date is the natural key.
type Record struct {
	Date   Date   `json:"date"`
	Count  int    `json:"count"`
	Detail Detail `json:"detail"`
}

// Detail is the source-specific payload attached to a day. Code-host days
// fill Repositories and Activities, video-host days fill Items.
type Detail struct {
	Repositories []string `json:"repositories,omitempty"`
	Activities   []Commit `json:"activities,omitempty"`
	Items        []Video  `json:"items,omitempty"`
}

type Commit struct {
	Repository string `json:"repository"`
	Summary    string `json:"summary"`
}

type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (d Detail) IsEmpty() bool {
	return len(d.Repositories) == 0 && len(d.Activities) == 0 && len(d.Items) == 0
}

// Placeholder is the zero-count, empty-detail record for d.
func Placeholder(d Date) Record {
	return Record{Date: d}
}

// Placeholders returns one placeholder per date, in input order.
func Placeholders(dates []Date) []Record {
	out := make([]Record, len(dates))
	for i, d := range dates {
		out[i] = Placeholder(d)
	}
	return out
}

// SortByDate sorts records ascending by date in place.
func SortByDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

// Fill returns one record per day of r, taking counts from records and
// zero-count placeholders for absent days.
func Fill(r Range, records []Record) []Record {
	byDate := make(map[Date]Record, len(records))
	for _, rec := range records {
		byDate[rec.Date] = rec
	}
	dates := r.Dates()
	out := make([]Record, len(dates))
	for i, d := range dates {
		if rec, ok := byDate[d]; ok {
			out[i] = rec
			continue
		}
		out[i] = Placeholder(d)
	}
	return out
}
