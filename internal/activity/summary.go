package activity

import (
	"fmt"
	"time"
)

// Summary aggregates a window of records.
type Summary struct {
	Total      int    `json:"total"`
	ActiveDays int    `json:"activeDays"`
	Busiest    Record `json:"busiest"`
}

// Summarize totals records. The busiest day is the earliest day holding the
// maximum count.
func Summarize(records []Record) Summary {
	var s Summary
	sorted := make([]Record, len(records))
	copy(sorted, records)
	SortByDate(sorted)
	for _, r := range sorted {
		if r.Count <= 0 {
			continue
		}
		s.Total += r.Count
		s.ActiveDays++
		if r.Count > s.Busiest.Count {
			s.Busiest = r
		}
	}
	return s
}

// MonthTotal is the activity summed over one calendar month.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total int
}

func (m MonthTotal) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

// Monthly sums records per calendar month, in date order. Months without a
// record are omitted.
func Monthly(records []Record) []MonthTotal {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	SortByDate(sorted)

	var out []MonthTotal
	for _, r := range sorted {
		n := len(out)
		if n == 0 || out[n-1].Year != r.Date.Year() || out[n-1].Month != r.Date.Month() {
			out = append(out, MonthTotal{Year: r.Date.Year(), Month: r.Date.Month()})
			n++
		}
		out[n-1].Total += r.Count
	}
	return out
}
