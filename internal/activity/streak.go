package activity

// StreakResult describes the current and longest runs of consecutive active
// days. Span dates are zero when the corresponding streak is zero.
type StreakResult struct {
	Current      int  `json:"current"`
	Longest      int  `json:"longest"`
	CurrentStart Date `json:"currentStart,omitempty"`
	CurrentEnd   Date `json:"currentEnd,omitempty"`
	LongestStart Date `json:"longestStart,omitempty"`
	LongestEnd   Date `json:"longestEnd,omitempty"`
}

// Streaks computes streaks over records, which may be unordered and sparse.
// A day is active when its count is positive; absent days count as inactive.
// The current streak is anchored on today, or on yesterday when today is not
// active yet.
func Streaks(records []Record, today Date) StreakResult {
	var res StreakResult
	if len(records) == 0 {
		return res
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	SortByDate(sorted)

	var (
		run      int
		runStart Date
		prev     Date
	)
	for _, rec := range sorted {
		if rec.Count <= 0 {
			run = 0
			prev = rec.Date
			continue
		}
		if run == 0 || prev.AddDays(1) != rec.Date {
			run = 0
			runStart = rec.Date
		}
		run++
		prev = rec.Date
		// Strictly greater keeps the earliest run on ties.
		if run > res.Longest {
			res.Longest = run
			res.LongestStart = runStart
			res.LongestEnd = rec.Date
		}
	}

	active := make(map[Date]bool, len(sorted))
	for _, rec := range sorted {
		if rec.Count > 0 {
			active[rec.Date] = true
		}
	}

	anchor := today
	if !active[anchor] {
		anchor = today.AddDays(-1)
		if !active[anchor] {
			return res
		}
	}

	earliest := sorted[0].Date
	res.CurrentEnd = anchor
	for d := anchor; !d.Before(earliest) && active[d]; d = d.AddDays(-1) {
		res.Current++
		res.CurrentStart = d
	}
	return res
}
