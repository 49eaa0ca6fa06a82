package activity

import "time"

// TrailingDays is the look-back of the trailing calendar view.
const TrailingDays = 365

// Cell is one slot of the calendar grid. Placeholder cells carry no date.
type Cell struct {
	Date Date
}

func (c Cell) IsPlaceholder() bool { return c.Date.IsZero() }

// Week is a Sunday-first column of seven cells.
type Week [7]Cell

// Grid is a week-aligned calendar layout, indexed [week][weekday].
type Grid struct {
	Weeks []Week
	// First and Last bound the concrete dates in the grid. Both are zero when
	// the grid has no weeks.
	First Date
	Last  Date
}

// YearGrid lays out year. The grid stops at the earliest of Dec 31, today
// when year is the current year, and latest when latest is non-zero.
func YearGrid(year int, today, latest Date) Grid {
	first := NewDate(year, time.January, 1)
	end := NewDate(year, time.December, 31)
	if today.Year() == year {
		end = minDate(end, today)
	}
	if !latest.IsZero() {
		end = minDate(end, latest)
	}
	return buildGrid(first, end)
}

// TrailingGrid lays out the TrailingDays days before today through today.
func TrailingGrid(today Date) Grid {
	return buildGrid(today.AddDays(-TrailingDays), today)
}

func buildGrid(first, last Date) Grid {
	if last.Before(first) {
		return Grid{}
	}
	g := Grid{First: first, Last: last}
	for start := SundayOnOrBefore(first); !start.After(last); start = start.AddDays(7) {
		var w Week
		for i := range w {
			d := start.AddDays(i)
			if d.Before(first) || d.After(last) {
				continue
			}
			w[i] = Cell{Date: d}
		}
		g.Weeks = append(g.Weeks, w)
	}
	return g
}

// Dates returns the concrete dates of the grid in order.
func (g Grid) Dates() []Date {
	var out []Date
	for _, w := range g.Weeks {
		for _, c := range w {
			if !c.IsPlaceholder() {
				out = append(out, c.Date)
			}
		}
	}
	return out
}

// Range returns the span of concrete dates in the grid.
func (g Grid) Range() Range {
	return Range{Start: g.First, End: g.Last}
}
