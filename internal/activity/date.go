package activity

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a timezone-naive calendar day. Values are comparable with == and
// usable as map keys. The zero value means "no date".
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int                   { return d.t.Year() }
func (d Date) Month() time.Month           { return d.t.Month() }
func (d Date) Day() int                    { return d.t.Day() }
func (d Date) Weekday() time.Weekday       { return d.t.Weekday() }
func (d Date) AddDays(n int) Date          { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool          { return d.t.Before(o.t) }
func (d Date) After(o Date) bool           { return d.t.After(o.t) }
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func minDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// SundayOnOrBefore returns the closest Sunday that is not after d.
func SundayOnOrBefore(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start Date
	End   Date
}

// ErrEmptyRange is returned by Range.Validate for missing or inverted bounds.
var ErrEmptyRange = errors.New("invalid date range")

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrEmptyRange)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrEmptyRange, r.End, r.Start)
	}
	return nil
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Len is the number of days in the range, 0 for an invalid range.
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// Dates lists every day of the range in ascending order.
func (r Range) Dates() []Date {
	n := r.Len()
	out := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Start.AddDays(i))
	}
	return out
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// Trailing returns the range of the last days days ending at end, inclusive.
func Trailing(end Date, days int) Range {
	if days < 1 {
		days = 1
	}
	return Range{Start: end.AddDays(1 - days), End: end}
}

// Span returns the smallest range covering dates, or false when dates is empty.
func Span(dates []Date) (Range, bool) {
	if len(dates) == 0 {
		return Range{}, false
	}
	r := Range{Start: dates[0], End: dates[0]}
	for _, d := range dates[1:] {
		if d.Before(r.Start) {
			r.Start = d
		}
		if d.After(r.End) {
			r.End = d
		}
	}
	return r, true
}

// YearRange covers Jan 1 through Dec 31 of year.
func YearRange(year int) Range {
	return Range{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)}
}

// Years lists from..to, newest first. An inverted pair yields just to.
func Years(from, to int) []int {
	if from > to {
		from = to
	}
	out := make([]int, 0, to-from+1)
	for y := to; y >= from; y-- {
		out = append(out, y)
	}
	return out
}
