package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(start Date, counts ...int) []Record {
	out := make([]Record, len(counts))
	for i, c := range counts {
		out[i] = Record{Date: start.AddDays(i), Count: c}
	}
	return out
}

func TestStreaksEmpty(t *testing.T) {
	res := Streaks(nil, MustParseDate("2024-05-01"))
	assert.Equal(t, StreakResult{}, res)
}

func TestStreaksAllZero(t *testing.T) {
	start := MustParseDate("2024-05-01")
	res := Streaks(series(start, 0, 0, 0), start.AddDays(2))
	assert.Zero(t, res.Longest)
	assert.Zero(t, res.Current)
	assert.True(t, res.LongestStart.IsZero())
}

func TestStreaksSingleActiveDay(t *testing.T) {
	d := MustParseDate("2024-05-01")
	res := Streaks([]Record{{Date: d, Count: 2}}, d)
	assert.Equal(t, 1, res.Longest)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, d, res.LongestStart)
	assert.Equal(t, d, res.LongestEnd)
	assert.Equal(t, res.CurrentStart, res.CurrentEnd)
}

func TestStreaksAllActive(t *testing.T) {
	start := MustParseDate("2024-02-26")
	recs := series(start, 1, 2, 3, 4, 5, 6, 7)
	res := Streaks(recs, start.AddDays(6))
	assert.Equal(t, 7, res.Longest)
	assert.Equal(t, 7, res.Current)
	assert.Equal(t, start, res.CurrentStart)
	assert.Equal(t, start.AddDays(6), res.CurrentEnd)
}

func TestStreaksSplitByInactiveDay(t *testing.T) {
	start := MustParseDate("2024-01-01")
	recs := series(start, 1, 1, 1, 0, 1, 1)
	res := Streaks(recs, start.AddDays(5))
	assert.Equal(t, 3, res.Longest)
	assert.Equal(t, start, res.LongestStart)
	assert.Equal(t, start.AddDays(2), res.LongestEnd)
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, start.AddDays(4), res.CurrentStart)
}

func TestStreaksConcreteScenario(t *testing.T) {
	d1 := MustParseDate("2024-03-10")
	recs := []Record{
		{Date: d1.AddDays(3), Count: 2},
		{Date: d1, Count: 3},
		{Date: d1.AddDays(2), Count: 5},
		{Date: d1.AddDays(1), Count: 0},
	}
	res := Streaks(recs, d1.AddDays(3))
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, d1.AddDays(2), res.CurrentStart)
	assert.Equal(t, d1.AddDays(3), res.CurrentEnd)
	assert.Equal(t, 2, res.Longest)
	assert.Equal(t, d1.AddDays(2), res.LongestStart)
	assert.Equal(t, d1.AddDays(3), res.LongestEnd)
}

func TestStreaksTieKeepsEarliest(t *testing.T) {
	start := MustParseDate("2024-01-01")
	res := Streaks(series(start, 1, 1, 0, 1, 1), start.AddDays(4))
	assert.Equal(t, 2, res.Longest)
	assert.Equal(t, start, res.LongestStart)
}

func TestStreaksAnchorsOnYesterday(t *testing.T) {
	start := MustParseDate("2024-01-01")
	recs := series(start, 1, 1, 1, 0)
	res := Streaks(recs, start.AddDays(3))
	assert.Equal(t, 3, res.Current)
	assert.Equal(t, start.AddDays(2), res.CurrentEnd)

	// Today absent entirely behaves like a zero-count today.
	res = Streaks(recs[:3], start.AddDays(3))
	assert.Equal(t, 3, res.Current)
}

func TestStreaksBrokenBeforeYesterday(t *testing.T) {
	start := MustParseDate("2024-01-01")
	res := Streaks(series(start, 1, 1, 0, 0), start.AddDays(3))
	assert.Zero(t, res.Current)
	assert.True(t, res.CurrentEnd.IsZero())
	assert.Equal(t, 2, res.Longest)
}

func TestStreaksGapInDatesBreaksRun(t *testing.T) {
	start := MustParseDate("2024-01-01")
	recs := []Record{
		{Date: start, Count: 1},
		{Date: start.AddDays(1), Count: 1},
		{Date: start.AddDays(3), Count: 1},
	}
	res := Streaks(recs, start.AddDays(3))
	assert.Equal(t, 2, res.Longest)
	assert.Equal(t, 1, res.Current)
}

func TestStreaksDoesNotMutateInput(t *testing.T) {
	start := MustParseDate("2024-01-01")
	recs := []Record{{Date: start.AddDays(1), Count: 1}, {Date: start, Count: 1}}
	Streaks(recs, start.AddDays(1))
	require.Equal(t, start.AddDays(1), recs[0].Date)
}
