package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelsQuartiles(t *testing.T) {
	start := MustParseDate("2024-01-01")
	assert.Equal(t, []int{0, 1, 2, 4}, Levels(series(start, 0, 1, 4, 10)))
}

func TestLevelsAllZero(t *testing.T) {
	start := MustParseDate("2024-01-01")
	assert.Equal(t, []int{0, 0, 0}, Levels(series(start, 0, 0, 0)))
}

func TestLevelBoundaries(t *testing.T) {
	cases := []struct {
		count, max, want int
	}{
		{0, 8, 0},
		{2, 8, 1},
		{3, 8, 2},
		{4, 8, 2},
		{5, 8, 3},
		{6, 8, 3},
		{7, 8, 4},
		{8, 8, 4},
		{3, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Level(tc.count, tc.max), "count=%d max=%d", tc.count, tc.max)
	}
}

func TestLevelsByDateUsesWindowMax(t *testing.T) {
	start := MustParseDate("2024-01-01")
	levels := LevelsByDate(series(start, 2, 4))
	assert.Equal(t, 2, levels[start])
	assert.Equal(t, 4, levels[start.AddDays(1)])
}
