package activity

// MaxLevel is the highest intensity bucket.
const MaxLevel = 4

// Level buckets count relative to max: 0 for no activity, then quartiles
// of count/max mapped to 1..4.
func Level(count, max int) int {
	if count <= 0 || max <= 0 {
		return 0
	}
	ratio := float64(count) / float64(max)
	switch {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.5:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return MaxLevel
	}
}

func MaxCount(records []Record) int {
	max := 0
	for _, r := range records {
		if r.Count > max {
			max = r.Count
		}
	}
	return max
}

// Levels classifies every record against the window's own maximum. The
// result is parallel to records.
func Levels(records []Record) []int {
	max := MaxCount(records)
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = Level(r.Count, max)
	}
	return out
}

// LevelsByDate is Levels keyed by date, for positional renderers.
func LevelsByDate(records []Record) map[Date]int {
	levels := Levels(records)
	out := make(map[Date]int, len(records))
	for i, r := range records {
		out[r.Date] = levels[i]
	}
	return out
}
