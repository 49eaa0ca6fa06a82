package export

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/sadopc/tally/internal/activity"
)

type jsonExport struct {
	ExportedAt string                `json:"exported_at"`
	Source     activity.Source       `json:"source"`
	Start      activity.Date         `json:"start"`
	End        activity.Date         `json:"end"`
	Total      int                   `json:"total"`
	ActiveDays int                   `json:"active_days"`
	Streak     activity.StreakResult `json:"streak"`
	Days       []activity.Record     `json:"days"`
}

// ToJSON writes records for src over r, with totals and streaks as of today.
func ToJSON(src activity.Source, r activity.Range, records []activity.Record, today activity.Date, path string) error {
	sum := activity.Summarize(records)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Source:     src,
		Start:      r.Start,
		End:        r.End,
		Total:      sum.Total,
		ActiveDays: sum.ActiveDays,
		Streak:     activity.Streaks(records, today),
		Days:       records,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
