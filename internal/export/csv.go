package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sadopc/tally/internal/activity"
)

func ToCSV(src activity.Source, records []activity.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Source", "Date", "Count", "Repositories", "Items"}); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			string(src),
			r.Date.String(),
			strconv.Itoa(r.Count),
			strings.Join(r.Detail.Repositories, "; "),
			itemList(r.Detail),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// itemList flattens commit summaries or video titles into one cell.
func itemList(d activity.Detail) string {
	parts := make([]string, 0, len(d.Activities)+len(d.Items))
	for _, c := range d.Activities {
		parts = append(parts, c.Repository+": "+c.Summary)
	}
	for _, v := range d.Items {
		parts = append(parts, v.Title)
	}
	return strings.Join(parts, " | ")
}

// Filename builds the default export name for src over r.
func Filename(src activity.Source, r activity.Range, ext string) string {
	return fmt.Sprintf("tally-%s-%s_%s.%s", src, r.Start, r.End, ext)
}
