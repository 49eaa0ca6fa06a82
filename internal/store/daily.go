package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/sadopc/tally/internal/activity"
)

// MissingDates returns every date in r with no persisted record for src,
// ascending.
func (s *Store) MissingDates(ctx context.Context, src activity.Source, r activity.Range) ([]activity.Date, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date FROM daily_activity WHERE source = ? AND date >= ? AND date <= ?`,
		string(src), r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query cached dates: %w", err)
	}
	defer rows.Close()

	have := make(map[activity.Date]bool)
	for rows.Next() {
		var ds string
		if err := rows.Scan(&ds); err != nil {
			return nil, err
		}
		d, err := activity.ParseDate(ds)
		if err != nil {
			return nil, err
		}
		have[d] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []activity.Date
	for _, d := range r.Dates() {
		if !have[d] {
			missing = append(missing, d)
		}
	}
	return missing, nil
}

// Write lands records for src in a single transaction according to policy.
// Either the whole batch is committed or nothing is.
func (s *Store) Write(ctx context.Context, src activity.Source, records []activity.Record, policy WritePolicy) error {
	if policy == nil {
		policy = Merge{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	if p, ok := policy.(Replace); ok {
		if err := p.Range.Validate(); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM daily_activity WHERE source = ? AND date >= ? AND date <= ?`,
			string(src), p.Range.Start.String(), p.Range.End.String(),
		)
		if err != nil {
			return fmt.Errorf("clear range %s: %w", p.Range, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_activity (source, date, count, detail, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, date) DO UPDATE SET
			count = excluded.count,
			detail = excluded.detail,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		if rec.Date.IsZero() {
			return fmt.Errorf("upsert %s record: missing date", src)
		}
		if rec.Count < 0 {
			return fmt.Errorf("upsert %s %s: negative count %d", src, rec.Date, rec.Count)
		}
		detail, err := json.Marshal(rec.Detail)
		if err != nil {
			return fmt.Errorf("encode detail %s: %w", rec.Date, err)
		}
		if _, err := stmt.ExecContext(ctx, string(src), rec.Date.String(), rec.Count, string(detail), now, now); err != nil {
			return fmt.Errorf("upsert %s %s: %w", src, rec.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

// Upsert merges records by date.
func (s *Store) Upsert(ctx context.Context, src activity.Source, records []activity.Record) error {
	return s.Write(ctx, src, records, Merge{})
}

// ReplaceRange makes the persisted state of r mirror records exactly.
func (s *Store) ReplaceRange(ctx context.Context, src activity.Source, r activity.Range, records []activity.Record) error {
	return s.Write(ctx, src, records, Replace{Range: r})
}

// Read returns the records of src inside r ordered by date. Days without a
// row are absent.
func (s *Store) Read(ctx context.Context, src activity.Source, r activity.Range) ([]activity.Record, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, count, detail FROM daily_activity
		WHERE source = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(src), r.Start.String(), r.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", src, r, err)
	}
	defer rows.Close()

	var records []activity.Record
	for rows.Next() {
		var (
			rec    activity.Record
			ds     string
			detail string
		)
		if err := rows.Scan(&ds, &rec.Count, &detail); err != nil {
			return nil, err
		}
		if rec.Date, err = activity.ParseDate(ds); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(detail), &rec.Detail); err != nil {
			return nil, fmt.Errorf("decode detail %s: %w", ds, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Bounds reports the first and last cached day for src. ok is false when
// nothing is cached.
func (s *Store) Bounds(ctx context.Context, src activity.Source) (b Bounds, ok bool, err error) {
	var first, last sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT MIN(date), MAX(date), COUNT(*) FROM daily_activity WHERE source = ?`, string(src),
	).Scan(&first, &last, &b.Days)
	if err != nil {
		return Bounds{}, false, fmt.Errorf("bounds %s: %w", src, err)
	}
	if !first.Valid {
		return Bounds{}, false, nil
	}
	if b.First, err = activity.ParseDate(first.String); err != nil {
		return Bounds{}, false, err
	}
	if b.Last, err = activity.ParseDate(last.String); err != nil {
		return Bounds{}, false, err
	}
	return b, true, nil
}
