package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/tally/internal/activity"
)

// GetCursor returns the sync cursor for src. A source that was never synced
// yields an uninitialized cursor, not an error.
func (s *Store) GetCursor(ctx context.Context, src activity.Source) (Cursor, error) {
	c := Cursor{Source: src}
	var lastSync, updatedAt string
	var initialized int
	err := s.db.QueryRowContext(ctx,
		`SELECT last_sync_date, initialized, updated_at FROM sync_cursor WHERE source = ?`, string(src),
	).Scan(&lastSync, &initialized, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("get cursor %s: %w", src, err)
	}
	if lastSync != "" {
		if c.LastSyncDate, err = activity.ParseDate(lastSync); err != nil {
			return c, err
		}
	}
	c.Initialized = initialized == 1
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

// AdvanceCursor records d as the last synced date for src.
func (s *Store) AdvanceCursor(ctx context.Context, src activity.Source, d activity.Date) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_cursor (source, last_sync_date, initialized, updated_at) VALUES (?, ?, 1, ?)
		ON CONFLICT(source) DO UPDATE SET
			last_sync_date = excluded.last_sync_date,
			initialized = 1,
			updated_at = excluded.updated_at`,
		string(src), d.String(), now,
	)
	if err != nil {
		return fmt.Errorf("advance cursor %s: %w", src, err)
	}
	return nil
}
