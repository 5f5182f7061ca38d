package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/acvinq/internal/activity"
)

// Append records desc as a new activity stamped with the current local
// time. The description is normalised first; a blank description returns
// activity.ErrEmptyDescription without touching the database.
//
// The returned record carries its assigned ID. Identical descriptions are
// never deduplicated.
func (s *Store) Append(ctx context.Context, desc string) (activity.Record, error) {
	if activity.NormalizeDescription(desc) == "" {
		return activity.Record{}, activity.ErrEmptyDescription
	}

	rec, err := activity.NewRecord(desc, s.nextStamp())
	if err != nil {
		return activity.Record{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (description, timestamp, day, instant)
		VALUES (?, ?, ?, ?)
	`,
		rec.Description,
		activity.FormatTimestamp(rec.Timestamp),
		rec.Day.String(),
		activity.FormatInstant(rec.Timestamp),
	)
	if err != nil {
		return activity.Record{}, classify("append", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return activity.Record{}, classify("append", fmt.Errorf("last insert id: %w", err))
	}
	rec.ID = id

	return rec, nil
}

// nextStamp returns the local capture time for an append, bumped by a
// nanosecond when the clock has not moved past the previous append.
func (s *Store) nextStamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().Local()
	if !ts.After(s.lastStamp) {
		ts = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = ts
	return ts
}

// LastForDay returns the record of day with the greatest instant, or nil if
// the day is empty.
func (s *Store) LastForDay(ctx context.Context, day activity.Day) (*activity.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, timestamp, day
		FROM activities
		WHERE day = ?
		ORDER BY instant DESC, id DESC
		LIMIT 1
	`, day.String())

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("last for day", err)
	}
	return &rec, nil
}

// CountForDay returns the number of records logged on day.
func (s *Store) CountForDay(ctx context.Context, day activity.Day) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM activities WHERE day = ?
	`, day.String()).Scan(&count)
	if err != nil {
		return 0, classify("count for day", err)
	}
	return count, nil
}

// ListForDay returns every record of day in ascending time order, ties
// broken by insertion order. Order follows the UTC instant, so records on
// both sides of a clock change stay in the order they happened.
//
// Returns an empty slice (not nil) if the day has no records.
func (s *Store) ListForDay(ctx context.Context, day activity.Day) ([]activity.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, timestamp, day
		FROM activities
		WHERE day = ?
		ORDER BY instant ASC, id ASC
	`, day.String())
	if err != nil {
		return nil, classify("list for day", err)
	}
	defer rows.Close()

	records := []activity.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, classify("list for day", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list for day", fmt.Errorf("iterate activities: %w", err))
	}

	return records, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (activity.Record, error) {
	var (
		rec   activity.Record
		stamp string
		day   string
	)
	if err := row.Scan(&rec.ID, &rec.Description, &stamp, &day); err != nil {
		return activity.Record{}, err
	}

	ts, err := activity.ParseTimestamp(stamp)
	if err != nil {
		return activity.Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	rec.Timestamp = ts

	rec.Day, err = activity.ParseDay(day)
	if err != nil {
		return activity.Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}

	return rec, nil
}
