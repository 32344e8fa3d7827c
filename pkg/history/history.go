// Package history persists an audit trail of applied patches in SQLite.
// The plain-text changelog remains the source of truth for repack
// cleanup; this database exists for querying past sessions.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

// Event is one applied patch.
type Event struct {
	OccurredAt time.Time
	Category   string
	FileName   string
	SourceGun  string
	TargetGun  string
	Detail     string
}

// CategoryStat aggregates patch counts per category.
type CategoryStat struct {
	Category   string
	PatchCount int
	FileCount  int
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS patch_events (
  id          INTEGER PRIMARY KEY,
  occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  category    TEXT NOT NULL,
  file_name   TEXT NOT NULL,
  source_gun  TEXT NOT NULL,
  target_gun  TEXT NOT NULL,
  detail      TEXT
);
CREATE INDEX IF NOT EXISTS idx_patch_time ON patch_events(occurred_at);
CREATE INDEX IF NOT EXISTS idx_patch_file ON patch_events(file_name);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Record inserts one patch event.
func (d *DB) Record(ctx context.Context, e Event) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO patch_events(category, file_name, source_gun, target_gun, detail) VALUES(?,?,?,?,?)`,
		e.Category, e.FileName, e.SourceGun, e.TargetGun, nullIfEmpty(e.Detail))
	return err
}

// List returns the most recent events, newest first.
func (d *DB) List(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT occurred_at, category, file_name, source_gun, target_gun, COALESCE(detail, '') FROM patch_events ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.OccurredAt, &e.Category, &e.FileName, &e.SourceGun, &e.TargetGun, &e.Detail); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Stats aggregates patch and distinct-file counts per category.
func (d *DB) Stats(ctx context.Context) ([]CategoryStat, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT category, COUNT(*), COUNT(DISTINCT file_name) FROM patch_events GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var s CategoryStat
		if err := rows.Scan(&s.Category, &s.PatchCount, &s.FileCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
