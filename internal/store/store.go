package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/acvinq/internal/activity"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (also databases written by the first release, which
//     named the day column "date")
// 1 - Added index on (day, timestamp, id)
// 2 - Added the UTC instant column; the day index orders by (day, instant, id)
const currentSchemaVersion = 2

// Store provides durable storage for the activity log.
// Uses SQLite with WAL mode so a viewer can read while an inquiry writes.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time

	// mu guards lastStamp, which keeps same-handle appends strictly
	// ascending even when the clock does not move between calls.
	mu        sync.Mutex
	lastStamp time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of append timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open creates or opens a SQLite database at the given path, creating the
// parent directory if needed. Applies required pragmas and migrations.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, classify("open", fmt.Errorf("create directory %s: %w", dir, err))
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, classify("open", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, classify("open", fmt.Errorf("connect: %w", err))
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, classify("open", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, classify("open", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if err := renameLegacyDateColumn(db); err != nil {
		return err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the day lookup index used by every per-day query.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_activities_day
		ON activities(day, timestamp, id)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 adds the instant column, fills it for existing rows and
// rebuilds the day index on it. Local timestamps stop sorting in time order
// when the UTC offset changes within a day.
func migrateToV2(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}
	defer tx.Rollback()

	cols, err := tableColumns(tx, "activities")
	if err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}

	if !cols["instant"] {
		if _, err := tx.Exec(`ALTER TABLE activities ADD COLUMN instant TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("migrate to v2: add instant: %w", err)
		}
	}

	if err := backfillInstants(tx); err != nil {
		return fmt.Errorf("migrate to v2: %w", err)
	}

	for _, stmt := range []string{
		`DROP INDEX IF EXISTS idx_activities_day`,
		`CREATE INDEX idx_activities_day ON activities(day, instant, id)`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate to v2: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v2: commit: %w", err)
	}
	return nil
}

// backfillInstants derives the instant of every row that lacks one from its
// stored timestamp.
func backfillInstants(tx *sql.Tx) error {
	rows, err := tx.Query(`SELECT id, timestamp FROM activities WHERE instant = ''`)
	if err != nil {
		return fmt.Errorf("select rows without instant: %w", err)
	}

	pending := make(map[int64]string)
	for rows.Next() {
		var (
			id    int64
			stamp string
		)
		if err := rows.Scan(&id, &stamp); err != nil {
			rows.Close()
			return fmt.Errorf("scan row: %w", err)
		}
		ts, err := activity.ParseTimestamp(stamp)
		if err != nil {
			rows.Close()
			return fmt.Errorf("record %d: %w", id, err)
		}
		pending[id] = activity.FormatInstant(ts)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate rows: %w", err)
	}
	rows.Close()

	for id, instant := range pending {
		if _, err := tx.Exec(`UPDATE activities SET instant = ? WHERE id = ?`, instant, id); err != nil {
			return fmt.Errorf("set instant of record %d: %w", id, err)
		}
	}
	return nil
}

// renameLegacyDateColumn upgrades databases created by the first release,
// whose activities table stored the calendar day in a column named "date".
func renameLegacyDateColumn(db *sql.DB) error {
	cols, err := tableColumns(db, "activities")
	if err != nil {
		return err
	}
	if !cols["date"] || cols["day"] {
		return nil
	}
	if _, err := db.Exec("ALTER TABLE activities RENAME COLUMN date TO day"); err != nil {
		return fmt.Errorf("rename legacy date column: %w", err)
	}
	return nil
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// tableColumns returns the column names of table. A missing table has no
// columns.
func tableColumns(db querier, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column info: %w", err)
	}
	return cols, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
