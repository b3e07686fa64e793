// Package storage persists sitless state: the daily counter key-value pairs
// and the session history in SQLite, and user settings in YAML.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sitless/internal/core/progress"
	"sitless/internal/core/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_sessions (
	id               TEXT PRIMARY KEY,
	session_date     TEXT NOT NULL,
	cycle            INTEGER NOT NULL,
	sitting_seconds  INTEGER NOT NULL,
	activity_seconds INTEGER NOT NULL,
	completed_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_sessions_date ON activity_sessions(session_date);
`

const upsertKV = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// SessionRecord is one completed sitting+activity round trip.
type SessionRecord struct {
	ID               string
	Date             string
	Cycle            int
	SittingDuration  time.Duration
	ActivityDuration time.Duration
	CompletedAt      time.Time
}

// DaySummary aggregates the sessions of one calendar day.
type DaySummary struct {
	Date             string
	Sessions         int
	SittingDuration  time.Duration
	ActivityDuration time.Duration
}

// SQLite is the key-value and history store.
type SQLite struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var (
	_ progress.BatchStore = (*SQLite)(nil)
	_ session.History     = (*SQLite)(nil)
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *SQLite) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the value stored under key.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, fmt.Errorf("storage is not configured")
	}
	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx, upsertKV, key, value, toMillis(s.now()))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetMany stores every pair in one transaction: either all keys change or none.
func (s *SQLite) SetMany(ctx context.Context, values map[string]string) (err error) {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kv transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	updatedAt := toMillis(s.now())
	for key, value := range values {
		if _, err = tx.ExecContext(ctx, upsertKV, key, value, updatedAt); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit kv transaction: %w", err)
	}
	return nil
}

// RecordSession appends a completed round trip to the history.
func (s *SQLite) RecordSession(ctx context.Context, completed session.Completed) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(completed.Date) == "" {
		return fmt.Errorf("session date is required")
	}
	completedAt := completed.At
	if completedAt.IsZero() {
		completedAt = s.now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO activity_sessions (
		   id,
		   session_date,
		   cycle,
		   sitting_seconds,
		   activity_seconds,
		   completed_at
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		completed.Date,
		completed.Cycle,
		int64(completed.SittingDuration/time.Second),
		int64(completed.ActivityDuration/time.Second),
		toMillis(completedAt),
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// SessionsOn returns the sessions completed on date, oldest first.
func (s *SQLite) SessionsOn(ctx context.Context, date string) ([]SessionRecord, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, session_date, cycle, sitting_seconds, activity_seconds, completed_at
		 FROM activity_sessions
		 WHERE session_date = ?
		 ORDER BY completed_at, cycle`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var (
			record          SessionRecord
			sittingSeconds  int64
			activitySeconds int64
			completedAt     int64
		)
		if err := rows.Scan(&record.ID, &record.Date, &record.Cycle, &sittingSeconds, &activitySeconds, &completedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		record.SittingDuration = time.Duration(sittingSeconds) * time.Second
		record.ActivityDuration = time.Duration(activitySeconds) * time.Second
		record.CompletedAt = fromMillis(completedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// DailySummaries aggregates sessions per day for from..to inclusive. Days
// without sessions are omitted.
func (s *SQLite) DailySummaries(ctx context.Context, from, to string) ([]DaySummary, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT session_date, COUNT(*), SUM(sitting_seconds), SUM(activity_seconds)
		 FROM activity_sessions
		 WHERE session_date >= ? AND session_date <= ?
		 GROUP BY session_date
		 ORDER BY session_date`,
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("summarize sessions: %w", err)
	}
	defer rows.Close()

	var summaries []DaySummary
	for rows.Next() {
		var (
			summary         DaySummary
			sittingSeconds  int64
			activitySeconds int64
		)
		if err := rows.Scan(&summary.Date, &summary.Sessions, &sittingSeconds, &activitySeconds); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary.SittingDuration = time.Duration(sittingSeconds) * time.Second
		summary.ActivityDuration = time.Duration(activitySeconds) * time.Second
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return summaries, nil
}
