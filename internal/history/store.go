package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by another version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run summarizes one channel batch run.
type Run struct {
	RunID      string
	Channel    string
	ChannelURL string
	StartedAt  time.Time
	FinishedAt time.Time
	StartIndex int
	Total      int
	Processed  int
	Skipped    int
	Failed     int
}

// Attempt is one video outcome within a run.
type Attempt struct {
	ID           int64
	RunID        string
	Channel      string
	VideoID      string
	URL          string
	Status       string
	Stage        string
	ErrorKind    string
	ErrorMessage string
	NotesFile    string
	RecordedAt   time.Time
	Duration     time.Duration
}

// Store persists runs and attempts.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the journal at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate it)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, channel, channel_url, started_at, start_index, total)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Channel, run.ChannelURL, formatTime(started), run.StartIndex, run.Total,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, skipped = ?, failed = ?, total = ?, start_index = ?
         WHERE run_id = ?`,
		formatTime(finished), run.Processed, run.Skipped, run.Failed, run.Total, run.StartIndex, run.RunID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update run: run %s not found", run.RunID)
	}
	return nil
}

// RecordAttempt appends one video outcome.
func (s *Store) RecordAttempt(ctx context.Context, a Attempt) error {
	recorded := a.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (run_id, channel, video_id, url, status, stage, error_kind, error_message,
                               notes_file, recorded_at, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Channel, a.VideoID, a.URL, a.Status,
		nullableString(a.Stage), nullableString(a.ErrorKind), nullableString(a.ErrorMessage),
		nullableString(a.NotesFile), formatTime(recorded), a.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// RecentAttempts lists the newest attempts, optionally filtered by channel.
func (s *Store) RecentAttempts(ctx context.Context, channel string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, run_id, channel, video_id, url, status, stage, error_kind, error_message,
                     notes_file, recorded_at, duration_ms
              FROM attempts`
	args := []any{}
	if channel = strings.TrimSpace(channel); channel != "" {
		query += " WHERE channel = ?"
		args = append(args, channel)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a                                       Attempt
			stage, errKind, errMsg, notes, recorded sql.NullString
			durationMS                              int64
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.Channel, &a.VideoID, &a.URL, &a.Status,
			&stage, &errKind, &errMsg, &notes, &recorded, &durationMS); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Stage = stage.String
		a.ErrorKind = errKind.String
		a.ErrorMessage = errMsg.String
		a.NotesFile = notes.String
		a.RecordedAt = parseTime(recorded.String)
		a.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentRuns lists the newest runs, optionally filtered by channel.
func (s *Store) RecentRuns(ctx context.Context, channel string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT run_id, channel, channel_url, started_at, finished_at, start_index, total,
                     processed, skipped, failed
              FROM runs`
	args := []any{}
	if channel = strings.TrimSpace(channel); channel != "" {
		query += " WHERE channel = ?"
		args = append(args, channel)
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished sql.NullString
		)
		if err := rows.Scan(&r.RunID, &r.Channel, &r.ChannelURL, &started, &finished, &r.StartIndex,
			&r.Total, &r.Processed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = parseTime(started.String)
		r.FinishedAt = parseTime(finished.String)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
