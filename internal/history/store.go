// Package history persists run outcomes to a local SQLite database.
//
// The log file answers "what happened just now"; history answers "what has
// this host been doing for the last month". Recording is best-effort: the
// pipeline logs and continues when a write fails, and disabling history in
// configuration removes the dependency entirely.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    dry_run     INTEGER NOT NULL DEFAULT 0,
    ok          INTEGER NOT NULL DEFAULT 0,
    failed      INTEGER NOT NULL DEFAULT 0,
    total       INTEGER NOT NULL DEFAULT 0,
    remaining   INTEGER,
    status      TEXT
);

CREATE TABLE IF NOT EXISTS tracks (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    path         TEXT NOT NULL,
    gain         REAL NOT NULL,
    outcome      TEXT NOT NULL,
    detail       TEXT,
    processed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracks_run ON tracks(run_id);
`

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a new run row.
func (s *Store) BeginRun(ctx context.Context, runID string, startedAt time.Time, dryRun bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)`,
		runID, startedAt.UTC().Format(time.RFC3339Nano), boolToInt(dryRun),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordTrack appends one processed candidate's outcome to the run.
func (s *Store) RecordTrack(ctx context.Context, runID, path string, gain float64, outcome, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracks (run_id, path, gain, outcome, detail, processed_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, path, gain, outcome, nullableString(detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert track: %w", err)
	}
	return nil
}

// FinishRun closes out a run row with final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, ok, failed, total, remaining int, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, ok = ?, failed = ?, total = ?, remaining = ?, status = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), ok, failed, total, remaining, status, runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// Run summarizes one pipeline execution.
type Run struct {
	ID         string
	StartedAt  string
	FinishedAt string
	DryRun     bool
	OK         int
	Failed     int
	Total      int
	Remaining  int
	Status     string
}

// RecentRuns returns the newest runs first, at most limit rows.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), dry_run, ok, failed, total,
                COALESCE(remaining, 0), COALESCE(status, '')
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var dryRun int
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &dryRun,
			&run.OK, &run.Failed, &run.Total, &run.Remaining, &run.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Track is one processed candidate within a run.
type Track struct {
	Path        string
	Gain        float64
	Outcome     string
	Detail      string
	ProcessedAt string
}

// RunTracks lists the tracks processed in a run, oldest first.
func (s *Store) RunTracks(ctx context.Context, runID string) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, gain, outcome, COALESCE(detail, ''), processed_at
         FROM tracks WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var track Track
		if err := rows.Scan(&track.Path, &track.Gain, &track.Outcome, &track.Detail, &track.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
