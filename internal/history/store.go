// Package history persists probe run outcomes in a local SQLite database so
// repeated manual runs against a deployment can be compared later. History is
// wrapper-owned tooling state only; conversation state stays with the external
// runtime.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded probe run.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	GatewayURL string    `json:"gateway_url"`
	Tool       string    `json:"tool"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Store records probe runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS probe_runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		gateway_url TEXT NOT NULL,
		tool TEXT NOT NULL,
		ok INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_probe_runs_started_at ON probe_runs(started_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores one probe run. An empty ID is filled in.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate run id: %w", err)
		}
		run.ID = id
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO probe_runs (id, started_at, gateway_url, tool, ok, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.GatewayURL, run.Tool, run.OK, run.Error, run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to record probe run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, gateway_url, tool, ok, error, duration_ms
		FROM probe_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt int64
		if err := rows.Scan(&run.ID, &startedAt, &run.GatewayURL, &run.Tool, &run.OK, &run.Error, &run.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan probe run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate probe runs: %w", err)
	}

	return runs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
