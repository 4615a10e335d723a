// Package history records apply runs in an embedded SQLite database so
// 'rigup report' can show what happened to a machine over time.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rigup-dev/rigup/internal/apply"
)

// Record is one recorded apply run.
type Record struct {
	RunID             string    `json:"runId"`
	OriginalPlanRunID string    `json:"originalPlanRunId,omitempty"`
	PlanPath          string    `json:"planPath,omitempty"`
	DryRun            bool      `json:"dryRun"`
	Success           int       `json:"success"`
	Skipped           int       `json:"skipped"`
	Failed            int       `json:"failed"`
	RecordedAt        time.Time `json:"recordedAt"`
}

// Store is the apply run history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT NOT NULL,
	original_plan_run_id TEXT NOT NULL DEFAULT '',
	plan_path TEXT NOT NULL DEFAULT '',
	dry_run INTEGER NOT NULL,
	success INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);
`

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordApply stores one apply result.
func (s *Store) RecordApply(result *apply.Result, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, original_plan_run_id, plan_path, dry_run, success, skipped, failed, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.OriginalPlanRunID,
		result.PlanPath,
		boolToInt(result.DryRun),
		result.Success,
		result.Skipped,
		result.Failed,
		at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record apply run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first. A limit of 0 means
// no limit.
func (s *Store) Recent(limit int) ([]Record, error) {
	query := `
		SELECT run_id, original_plan_run_id, plan_path, dry_run, success, skipped, failed, recorded_at
		FROM runs ORDER BY recorded_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var dryRun int
		var recordedAt string
		if err := rows.Scan(&r.RunID, &r.OriginalPlanRunID, &r.PlanPath, &dryRun, &r.Success, &r.Skipped, &r.Failed, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.DryRun = dryRun != 0
		if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			r.RecordedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
