// Package sqlite provides SQLite storage for the dcc run history.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/inovacc/dcc/internal/model"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store keeps clean runs in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't handle multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := NewMigrator(db).MigrateUp(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the database is accessible.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// SaveRun inserts or replaces a run record.
func (s *Store) SaveRun(ctx context.Context, run *model.RunRecord) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	matched, err := json.Marshal(nonNil(run.Matched))
	if err != nil {
		return err
	}

	removed, err := json.Marshal(nonNil(run.Removed))
	if err != nil {
		return err
	}

	failed, err := json.Marshal(run.Failed)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, cleaner_id, cleaner_name, location, dry_run, canceled, bytes,
			 matched, removed, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CleanerID, run.CleanerName, run.Location,
		boolToInt(run.DryRun), boolToInt(run.Canceled), run.Bytes,
		string(matched), string(removed), string(failed),
		run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	return nil
}

// ListRuns returns runs newest first. cleanerID <= 0 selects every cleaner;
// limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, cleanerID, limit int) ([]model.RunRecord, error) {
	var (
		where []string
		args  []any
	)

	if cleanerID > 0 {
		where = append(where, "cleaner_id = ?")
		args = append(args, cleanerID)
	}

	query := `SELECT id, cleaner_id, cleaner_name, location, dry_run, canceled, bytes,
		matched, removed, failed, started_at, finished_at FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY started_at DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []model.RunRecord

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, run)
	}

	return out, rows.Err()
}

// DeleteRuns removes every run recorded for cleanerID, or every run at all
// when cleanerID <= 0, and returns how many were deleted.
func (s *Store) DeleteRuns(ctx context.Context, cleanerID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args := `DELETE FROM runs WHERE cleaner_id = ?`, []any{cleanerID}
	if cleanerID <= 0 {
		query, args = `DELETE FROM runs`, nil
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting runs for cleaner %d: %w", cleanerID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func scanRun(rows *sql.Rows) (model.RunRecord, error) {
	var (
		run                      model.RunRecord
		dryRun, canceled         int
		matched, removed, failed string
		startedAt, finishedAt    int64
	)

	if err := rows.Scan(&run.ID, &run.CleanerID, &run.CleanerName, &run.Location,
		&dryRun, &canceled, &run.Bytes, &matched, &removed, &failed,
		&startedAt, &finishedAt); err != nil {
		return run, fmt.Errorf("scanning run: %w", err)
	}

	run.DryRun = dryRun != 0
	run.Canceled = canceled != 0
	run.StartedAt = time.Unix(0, startedAt)
	run.FinishedAt = time.Unix(0, finishedAt)

	if err := json.Unmarshal([]byte(matched), &run.Matched); err != nil {
		return run, fmt.Errorf("decoding matched for run %s: %w", run.ID, err)
	}

	if err := json.Unmarshal([]byte(removed), &run.Removed); err != nil {
		return run, fmt.Errorf("decoding removed for run %s: %w", run.ID, err)
	}

	if err := json.Unmarshal([]byte(failed), &run.Failed); err != nil {
		return run, fmt.Errorf("decoding failed for run %s: %w", run.ID, err)
	}

	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
