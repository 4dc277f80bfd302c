package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run journals backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database in the given
// directory and applies migrations.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the journal database.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// BeginRun inserts a run row in the started state.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, started_at, dry_run, permanent) VALUES (?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(run.DryRun),
		boolToInt(run.Permanent),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the run's completion time and final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, summary Summary) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, groups_processed = ?, groups_skipped = ?,
            assets_deleted = ?, bytes_reclaimed = ?, errors = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		summary.GroupsProcessed,
		summary.GroupsSkipped,
		summary.AssetsDeleted,
		summary.BytesReclaimed,
		summary.Errors,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// RecordGroup appends one resolved group to the run's journal.
func (s *Store) RecordGroup(ctx context.Context, rec GroupRecord) error {
	loserJSON, err := json.Marshal(rec.LoserIDs)
	if err != nil {
		return fmt.Errorf("marshal loser ids: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO groups (run_id, seq, duplicate_id, winner_id, loser_ids, reason, state, error)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Seq,
		rec.DuplicateID,
		rec.WinnerID,
		string(loserJSON),
		rec.Reason,
		rec.State,
		nullableString(rec.Error),
	)
	if err != nil {
		return fmt.Errorf("insert group record: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, dry_run, permanent,
            groups_processed, groups_skipped, assets_deleted, bytes_reclaimed, errors
            FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListGroups returns the journaled groups of one run in processing order.
func (s *Store) ListGroups(ctx context.Context, runID string) ([]GroupRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, seq, duplicate_id, winner_id, loser_ids, reason, state, error
            FROM groups WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query groups for run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []GroupRecord
	for rows.Next() {
		var rec GroupRecord
		var loserJSON string
		var errText sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.Seq, &rec.DuplicateID, &rec.WinnerID, &loserJSON, &rec.Reason, &rec.State, &errText); err != nil {
			return nil, fmt.Errorf("scan group record: %w", err)
		}
		if err := json.Unmarshal([]byte(loserJSON), &rec.LoserIDs); err != nil {
			return nil, fmt.Errorf("decode loser ids: %w", err)
		}
		rec.Error = errText.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	var dryRun, permanent int
	if err := rows.Scan(&run.ID, &started, &finished, &dryRun, &permanent,
		&run.Summary.GroupsProcessed, &run.Summary.GroupsSkipped,
		&run.Summary.AssetsDeleted, &run.Summary.BytesReclaimed, &run.Summary.Errors); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = ts
	if finished.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
			run.FinishedAt = &ts
		}
	}
	run.DryRun = dryRun != 0
	run.Permanent = permanent != 0
	return run, nil
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
