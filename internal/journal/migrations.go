package journal

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        started_at TEXT NOT NULL,
        finished_at TEXT,
        dry_run INTEGER NOT NULL,
        permanent INTEGER NOT NULL,
        groups_processed INTEGER NOT NULL DEFAULT 0,
        groups_skipped INTEGER NOT NULL DEFAULT 0,
        assets_deleted INTEGER NOT NULL DEFAULT 0,
        bytes_reclaimed INTEGER NOT NULL DEFAULT 0,
        errors INTEGER NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS groups (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
        seq INTEGER NOT NULL,
        duplicate_id TEXT NOT NULL,
        winner_id TEXT NOT NULL,
        loser_ids TEXT NOT NULL,
        reason TEXT NOT NULL,
        state TEXT NOT NULL,
        error TEXT
    )`,
	`CREATE INDEX IF NOT EXISTS idx_groups_run ON groups(run_id, seq)`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}
