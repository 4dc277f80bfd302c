package testsupport

import (
	"context"
	"testing"
	"time"

	"dupesweep/internal/journal"
)

// MustOpenJournal opens a journal.Store in a temp directory and registers
// cleanup.
func MustOpenJournal(t testing.TB) *journal.Store {
	t.Helper()

	store, err := journal.Open(t.TempDir())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun inserts a started run row for tests using the provided store.
func NewRun(t testing.TB, store *journal.Store, id string, dryRun bool) journal.Run {
	t.Helper()

	run := journal.Run{ID: id, StartedAt: time.Now().UTC(), DryRun: dryRun}
	if err := store.BeginRun(context.Background(), run); err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
	return run
}
