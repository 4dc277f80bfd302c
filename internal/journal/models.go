package journal

import "time"

// Run is one sweep invocation.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	DryRun     bool
	Permanent  bool
	Summary    Summary
}

// Summary carries the final counters of a run.
type Summary struct {
	GroupsProcessed int
	GroupsSkipped   int
	AssetsDeleted   int
	BytesReclaimed  int64
	Errors          int
}

// GroupRecord is the journal row for one resolved duplicate group.
type GroupRecord struct {
	RunID       string
	Seq         int
	DuplicateID string
	WinnerID    string
	LoserIDs    []string
	Reason      string
	State       string
	Error       string
}
