package sweep

// GroupState tracks a duplicate group through one run. Every admitted group
// starts PENDING, moves to SKIPPED, CONFIRMED, or AUTO_QUEUED, and admitted
// non-skipped groups end LOGGED_ONLY (dry run), APPLIED, or TRANSFER_FAILED.
type GroupState string

const (
	StatePending        GroupState = "pending"
	StateSkipped        GroupState = "skipped"
	StateConfirmed      GroupState = "confirmed"
	StateAutoQueued     GroupState = "auto_queued"
	StateLoggedOnly     GroupState = "logged_only"
	StateApplied        GroupState = "applied"
	StateTransferFailed GroupState = "transfer_failed"
)
