package sweep

import (
	"fmt"
	"strings"
)

// TransferError reports a failed metadata migration for one group. The
// group's losers are excluded from deletion: an asset is never removed when
// its metadata did not make it to the winner.
type TransferError struct {
	Seq      int
	WinnerID string
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("group %d: metadata transfer to %s failed: %v", e.Seq, e.WinnerID, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// DeletionError reports a failed batch deletion, carrying the asset IDs that
// were not deleted so the operator can act on them.
type DeletionError struct {
	IDs []string
	Err error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("deletion of %d assets failed (%s): %v", len(e.IDs), strings.Join(e.IDs, ","), e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
