package sweep

import "dupesweep/internal/immich"

// DeletionBatch accumulates loser IDs across groups up to a fixed limit.
// It is owned exclusively by the Runner; there is no shared mutable state
// beyond it.
type DeletionBatch struct {
	limit int
	ids   []string
	bytes int64
}

// NewDeletionBatch returns an empty batch bounded to limit IDs.
func NewDeletionBatch(limit int) *DeletionBatch {
	if limit < 1 {
		limit = 1
	}
	return &DeletionBatch{limit: limit}
}

// Append adds one asset to the batch.
func (b *DeletionBatch) Append(asset immich.Asset) {
	b.ids = append(b.ids, asset.ID)
	b.bytes += asset.FileSize()
}

// Full reports whether the batch reached its limit and must be flushed.
func (b *DeletionBatch) Full() bool {
	return len(b.ids) >= b.limit
}

// Len returns the number of queued IDs.
func (b *DeletionBatch) Len() int {
	return len(b.ids)
}

// Drain empties the batch and returns its IDs and accumulated byte size.
func (b *DeletionBatch) Drain() ([]string, int64) {
	ids := b.ids
	bytes := b.bytes
	b.ids = nil
	b.bytes = 0
	return ids, bytes
}
