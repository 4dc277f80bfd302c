package ranking

import "dupesweep/internal/immich"

// Filter applies group-level admission rules before ranking.
type Filter struct {
	// PairsOnly admits only two-member groups; larger groups are left for
	// manual review.
	PairsOnly bool
}

// Admit reports whether the group may proceed to selection.
func (f Filter) Admit(group immich.DuplicateGroup) bool {
	if f.PairsOnly {
		return len(group.Assets) == 2
	}
	return true
}
