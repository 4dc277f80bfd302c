package ranking

import (
	"errors"
	"time"

	"dupesweep/internal/immich"
)

// ErrGroupTooSmall is returned for groups with fewer than two members.
// A well-behaved server never produces one; such groups are skipped.
var ErrGroupTooSmall = errors.New("duplicate group needs at least two assets")

// Reason identifies which rule decided the winner.
type Reason string

const (
	ReasonOlder           Reason = "older"
	ReasonPreferredFormat Reason = "preferred_format"
	ReasonLargerSize      Reason = "larger_size"
	ReasonRicherMetadata  Reason = "richer_metadata"
	// ReasonIdentical means every rule tied and the first asset in the
	// group's original order was kept for determinism.
	ReasonIdentical Reason = "identical_by_all_rules"
)

// Decision is the outcome of ranking one duplicate group: exactly one
// winner, the remaining members in their original relative order, and the
// rule that settled it.
type Decision struct {
	Winner immich.Asset
	Losers []immich.Asset
	Reason Reason
}

// Selector applies the ordered tie-break policy to duplicate groups.
type Selector struct {
	// PreferredFormat is the extension (lowercase, no dot) that wins the
	// format rule outright.
	PreferredFormat string
}

// Select picks the surviving asset of a group. Rules run in order — capture
// date, preferred format, file size, metadata richness — and each rule
// narrows the field; a rule that leaves one candidate is decisive and later
// rules never run. A full tie keeps the first asset in group order.
func (s Selector) Select(group immich.DuplicateGroup) (Decision, error) {
	if len(group.Assets) < 2 {
		return Decision{}, ErrGroupTooSmall
	}

	remaining := make([]int, len(group.Assets))
	for i := range remaining {
		remaining[i] = i
	}

	reason := ReasonIdentical
	rules := []struct {
		reason Reason
		filter func([]int) []int
	}{
		{ReasonOlder, func(in []int) []int { return s.keepEarliest(group.Assets, in) }},
		{ReasonPreferredFormat, func(in []int) []int { return s.keepPreferredFormat(group.Assets, in) }},
		{ReasonLargerSize, func(in []int) []int { return s.keepLargest(group.Assets, in) }},
		{ReasonRicherMetadata, func(in []int) []int { return s.keepRichest(group.Assets, in) }},
	}

	for _, rule := range rules {
		narrowed := rule.filter(remaining)
		if len(narrowed) < len(remaining) {
			reason = rule.reason
			remaining = narrowed
		}
		if len(remaining) == 1 {
			break
		}
	}

	winnerIdx := remaining[0]
	losers := make([]immich.Asset, 0, len(group.Assets)-1)
	for i, asset := range group.Assets {
		if i != winnerIdx {
			losers = append(losers, asset)
		}
	}

	return Decision{
		Winner: group.Assets[winnerIdx],
		Losers: losers,
		Reason: reason,
	}, nil
}

// keepEarliest retains the assets with the earliest capture date. A missing
// date sorts after every real date, so dated assets always beat undated
// ones; with no dates at all the rule keeps everyone.
func (s Selector) keepEarliest(assets []immich.Asset, in []int) []int {
	var earliest *time.Time
	for _, idx := range in {
		ts := assets[idx].CaptureTime()
		if ts == nil {
			continue
		}
		if earliest == nil || ts.Before(*earliest) {
			earliest = ts
		}
	}
	if earliest == nil {
		return in
	}
	out := in[:0:0]
	for _, idx := range in {
		ts := assets[idx].CaptureTime()
		if ts != nil && ts.Equal(*earliest) {
			out = append(out, idx)
		}
	}
	return out
}

func (s Selector) keepPreferredFormat(assets []immich.Asset, in []int) []int {
	if s.PreferredFormat == "" {
		return in
	}
	out := in[:0:0]
	for _, idx := range in {
		if assets[idx].Extension() == s.PreferredFormat {
			out = append(out, idx)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}

func (s Selector) keepLargest(assets []immich.Asset, in []int) []int {
	var largest int64
	for _, idx := range in {
		if size := assets[idx].FileSize(); size > largest {
			largest = size
		}
	}
	out := in[:0:0]
	for _, idx := range in {
		if assets[idx].FileSize() == largest {
			out = append(out, idx)
		}
	}
	return out
}

func (s Selector) keepRichest(assets []immich.Asset, in []int) []int {
	richest := -1
	for _, idx := range in {
		if score := Score(assets[idx]); score > richest {
			richest = score
		}
	}
	out := in[:0:0]
	for _, idx := range in {
		if Score(assets[idx]) == richest {
			out = append(out, idx)
		}
	}
	return out
}
