// Package transfer plans the metadata migration from a duplicate group's
// losers to its winner.
//
// Plans are augment-only: memberships are added and absent fields filled,
// existing winner data is never overwritten. Stripping the winner's own
// metadata (keep_winner_metadata = false) is an explicit executor step, not
// part of planning.
package transfer
