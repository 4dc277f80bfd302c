// Package sweep drives a duplicate cleanup run end to end: it fetches the
// server's duplicate groups, ranks each group to a single survivor, migrates
// loser metadata onto it, and deletes the losers in bounded batches.
//
// Groups are resolved strictly one at a time. Failures are contained to the
// group or batch they occur in; only configuration, lock, and initial fetch
// problems abort a run. With dry run enabled the runner reports every
// decision but never calls a mutating endpoint.
package sweep
