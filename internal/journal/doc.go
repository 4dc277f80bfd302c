// Package journal records what each sweep run decided and did.
//
// It is an audit aid, not a source of truth: every resolved group lands as
// one row (winner, losers, deciding rule, final state), and `dupesweep
// report` reads it back. Journal failures never abort a run.
package journal
