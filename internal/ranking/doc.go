// Package ranking decides which asset of a duplicate group survives.
//
// The policy is an ordered tie-break chain: earliest capture date, then
// preferred file format, then larger size, then metadata richness, with the
// group's original order as the deterministic last resort. The earliest-date
// rule is a proxy for originality, not a guarantee — an earlier-dated
// low-quality scan still wins, by documented policy.
package ranking
