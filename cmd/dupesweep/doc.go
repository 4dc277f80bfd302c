// Command dupesweep finds duplicate photo groups on an Immich server, keeps
// the best copy of each, migrates the other copies' metadata onto it, and
// deletes the rest in bounded batches. Runs default to dry-run; deletion has
// to be switched on deliberately.
package main
