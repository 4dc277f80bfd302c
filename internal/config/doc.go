// Package config loads and validates the dupesweep TOML configuration.
//
// Resolution order is an explicit --config path, then
// ~/.config/dupesweep/config.toml, then ./dupesweep.toml. Absent keys fall
// back to repository defaults, and the IMMICH_* environment variables
// recognized by the original cleanup tooling override the file.
package config
