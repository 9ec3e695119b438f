// Package config loads, normalizes, and validates converter configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and enforces the option invariants the
// scheduler and pipeline rely on: compression level 0-8, worker count >= 1,
// and the interactive prompt post-action being limited to single-worker runs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical post-action values, and clear validation errors.
package config
