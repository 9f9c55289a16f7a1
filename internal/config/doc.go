// Package config loads, normalizes, and validates the TOML configuration for
// the hanru CLI.
package config
