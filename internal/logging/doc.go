// Package logging constructs the slog loggers used across the CLI: a compact
// console handler for interactive use and JSON output for machines.
package logging
