// Package main hosts the hanru CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into project
// and chapter management, translation batch submission, completion polling,
// glossary maintenance, and residue scanning. It centralizes configuration
// resolution, store access, and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
