// Package queue persists the local working set: projects, chapters with their
// translation lifecycle, and the project glossary, backed by SQLite.
//
// The backend service remains the source of truth for job state; this store
// holds the operator's staged chapters and the status machine that the batch
// scheduler and completion intake drive.
package queue
