package testsupport

import (
	"context"
	"testing"

	"hanru/internal/config"
	"hanru/internal/queue"
	"hanru/internal/segment"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewProject creates a project for tests using the provided store.
func NewProject(t testing.TB, store *queue.Store, name string) *queue.Project {
	t.Helper()

	project, err := store.CreateProject(context.Background(), name, "")
	if err != nil {
		t.Fatalf("store.CreateProject: %v", err)
	}
	return project
}

// StageChapters stages parsed chapters for tests using the provided store.
func StageChapters(t testing.TB, store *queue.Store, projectID string, parsed []segment.ParsedChapter) []*queue.Chapter {
	t.Helper()

	chapters, err := store.StageChapters(context.Background(), projectID, parsed)
	if err != nil {
		t.Fatalf("store.StageChapters: %v", err)
	}
	return chapters
}
