package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"hanru/internal/config"
	"hanru/internal/queue"
	"hanru/internal/segment"
	"hanru/internal/testsupport"
)

// newTestContext builds a commandContext bound to a pre-resolved config so
// command tests skip the on-disk config lookup.
func newTestContext(cfg *config.Config) *commandContext {
	ctx := &commandContext{}
	ctx.configOnce.Do(func() {
		ctx.config = cfg
	})
	return ctx
}

func stageTranslating(t *testing.T, cfg *config.Config, name string, n int) (*queue.Store, *queue.Project, []*queue.Chapter) {
	t.Helper()

	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, name)
	parsed := make([]segment.ParsedChapter, n)
	for i := range parsed {
		parsed[i] = segment.ParsedChapter{Title: "Глава", Content: "正文"}
	}
	chapters := testsupport.StageChapters(t, store, project.ID, parsed)
	ids := make([]string, len(chapters))
	for i, chapter := range chapters {
		ids[i] = chapter.ID
	}
	if err := store.MarkTranslating(context.Background(), project.ID, ids); err != nil {
		t.Fatalf("MarkTranslating: %v", err)
	}
	return store, project, chapters
}

func TestChaptersRevertReturnsSelectionToPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, project, chapters := stageTranslating(t, cfg, "revert-selection", 3)

	cmd := newChaptersRevertCommand(newTestContext(cfg))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{project.Name, "--chapters", "1-2"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if !strings.Contains(out.String(), "Reverted 2 chapter(s) to pending") {
		t.Errorf("unexpected output: %q", out.String())
	}

	want := []queue.Status{queue.StatusPending, queue.StatusPending, queue.StatusTranslating}
	for i, chapter := range chapters {
		got, err := store.GetChapter(context.Background(), chapter.ID)
		if err != nil {
			t.Fatalf("Chapter: %v", err)
		}
		if got.Status != want[i] {
			t.Errorf("chapter %d status = %s, want %s", i+1, got.Status, want[i])
		}
	}
}

func TestChaptersRevertDefaultsToAllInFlight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, project, chapters := stageTranslating(t, cfg, "revert-all", 2)

	cmd := newChaptersRevertCommand(newTestContext(cfg))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{project.ID})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if !strings.Contains(out.String(), "Reverted 2 chapter(s) to pending") {
		t.Errorf("unexpected output: %q", out.String())
	}
	for _, chapter := range chapters {
		got, err := store.GetChapter(context.Background(), chapter.ID)
		if err != nil {
			t.Fatalf("Chapter: %v", err)
		}
		if got.Status != queue.StatusPending {
			t.Errorf("chapter %d status = %s, want pending", got.Seq, got.Status)
		}
	}
}

func TestChaptersRevertRejectsNonTranslatingSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "revert-pending")
	testsupport.StageChapters(t, store, project.ID, []segment.ParsedChapter{
		{Title: "Глава", Content: "正文"},
	})

	cmd := newChaptersRevertCommand(newTestContext(cfg))
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{project.Name, "--chapters", "1"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a pending chapter")
	}
	if !strings.Contains(err.Error(), "only translating chapters can be reverted") {
		t.Errorf("error = %v", err)
	}
}
