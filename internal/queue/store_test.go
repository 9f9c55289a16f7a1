package queue_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hanru/internal/glossary"
	"hanru/internal/queue"
	"hanru/internal/segment"
	"hanru/internal/testsupport"
)

func parsedChapters(n int) []segment.ParsedChapter {
	chapters := make([]segment.ParsedChapter, n)
	for i := range chapters {
		chapters[i] = segment.ParsedChapter{
			Title:   fmt.Sprintf("第%d章", i+1),
			Content: fmt.Sprintf("第%d章\n正文内容。", i+1),
		}
	}
	return chapters
}

func TestOpenAppliesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	project, err := store.CreateProject(ctx, "Against the Gods", "system prompt")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.ID == "" {
		t.Fatal("expected project ID to be assigned")
	}

	fetched, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if fetched == nil || fetched.Name != "Against the Gods" {
		t.Fatalf("unexpected fetched project: %#v", fetched)
	}
	if fetched.SystemPrompt != "system prompt" {
		t.Errorf("system prompt = %q", fetched.SystemPrompt)
	}
}

func TestCreateProjectRejectsDuplicateName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.CreateProject(ctx, "dup", ""); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := store.CreateProject(ctx, "dup", ""); !errors.Is(err, queue.ErrProjectExists) {
		t.Fatalf("expected ErrProjectExists, got %v", err)
	}
}

func TestResolveProjectByIDAndName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "resolvable")

	ctx := context.Background()
	byID, err := store.ResolveProject(ctx, project.ID)
	if err != nil || byID == nil || byID.ID != project.ID {
		t.Fatalf("resolve by id = (%#v, %v)", byID, err)
	}
	byName, err := store.ResolveProject(ctx, "resolvable")
	if err != nil || byName == nil || byName.ID != project.ID {
		t.Fatalf("resolve by name = (%#v, %v)", byName, err)
	}
	missing, err := store.ResolveProject(ctx, "no-such-project")
	if err != nil {
		t.Fatalf("ResolveProject failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown reference, got %#v", missing)
	}
}

func TestStageChaptersAssignsSequence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "seq")

	first := testsupport.StageChapters(t, store, project.ID, parsedChapters(3))
	for i, chapter := range first {
		if chapter.Seq != i+1 {
			t.Errorf("chapter %d seq = %d, want %d", i, chapter.Seq, i+1)
		}
		if chapter.Status != queue.StatusPending {
			t.Errorf("chapter %d status = %s, want pending", i, chapter.Status)
		}
	}

	// A second upload appends, never renumbers.
	second := testsupport.StageChapters(t, store, project.ID, parsedChapters(2))
	if second[0].Seq != 4 || second[1].Seq != 5 {
		t.Errorf("appended seqs = %d, %d, want 4, 5", second[0].Seq, second[1].Seq)
	}

	all, err := store.ChaptersByProject(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("ChaptersByProject failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 chapters, got %d", len(all))
	}
	for i, chapter := range all {
		if chapter.Seq != i+1 {
			t.Errorf("listing out of seq order at %d: seq %d", i, chapter.Seq)
		}
	}
}

func TestMarkTranslatingAndRevert(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "transitions")
	chapters := testsupport.StageChapters(t, store, project.ID, parsedChapters(2))

	ctx := context.Background()
	ids := []string{chapters[0].ID, chapters[1].ID}
	if err := store.MarkTranslating(ctx, project.ID, ids); err != nil {
		t.Fatalf("MarkTranslating failed: %v", err)
	}
	translating, err := store.ChaptersByStatus(ctx, project.ID, queue.StatusTranslating)
	if err != nil {
		t.Fatalf("ChaptersByStatus failed: %v", err)
	}
	if len(translating) != 2 {
		t.Fatalf("expected 2 translating chapters, got %d", len(translating))
	}

	if err := store.RevertTranslating(ctx, project.ID, ids[:1]); err != nil {
		t.Fatalf("RevertTranslating failed: %v", err)
	}
	pending, err := store.ChaptersByStatus(ctx, project.ID, queue.StatusPending)
	if err != nil {
		t.Fatalf("ChaptersByStatus failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ids[0] {
		t.Fatalf("unexpected pending set: %#v", pending)
	}
}

func TestSetTranslated(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "completion")
	chapters := testsupport.StageChapters(t, store, project.ID, parsedChapters(1))
	chapter := chapters[0]

	ctx := context.Background()
	if err := store.SetTranslated(ctx, chapter.ID, "перевод"); !errors.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("pending chapter must reject completion, got %v", err)
	}

	if err := store.MarkTranslating(ctx, project.ID, []string{chapter.ID}); err != nil {
		t.Fatalf("MarkTranslating failed: %v", err)
	}
	if err := store.SetTranslated(ctx, chapter.ID, "перевод"); err != nil {
		t.Fatalf("SetTranslated failed: %v", err)
	}

	// Redelivered completions reapply cleanly.
	if err := store.SetTranslated(ctx, chapter.ID, "перевод заново"); err != nil {
		t.Fatalf("redelivered completion failed: %v", err)
	}
	got, err := store.GetChapter(ctx, chapter.ID)
	if err != nil {
		t.Fatalf("GetChapter failed: %v", err)
	}
	if got.Status != queue.StatusTranslated || got.TranslatedText != "перевод заново" {
		t.Fatalf("unexpected chapter after reapply: %#v", got)
	}
	if !got.IsTranslated() {
		t.Error("IsTranslated must report true")
	}

	if err := store.SetTranslated(ctx, chapter.ID, "  "); err == nil {
		t.Fatal("expected error for empty translated text")
	}
}

func TestSetStatusValidatesLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "lifecycle")
	chapters := testsupport.StageChapters(t, store, project.ID, parsedChapters(1))
	chapter := chapters[0]

	ctx := context.Background()
	if err := store.SetStatus(ctx, chapter.ID, queue.StatusPublished); !errors.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("pending -> published must fail, got %v", err)
	}
	if err := store.SetStatus(ctx, chapter.ID, queue.StatusTranslated); err == nil {
		t.Fatal("translated without text must fail")
	}

	if err := store.MarkTranslating(ctx, project.ID, []string{chapter.ID}); err != nil {
		t.Fatalf("MarkTranslating failed: %v", err)
	}
	if err := store.SetTranslated(ctx, chapter.ID, "перевод"); err != nil {
		t.Fatalf("SetTranslated failed: %v", err)
	}
	if err := store.SetStatus(ctx, chapter.ID, queue.StatusPublishing); err != nil {
		t.Fatalf("translated -> publishing failed: %v", err)
	}
	if err := store.SetStatus(ctx, chapter.ID, queue.StatusPublished); err != nil {
		t.Fatalf("publishing -> published failed: %v", err)
	}
}

func TestUpsertTermsDeduplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "glossary")

	ctx := context.Background()
	added, err := store.UpsertTerms(ctx, project.ID, []glossary.Term{
		{ID: "t1", Original: "林白", Russian: "Линь Бай", Gender: glossary.GenderMasc},
		{ID: "t2", Original: "丹田", Russian: "даньтянь"},
	})
	if err != nil {
		t.Fatalf("UpsertTerms failed: %v", err)
	}
	if added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}

	// Existing renderings win over redelivered ones.
	added, err = store.UpsertTerms(ctx, project.ID, []glossary.Term{
		{ID: "t3", Original: "林白", Russian: "Лин Бо"},
		{ID: "t4", Original: "灵气", Russian: "духовная энергия"},
	})
	if err != nil {
		t.Fatalf("UpsertTerms failed: %v", err)
	}
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}

	terms, err := store.TermsByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("TermsByProject failed: %v", err)
	}
	if len(terms) != 3 {
		t.Fatalf("expected 3 terms, got %d", len(terms))
	}
	for _, term := range terms {
		if term.Original == "林白" && term.Russian != "Линь Бай" {
			t.Errorf("existing rendering was overwritten: %q", term.Russian)
		}
	}
}

func TestReplaceTermRussian(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	project := testsupport.NewProject(t, store, "rename")

	ctx := context.Background()
	if _, err := store.UpsertTerms(ctx, project.ID, []glossary.Term{
		{ID: "t1", Original: "林白", Russian: "Лин Бо"},
	}); err != nil {
		t.Fatalf("UpsertTerms failed: %v", err)
	}
	if err := store.ReplaceTermRussian(ctx, project.ID, "林白", "Линь Бай"); err != nil {
		t.Fatalf("ReplaceTermRussian failed: %v", err)
	}
	terms, err := store.TermsByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("TermsByProject failed: %v", err)
	}
	if len(terms) != 1 || terms[0].Russian != "Линь Бай" {
		t.Fatalf("unexpected terms: %#v", terms)
	}

	if err := store.ReplaceTermRussian(ctx, project.ID, "没有", "нет"); err == nil {
		t.Fatal("expected error for unknown term")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to queue.Status
		want     bool
	}{
		{queue.StatusPending, queue.StatusTranslating, true},
		{queue.StatusTranslating, queue.StatusTranslated, true},
		{queue.StatusTranslating, queue.StatusPending, true},
		{queue.StatusTranslated, queue.StatusPublishing, true},
		{queue.StatusPublishing, queue.StatusPublished, true},
		{queue.StatusPending, queue.StatusPublished, false},
		{queue.StatusPublished, queue.StatusPending, false},
		{queue.StatusTranslated, queue.StatusTranslating, false},
	}
	for _, tc := range cases {
		if got := queue.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
