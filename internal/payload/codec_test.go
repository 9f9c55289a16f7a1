package payload_test

import (
	"strings"
	"testing"

	"hanru/internal/glossary"
	"hanru/internal/payload"
)

func TestBuildChapterBlocks(t *testing.T) {
	blob, err := payload.Build([]payload.Chapter{
		{ID: "ch-1", OriginalText: "第一章 初见\n林白走进山门。"},
		{ID: "ch-2", OriginalText: "第二章 拜师\n他跪在殿前。"},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, marker := range []string{
		"===CHAPTER-START|ID:ch-1|===",
		"===CHAPTER-END|ID:ch-1|===",
		"===CHAPTER-START|ID:ch-2|===",
		"===CHAPTER-END|ID:ch-2|===",
	} {
		if !strings.Contains(blob, marker) {
			t.Errorf("payload missing marker %q", marker)
		}
	}
	if strings.Contains(blob, "===GLOSSARY-JSON===") {
		t.Error("empty glossary snapshot must not emit a glossary block")
	}
	if strings.Index(blob, "ch-1") > strings.Index(blob, "ch-2") {
		t.Error("chapter blocks out of input order")
	}
}

func TestBuildWithGlossary(t *testing.T) {
	blob, err := payload.Build(
		[]payload.Chapter{{ID: "ch-1", OriginalText: "正文"}},
		[]glossary.Term{{Original: "林白", Russian: "Линь Бай"}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	glossaryAt := strings.Index(blob, "===GLOSSARY-JSON===")
	endAt := strings.Index(blob, "===КОНЕЦ===")
	if glossaryAt < 0 || endAt < 0 {
		t.Fatalf("glossary block markers missing:\n%s", blob)
	}
	if glossaryAt > endAt {
		t.Fatal("glossary markers out of order")
	}
	if !strings.Contains(blob[glossaryAt:endAt], `"russian-translation": "Линь Бай"`) {
		t.Errorf("glossary JSON missing content:\n%s", blob[glossaryAt:endAt])
	}
}

func TestParseResponseEchoRoundTrip(t *testing.T) {
	chapters := []payload.Chapter{
		{ID: "ch-1", OriginalText: "первый текст"},
		{ID: "ch-2", OriginalText: "второй текст"},
	}
	blob, err := payload.Build(chapters, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	resp := payload.ParseResponse(blob)
	if len(resp.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(resp.Chapters))
	}
	for i, chapter := range chapters {
		got := resp.Chapters[i]
		if got.ID != chapter.ID {
			t.Errorf("chapter %d id = %q, want %q", i, got.ID, chapter.ID)
		}
		if got.TranslatedText != chapter.OriginalText {
			t.Errorf("chapter %d text = %q, want %q", i, got.TranslatedText, chapter.OriginalText)
		}
	}
	if resp.GlossaryErr != nil || resp.NewTerms != nil {
		t.Errorf("echo of glossary-free payload gained glossary state: %#v", resp)
	}
}

func TestParseResponseSkipsUnterminatedBlock(t *testing.T) {
	text := "===CHAPTER-START|ID:ch-1|===\nготовый перевод\n===CHAPTER-END|ID:ch-1|===\n" +
		"===CHAPTER-START|ID:ch-2|===\nоборванный перевод"

	resp := payload.ParseResponse(text)
	if len(resp.Chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(resp.Chapters))
	}
	if resp.Chapters[0].ID != "ch-1" || resp.Chapters[0].TranslatedText != "готовый перевод" {
		t.Errorf("unexpected chapter: %#v", resp.Chapters[0])
	}
}

func TestParseResponseRepeatedStartMarker(t *testing.T) {
	text := "===CHAPTER-START|ID:ch-1|===\nперевод с эхом маркера\n" +
		"===CHAPTER-START|ID:ch-1|===\n===CHAPTER-END|ID:ch-1|===\n" +
		"===CHAPTER-START|ID:ch-2|===\nвторая глава\n===CHAPTER-END|ID:ch-2|==="

	resp := payload.ParseResponse(text)
	if len(resp.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d: %#v", len(resp.Chapters), resp.Chapters)
	}
	if resp.Chapters[0].ID != "ch-1" {
		t.Errorf("first chapter id = %q, want ch-1", resp.Chapters[0].ID)
	}
	if !strings.Contains(resp.Chapters[0].TranslatedText, "перевод с эхом маркера") {
		t.Errorf("first body lost its text: %q", resp.Chapters[0].TranslatedText)
	}
	if resp.Chapters[1].ID != "ch-2" || resp.Chapters[1].TranslatedText != "вторая глава" {
		t.Errorf("unexpected second chapter: %#v", resp.Chapters[1])
	}
}

func TestParseResponseMismatchedEndMarker(t *testing.T) {
	text := "===CHAPTER-START|ID:ch-1|===\nтекст\n===CHAPTER-END|ID:ch-9|==="

	resp := payload.ParseResponse(text)
	if len(resp.Chapters) != 0 {
		t.Fatalf("mismatched end marker must not produce a chapter: %#v", resp.Chapters)
	}
}

func TestParseResponseGlossaryBlock(t *testing.T) {
	text := "===CHAPTER-START|ID:ch-1|===\nперевод\n===CHAPTER-END|ID:ch-1|===\n" +
		"===GLOSSARY-JSON===\n" +
		`[{"original":"丹田","russian-translation":"даньтянь","gender":"masc"}]` + "\n" +
		"===КОНЕЦ==="

	resp := payload.ParseResponse(text)
	if resp.GlossaryErr != nil {
		t.Fatalf("GlossaryErr = %v", resp.GlossaryErr)
	}
	if len(resp.NewTerms) != 1 {
		t.Fatalf("expected 1 new term, got %d", len(resp.NewTerms))
	}
	term := resp.NewTerms[0]
	if term.Original != "丹田" || term.Russian != "даньтянь" || term.Gender != glossary.GenderMasc {
		t.Errorf("unexpected term: %#v", term)
	}
}

func TestParseResponseMalformedGlossary(t *testing.T) {
	text := "===CHAPTER-START|ID:ch-1|===\nперевод\n===CHAPTER-END|ID:ch-1|===\n" +
		"===GLOSSARY-JSON===\nnot json\n===КОНЕЦ==="

	resp := payload.ParseResponse(text)
	if len(resp.Chapters) != 1 {
		t.Fatalf("chapter extraction must survive a bad glossary block, got %d chapters", len(resp.Chapters))
	}
	if resp.GlossaryErr == nil {
		t.Error("expected GlossaryErr to be set")
	}
	if resp.NewTerms != nil {
		t.Errorf("malformed glossary must yield no terms: %#v", resp.NewTerms)
	}
}

func TestParseResponseMissingGlossaryEnd(t *testing.T) {
	text := "===CHAPTER-START|ID:ch-1|===\nперевод\n===CHAPTER-END|ID:ch-1|===\n" +
		"===GLOSSARY-JSON===\n[]"

	resp := payload.ParseResponse(text)
	if resp.GlossaryErr != nil || resp.NewTerms != nil {
		t.Errorf("half-open glossary block must be ignored entirely: %#v", resp)
	}
	if len(resp.Chapters) != 1 {
		t.Errorf("expected 1 chapter, got %d", len(resp.Chapters))
	}
}
