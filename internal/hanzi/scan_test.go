package hanzi_test

import (
	"strings"
	"testing"

	"hanru/internal/hanzi"
)

func TestIsHan(t *testing.T) {
	cases := []struct {
		r    rune
		want bool
	}{
		{'林', true},
		{'白', true},
		{'㐀', true},  // Extension A
		{'豈', true},  // compatibility block
		{0x20000, true},
		{'а', false}, // Cyrillic
		{'a', false},
		{'。', false}, // CJK punctuation is not residue
		{'「', false},
		{' ', false},
	}
	for _, tc := range cases {
		if got := hanzi.IsHan(tc.r); got != tc.want {
			t.Errorf("IsHan(%q) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestScanDeduplicatesPerCharacter(t *testing.T) {
	findings := hanzi.Scan("Hello 林白 world 林白 again")
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %#v", len(findings), findings)
	}
	if findings[0].Char != '林' || findings[1].Char != '白' {
		t.Errorf("unexpected characters: %q %q", findings[0].Char, findings[1].Char)
	}
	if findings[0].Position != 6 {
		t.Errorf("林 position = %d, want 6 (first occurrence, rune index)", findings[0].Position)
	}
	if findings[1].Position != 7 {
		t.Errorf("白 position = %d, want 7", findings[1].Position)
	}
}

func TestScanCleanText(t *testing.T) {
	if findings := hanzi.Scan("Он шёл по дороге. The road was long."); findings != nil {
		t.Fatalf("expected no findings, got %#v", findings)
	}
	if findings := hanzi.Scan(""); findings != nil {
		t.Fatalf("expected no findings on empty text, got %#v", findings)
	}
}

func TestScanContextWindow(t *testing.T) {
	prefix := strings.Repeat("а", 30)
	suffix := strings.Repeat("б", 30)
	findings := hanzi.Scan(prefix + "中" + suffix)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	ctx := findings[0].Context
	if !strings.HasPrefix(ctx, "...") || !strings.HasSuffix(ctx, "...") {
		t.Errorf("context missing ellipsis markers: %q", ctx)
	}
	want := "..." + strings.Repeat("а", 20) + "中" + strings.Repeat("б", 20) + "..."
	if ctx != want {
		t.Errorf("context = %q, want %q", ctx, want)
	}
}

func TestScanContextFlattensNewlines(t *testing.T) {
	findings := hanzi.Scan("line one\n中\nline two")
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if strings.ContainsAny(findings[0].Context, "\n\r") {
		t.Errorf("context contains line breaks: %q", findings[0].Context)
	}
}

func TestScanChapters(t *testing.T) {
	report := hanzi.ScanChapters([]hanzi.ChapterText{
		{ID: "a", Text: "чистый текст"},
		{ID: "b", Text: "осталось 道"},
		{ID: "c", Text: "тоже 道 здесь"},
	})
	if len(report.Affected) != 2 {
		t.Fatalf("affected = %v, want [b c]", report.Affected)
	}
	if report.Affected[0] != "b" || report.Affected[1] != "c" {
		t.Errorf("affected order = %v", report.Affected)
	}
	if len(report.Chapters) != 2 {
		t.Fatalf("expected findings for 2 chapters, got %d", len(report.Chapters))
	}
	// The same character in two chapters is reported for both.
	if report.Chapters[0].Findings[0].Char != '道' || report.Chapters[1].Findings[0].Char != '道' {
		t.Errorf("per-chapter dedup must not suppress repeats across chapters")
	}
}

func TestContains(t *testing.T) {
	if !hanzi.Contains("перевод с 残 остатком") {
		t.Error("expected residue to be detected")
	}
	if hanzi.Contains("полностью переведено") {
		t.Error("expected clean text")
	}
}
