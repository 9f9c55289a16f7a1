package hanzi

import "strings"

const contextRunes = 20

// Finding reports one untranslated source-script character. Position is the
// rune index of its first occurrence within the scanned text.
type Finding struct {
	Char     rune
	Position int
	Context  string
}

// ChapterText pairs a chapter id with the text to scan, normally the
// translated text that is expected to be residue-free.
type ChapterText struct {
	ID   string
	Text string
}

// ChapterFindings groups the findings for one chapter.
type ChapterFindings struct {
	ChapterID string
	Findings  []Finding
}

// Report is the result of scanning a chapter subset.
type Report struct {
	Chapters []ChapterFindings
	// Affected lists, in input order, the ids of chapters that contain at
	// least one finding.
	Affected []string
}

// IsHan reports whether a rune falls in the CJK ideograph ranges treated as
// untranslated residue: the unified base block, Extension A, the
// compatibility block, and the supplementary-plane extensions.
func IsHan(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	case r >= 0x3400 && r <= 0x4DBF:
		return true
	case r >= 0xF900 && r <= 0xFAFF:
		return true
	case r >= 0x20000 && r <= 0x2EBEF:
		return true
	default:
		return false
	}
}

// Contains reports whether text holds at least one CJK ideograph.
func Contains(text string) bool {
	for _, r := range text {
		if IsHan(r) {
			return true
		}
	}
	return false
}

// Scan finds untranslated CJK residue in text. Each distinct character is
// reported once per scan, at its first occurrence; repeats of an already-seen
// character are not re-reported. The scan answers "does this text still carry
// residue", not "how many times".
func Scan(text string) []Finding {
	runes := []rune(text)
	var findings []Finding
	var seen map[rune]struct{}
	for i, r := range runes {
		if !IsHan(r) {
			continue
		}
		if seen == nil {
			seen = make(map[rune]struct{})
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		findings = append(findings, Finding{
			Char:     r,
			Position: i,
			Context:  contextWindow(runes, i),
		})
	}
	return findings
}

// ScanChapters scans each chapter's text and collects the set of chapter ids
// that still contain residue, in input order. Dedup is per chapter: the same
// character appearing in two chapters is reported for both.
func ScanChapters(chapters []ChapterText) Report {
	report := Report{}
	for _, chapter := range chapters {
		findings := Scan(chapter.Text)
		if len(findings) == 0 {
			continue
		}
		report.Chapters = append(report.Chapters, ChapterFindings{
			ChapterID: chapter.ID,
			Findings:  findings,
		})
		report.Affected = append(report.Affected, chapter.ID)
	}
	return report
}

// contextWindow renders up to contextRunes characters either side of position
// for single-line display, with ellipsis markers when the window was cut.
func contextWindow(runes []rune, position int) string {
	start := position - contextRunes
	if start < 0 {
		start = 0
	}
	end := position + contextRunes + 1
	if end > len(runes) {
		end = len(runes)
	}

	var sb strings.Builder
	if start > 0 {
		sb.WriteString("...")
	}
	for _, r := range runes[start:end] {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		sb.WriteRune(r)
	}
	if end < len(runes) {
		sb.WriteString("...")
	}
	return sb.String()
}
