package segment

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// FallbackTitle is assigned when raw text contains no recognizable chapter
// heading and the whole upload becomes a single chapter.
const FallbackTitle = "Глава без названия"

const (
	previewLimit    = 150
	previewEllipsis = "..."
)

// headingPattern matches 第X章 heading lines: the numeral may be written with
// Chinese numeral characters or ASCII digits, and anything after 章 on the
// same line is the inline title remainder.
var headingPattern = regexp.MustCompile(`(?m)^第[一二三四五六七八九十百千0-9]+章[^\n]*`)

// ParsedChapter is a chapter candidate produced by segmentation. It is not a
// persisted chapter yet; the id is ephemeral and exists only so selection UIs
// can reference candidates before staging.
type ParsedChapter struct {
	ID      string
	Title   string
	Preview string
	Content string
}

// Segment splits raw text into ordered chapter candidates at 第X章 heading
// boundaries. Each chapter spans from its heading to the start of the next
// heading, trimmed. Text without any heading yields a single fallback chapter
// over the whole trimmed input. Segmentation is pure and total over any
// input, including the empty string.
func Segment(raw string) []ParsedChapter {
	bounds := headingPattern.FindAllStringIndex(raw, -1)
	if len(bounds) == 0 {
		content := strings.TrimSpace(raw)
		return []ParsedChapter{{
			ID:      uuid.NewString(),
			Title:   FallbackTitle,
			Preview: preview(content),
			Content: content,
		}}
	}

	chapters := make([]ParsedChapter, 0, len(bounds))
	for i, bound := range bounds {
		end := len(raw)
		if i+1 < len(bounds) {
			end = bounds[i+1][0]
		}
		title := strings.TrimSpace(raw[bound[0]:bound[1]])
		content := strings.TrimSpace(raw[bound[0]:end])
		body := strings.TrimSpace(strings.TrimPrefix(content, title))
		chapters = append(chapters, ParsedChapter{
			ID:      uuid.NewString(),
			Title:   title,
			Preview: preview(body),
			Content: content,
		})
	}
	return chapters
}

// preview bounds a chapter body for list display. The limit counts runes, not
// bytes; the ellipsis is appended only when something was actually cut.
func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLimit {
		return body
	}
	return string(runes[:previewLimit]) + previewEllipsis
}
