package payload

import (
	"fmt"
	"regexp"
	"strings"

	"hanru/internal/glossary"
)

// Marker strings are the literal wire contract with the translation worker.
// The worker must preserve chapter markers verbatim in its output and may emit
// a glossary block using the same delimiters.
const (
	chapterStartFormat = "===CHAPTER-START|ID:%s|==="
	chapterEndFormat   = "===CHAPTER-END|ID:%s|==="
	glossaryStart      = "===GLOSSARY-JSON==="
	glossaryEnd        = "===КОНЕЦ==="
)

var chapterStartPattern = regexp.MustCompile(`===CHAPTER-START\|ID:([^|]+)\|===`)

// Chapter is the outbound view of a chapter: an opaque id and the untranslated
// source text.
type Chapter struct {
	ID           string
	OriginalText string
}

// ChapterResult is one translated chapter recovered from a worker response.
type ChapterResult struct {
	ID             string
	TranslatedText string
}

// Response is the structured form of a worker response. GlossaryErr is set,
// and NewTerms left empty, when the response carried a glossary block whose
// JSON could not be parsed; chapter extraction is unaffected by it.
type Response struct {
	Chapters    []ChapterResult
	NewTerms    []glossary.Term
	GlossaryErr error
}

// Build renders chapters and a glossary snapshot into the delimited text blob
// sent to the translation worker. Chapter blocks appear in input order joined
// by newlines; the glossary block is appended only when the snapshot is
// non-empty.
func Build(chapters []Chapter, terms []glossary.Term) (string, error) {
	blocks := make([]string, 0, len(chapters)+1)
	for _, chapter := range chapters {
		blocks = append(blocks, strings.Join([]string{
			fmt.Sprintf(chapterStartFormat, chapter.ID),
			chapter.OriginalText,
			fmt.Sprintf(chapterEndFormat, chapter.ID),
		}, "\n"))
	}
	content := strings.Join(blocks, "\n")

	if len(terms) == 0 {
		return content, nil
	}
	interchange, err := glossary.ToInterchange(terms)
	if err != nil {
		return "", err
	}
	return content + "\n" + glossaryStart + "\n" + string(interchange) + "\n" + glossaryEnd, nil
}

// ParseResponse recovers per-chapter translations and new glossary terms from
// a worker response. A chapter block counts only when the end marker carries
// the same id as the start marker; the first matching end marker wins, and
// scanning resumes past the consumed block, so a start marker echoed inside a
// chapter body never opens a second entry. Unterminated or mismatched blocks
// yield no entry for that id, so a partial worker failure never aborts the
// rest of the batch. Extracted bodies are trimmed to drop boundary artifacts
// from the delimiter lines.
func ParseResponse(text string) Response {
	resp := Response{}

	cursor := 0
	for cursor < len(text) {
		loc := chapterStartPattern.FindStringSubmatchIndex(text[cursor:])
		if loc == nil {
			break
		}
		id := text[cursor+loc[2] : cursor+loc[3]]
		bodyStart := cursor + loc[1]
		endMarker := fmt.Sprintf(chapterEndFormat, id)
		offset := strings.Index(text[bodyStart:], endMarker)
		if offset < 0 {
			cursor = bodyStart
			continue
		}
		resp.Chapters = append(resp.Chapters, ChapterResult{
			ID:             id,
			TranslatedText: strings.TrimSpace(text[bodyStart : bodyStart+offset]),
		})
		cursor = bodyStart + offset + len(endMarker)
	}

	block, ok := glossaryBlock(text)
	if !ok {
		return resp
	}
	terms, err := glossary.FromInterchange([]byte(block))
	if err != nil {
		resp.GlossaryErr = err
		return resp
	}
	resp.NewTerms = terms
	return resp
}

// glossaryBlock extracts the text between the glossary delimiters. Both
// markers must be present for the block to count.
func glossaryBlock(text string) (string, bool) {
	start := strings.Index(text, glossaryStart)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(glossaryStart):]
	end := strings.Index(rest, glossaryEnd)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
