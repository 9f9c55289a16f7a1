package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hanru/internal/queue"
)

var statusTitler = cases.Title(language.English)

// statusLabel renders a lifecycle status for table output.
func statusLabel(status queue.Status) string {
	return statusTitler.String(string(status))
}

// parseSeqSelection parses a chapter selection expression into a sorted set of
// sequence numbers. Accepts comma-separated entries where each entry is either
// a single number ("7") or an inclusive range ("3-12"). An empty expression
// selects nothing.
func parseSeqSelection(expr string) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := parseSeq(lo)
			if err != nil {
				return nil, err
			}
			end, err := parseSeq(hi)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("invalid chapter range %q: end before start", part)
			}
			for seq := start; seq <= end; seq++ {
				seen[seq] = struct{}{}
			}
			continue
		}
		seq, err := parseSeq(part)
		if err != nil {
			return nil, err
		}
		seen[seq] = struct{}{}
	}

	seqs := make([]int, 0, len(seen))
	for seq := range seen {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	return seqs, nil
}

func parseSeq(raw string) (int, error) {
	seq, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("invalid chapter number %q", strings.TrimSpace(raw))
	}
	return seq, nil
}

// filterChaptersBySeq returns the chapters whose sequence numbers appear in
// seqs, preserving chapter order. It errors when a requested sequence does not
// exist in the project.
func filterChaptersBySeq(chapters []*queue.Chapter, seqs []int) ([]*queue.Chapter, error) {
	wanted := make(map[int]struct{}, len(seqs))
	for _, seq := range seqs {
		wanted[seq] = struct{}{}
	}
	selected := make([]*queue.Chapter, 0, len(wanted))
	for _, chapter := range chapters {
		if _, ok := wanted[chapter.Seq]; ok {
			selected = append(selected, chapter)
			delete(wanted, chapter.Seq)
		}
	}
	if len(wanted) > 0 {
		missing := make([]int, 0, len(wanted))
		for seq := range wanted {
			missing = append(missing, seq)
		}
		sort.Ints(missing)
		parts := make([]string, len(missing))
		for i, seq := range missing {
			parts[i] = strconv.Itoa(seq)
		}
		return nil, fmt.Errorf("chapters not found in project: %s", strings.Join(parts, ", "))
	}
	return selected, nil
}

// truncateText shortens s to at most limit runes, appending an ellipsis when
// anything was cut.
func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
