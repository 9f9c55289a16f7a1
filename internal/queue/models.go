package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a chapter.
type Status string

const (
	StatusPending     Status = "pending"
	StatusTranslating Status = "translating"
	StatusTranslated  Status = "translated"
	StatusPublishing  Status = "publishing"
	StatusPublished   Status = "published"
)

var allStatuses = []Status{
	StatusPending,
	StatusTranslating,
	StatusTranslated,
	StatusPublishing,
	StatusPublished,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// allowedTransitions encodes the forward-only status machine. The single
// backward edge, translating to pending, covers failure and cancellation.
var allowedTransitions = map[Status][]Status{
	StatusPending:     {StatusTranslating},
	StatusTranslating: {StatusTranslated, StatusPending},
	StatusTranslated:  {StatusPublishing},
	StatusPublishing:  {StatusPublished},
	StatusPublished:   {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Project is a translation project owning chapters and glossary terms.
type Project struct {
	ID           string
	Name         string
	SystemPrompt string
	CreatedAt    time.Time
}

// Chapter is a persisted chapter in the local working set. Seq is positive,
// unique within the project, and assigned monotonically at staging time.
// TranslatedText stays empty until a translation completes.
type Chapter struct {
	ID             string
	ProjectID      string
	Seq            int
	Title          string
	OriginalText   string
	TranslatedText string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTranslated reports whether the chapter carries a completed translation.
func (c Chapter) IsTranslated() bool {
	switch c.Status {
	case StatusTranslated, StatusPublishing, StatusPublished:
		return true
	default:
		return false
	}
}
