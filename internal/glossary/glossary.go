package glossary

import "strings"

// Gender carries the grammatical gender tag attached to a term. The empty
// value means the tag was never set.
type Gender string

const (
	GenderMasc  Gender = "masc"
	GenderFemn  Gender = "femn"
	GenderNeut  Gender = "neut"
	GenderUnset Gender = ""
)

// ParseGender converts a string into a known Gender.
func ParseGender(value string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(value))) {
	case GenderMasc:
		return GenderMasc, true
	case GenderFemn:
		return GenderFemn, true
	case GenderNeut:
		return GenderNeut, true
	case GenderUnset:
		return GenderUnset, true
	default:
		return GenderUnset, false
	}
}

// Term is one original-to-translation mapping scoped to a project. Original
// acts as the natural dedup key within a project glossary.
type Term struct {
	ID         string
	Original   string
	English    string
	Russian    string
	AltRussian string
	Gender     Gender
}

// Merge combines two term lists, suppressing incoming duplicates by Original.
// The existing side always wins; output preserves existing order followed by
// surviving incoming order.
func Merge(existing, incoming []Term) []Term {
	seen := make(map[string]struct{}, len(existing))
	for _, term := range existing {
		seen[term.Original] = struct{}{}
	}
	merged := make([]Term, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	for _, term := range incoming {
		if _, dup := seen[term.Original]; dup {
			continue
		}
		seen[term.Original] = struct{}{}
		merged = append(merged, term)
	}
	return merged
}
