package glossary

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"hanru/internal/services"
)

// interchangeTerm is the hyphenated-key JSON shape used for file export/import
// and for glossary blocks inside translation payloads.
type interchangeTerm struct {
	Original   string `json:"original"`
	English    string `json:"english-translation"`
	Russian    string `json:"russian-translation"`
	AltRussian string `json:"alt-russian-translation,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

// ToInterchange serializes terms into the interchange JSON array. Term ids are
// a local concern and are not exported.
func ToInterchange(terms []Term) ([]byte, error) {
	entries := make([]interchangeTerm, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, interchangeTerm{
			Original:   term.Original,
			English:    term.English,
			Russian:    term.Russian,
			AltRussian: term.AltRussian,
			Gender:     string(term.Gender),
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrFormat, "glossary", "export", "marshal interchange terms", err)
	}
	return data, nil
}

// FromInterchange parses an interchange JSON array back into terms. The parse
// is lenient per entry: absent fields default to empty strings and unknown
// gender tags collapse to unset, deferring semantic validation to the caller.
// A top-level value that is not an array is a format error. Ids are re-minted
// on import, never preserved.
func FromInterchange(data []byte) ([]Term, error) {
	// json.Unmarshal accepts "null" into a slice without error, so the array
	// shape has to be checked up front.
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, services.Wrap(services.ErrFormat, "glossary", "import", "interchange payload must be a JSON array", nil)
	}
	var entries []interchangeTerm
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, services.Wrap(services.ErrFormat, "glossary", "import", "interchange payload must be a JSON array", err)
	}
	terms := make([]Term, 0, len(entries))
	for _, entry := range entries {
		gender, _ := ParseGender(entry.Gender)
		terms = append(terms, Term{
			ID:         uuid.NewString(),
			Original:   entry.Original,
			English:    entry.English,
			Russian:    entry.Russian,
			AltRussian: entry.AltRussian,
			Gender:     gender,
		})
	}
	return terms, nil
}
