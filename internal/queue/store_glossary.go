package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hanru/internal/glossary"
)

// UpsertTerms inserts glossary terms, skipping any whose original already
// exists in the project glossary. The existing row always wins, matching the
// in-memory merge semantics. Returns how many terms were actually added.
func (s *Store) UpsertTerms(ctx context.Context, projectID string, terms []glossary.Term) (int, error) {
	if len(terms) == 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin glossary tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())
	added := 0
	for _, term := range terms {
		id := term.ID
		if id == "" {
			id = uuid.NewString()
		}
		res, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO glossary_terms (id, project_id, original, english, russian, alt_russian, gender, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			projectID,
			term.Original,
			term.English,
			term.Russian,
			term.AltRussian,
			string(term.Gender),
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert term %q: %w", term.Original, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert term rows: %w", err)
		}
		added += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit glossary: %w", err)
	}
	return added, nil
}

// TermsByProject returns the project glossary in insertion order.
func (s *Store) TermsByProject(ctx context.Context, projectID string) ([]glossary.Term, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, original, english, russian, alt_russian, gender
         FROM glossary_terms WHERE project_id = ? ORDER BY created_at, rowid`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query glossary: %w", err)
	}
	defer rows.Close()

	var terms []glossary.Term
	for rows.Next() {
		var (
			term   glossary.Term
			gender string
		)
		if err := rows.Scan(&term.ID, &term.Original, &term.English, &term.Russian, &term.AltRussian, &gender); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		term.Gender, _ = glossary.ParseGender(gender)
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// ReplaceTermRussian updates the russian translation of one term, keyed by its
// original form.
func (s *Store) ReplaceTermRussian(ctx context.Context, projectID, original, newRussian string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE glossary_terms SET russian = ? WHERE project_id = ? AND original = ?`,
		newRussian,
		projectID,
		original,
	)
	if err != nil {
		return fmt.Errorf("replace term: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace term rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("term %q not found", original)
	}
	return nil
}
