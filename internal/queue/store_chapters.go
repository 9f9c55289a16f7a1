package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hanru/internal/segment"
)

// ErrInvalidTransition indicates a status change that the chapter lifecycle
// does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

const chapterColumns = "id, project_id, seq, title, original_text, translated_text, status, created_at, updated_at"

// StageChapters persists parsed chapter candidates as pending chapters.
// Sequence numbers continue from the current chapter count, preserving input
// order, so re-uploading appends rather than renumbers.
func (s *Store) StageChapters(ctx context.Context, projectID string, parsed []segment.ParsedChapter) ([]*Chapter, error) {
	if len(parsed) == 0 {
		return nil, nil
	}
	ctx = ensureContext(ctx)

	existing, err := s.CountChapters(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin staging tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	chapters := make([]*Chapter, 0, len(parsed))
	for i, candidate := range parsed {
		chapter := &Chapter{
			ID:           uuid.NewString(),
			ProjectID:    projectID,
			Seq:          existing + i + 1,
			Title:        candidate.Title,
			OriginalText: candidate.Content,
			Status:       StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO chapters (id, project_id, seq, title, original_text, translated_text, status, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, NULL, ?, ?, ?)`,
			chapter.ID,
			chapter.ProjectID,
			chapter.Seq,
			chapter.Title,
			chapter.OriginalText,
			chapter.Status,
			timestamp(now),
			timestamp(now),
		); err != nil {
			return nil, fmt.Errorf("insert chapter %d: %w", chapter.Seq, err)
		}
		chapters = append(chapters, chapter)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit staging: %w", err)
	}
	return chapters, nil
}

// CountChapters returns the number of chapters in a project.
func (s *Store) CountChapters(ctx context.Context, projectID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM chapters WHERE project_id = ?`, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count chapters: %w", err)
	}
	return count, nil
}

// GetChapter fetches a chapter by id.
func (s *Store) GetChapter(ctx context.Context, id string) (*Chapter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)
	chapter, err := scanChapter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chapter: %w", err)
	}
	return chapter, nil
}

// ChaptersByProject returns all chapters of a project in sequence order.
func (s *Store) ChaptersByProject(ctx context.Context, projectID string) ([]*Chapter, error) {
	return s.queryChapters(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE project_id = ? ORDER BY seq`, projectID)
}

// ChaptersByStatus returns a project's chapters matching a status in sequence order.
func (s *Store) ChaptersByStatus(ctx context.Context, projectID string, status Status) ([]*Chapter, error) {
	return s.queryChapters(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE project_id = ? AND status = ? ORDER BY seq`, projectID, status)
}

// MarkTranslating transitions the given pending chapters to translating.
// Called only after a batch submission was acknowledged, so a chapter is never
// shown as in-flight for a request that was not sent.
func (s *Store) MarkTranslating(ctx context.Context, projectID string, chapterIDs []string) error {
	return s.transitionChapters(ctx, projectID, chapterIDs, StatusPending, StatusTranslating)
}

// RevertTranslating returns the given chapters to pending after a failure or
// cancellation.
func (s *Store) RevertTranslating(ctx context.Context, projectID string, chapterIDs []string) error {
	return s.transitionChapters(ctx, projectID, chapterIDs, StatusTranslating, StatusPending)
}

func (s *Store) transitionChapters(ctx context.Context, projectID string, chapterIDs []string, from, to Status) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	args := make([]any, 0, len(chapterIDs)+4)
	args = append(args, to, timestamp(time.Now()), projectID, from)
	for _, id := range chapterIDs {
		args = append(args, id)
	}
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE chapters SET status = ?, updated_at = ?
         WHERE project_id = ? AND status = ? AND id IN (`+placeholders(len(chapterIDs))+`)`,
		args...,
	); err != nil {
		return fmt.Errorf("transition chapters %s -> %s: %w", from, to, err)
	}
	return nil
}

// SetTranslated stores a completed translation and moves the chapter to
// translated. Reapplying a redelivered completion is a no-op-safe overwrite,
// so the intake loop never has to track which completions it has seen.
func (s *Store) SetTranslated(ctx context.Context, chapterID, translatedText string) error {
	if strings.TrimSpace(translatedText) == "" {
		return errors.New("translated text is empty")
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE chapters SET translated_text = ?, status = ?, updated_at = ?
         WHERE id = ? AND status IN (?, ?)`,
		translatedText,
		StatusTranslated,
		timestamp(time.Now()),
		chapterID,
		StatusTranslating,
		StatusTranslated,
	)
	if err != nil {
		return fmt.Errorf("set translated: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set translated rows: %w", err)
	}
	if affected == 0 {
		chapter, getErr := s.GetChapter(ctx, chapterID)
		if getErr != nil {
			return getErr
		}
		if chapter == nil {
			return fmt.Errorf("chapter %s not found", chapterID)
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, chapter.Status, StatusTranslated)
	}
	return nil
}

// SetStatus applies a single-chapter transition, validating it against the
// lifecycle. Used by the publishing flow.
func (s *Store) SetStatus(ctx context.Context, chapterID string, to Status) error {
	chapter, err := s.GetChapter(ctx, chapterID)
	if err != nil {
		return err
	}
	if chapter == nil {
		return fmt.Errorf("chapter %s not found", chapterID)
	}
	if !CanTransition(chapter.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, chapter.Status, to)
	}
	if to == StatusTranslated && strings.TrimSpace(chapter.TranslatedText) == "" {
		return errors.New("cannot mark translated without translated text")
	}
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE chapters SET status = ?, updated_at = ? WHERE id = ?`,
		to,
		timestamp(time.Now()),
		chapterID,
	); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// UpdateOriginalText replaces a chapter's source text via explicit edit.
func (s *Store) UpdateOriginalText(ctx context.Context, chapterID, text string) error {
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE chapters SET original_text = ?, updated_at = ? WHERE id = ?`,
		text,
		timestamp(time.Now()),
		chapterID,
	); err != nil {
		return fmt.Errorf("update original text: %w", err)
	}
	return nil
}

func (s *Store) queryChapters(ctx context.Context, query string, args ...any) ([]*Chapter, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

func scanChapter(row rowScanner) (*Chapter, error) {
	var (
		chapter    Chapter
		translated sql.NullString
		status     string
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(
		&chapter.ID,
		&chapter.ProjectID,
		&chapter.Seq,
		&chapter.Title,
		&chapter.OriginalText,
		&translated,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	chapter.TranslatedText = translated.String
	chapter.Status = Status(status)
	chapter.CreatedAt = parseTimestamp(createdAt)
	chapter.UpdatedAt = parseTimestamp(updatedAt)
	return &chapter, nil
}
