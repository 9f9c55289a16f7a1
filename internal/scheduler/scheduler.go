package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"hanru/internal/glossary"
	"hanru/internal/logging"
	"hanru/internal/payload"
	"hanru/internal/queue"
	"hanru/internal/services"
	"hanru/internal/services/backend"
)

// SubmitClient is the slice of the backend client the submit loop needs.
type SubmitClient interface {
	SendTranslateJob(ctx context.Context, job backend.TranslateJobRequest) (*backend.TranslateJobResponse, error)
}

// ChapterMarker transitions chapters after successful submission.
type ChapterMarker interface {
	MarkTranslating(ctx context.Context, projectID string, chapterIDs []string) error
}

// Settings carries per-submission translation options.
type Settings struct {
	Provider      Provider
	TargetService TargetService
	Model         string
	BatchSize     int
}

// Observer receives submission progress. Either callback may be nil.
type Observer struct {
	// OnBatchSent is called after each acknowledged batch with the 1-based
	// count of sent batches and the total batch count.
	OnBatchSent func(sent, total int)
	// OnBatchError is called once with the 0-based index of the batch whose
	// submission failed.
	OnBatchError func(err error, batchIndex int)
}

// SubmissionError reports a failed batch submission together with how far the
// run got, so callers can tell "nothing was sent" apart from "some batches
// went out before this one failed".
type SubmissionError struct {
	BatchIndex   int
	TotalBatches int
	BatchesSent  int
	Err          error
}

func (e *SubmissionError) Error() string {
	if e.BatchesSent == 0 {
		return fmt.Sprintf("batch %d/%d failed, nothing was sent: %v", e.BatchIndex+1, e.TotalBatches, e.Err)
	}
	return fmt.Sprintf("batch %d/%d failed after %d batch(es) were already sent: %v", e.BatchIndex+1, e.TotalBatches, e.BatchesSent, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Scheduler drives sequential batch submission to the translation job queue.
type Scheduler struct {
	client  SubmitClient
	store   ChapterMarker
	logger  *slog.Logger
	lockDir string
}

// New constructs a Scheduler. lockDir hosts the per-project submission locks.
func New(client SubmitClient, store ChapterMarker, logger *slog.Logger, lockDir string) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{client: client, store: store, logger: logger, lockDir: lockDir}
}

// Submit partitions the selected chapters into batches and sends them in
// strict sequential order: batch k+1 is never sent before batch k's
// submission resolves. Each batch's chapters move to translating only after
// the backend acknowledges the send. On a failed batch the loop stops,
// leaving earlier batches submitted and later ones untouched.
//
// Concurrent Submit calls for the same project are serialized through a file
// lock; a second call blocks until the first finishes its send loop.
func (s *Scheduler) Submit(
	ctx context.Context,
	projectID string,
	chapters []*queue.Chapter,
	glossarySnapshot []glossary.Term,
	systemPrompt string,
	settings Settings,
	observer Observer,
) error {
	if _, ok := ParseProvider(string(settings.Provider)); !ok {
		return services.Wrap(services.ErrConfiguration, "scheduler", "submit", fmt.Sprintf("unknown provider %q", string(settings.Provider)), nil)
	}
	batches, err := SplitBatches(chapters, settings.BatchSize)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		return nil
	}

	if s.lockDir != "" {
		lock := flock.New(filepath.Join(s.lockDir, "translate-"+projectID+".lock"))
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("acquire submission lock: %w", err)
		}
		defer func() { _ = lock.Unlock() }()
	}

	var interchange []byte
	if len(glossarySnapshot) > 0 {
		if interchange, err = glossary.ToInterchange(glossarySnapshot); err != nil {
			return err
		}
	}

	for index, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.submitBatch(ctx, projectID, batch, glossarySnapshot, interchange, systemPrompt, settings); err != nil {
			submissionErr := &SubmissionError{
				BatchIndex:   index,
				TotalBatches: len(batches),
				BatchesSent:  index,
				Err:          err,
			}
			s.logger.Error("batch submission failed",
				logging.Component("scheduler"),
				logging.Project(projectID),
				logging.Int("batch", index+1),
				logging.Int("total", len(batches)),
				logging.Error(err),
			)
			if observer.OnBatchError != nil {
				observer.OnBatchError(submissionErr, index)
			}
			return submissionErr
		}
		s.logger.Info("batch submitted",
			logging.Component("scheduler"),
			logging.Project(projectID),
			logging.Int("batch", index+1),
			logging.Int("total", len(batches)),
			logging.Int("chapters", len(batch)),
		)
		if observer.OnBatchSent != nil {
			observer.OnBatchSent(index+1, len(batches))
		}
	}
	return nil
}

func (s *Scheduler) submitBatch(
	ctx context.Context,
	projectID string,
	batch []*queue.Chapter,
	glossarySnapshot []glossary.Term,
	interchange []byte,
	systemPrompt string,
	settings Settings,
) error {
	outbound := make([]payload.Chapter, 0, len(batch))
	chapterIDs := make([]string, 0, len(batch))
	for _, chapter := range batch {
		outbound = append(outbound, payload.Chapter{ID: chapter.ID, OriginalText: chapter.OriginalText})
		chapterIDs = append(chapterIDs, chapter.ID)
	}

	content, err := payload.Build(outbound, glossarySnapshot)
	if err != nil {
		return err
	}

	req := backend.TranslateJobRequest{
		ProjectID:       projectID,
		ChapterIDs:      chapterIDs,
		SystemPrompt:    systemPrompt,
		BatchSize:       settings.BatchSize,
		ChaptersContent: content,
		Glossary:        interchange,
	}
	if err := settings.Provider.apply(&req, settings.TargetService, settings.Model); err != nil {
		return err
	}

	if _, err := s.client.SendTranslateJob(ctx, req); err != nil {
		return err
	}

	// Only an acknowledged send moves chapters to translating; a failed batch
	// leaves its chapters in their prior status.
	if err := s.store.MarkTranslating(ctx, projectID, chapterIDs); err != nil {
		return fmt.Errorf("mark chapters translating: %w", err)
	}
	return nil
}
