package scheduler

import (
	"context"
	"log/slog"
	"time"

	"hanru/internal/glossary"
	"hanru/internal/logging"
	"hanru/internal/services/backend"
)

// CompletionClient is the slice of the backend client the intake loop needs.
type CompletionClient interface {
	CompletedTranslations(ctx context.Context, projectID string) ([]backend.CompletedTranslation, error)
	Acknowledge(ctx context.Context, projectID string, chapterIDs []string) error
}

// TranslationStore applies completed translations and glossary deltas.
type TranslationStore interface {
	SetTranslated(ctx context.Context, chapterID, translatedText string) error
	TermsByProject(ctx context.Context, projectID string) ([]glossary.Term, error)
	UpsertTerms(ctx context.Context, projectID string, terms []glossary.Term) (int, error)
}

// Intake polls the backend for completed translations and folds them into the
// local store. Completions are idempotent to reapply: the backend may
// redeliver anything we failed to acknowledge, and overwriting translated
// text with the same value is safe.
type Intake struct {
	client   CompletionClient
	store    TranslationStore
	logger   *slog.Logger
	interval time.Duration
}

// NewIntake constructs a completion intake poller.
func NewIntake(client CompletionClient, store TranslationStore, logger *slog.Logger, interval time.Duration) *Intake {
	if logger == nil {
		logger = logging.NewNop()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Intake{client: client, store: store, logger: logger, interval: interval}
}

// Run polls on a fixed interval until the context is canceled. Poll errors
// are logged and the loop keeps going; cancellation is the only exit.
func (i *Intake) Run(ctx context.Context, projectID string) error {
	ticker := time.NewTicker(i.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := i.PollOnce(ctx, projectID); err != nil {
				i.logger.Warn("completion poll failed",
					logging.Component("intake"),
					logging.Project(projectID),
					logging.Error(err),
				)
			}
		}
	}
}

// PollOnce fetches pending completions, applies them, merges glossary deltas,
// and acknowledges receipt. Returns how many chapters were applied.
//
// Acknowledgment is best-effort: on failure the backend simply redelivers on
// the next poll, so the error is logged and swallowed.
func (i *Intake) PollOnce(ctx context.Context, projectID string) (int, error) {
	completions, err := i.client.CompletedTranslations(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if len(completions) == 0 {
		return 0, nil
	}

	applied := make([]string, 0, len(completions))
	var deltas []glossary.Term
	for _, completion := range completions {
		if err := i.store.SetTranslated(ctx, completion.ChapterID, completion.TranslatedText); err != nil {
			i.logger.Warn("skipping completion",
				logging.Component("intake"),
				logging.Project(projectID),
				logging.Chapter(completion.ChapterID),
				logging.Error(err),
			)
			continue
		}
		applied = append(applied, completion.ChapterID)

		if len(completion.Glossary) == 0 {
			continue
		}
		terms, err := glossary.FromInterchange(completion.Glossary)
		if err != nil {
			// Malformed glossary deltas never block the chapter itself.
			i.logger.Warn("discarding malformed glossary delta",
				logging.Component("intake"),
				logging.Project(projectID),
				logging.Chapter(completion.ChapterID),
				logging.Error(err),
			)
			continue
		}
		deltas = append(deltas, terms...)
	}

	if len(deltas) > 0 {
		if err := i.mergeGlossary(ctx, projectID, deltas); err != nil {
			i.logger.Warn("glossary merge failed",
				logging.Component("intake"),
				logging.Project(projectID),
				logging.Error(err),
			)
		}
	}

	if len(applied) > 0 {
		i.logger.Info("translations applied",
			logging.Component("intake"),
			logging.Project(projectID),
			logging.Int("chapters", len(applied)),
		)
		if err := i.client.Acknowledge(ctx, projectID, applied); err != nil {
			i.logger.Warn("acknowledgment failed, backend will redeliver",
				logging.Component("intake"),
				logging.Project(projectID),
				logging.Error(err),
			)
		}
	}
	return len(applied), nil
}

func (i *Intake) mergeGlossary(ctx context.Context, projectID string, deltas []glossary.Term) error {
	existing, err := i.store.TermsByProject(ctx, projectID)
	if err != nil {
		return err
	}
	merged := glossary.Merge(existing, deltas)
	fresh := merged[len(existing):]
	if len(fresh) == 0 {
		return nil
	}
	added, err := i.store.UpsertTerms(ctx, projectID, fresh)
	if err != nil {
		return err
	}
	if added > 0 {
		i.logger.Info("glossary terms added",
			logging.Component("intake"),
			logging.Project(projectID),
			logging.Int("terms", added),
		)
	}
	return nil
}
