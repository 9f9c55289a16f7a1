package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"hanru/internal/logging"
	"hanru/internal/queue"
	"hanru/internal/segment"
)

// settleDelay gives the writing process time to finish before the upload is
// read; fsnotify reports Create as soon as the file appears.
const settleDelay = 500 * time.Millisecond

// Watcher monitors an inbox directory and stages dropped .txt uploads as
// chapters of one project.
type Watcher struct {
	inboxDir  string
	projectID string
	store     *queue.Store
	logger    *slog.Logger
}

// New constructs an inbox watcher for one project.
func New(inboxDir, projectID string, store *queue.Store, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{inboxDir: inboxDir, projectID: projectID, store: store, logger: logger}
}

// Run watches the inbox until the context is canceled. Each created or
// renamed-in .txt file is segmented and staged; the file is removed after
// successful staging so re-runs do not double-ingest.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.inboxDir); err != nil {
		return err
	}
	w.logger.Info("watching inbox",
		logging.Component("watch"),
		logging.Project(w.projectID),
		logging.String("dir", w.inboxDir),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
				continue
			}
			time.Sleep(settleDelay)
			if staged, err := w.IngestFile(ctx, event.Name); err != nil {
				w.logger.Error("inbox ingest failed",
					logging.Component("watch"),
					logging.String("file", event.Name),
					logging.Error(err),
				)
			} else {
				w.logger.Info("upload staged",
					logging.Component("watch"),
					logging.Project(w.projectID),
					logging.String("file", filepath.Base(event.Name)),
					logging.Int("chapters", staged),
				)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", logging.Component("watch"), logging.Error(err))
		}
	}
}

// IngestFile segments one upload and stages its chapters, removing the file
// on success.
func (w *Watcher) IngestFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	parsed := segment.Segment(string(raw))
	chapters, err := w.store.StageChapters(ctx, w.projectID, parsed)
	if err != nil {
		return 0, err
	}
	if err := os.Remove(path); err != nil {
		w.logger.Warn("could not remove ingested upload",
			logging.Component("watch"),
			logging.String("file", path),
			logging.Error(err),
		)
	}
	return len(chapters), nil
}
