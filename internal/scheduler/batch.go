package scheduler

import (
	"hanru/internal/queue"
	"hanru/internal/services"
)

// SplitBatches partitions chapters into consecutive order-preserving groups
// of at most size chapters; the last group may be smaller. A size below one is
// a configuration error.
func SplitBatches(chapters []*queue.Chapter, size int) ([][]*queue.Chapter, error) {
	if size < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "scheduler", "split", "batch size must be at least 1", nil)
	}
	var batches [][]*queue.Chapter
	for start := 0; start < len(chapters); start += size {
		end := start + size
		if end > len(chapters) {
			end = len(chapters)
		}
		batches = append(batches, chapters[start:end])
	}
	return batches, nil
}
