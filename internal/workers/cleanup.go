package workers

import (
	"context"
	"time"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
)

// attachmentCleanupWorker periodically removes payload files that have no
// matching attachment row. A crash between the payload write and the
// metadata insert leaves such orphans behind.
type attachmentCleanupWorker struct {
	attachments store.AttachmentRepository
	files       store.AttachmentFileStorage

	interval time.Duration

	logger *logger.Logger
}

func newAttachmentCleanupWorker(attachments store.AttachmentRepository, files store.AttachmentFileStorage, interval time.Duration, logger *logger.Logger) *attachmentCleanupWorker {
	return &attachmentCleanupWorker{
		attachments: attachments,
		files:       files,
		interval:    interval,
		logger:      logger,
	}
}

// Run sweeps the uploads directory on every tick until ctx is cancelled.
func (w *attachmentCleanupWorker) Run(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("attachment cleanup worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("attachment cleanup worker stopped")
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Err(err).Msg("attachment cleanup sweep failed")
			}
		}
	}
}

// sweep deletes every payload file whose stored name has no attachment row.
// Files younger than one sweep interval are left alone: an in-flight upload
// writes its payload before its metadata row is committed.
func (w *attachmentCleanupWorker) sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-w.interval)

	onDisk, err := w.files.List(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(onDisk) == 0 {
		return nil
	}

	known, err := w.attachments.ListStoredNames(ctx)
	if err != nil {
		return err
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, name := range known {
		knownSet[name] = struct{}{}
	}

	var removed int
	for _, name := range onDisk {
		if _, ok := knownSet[name]; ok {
			continue
		}
		if err := w.files.Delete(ctx, name); err != nil {
			w.logger.Err(err).Str("stored_name", name).Msg("orphan payload removal failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		w.logger.Info().Int("removed", removed).Msg("orphaned attachment payloads removed")
	}

	return nil
}
