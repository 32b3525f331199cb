package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
)

// attachmentFileStorage is the filesystem implementation of
// [AttachmentFileStorage]. Payloads are written into a flat uploads
// directory under their generated stored names; the relational database
// keeps per-file metadata only.
type attachmentFileStorage struct {
	dir    string
	logger *logger.Logger
}

// NewAttachmentFileStorage constructs an [AttachmentFileStorage] rooted at
// cfg.UploadsDir, creating the directory if it does not exist yet.
func NewAttachmentFileStorage(cfg config.Files, log *logger.Logger) (AttachmentFileStorage, error) {
	if mkdirErr := os.MkdirAll(cfg.UploadsDir, 0o750); mkdirErr != nil {
		log.Err(mkdirErr).Str("func", "NewAttachmentFileStorage").Str("dir", cfg.UploadsDir).Msg("failed to create uploads directory")
		return nil, fmt.Errorf("failed to create uploads directory: %w", mkdirErr)
	}

	log.Debug().Str("dir", cfg.UploadsDir).Msg("creating attachment file storage")
	return &attachmentFileStorage{
		dir:    cfg.UploadsDir,
		logger: log,
	}, nil
}

// Save streams src into a new payload file named storedName and returns the
// number of bytes written. A partially written file is removed on failure so
// the cleanup worker never sees truncated payloads.
func (s *attachmentFileStorage) Save(ctx context.Context, storedName string, src io.Reader) (int64, error) {
	log := logger.FromContext(ctx)

	path := filepath.Join(s.dir, filepath.Base(storedName))

	dst, createErr := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if createErr != nil {
		log.Err(createErr).Str("func", "*attachmentFileStorage.Save").Str("stored_name", storedName).Msg("failed to create payload file")
		return 0, fmt.Errorf("failed to create payload file: %w", createErr)
	}

	written, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path)
		err := errors.Join(copyErr, closeErr)
		log.Err(err).Str("func", "*attachmentFileStorage.Save").Str("stored_name", storedName).Msg("failed to write payload file")
		return 0, fmt.Errorf("failed to write payload file: %w", err)
	}

	return written, nil
}

// Open returns a reader over a previously saved payload file. The caller is
// responsible for closing it.
//
// Error handling:
//   - missing file → [ErrAttachmentNotFound].
func (s *attachmentFileStorage) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	log := logger.FromContext(ctx)

	path := filepath.Join(s.dir, filepath.Base(storedName))

	file, openErr := os.Open(path)
	if openErr != nil {
		if errors.Is(openErr, fs.ErrNotExist) {
			return nil, ErrAttachmentNotFound
		}
		log.Err(openErr).Str("func", "*attachmentFileStorage.Open").Str("stored_name", storedName).Msg("failed to open payload file")
		return nil, fmt.Errorf("failed to open payload file: %w", openErr)
	}

	return file, nil
}

// Delete removes a payload file. A missing file is treated as already
// deleted.
func (s *attachmentFileStorage) Delete(ctx context.Context, storedName string) error {
	log := logger.FromContext(ctx)

	path := filepath.Join(s.dir, filepath.Base(storedName))

	if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, fs.ErrNotExist) {
		log.Err(removeErr).Str("func", "*attachmentFileStorage.Delete").Str("stored_name", storedName).Msg("failed to delete payload file")
		return fmt.Errorf("failed to delete payload file: %w", removeErr)
	}

	return nil
}

// List returns the stored names of payload files in the uploads directory
// last modified before olderThan. A file younger than that may belong to an
// upload whose metadata row has not been committed yet. Subdirectories are
// ignored.
func (s *attachmentFileStorage) List(ctx context.Context, olderThan time.Time) ([]string, error) {
	log := logger.FromContext(ctx)

	entries, readErr := os.ReadDir(s.dir)
	if readErr != nil {
		log.Err(readErr).Str("func", "*attachmentFileStorage.List").Str("dir", s.dir).Msg("failed to read uploads directory")
		return nil, fmt.Errorf("failed to read uploads directory: %w", readErr)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			// the file disappeared between ReadDir and Info
			continue
		}
		if !info.ModTime().Before(olderThan) {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}
