package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
)

func newTestFileStorage(t *testing.T) AttachmentFileStorage {
	t.Helper()

	storage, err := NewAttachmentFileStorage(config.Files{UploadsDir: t.TempDir()}, logger.NewLogger("test"))
	if err != nil {
		t.Fatalf("failed to create file storage: %v", err)
	}
	return storage
}

func TestAttachmentFileStorage_SaveAndOpen(t *testing.T) {
	storage := newTestFileStorage(t)
	ctx := context.Background()

	payload := "attachment payload bytes"

	written, err := storage.Save(ctx, "stored-name.bin", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if written != int64(len(payload)) {
		t.Errorf("expected %d bytes written, got %d", len(payload), written)
	}

	reader, err := storage.Open(ctx, "stored-name.bin")
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if string(got) != payload {
		t.Errorf("expected payload %q, got %q", payload, string(got))
	}
}

func TestAttachmentFileStorage_OpenMissing(t *testing.T) {
	storage := newTestFileStorage(t)
	ctx := context.Background()

	_, err := storage.Open(ctx, "missing.bin")
	if !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
}

func TestAttachmentFileStorage_SaveDuplicate(t *testing.T) {
	storage := newTestFileStorage(t)
	ctx := context.Background()

	if _, err := storage.Save(ctx, "dup.bin", strings.NewReader("first")); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	if _, err := storage.Save(ctx, "dup.bin", strings.NewReader("second")); err == nil {
		t.Fatal("expected error when saving over an existing stored name")
	}
}

func TestAttachmentFileStorage_DeleteAndList(t *testing.T) {
	storage := newTestFileStorage(t)
	ctx := context.Background()

	names := []string{"a.bin", "b.bin", "c.bin"}
	for _, name := range names {
		if _, err := storage.Save(ctx, name, strings.NewReader(name)); err != nil {
			t.Fatalf("unexpected save error: %v", err)
		}
	}

	if err := storage.Delete(ctx, "b.bin"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	// deleting a missing file is not an error
	if err := storage.Delete(ctx, "b.bin"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}

	listed, err := storage.List(ctx, time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(listed), listed)
	}
	for _, name := range listed {
		if name == "b.bin" {
			t.Errorf("deleted file still listed: %v", listed)
		}
	}
}

func TestAttachmentFileStorage_ListHonoursModTimeCutoff(t *testing.T) {
	dir := t.TempDir()

	storage, err := NewAttachmentFileStorage(config.Files{UploadsDir: dir}, logger.NewLogger("test"))
	if err != nil {
		t.Fatalf("failed to create file storage: %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"fresh.bin", "stale.bin"} {
		if _, saveErr := storage.Save(ctx, name, strings.NewReader(name)); saveErr != nil {
			t.Fatalf("unexpected save error: %v", saveErr)
		}
	}

	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "stale.bin"), stale, stale); err != nil {
		t.Fatalf("failed to backdate file: %v", err)
	}

	listed, err := storage.List(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(listed) != 1 || listed[0] != "stale.bin" {
		t.Fatalf("expected only the stale file, got %v", listed)
	}
}
