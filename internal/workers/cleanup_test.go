package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/mock"
)

func newTestCleanupWorker(t *testing.T) (*attachmentCleanupWorker, *mock.MockAttachmentRepository, *mock.MockAttachmentFileStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	attachments := mock.NewMockAttachmentRepository(ctrl)
	files := mock.NewMockAttachmentFileStorage(ctrl)

	worker := newAttachmentCleanupWorker(attachments, files, time.Minute, logger.NewLogger("test"))

	return worker, attachments, files
}

func TestCleanupWorker_Sweep_RemovesOrphansOnly(t *testing.T) {
	worker, attachments, files := newTestCleanupWorker(t)
	ctx := context.Background()

	files.EXPECT().List(ctx, gomock.Any()).Return([]string{"kept-a", "orphan-b", "kept-c"}, nil)
	attachments.EXPECT().ListStoredNames(ctx).Return([]string{"kept-a", "kept-c"}, nil)
	files.EXPECT().Delete(ctx, "orphan-b").Return(nil)

	if err := worker.sweep(ctx); err != nil {
		t.Fatalf("sweep: unexpected error %v", err)
	}
}

func TestCleanupWorker_Sweep_EmptyDirectorySkipsDBQuery(t *testing.T) {
	worker, _, files := newTestCleanupWorker(t)
	ctx := context.Background()

	files.EXPECT().List(ctx, gomock.Any()).Return(nil, nil)

	if err := worker.sweep(ctx); err != nil {
		t.Fatalf("sweep: unexpected error %v", err)
	}
}

func TestCleanupWorker_Sweep_ListError(t *testing.T) {
	worker, _, files := newTestCleanupWorker(t)
	ctx := context.Background()

	wantErr := errors.New("disk gone")
	files.EXPECT().List(ctx, gomock.Any()).Return(nil, wantErr)

	if err := worker.sweep(ctx); !errors.Is(err, wantErr) {
		t.Fatalf("sweep: expected %v, got %v", wantErr, err)
	}
}

func TestCleanupWorker_Sweep_DeleteFailureContinues(t *testing.T) {
	worker, attachments, files := newTestCleanupWorker(t)
	ctx := context.Background()

	files.EXPECT().List(ctx, gomock.Any()).Return([]string{"orphan-a", "orphan-b"}, nil)
	attachments.EXPECT().ListStoredNames(ctx).Return(nil, nil)
	files.EXPECT().Delete(ctx, "orphan-a").Return(errors.New("locked"))
	files.EXPECT().Delete(ctx, "orphan-b").Return(nil)

	if err := worker.sweep(ctx); err != nil {
		t.Fatalf("sweep: unexpected error %v", err)
	}
}

func TestCleanupWorker_Sweep_SparesFreshFiles(t *testing.T) {
	worker, _, files := newTestCleanupWorker(t)
	ctx := context.Background()

	// the cutoff handed to the file storage must trail now by one sweep
	// interval, so a payload written by an upload still waiting for its
	// metadata row is never listed as an orphan
	files.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, olderThan time.Time) ([]string, error) {
			age := time.Since(olderThan)
			if age < worker.interval || age > worker.interval+10*time.Second {
				t.Errorf("expected cutoff one interval in the past, got %v", age)
			}
			return nil, nil
		},
	)

	if err := worker.sweep(ctx); err != nil {
		t.Fatalf("sweep: unexpected error %v", err)
	}
}

func TestCleanupWorker_Run_StopsOnContextCancel(t *testing.T) {
	worker, _, _ := newTestCleanupWorker(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
