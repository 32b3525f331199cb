package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/models"
)

// attachmentService is the concrete implementation of AttachmentService.
// Payload bytes go to the file storage under a generated uuid name; the
// metadata row is written afterwards. A crash between the two steps leaves
// an orphaned file that the cleanup worker reclaims later.
type attachmentService struct {
	attachmentRepository store.AttachmentRepository
	requestRepository    store.RequestRepository
	fileStorage          store.AttachmentFileStorage

	maxUploadSize int64

	logger *logger.Logger
}

// NewAttachmentService constructs an AttachmentService backed by the given
// repositories and file storage, with the size limit from cfg.
func NewAttachmentService(
	attachmentRepository store.AttachmentRepository,
	requestRepository store.RequestRepository,
	fileStorage store.AttachmentFileStorage,
	cfg config.Files,
	logger *logger.Logger,
) AttachmentService {
	return &attachmentService{
		attachmentRepository: attachmentRepository,
		requestRepository:    requestRepository,
		fileStorage:          fileStorage,
		maxUploadSize:        cfg.MaxUploadSize,
		logger:               logger,
	}
}

// Upload stores the payload on disk under a generated uuid name, then
// persists the metadata row.
//
// Returns:
//   - ErrInvalidDataProvided when the original file name is empty.
//   - ErrPermissionDenied when the caller cannot see the request.
//   - ErrAttachmentTooLarge when the payload exceeds the configured limit.
func (a *attachmentService) Upload(ctx context.Context, caller Caller, attachment models.Attachment, payload io.Reader) (models.Attachment, error) {
	log := logger.FromContext(ctx)

	if attachment.FileName == "" {
		return models.Attachment{}, ErrInvalidDataProvided
	}

	request, err := a.requestRepository.GetRequestByID(ctx, attachment.RequestID)
	if err != nil {
		log.Err(err).Int64("request_id", attachment.RequestID).Msg("request lookup failed")
		return models.Attachment{}, fmt.Errorf("request lookup failed: %w", err)
	}

	if !canSeeRequest(caller, request.CreatedByID) {
		log.Warn().Int64("request_id", attachment.RequestID).Int64("caller_id", caller.UserID).Msg("employee tried to attach to another user's request")
		return models.Attachment{}, ErrPermissionDenied
	}

	attachment.UploadedByID = caller.UserID
	attachment.StoredName = uuid.NewString()
	if attachment.MimeType == "" {
		attachment.MimeType = "application/octet-stream"
	}

	// reading one byte past the limit detects oversized payloads without
	// trusting the client-declared length
	limited := io.LimitReader(payload, a.maxUploadSize+1)

	written, err := a.fileStorage.Save(ctx, attachment.StoredName, limited)
	if err != nil {
		log.Err(err).Int64("request_id", attachment.RequestID).Msg("payload write failed")
		return models.Attachment{}, fmt.Errorf("payload write failed: %w", err)
	}

	if written > a.maxUploadSize {
		if deleteErr := a.fileStorage.Delete(ctx, attachment.StoredName); deleteErr != nil {
			log.Err(deleteErr).Str("stored_name", attachment.StoredName).Msg("failed to remove oversized payload")
		}
		return models.Attachment{}, ErrAttachmentTooLarge
	}
	attachment.Size = written

	created, err := a.attachmentRepository.CreateAttachment(ctx, attachment)
	if err != nil {
		if deleteErr := a.fileStorage.Delete(ctx, attachment.StoredName); deleteErr != nil {
			log.Err(deleteErr).Str("stored_name", attachment.StoredName).Msg("failed to remove payload after metadata failure")
		}
		log.Err(err).Int64("request_id", attachment.RequestID).Msg("attachment creation failed")
		return models.Attachment{}, fmt.Errorf("attachment creation failed: %w", err)
	}

	return created, nil
}

// List returns the attachment metadata of a request the caller can see.
func (a *attachmentService) List(ctx context.Context, caller Caller, requestID int64) (models.AttachmentList, error) {
	log := logger.FromContext(ctx)

	request, err := a.requestRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request lookup failed")
		return models.AttachmentList{}, fmt.Errorf("request lookup failed: %w", err)
	}

	if !canSeeRequest(caller, request.CreatedByID) {
		log.Warn().Int64("request_id", requestID).Int64("caller_id", caller.UserID).Msg("employee tried to read another user's request attachments")
		return models.AttachmentList{}, ErrPermissionDenied
	}

	attachments, err := a.attachmentRepository.ListAttachments(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("attachment listing failed")
		return models.AttachmentList{}, fmt.Errorf("attachment listing failed: %w", err)
	}

	return models.AttachmentList{Items: attachments}, nil
}

// Download returns the metadata row and a reader over the payload bytes.
// The attachment must belong to the given request. The caller must close the
// returned reader.
func (a *attachmentService) Download(ctx context.Context, caller Caller, requestID int64, attachmentID int64) (models.Attachment, io.ReadCloser, error) {
	log := logger.FromContext(ctx)

	request, err := a.requestRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request lookup failed")
		return models.Attachment{}, nil, fmt.Errorf("request lookup failed: %w", err)
	}

	if !canSeeRequest(caller, request.CreatedByID) {
		log.Warn().Int64("request_id", requestID).Int64("caller_id", caller.UserID).Msg("employee tried to download from another user's request")
		return models.Attachment{}, nil, ErrPermissionDenied
	}

	attachment, err := a.attachmentRepository.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		log.Err(err).Int64("attachment_id", attachmentID).Msg("attachment lookup failed")
		return models.Attachment{}, nil, fmt.Errorf("attachment lookup failed: %w", err)
	}

	if attachment.RequestID != requestID {
		return models.Attachment{}, nil, fmt.Errorf("attachment lookup failed: %w", store.ErrAttachmentNotFound)
	}

	payload, err := a.fileStorage.Open(ctx, attachment.StoredName)
	if err != nil {
		log.Err(err).Str("stored_name", attachment.StoredName).Msg("payload open failed")
		return models.Attachment{}, nil, fmt.Errorf("payload open failed: %w", err)
	}

	return attachment, payload, nil
}
