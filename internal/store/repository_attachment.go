package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/models"
)

// attachmentRepository is the PostgreSQL-backed implementation of
// [AttachmentRepository]. It persists attachment metadata rows in the
// "request_attachments" table; payload bytes are stored separately via
// [AttachmentFileStorage].
type attachmentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAttachmentRepository constructs an [AttachmentRepository] backed by the
// provided database connection and logger.
func NewAttachmentRepository(db *DB, logger *logger.Logger) AttachmentRepository {
	logger.Debug().Msg("creating attachment repository")
	return &attachmentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAttachment persists attachment metadata and returns the fully
// populated [models.Attachment] with server-assigned fields (AttachmentID,
// CreatedAt).
//
// Error handling:
//   - PostgreSQL foreign_key_violation (23503) → [ErrRequestNotFound],
//     the referenced request does not exist.
func (r *attachmentRepository) CreateAttachment(ctx context.Context, attachment models.Attachment) (models.Attachment, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAttachment,
		attachment.RequestID, attachment.UploadedByID,
		attachment.FileName, attachment.StoredName, attachment.Size, attachment.MimeType,
	)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*attachmentRepository.CreateAttachment").Int64("request_id", attachment.RequestID).Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return models.Attachment{}, ErrRequestNotFound
		default:
			return models.Attachment{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var saved models.Attachment
	if err := row.Scan(&saved.AttachmentID, &saved.RequestID, &saved.UploadedByID, &saved.FileName, &saved.StoredName, &saved.Size, &saved.MimeType, &saved.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return models.Attachment{}, ErrRequestNotFound
		}
		log.Err(err).Str("func", "*attachmentRepository.CreateAttachment").Msg("error: scanning error")
		return models.Attachment{}, err
	}

	return saved, nil
}

// GetAttachmentByID retrieves an attachment metadata row by its primary key.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrAttachmentNotFound].
func (r *attachmentRepository) GetAttachmentByID(ctx context.Context, attachmentID int64) (models.Attachment, error) {
	log := logger.FromContext(ctx)

	var attachment models.Attachment
	row := r.db.QueryRowContext(ctx, getAttachmentByID, attachmentID)
	if err := row.Scan(&attachment.AttachmentID, &attachment.RequestID, &attachment.UploadedByID, &attachment.FileName, &attachment.StoredName, &attachment.Size, &attachment.MimeType, &attachment.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Attachment{}, ErrAttachmentNotFound
		}
		log.Err(err).Str("func", "*attachmentRepository.GetAttachmentByID").Int64("attachment_id", attachmentID).Msg("error: scanning error")
		return models.Attachment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return attachment, nil
}

// ListAttachments retrieves all attachment rows of a request, oldest first.
func (r *attachmentRepository) ListAttachments(ctx context.Context, requestID int64) ([]models.Attachment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listAttachments, requestID)
	if err != nil {
		log.Err(err).Str("func", "*attachmentRepository.ListAttachments").Int64("request_id", requestID).Msg("failed to execute query for listing attachments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	attachments := make([]models.Attachment, 0, 5)
	for rows.Next() {
		var attachment models.Attachment
		if scanErr := rows.Scan(&attachment.AttachmentID, &attachment.RequestID, &attachment.UploadedByID, &attachment.FileName, &attachment.StoredName, &attachment.Size, &attachment.MimeType, &attachment.CreatedAt); scanErr != nil {
			log.Err(scanErr).Str("func", "*attachmentRepository.ListAttachments").Msg("failed to scan attachment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		attachments = append(attachments, attachment)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*attachmentRepository.ListAttachments").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return attachments, nil
}

// ListStoredNames retrieves the stored file names of every attachment row.
// The cleanup worker compares this set against the uploads directory to find
// orphaned payload files.
func (r *attachmentRepository) ListStoredNames(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listAttachmentStoredNames)
	if err != nil {
		log.Err(err).Str("func", "*attachmentRepository.ListStoredNames").Msg("failed to execute query for listing stored names")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	names := make([]string, 0, 50)
	for rows.Next() {
		var name string
		if scanErr := rows.Scan(&name); scanErr != nil {
			log.Err(scanErr).Str("func", "*attachmentRepository.ListStoredNames").Msg("failed to scan stored name")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		names = append(names, name)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*attachmentRepository.ListStoredNames").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return names, nil
}
