package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/models"
)

// commentRepository is the PostgreSQL-backed implementation of
// [CommentRepository]. It persists discussion entries in the
// "request_comments" table.
type commentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCommentRepository constructs a [CommentRepository] backed by the
// provided database connection and logger.
func NewCommentRepository(db *DB, logger *logger.Logger) CommentRepository {
	logger.Debug().Msg("creating comment repository")
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateComment persists a new comment and returns the fully populated
// [models.Comment] with server-assigned fields (CommentID, CreatedAt).
//
// Error handling:
//   - PostgreSQL foreign_key_violation (23503) → [ErrRequestNotFound],
//     the referenced request does not exist.
func (r *commentRepository) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createComment, comment.RequestID, comment.AuthorID, comment.Body)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*commentRepository.CreateComment").Int64("request_id", comment.RequestID).Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return models.Comment{}, ErrRequestNotFound
		default:
			return models.Comment{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var saved models.Comment
	if err := row.Scan(&saved.CommentID, &saved.RequestID, &saved.AuthorID, &saved.Body, &saved.CreatedAt); err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return models.Comment{}, ErrRequestNotFound
		}
		log.Err(err).Str("func", "*commentRepository.CreateComment").Msg("error: scanning error")
		return models.Comment{}, err
	}

	return saved, nil
}

// ListComments retrieves a page of a request's comments, oldest first.
func (r *commentRepository) ListComments(ctx context.Context, requestID int64, offset int, limit int) ([]models.Comment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listComments, requestID, limit, offset)
	if err != nil {
		log.Err(err).Str("func", "*commentRepository.ListComments").Int64("request_id", requestID).Msg("failed to execute query for listing comments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0, 10)
	for rows.Next() {
		var comment models.Comment
		if scanErr := rows.Scan(&comment.CommentID, &comment.RequestID, &comment.AuthorID, &comment.Body, &comment.CreatedAt); scanErr != nil {
			log.Err(scanErr).Str("func", "*commentRepository.ListComments").Msg("failed to scan comment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		comments = append(comments, comment)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*commentRepository.ListComments").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return comments, nil
}
