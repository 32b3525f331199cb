package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/models"
)

// commentService is the concrete implementation of CommentService. Comment
// visibility follows request visibility: employees interact with the threads
// of their own requests only.
type commentService struct {
	commentRepository store.CommentRepository
	requestRepository store.RequestRepository
	logger            *logger.Logger
}

// NewCommentService constructs a CommentService backed by the given
// repositories.
func NewCommentService(commentRepository store.CommentRepository, requestRepository store.RequestRepository, logger *logger.Logger) CommentService {
	return &commentService{
		commentRepository: commentRepository,
		requestRepository: requestRepository,
		logger:            logger,
	}
}

// AddComment appends a comment to a request the caller can see. The author
// is always the caller.
func (c *commentService) AddComment(ctx context.Context, caller Caller, comment models.Comment) (models.Comment, error) {
	log := logger.FromContext(ctx)

	comment.Body = strings.TrimSpace(comment.Body)
	if comment.Body == "" {
		return models.Comment{}, ErrInvalidDataProvided
	}

	request, err := c.requestRepository.GetRequestByID(ctx, comment.RequestID)
	if err != nil {
		log.Err(err).Int64("request_id", comment.RequestID).Msg("request lookup failed")
		return models.Comment{}, fmt.Errorf("request lookup failed: %w", err)
	}

	if !canSeeRequest(caller, request.CreatedByID) {
		log.Warn().Int64("request_id", comment.RequestID).Int64("caller_id", caller.UserID).Msg("employee tried to comment on another user's request")
		return models.Comment{}, ErrPermissionDenied
	}

	comment.AuthorID = caller.UserID

	created, err := c.commentRepository.CreateComment(ctx, comment)
	if err != nil {
		log.Err(err).Int64("request_id", comment.RequestID).Msg("comment creation failed")
		return models.Comment{}, fmt.Errorf("comment creation failed: %w", err)
	}

	return created, nil
}

// ListComments returns a page of a request's comments, oldest first,
// enforcing the same visibility rule as request reads.
func (c *commentService) ListComments(ctx context.Context, caller Caller, requestID int64, offset int, limit int) (models.CommentList, error) {
	log := logger.FromContext(ctx)

	request, err := c.requestRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request lookup failed")
		return models.CommentList{}, fmt.Errorf("request lookup failed: %w", err)
	}

	if !canSeeRequest(caller, request.CreatedByID) {
		log.Warn().Int64("request_id", requestID).Int64("caller_id", caller.UserID).Msg("employee tried to read another user's request comments")
		return models.CommentList{}, ErrPermissionDenied
	}

	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	comments, err := c.commentRepository.ListComments(ctx, requestID, offset, limit)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("comment listing failed")
		return models.CommentList{}, fmt.Errorf("comment listing failed: %w", err)
	}

	return models.CommentList{Items: comments}, nil
}
