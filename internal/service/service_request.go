package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/models"
)

// Pagination bounds for request and comment listings.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100

	maxTitleLength = 200
)

// departmentForType routes each request type to the seeded department
// responsible for it. The names must match the rows inserted by the
// department seed migration.
var departmentForType = map[models.RequestType]string{
	models.RequestTypeFinancial: "Finance",
	models.RequestTypeHR:        "Human Resources",
	models.RequestTypeIT:        "IT Support",
	models.RequestTypeFacility:  "Facilities",
}

// requestService is the concrete implementation of RequestService. All
// role-based access decisions for the request lifecycle are made here, so
// that handlers stay transport-only.
type requestService struct {
	requestRepository    store.RequestRepository
	departmentRepository store.DepartmentRepository
	logger               *logger.Logger
}

// NewRequestService constructs a RequestService backed by the given
// repositories.
func NewRequestService(requestRepository store.RequestRepository, departmentRepository store.DepartmentRepository, logger *logger.Logger) RequestService {
	return &requestService{
		requestRepository:    requestRepository,
		departmentRepository: departmentRepository,
		logger:               logger,
	}
}

// CreateRequest validates and persists a new request owned by the caller.
//
// The request always starts in status "new", unassigned, with its department
// resolved from the request type. Title, description and a valid type are
// required.
func (r *requestService) CreateRequest(ctx context.Context, caller Caller, request models.Request) (models.Request, error) {
	log := logger.FromContext(ctx)

	request.Title = strings.TrimSpace(request.Title)
	// the title limit counts runes, not bytes; Cyrillic titles must fit too
	if request.Title == "" || utf8.RuneCountInString(request.Title) > maxTitleLength || request.Description == "" || !request.Type.Valid() {
		log.Error().Str("title", request.Title).Str("type", string(request.Type)).Msg("invalid request data provided")
		return models.Request{}, ErrInvalidDataProvided
	}

	request.Status = models.RequestStatusNew
	request.CreatedByID = caller.UserID
	request.AssignedToID = 0
	request.DepartmentID = 0

	department, err := r.departmentRepository.FindDepartmentByName(ctx, departmentForType[request.Type])
	switch {
	case err == nil:
		request.DepartmentID = department.DepartmentID
	case errors.Is(err, store.ErrDepartmentNotFound):
		// the seed row is gone; the request stays unrouted
		log.Warn().Str("type", string(request.Type)).Msg("no department found for request type")
	default:
		log.Err(err).Msg("department lookup failed")
		return models.Request{}, fmt.Errorf("department lookup failed: %w", err)
	}

	created, err := r.requestRepository.CreateRequest(ctx, request)
	if err != nil {
		log.Err(err).Msg("request creation failed")
		return models.Request{}, fmt.Errorf("request creation failed: %w", err)
	}

	return created, nil
}

// GetRequest returns the request detail. Employees may read their own
// requests only.
func (r *requestService) GetRequest(ctx context.Context, caller Caller, requestID int64) (models.RequestDetail, error) {
	log := logger.FromContext(ctx)

	detail, err := r.requestRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request lookup failed")
		return models.RequestDetail{}, fmt.Errorf("request lookup failed: %w", err)
	}

	if caller.Role == models.RoleEmployee && detail.CreatedByID != caller.UserID {
		log.Warn().Int64("request_id", requestID).Int64("caller_id", caller.UserID).Msg("employee tried to read another user's request")
		return models.RequestDetail{}, ErrPermissionDenied
	}

	return detail, nil
}

// ListRequests returns a filtered page of requests plus the total matching
// count. Employee callers are always scoped to their own requests; the
// created_by_id filter is honoured for supervisors and administrators only.
func (r *requestService) ListRequests(ctx context.Context, caller Caller, filter models.RequestFilter) (models.RequestList, error) {
	log := logger.FromContext(ctx)

	if filter.Status != "" && !filter.Status.Valid() {
		return models.RequestList{}, ErrInvalidDataProvided
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return models.RequestList{}, ErrInvalidDataProvided
	}

	if caller.Role == models.RoleEmployee {
		filter.CreatedByID = caller.UserID
	}

	if filter.Limit <= 0 || filter.Limit > MaxPageLimit {
		filter.Limit = DefaultPageLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	total, err := r.requestRepository.CountRequests(ctx, filter)
	if err != nil {
		log.Err(err).Msg("request count failed")
		return models.RequestList{}, fmt.Errorf("request count failed: %w", err)
	}

	items, err := r.requestRepository.ListRequests(ctx, filter)
	if err != nil {
		log.Err(err).Msg("request listing failed")
		return models.RequestList{}, fmt.Errorf("request listing failed: %w", err)
	}

	return models.RequestList{Total: total, Items: items}, nil
}

// UpdateRequest applies a partial update to a request.
//
// Employees may update their own requests only and may neither complete them
// nor change the assignee or department. Supervisors and administrators are
// unrestricted.
func (r *requestService) UpdateRequest(ctx context.Context, caller Caller, requestID int64, update models.RequestUpdate) (models.Request, error) {
	log := logger.FromContext(ctx)

	if update.Type != nil && !update.Type.Valid() {
		return models.Request{}, ErrInvalidDataProvided
	}
	if update.Status != nil && !update.Status.Valid() {
		return models.Request{}, ErrInvalidDataProvided
	}
	if update.Title != nil {
		trimmed := strings.TrimSpace(*update.Title)
		if trimmed == "" || utf8.RuneCountInString(trimmed) > maxTitleLength {
			return models.Request{}, ErrInvalidDataProvided
		}
		update.Title = &trimmed
	}

	existing, err := r.requestRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request lookup failed")
		return models.Request{}, fmt.Errorf("request lookup failed: %w", err)
	}

	if caller.Role == models.RoleEmployee {
		if existing.CreatedByID != caller.UserID {
			log.Warn().Int64("request_id", requestID).Int64("caller_id", caller.UserID).Msg("employee tried to update another user's request")
			return models.Request{}, ErrPermissionDenied
		}
		if update.Status != nil && *update.Status == models.RequestStatusCompleted {
			return models.Request{}, ErrPermissionDenied
		}
		if update.AssignedToID != nil || update.DepartmentID != nil {
			return models.Request{}, ErrPermissionDenied
		}
	}

	updated, err := r.requestRepository.UpdateRequest(ctx, requestID, update)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request update failed")
		return models.Request{}, fmt.Errorf("request update failed: %w", err)
	}

	return updated, nil
}

// DeleteRequest removes a request. Employees may delete their own requests
// while still new; supervisors and administrators may delete any request.
func (r *requestService) DeleteRequest(ctx context.Context, caller Caller, requestID int64) error {
	log := logger.FromContext(ctx)

	existing, err := r.requestRepository.GetRequestByID(ctx, requestID)
	if err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request lookup failed")
		return fmt.Errorf("request lookup failed: %w", err)
	}

	if caller.Role == models.RoleEmployee {
		if existing.CreatedByID != caller.UserID || existing.Status != models.RequestStatusNew {
			log.Warn().Int64("request_id", requestID).Int64("caller_id", caller.UserID).Msg("employee delete denied")
			return ErrPermissionDenied
		}
	}

	if err := r.requestRepository.DeleteRequest(ctx, requestID); err != nil {
		log.Err(err).Int64("request_id", requestID).Msg("request deletion failed")
		return fmt.Errorf("request deletion failed: %w", err)
	}

	return nil
}

// canSeeRequest reports whether the caller may read the given request.
// Shared by the comment and attachment services.
func canSeeRequest(caller Caller, createdByID int64) bool {
	return caller.Role != models.RoleEmployee || createdByID == caller.UserID
}
