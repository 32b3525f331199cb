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

// requestRepository is the PostgreSQL-backed implementation of
// [RequestRepository]. It executes all request CRUD operations against the
// "requests" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (request_id, filter values, etc.).
type requestRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRequestRepository constructs a [RequestRepository] backed by the
// provided database connection and logger.
func NewRequestRepository(db *DB, logger *logger.Logger) RequestRepository {
	logger.Debug().Msg("creating request repository")
	return &requestRepository{
		db:     db,
		logger: logger,
	}
}

// requestRow mirrors the requests table with null-capable types for the
// optional assignee and department references.
type requestRow struct {
	requestID    int64
	title        string
	description  string
	requestType  string
	urgent       bool
	status       string
	createdByID  int64
	assignedToID sql.NullInt64
	departmentID sql.NullInt64
	createdAt    sql.NullTime
	updatedAt    sql.NullTime
}

func (r requestRow) toRequest() models.Request {
	return models.Request{
		RequestID:    r.requestID,
		Title:        r.title,
		Description:  r.description,
		Type:         models.RequestType(r.requestType),
		Urgent:       r.urgent,
		Status:       models.RequestStatus(r.status),
		CreatedByID:  r.createdByID,
		AssignedToID: r.assignedToID.Int64,
		DepartmentID: r.departmentID.Int64,
		CreatedAt:    r.createdAt.Time,
		UpdatedAt:    r.updatedAt.Time,
	}
}

func (r *requestRow) scanTargets() []any {
	return []any{
		&r.requestID,
		&r.title,
		&r.description,
		&r.requestType,
		&r.urgent,
		&r.status,
		&r.createdByID,
		&r.assignedToID,
		&r.departmentID,
		&r.createdAt,
		&r.updatedAt,
	}
}

// nullInt64 maps a zero identifier to SQL NULL so that optional foreign keys
// (assignee, department) are stored as NULL rather than a dangling zero.
func nullInt64(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateRequest persists a new request and returns the fully populated
// [models.Request] with server-assigned fields (RequestID, CreatedAt,
// UpdatedAt).
//
// Error handling:
//   - PostgreSQL foreign_key_violation (23503) → [ErrForeignKeyViolation].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *requestRepository) CreateRequest(ctx context.Context, request models.Request) (models.Request, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createRequest,
		request.Title, request.Description, request.Type, request.Urgent, request.Status,
		request.CreatedByID, nullInt64(request.AssignedToID), nullInt64(request.DepartmentID),
	)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*requestRepository.CreateRequest").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.ForeignKeyViolation:
			return models.Request{}, ErrForeignKeyViolation
		default:
			return models.Request{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var saved requestRow
	if err := row.Scan(saved.scanTargets()...); err != nil {
		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return models.Request{}, ErrForeignKeyViolation
		}
		log.Err(err).Str("func", "*requestRepository.CreateRequest").Msg("error: scanning error")
		return models.Request{}, err
	}

	return saved.toRequest(), nil
}

// GetRequestByID retrieves a request together with its creator, assignee and
// department records in a single joined query. Assignee and department are
// nil in the result when the request has not been routed yet.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrRequestNotFound].
func (r *requestRepository) GetRequestByID(ctx context.Context, requestID int64) (models.RequestDetail, error) {
	log := logger.FromContext(ctx)

	var (
		req requestRow

		creatorID       int64
		creatorEmail    sql.NullString
		creatorFullName sql.NullString
		creatorStatus   string
		creatorRole     string

		assigneeID       sql.NullInt64
		assigneeEmail    sql.NullString
		assigneeFullName sql.NullString
		assigneeStatus   sql.NullString
		assigneeRole     sql.NullString

		departmentID        sql.NullInt64
		departmentName      sql.NullString
		departmentCreatedAt sql.NullTime
	)

	targets := req.scanTargets()
	targets = append(targets,
		&creatorID, &creatorEmail, &creatorFullName, &creatorStatus, &creatorRole,
		&assigneeID, &assigneeEmail, &assigneeFullName, &assigneeStatus, &assigneeRole,
		&departmentID, &departmentName, &departmentCreatedAt,
	)

	row := r.db.QueryRowContext(ctx, getRequestDetailByID, requestID)
	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RequestDetail{}, ErrRequestNotFound
		}
		log.Err(err).Str("func", "*requestRepository.GetRequestByID").Int64("request_id", requestID).Msg("error: scanning error")
		return models.RequestDetail{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	detail := models.RequestDetail{
		Request: req.toRequest(),
		CreatedBy: &models.User{
			UserID:   creatorID,
			Email:    creatorEmail.String,
			FullName: creatorFullName.String,
			Status:   models.UserStatus(creatorStatus),
			Role:     models.UserRole(creatorRole),
		},
	}

	if assigneeID.Valid {
		detail.AssignedTo = &models.User{
			UserID:   assigneeID.Int64,
			Email:    assigneeEmail.String,
			FullName: assigneeFullName.String,
			Status:   models.UserStatus(assigneeStatus.String),
			Role:     models.UserRole(assigneeRole.String),
		}
	}

	if departmentID.Valid {
		detail.Department = &models.Department{
			DepartmentID: departmentID.Int64,
			Name:         departmentName.String,
			CreatedAt:    departmentCreatedAt.Time,
		}
	}

	return detail, nil
}

// ListRequests retrieves the page of requests matching the filter, newest
// first. The query is built dynamically from the non-zero filter fields.
func (r *requestRepository) ListRequests(ctx context.Context, filter models.RequestFilter) ([]models.Request, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRequestsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*requestRepository.ListRequests").Msg("failed to build list query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*requestRepository.ListRequests").Msg("failed to execute query for listing requests")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	requests := make([]models.Request, 0, 20)
	for rows.Next() {
		var row requestRow
		if scanErr := rows.Scan(row.scanTargets()...); scanErr != nil {
			log.Err(scanErr).Str("func", "*requestRepository.ListRequests").Msg("failed to scan request row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		requests = append(requests, row.toRequest())
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*requestRepository.ListRequests").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return requests, nil
}

// CountRequests returns the total number of requests matching the filter,
// ignoring pagination fields.
func (r *requestRepository) CountRequests(ctx context.Context, filter models.RequestFilter) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountRequestsQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*requestRepository.CountRequests").Msg("failed to build count query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	row := r.db.QueryRowContext(ctx, query, args...)
	if scanErr := row.Scan(&count); scanErr != nil {
		log.Err(scanErr).Str("func", "*requestRepository.CountRequests").Msg("failed to count requests")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return count, nil
}

// UpdateRequest applies the non-nil fields of update to the request and
// returns the updated row.
//
// Error handling:
//   - [ErrNothingToUpdate] when the update carries no fields.
//   - [sql.ErrNoRows] → [ErrRequestNotFound].
//   - PostgreSQL foreign_key_violation (23503) → [ErrForeignKeyViolation].
func (r *requestRepository) UpdateRequest(ctx context.Context, requestID int64, update models.RequestUpdate) (models.Request, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateRequestQuery(requestID, update)
	if err != nil {
		log.Err(err).Str("func", "*requestRepository.UpdateRequest").Int64("request_id", requestID).Msg("failed to build update query")
		return models.Request{}, err
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		if errors.Is(rowErr, sql.ErrNoRows) {
			return models.Request{}, ErrRequestNotFound
		}
		log.Err(rowErr).Str("func", "*requestRepository.UpdateRequest").Int64("request_id", requestID).Msg("error: row is nil")

		switch postgresError(rowErr) {
		case pgerrcode.ForeignKeyViolation:
			return models.Request{}, ErrForeignKeyViolation
		default:
			return models.Request{}, fmt.Errorf("unexpected DB error: %w", rowErr)
		}
	}

	var updated requestRow
	if scanErr := row.Scan(updated.scanTargets()...); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Request{}, ErrRequestNotFound
		}
		if postgresError(scanErr) == pgerrcode.ForeignKeyViolation {
			return models.Request{}, ErrForeignKeyViolation
		}
		log.Err(scanErr).Str("func", "*requestRepository.UpdateRequest").Int64("request_id", requestID).Msg("error: scanning error")
		return models.Request{}, scanErr
	}

	return updated.toRequest(), nil
}

// DeleteRequest removes the request row. Comments and attachment metadata
// rows are removed by cascading foreign keys; payload files on disk are
// reclaimed later by the cleanup worker.
//
// Error handling:
//   - zero affected rows → [ErrRequestNotFound].
func (r *requestRepository) DeleteRequest(ctx context.Context, requestID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteRequest, requestID)
	if err != nil {
		log.Err(err).Str("func", "*requestRepository.DeleteRequest").Int64("request_id", requestID).Msg("failed to delete request")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}
