package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/reqdesk/reqdesk/models"
)

const (
	createUser = `INSERT INTO users (email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING user_id, email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role, created_at, updated_at;`

	getUserByID = `SELECT user_id, email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role, created_at, updated_at
    FROM users
    WHERE user_id = $1;`

	findUserByEmail = `SELECT user_id, email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role, created_at, updated_at
    FROM users
    WHERE email = $1;`

	findUserByIIN = `SELECT user_id, email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role, created_at, updated_at
    FROM users
    WHERE iin = $1;`

	getAllUsers = `SELECT user_id, email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role, created_at, updated_at
    FROM users
    ORDER BY user_id
    LIMIT $1 OFFSET $2;`

	countUsers = `SELECT COUNT(*) FROM users;`

	createDepartment = `INSERT INTO departments (name)
    VALUES ($1)
    RETURNING department_id, name, created_at;`

	getAllDepartments = `SELECT department_id, name, created_at
    FROM departments
    ORDER BY department_id;`

	getDepartmentByID = `SELECT department_id, name, created_at
    FROM departments
    WHERE department_id = $1;`

	findDepartmentByName = `SELECT department_id, name, created_at
    FROM departments
    WHERE name = $1;`

	createRequest = `INSERT INTO requests (title, description, request_type, urgency, status, created_by_id, assigned_to_id, department_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING request_id, title, description, request_type, urgency, status, created_by_id, assigned_to_id, department_id, created_at, updated_at;`

	getRequestByID = `SELECT request_id, title, description, request_type, urgency, status, created_by_id, assigned_to_id, department_id, created_at, updated_at
    FROM requests
    WHERE request_id = $1;`

	getRequestDetailByID = `SELECT
        r.request_id, r.title, r.description, r.request_type, r.urgency, r.status,
        r.created_by_id, r.assigned_to_id, r.department_id, r.created_at, r.updated_at,
        c.user_id, c.email, c.full_name, c.status, c.role,
        a.user_id, a.email, a.full_name, a.status, a.role,
        d.department_id, d.name, d.created_at
    FROM requests r
    JOIN users c ON c.user_id = r.created_by_id
    LEFT JOIN users a ON a.user_id = r.assigned_to_id
    LEFT JOIN departments d ON d.department_id = r.department_id
    WHERE r.request_id = $1;`

	deleteRequest = `DELETE FROM requests
    WHERE request_id = $1;`

	createComment = `INSERT INTO request_comments (request_id, author_id, comment)
    VALUES ($1, $2, $3)
    RETURNING comment_id, request_id, author_id, comment, created_at;`

	listComments = `SELECT comment_id, request_id, author_id, comment, created_at
    FROM request_comments
    WHERE request_id = $1
    ORDER BY comment_id
    LIMIT $2 OFFSET $3;`

	createAttachment = `INSERT INTO request_attachments (request_id, uploaded_by_id, filename, stored_name, file_size, mime_type)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING attachment_id, request_id, uploaded_by_id, filename, stored_name, file_size, mime_type, created_at;`

	getAttachmentByID = `SELECT attachment_id, request_id, uploaded_by_id, filename, stored_name, file_size, mime_type, created_at
    FROM request_attachments
    WHERE attachment_id = $1;`

	listAttachments = `SELECT attachment_id, request_id, uploaded_by_id, filename, stored_name, file_size, mime_type, created_at
    FROM request_attachments
    WHERE request_id = $1
    ORDER BY attachment_id;`

	listAttachmentStoredNames = `SELECT stored_name FROM request_attachments;`

	statsTotalAndCompleted = `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'completed')
    FROM requests;`

	statsByDepartment = `SELECT d.department_id, d.name, COUNT(r.request_id)
    FROM departments d
    LEFT JOIN requests r ON r.department_id = d.department_id
    GROUP BY d.department_id, d.name
    ORDER BY COUNT(r.request_id) DESC, d.department_id;`

	statsByType = `SELECT request_type, COUNT(*)
    FROM requests
    GROUP BY request_type
    ORDER BY COUNT(*) DESC, request_type;`

	statsTopCreators = `SELECT u.user_id, u.full_name, u.email, COUNT(r.request_id)
    FROM users u
    JOIN requests r ON r.created_by_id = u.user_id
    GROUP BY u.user_id, u.full_name, u.email
    ORDER BY COUNT(r.request_id) DESC, u.user_id
    LIMIT 5;`
)

// psql is the squirrel statement builder preconfigured for PostgreSQL
// positional placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var requestColumns = []string{
	"request_id",
	"title",
	"description",
	"request_type",
	"urgency",
	"status",
	"created_by_id",
	"assigned_to_id",
	"department_id",
	"created_at",
	"updated_at",
}

// applyRequestFilter translates the non-zero fields of filter into WHERE
// predicates shared by the list and count queries. The Search term matches
// title and description case-insensitively.
func applyRequestFilter(builder sq.SelectBuilder, filter models.RequestFilter) sq.SelectBuilder {
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"request_type": filter.Type})
	}
	if filter.DepartmentID != 0 {
		builder = builder.Where(sq.Eq{"department_id": filter.DepartmentID})
	}
	if filter.CreatedByID != 0 {
		builder = builder.Where(sq.Eq{"created_by_id": filter.CreatedByID})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}

	return builder
}

// buildListRequestsQuery builds the paginated SELECT used by
// [RequestRepository.ListRequests]. Results are ordered newest first.
func buildListRequestsQuery(filter models.RequestFilter) (string, []any, error) {
	builder := psql.Select(requestColumns...).From("requests")
	builder = applyRequestFilter(builder, filter)
	builder = builder.OrderBy("created_at DESC", "request_id DESC")

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	return builder.ToSql()
}

// buildCountRequestsQuery builds the COUNT companion of
// [buildListRequestsQuery]. Pagination fields of the filter are ignored.
func buildCountRequestsQuery(filter models.RequestFilter) (string, []any, error) {
	builder := psql.Select("COUNT(*)").From("requests")
	builder = applyRequestFilter(builder, filter)

	return builder.ToSql()
}

// buildUpdateRequestQuery builds a partial UPDATE from the non-nil fields of
// update. Returns [ErrNothingToUpdate] when every field is nil.
func buildUpdateRequestQuery(requestID int64, update models.RequestUpdate) (string, []any, error) {
	builder := psql.Update("requests").Set("updated_at", sq.Expr("NOW()"))

	changed := false
	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
		changed = true
	}
	if update.Description != nil {
		builder = builder.Set("description", *update.Description)
		changed = true
	}
	if update.Type != nil {
		builder = builder.Set("request_type", *update.Type)
		changed = true
	}
	if update.Urgent != nil {
		builder = builder.Set("urgency", *update.Urgent)
		changed = true
	}
	if update.Status != nil {
		builder = builder.Set("status", *update.Status)
		changed = true
	}
	// a zero assignee or department clears the link, so both go through
	// nullInt64 rather than a raw id
	if update.AssignedToID != nil {
		builder = builder.Set("assigned_to_id", nullInt64(*update.AssignedToID))
		changed = true
	}
	if update.DepartmentID != nil {
		builder = builder.Set("department_id", nullInt64(*update.DepartmentID))
		changed = true
	}

	if !changed {
		return "", nil, ErrNothingToUpdate
	}

	builder = builder.
		Where(sq.Eq{"request_id": requestID}).
		Suffix("RETURNING request_id, title, description, request_type, urgency, status, created_by_id, assigned_to_id, department_id, created_at, updated_at")

	return builder.ToSql()
}

// buildUpdateUserQuery builds a partial UPDATE from the non-nil fields of
// update. The Password field is expected to be pre-hashed by the caller.
// Returns [ErrNothingToUpdate] when every field is nil.
func buildUpdateUserQuery(userID int64, update models.UserUpdate) (string, []any, error) {
	builder := psql.Update("users").Set("updated_at", sq.Expr("NOW()"))

	changed := false
	if update.Email != nil {
		builder = builder.Set("email", *update.Email)
		changed = true
	}
	if update.FullName != nil {
		builder = builder.Set("full_name", *update.FullName)
		changed = true
	}
	if update.Phone != nil {
		builder = builder.Set("phone_number", *update.Phone)
		changed = true
	}
	if update.Organization != nil {
		builder = builder.Set("organization", *update.Organization)
		changed = true
	}
	if update.Position != nil {
		builder = builder.Set("position", *update.Position)
		changed = true
	}
	if update.Password != nil {
		builder = builder.Set("password_hash", *update.Password)
		changed = true
	}
	if update.Status != nil {
		builder = builder.Set("status", *update.Status)
		changed = true
	}

	if !changed {
		return "", nil, ErrNothingToUpdate
	}

	builder = builder.
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING user_id, email, password_hash, iin, full_name, phone_number, organization, position, is_active, status, role, created_at, updated_at")

	return builder.ToSql()
}
