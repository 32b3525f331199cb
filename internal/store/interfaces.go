package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"io"
	"time"

	"github.com/reqdesk/reqdesk/models"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying. See [PostgresErrorClassifier] for the PostgreSQL implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository provides persistence for user accounts.
type UserRepository interface {
	// CreateUser persists a new user and returns it with server-assigned
	// fields populated.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// GetUserByID returns the user with the given identifier.
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	// FindUserByEmail returns the user registered with the given email.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// FindUserByIIN returns the user registered with the given IIN.
	FindUserByIIN(ctx context.Context, iin string) (models.User, error)
	// GetAllUsers returns a page of registered users ordered by identifier.
	GetAllUsers(ctx context.Context, offset int, limit int) ([]models.User, error)
	// UpdateUser applies the non-nil fields of update to the user and
	// returns the updated record.
	UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)
	// CountUsers returns the total number of registered users.
	CountUsers(ctx context.Context) (int64, error)
}

// DepartmentRepository provides persistence for the department catalogue.
type DepartmentRepository interface {
	// CreateDepartment persists a new department and returns it with
	// server-assigned fields populated.
	CreateDepartment(ctx context.Context, department models.Department) (models.Department, error)
	// GetAllDepartments returns every department ordered by identifier.
	GetAllDepartments(ctx context.Context) ([]models.Department, error)
	// GetDepartmentByID returns the department with the given identifier.
	GetDepartmentByID(ctx context.Context, departmentID int64) (models.Department, error)
	// FindDepartmentByName returns the department with the given name.
	FindDepartmentByName(ctx context.Context, name string) (models.Department, error)
}

// RequestRepository provides persistence for help-desk requests.
type RequestRepository interface {
	// CreateRequest persists a new request and returns it with
	// server-assigned fields populated.
	CreateRequest(ctx context.Context, request models.Request) (models.Request, error)
	// GetRequestByID returns the request with the given identifier together
	// with its creator, assignee and department records.
	GetRequestByID(ctx context.Context, requestID int64) (models.RequestDetail, error)
	// ListRequests returns the page of requests matching the filter,
	// newest first.
	ListRequests(ctx context.Context, filter models.RequestFilter) ([]models.Request, error)
	// CountRequests returns the total number of requests matching the
	// filter, ignoring pagination.
	CountRequests(ctx context.Context, filter models.RequestFilter) (int64, error)
	// UpdateRequest applies the non-nil fields of update to the request and
	// returns the updated record.
	UpdateRequest(ctx context.Context, requestID int64, update models.RequestUpdate) (models.Request, error)
	// DeleteRequest removes the request and, via cascading constraints, its
	// comments and attachment rows.
	DeleteRequest(ctx context.Context, requestID int64) error
}

// CommentRepository provides persistence for request comments.
type CommentRepository interface {
	// CreateComment persists a new comment and returns it with
	// server-assigned fields populated.
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	// ListComments returns a page of a request's comments, oldest first.
	ListComments(ctx context.Context, requestID int64, offset int, limit int) ([]models.Comment, error)
}

// AttachmentRepository provides persistence for attachment metadata rows.
// Payload bytes live in [AttachmentFileStorage].
type AttachmentRepository interface {
	// CreateAttachment persists attachment metadata and returns it with
	// server-assigned fields populated.
	CreateAttachment(ctx context.Context, attachment models.Attachment) (models.Attachment, error)
	// GetAttachmentByID returns the attachment metadata row with the given
	// identifier.
	GetAttachmentByID(ctx context.Context, attachmentID int64) (models.Attachment, error)
	// ListAttachments returns all attachment rows of a request, oldest first.
	ListAttachments(ctx context.Context, requestID int64) ([]models.Attachment, error)
	// ListStoredNames returns the stored file names of every attachment row.
	// Used by the orphan-file cleanup worker.
	ListStoredNames(ctx context.Context) ([]string, error)
}

// StatisticsRepository aggregates request counters for the admin dashboard.
type StatisticsRepository interface {
	// GetStatistics computes total, per-status, per-department, per-type and
	// per-creator counters over the requests table.
	GetStatistics(ctx context.Context) (models.Statistics, error)
}

// AttachmentFileStorage persists attachment payloads outside the relational
// database, keyed by the generated stored name.
type AttachmentFileStorage interface {
	// Save streams src into a new payload file and returns the number of
	// bytes written.
	Save(ctx context.Context, storedName string, src io.Reader) (int64, error)
	// Open returns a reader over a previously saved payload file.
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	// Delete removes a payload file. Deleting a missing file is not an error.
	Delete(ctx context.Context, storedName string) error
	// List returns the stored names of payload files last modified before
	// olderThan. Younger files may belong to an upload still in flight.
	List(ctx context.Context, olderThan time.Time) ([]string, error)
}
