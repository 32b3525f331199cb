package service

import (
	"context"
	"io"

	"github.com/reqdesk/reqdesk/models"
)

// AuthService handles account creation, credential verification and the JWT
// token lifecycle.
type AuthService interface {
	// RegisterUser creates an active account from email credentials. The
	// first registered user becomes the administrator; later registrations
	// are employees.
	RegisterUser(ctx context.Context, user models.User, password string) (models.User, error)
	// Login authenticates email credentials against the stored argon2id hash.
	Login(ctx context.Context, email string, password string) (models.User, error)
	// EDSLogin verifies a signed XML document, looks the signer up by IIN and
	// creates a pending account on first login. The bool result reports
	// whether the account was just created.
	EDSLogin(ctx context.Context, signedXML string) (models.User, bool, error)
	// CompleteRegistration fills in the profile of a pending account and
	// activates it.
	CompleteRegistration(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)
	// CreateToken issues a signed JWT carrying the user's ID and role.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	// ParseToken validates a raw JWT string and returns the decoded token.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// UserService handles profile reads and updates plus the admin user listing.
type UserService interface {
	// GetUser returns the user with the given identifier.
	GetUser(ctx context.Context, userID int64) (models.User, error)
	// UpdateProfile applies the non-nil fields of update to the user's own
	// profile. A password change is re-hashed before storage.
	UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)
	// ListUsers returns a page of registered users. Restricted to
	// supervisors and administrators.
	ListUsers(ctx context.Context, callerRole models.UserRole, offset int, limit int) ([]models.User, error)
	// CreateUser registers an account on behalf of another person.
	// Restricted to administrators.
	CreateUser(ctx context.Context, callerRole models.UserRole, user models.User, password string) (models.User, error)
}

// DepartmentService exposes the department catalogue.
type DepartmentService interface {
	// ListDepartments returns every department.
	ListDepartments(ctx context.Context) ([]models.Department, error)
	// GetDepartment returns the department with the given identifier.
	GetDepartment(ctx context.Context, departmentID int64) (models.Department, error)
	// CreateDepartment adds a department. Restricted to supervisors and
	// administrators.
	CreateDepartment(ctx context.Context, callerRole models.UserRole, department models.Department) (models.Department, error)
}

// Caller identifies the authenticated user on whose behalf a request-layer
// operation runs. RBAC decisions are made from the ID/role pair.
type Caller struct {
	UserID int64
	Role   models.UserRole
}

// RequestService implements the request lifecycle with role-based access
// rules: employees operate on their own requests only, supervisors and
// administrators on all of them.
type RequestService interface {
	// CreateRequest validates and persists a new request owned by the
	// caller. The department is assigned from the request type.
	CreateRequest(ctx context.Context, caller Caller, request models.Request) (models.Request, error)
	// GetRequest returns the request detail, enforcing ownership for
	// employees.
	GetRequest(ctx context.Context, caller Caller, requestID int64) (models.RequestDetail, error)
	// ListRequests returns a filtered page plus the total matching count.
	// Employees are always scoped to their own requests.
	ListRequests(ctx context.Context, caller Caller, filter models.RequestFilter) (models.RequestList, error)
	// UpdateRequest applies a partial update, enforcing the employee
	// restrictions on status, assignee and department changes.
	UpdateRequest(ctx context.Context, caller Caller, requestID int64, update models.RequestUpdate) (models.Request, error)
	// DeleteRequest removes a request. Employees may delete their own
	// requests while still new; supervisors and administrators always can.
	DeleteRequest(ctx context.Context, caller Caller, requestID int64) error
}

// CommentService handles request discussion threads.
type CommentService interface {
	// AddComment appends a comment to a request the caller can see.
	AddComment(ctx context.Context, caller Caller, comment models.Comment) (models.Comment, error)
	// ListComments returns a page of a request's comments, enforcing the
	// same visibility rule as request reads.
	ListComments(ctx context.Context, caller Caller, requestID int64, offset int, limit int) (models.CommentList, error)
}

// AttachmentService handles file uploads and downloads for requests.
type AttachmentService interface {
	// Upload stores the payload on disk under a generated name, then
	// persists the metadata row. Enforces the configured size limit.
	Upload(ctx context.Context, caller Caller, attachment models.Attachment, payload io.Reader) (models.Attachment, error)
	// List returns the attachment metadata of a request the caller can see.
	List(ctx context.Context, caller Caller, requestID int64) (models.AttachmentList, error)
	// Download returns the metadata row and a reader over the payload bytes.
	// The caller must close the reader.
	Download(ctx context.Context, caller Caller, requestID int64, attachmentID int64) (models.Attachment, io.ReadCloser, error)
}

// StatisticsService computes the admin dashboard counters.
type StatisticsService interface {
	// GetStatistics aggregates request counters. Restricted to
	// administrators.
	GetStatistics(ctx context.Context, callerRole models.UserRole) (models.Statistics, error)
}
