package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same email already exists in the database.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrIINAlreadyExists is returned when an INSERT or UPDATE violates the
	// unique constraint on the users.iin column.
	ErrIINAlreadyExists = errors.New("iin already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrDepartmentNotFound is returned when a lookup targets a department
	// that does not exist in the database.
	ErrDepartmentNotFound = errors.New("department was not found")

	// ErrDepartmentAlreadyExists is returned when an INSERT violates the
	// unique constraint on the departments.name column.
	ErrDepartmentAlreadyExists = errors.New("department already exists")

	// ErrRequestNotFound is returned when a query or update targets a request
	// that does not exist in the database.
	ErrRequestNotFound = errors.New("request was not found")

	// ErrCommentNotFound is returned when a lookup targets a comment that
	// does not exist in the database.
	ErrCommentNotFound = errors.New("comment was not found")

	// ErrAttachmentNotFound is returned when an attachment row or its payload
	// file does not exist.
	ErrAttachmentNotFound = errors.New("attachment was not found")

	// ErrForeignKeyViolation is returned when an INSERT references a user,
	// department or request that does not exist.
	ErrForeignKeyViolation = errors.New("referenced record does not exist")

	// ErrNothingToUpdate is returned when an UPDATE request carries no fields
	// to change.
	ErrNothingToUpdate = errors.New("no fields to update")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
