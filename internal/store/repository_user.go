package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// userRow mirrors the users table with null-capable types for the columns
// that may hold NULL (email for EDS-only accounts, iin for email accounts
// until completion, profile fields).
type userRow struct {
	userID       int64
	email        sql.NullString
	passwordHash sql.NullString
	iin          sql.NullString
	fullName     sql.NullString
	phone        sql.NullString
	organization sql.NullString
	position     sql.NullString
	active       bool
	status       string
	role         string
	createdAt    sql.NullTime
	updatedAt    sql.NullTime
}

func (r userRow) toUser() models.User {
	return models.User{
		UserID:       r.userID,
		Email:        r.email.String,
		PasswordHash: r.passwordHash.String,
		IIN:          r.iin.String,
		FullName:     r.fullName.String,
		Phone:        r.phone.String,
		Organization: r.organization.String,
		Position:     r.position.String,
		Active:       r.active,
		Status:       models.UserStatus(r.status),
		Role:         models.UserRole(r.role),
		CreatedAt:    r.createdAt.Time,
		UpdatedAt:    r.updatedAt.Time,
	}
}

func (r *userRow) scanTargets() []any {
	return []any{
		&r.userID,
		&r.email,
		&r.passwordHash,
		&r.iin,
		&r.fullName,
		&r.phone,
		&r.organization,
		&r.position,
		&r.active,
		&r.status,
		&r.role,
		&r.createdAt,
		&r.updatedAt,
	}
}

// nullString maps an empty string to SQL NULL so that the UNIQUE indexes on
// email and iin are not tripped by multiple accounts with an empty value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// uniqueViolationError picks the sentinel matching the violated constraint.
// Every row carries both an email and an IIN, so the constraint name is the
// only reliable signal for which value collided.
func uniqueViolationError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "iin") {
		return ErrIINAlreadyExists
	}
	return ErrEmailAlreadyExists
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt, UpdatedAt).
//
// The INSERT uses the [createUser] prepared query which returns all columns
// via a RETURNING clause, so the caller receives the canonical database
// representation of the newly created account.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists] or
//     [ErrIINAlreadyExists] depending on the violated constraint.
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		nullString(user.Email), nullString(user.PasswordHash), nullString(user.IIN),
		user.FullName, user.Phone, user.Organization, user.Position,
		user.Active, user.Status, user.Role,
	)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, uniqueViolationError(err)
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan saved user from db
	var saved userRow
	if err := row.Scan(saved.scanTargets()...); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")

		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, uniqueViolationError(err)
		}
		return models.User{}, err
	}

	return saved.toUser(), nil
}

// GetUserByID retrieves a user record by its primary key.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - Any other error → wrapped as "unexpected DB error".
func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.GetUserByID", getUserByID, userID)
}

// FindUserByEmail retrieves a user record whose email matches the given value.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - Any other error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

// FindUserByIIN retrieves a user record whose IIN matches the given value.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - Any other error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByIIN(ctx context.Context, iin string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByIIN", findUserByIIN, iin)
}

func (r *userRepository) findOne(ctx context.Context, funcName string, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var found userRow
	if err := row.Scan(found.scanTargets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, err
	}

	return found.toUser(), nil
}

// GetAllUsers retrieves a page of registered users ordered by identifier.
func (r *userRepository) GetAllUsers(ctx context.Context, offset int, limit int) ([]models.User, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAllUsers, limit, offset)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.GetAllUsers").Msg("failed to execute query for getting all users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 20)
	for rows.Next() {
		var row userRow
		if scanErr := rows.Scan(row.scanTargets()...); scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.GetAllUsers").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, row.toUser())
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRepository.GetAllUsers").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return users, nil
}

// UpdateUser applies the non-nil fields of update to the user record and
// returns the updated row.
//
// Error handling:
//   - [ErrNothingToUpdate] when the update carries no fields.
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
func (r *userRepository) UpdateUser(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(userID, update)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("failed to build update query")
		return models.User{}, err
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		if errors.Is(rowErr, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(rowErr).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("error: row is nil")

		switch postgresError(rowErr) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", rowErr)
		}
	}

	var updated userRow
	if scanErr := row.Scan(updated.scanTargets()...); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		if postgresError(scanErr) == pgerrcode.UniqueViolation {
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(scanErr).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("error: scanning error")
		return models.User{}, scanErr
	}

	return updated.toUser(), nil
}

// CountUsers returns the total number of registered users. Used to decide
// whether a newly registered account becomes the administrator.
func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	row := r.db.QueryRowContext(ctx, countUsers)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*userRepository.CountUsers").Msg("failed to count users")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}
