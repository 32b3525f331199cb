package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/models"
)

var userTestColumns = []string{
	"user_id", "email", "password_hash", "iin", "full_name", "phone_number",
	"organization", "position", "is_active", "status", "role", "created_at", "updated_at",
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &userRepository{
		db:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func pgUniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		Email:        "john@example.com",
		PasswordHash: "$argon2id$hash",
		FullName:     "John Smith",
		Active:       true,
		Status:       models.UserStatusActive,
		Role:         models.RoleEmployee,
	}

	now := time.Now()

	rows := sqlmock.
		NewRows(userTestColumns).
		AddRow(1, user.Email, user.PasswordHash, nil, user.FullName, nil, nil, nil, true, string(user.Status), string(user.Role), now, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			nullString(user.Email), nullString(user.PasswordHash), nullString(""),
			user.FullName, user.Phone, user.Organization, user.Position,
			user.Active, user.Status, user.Role,
		).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
	if created.Role != models.RoleEmployee {
		t.Errorf("expected role employee, got %s", created.Role)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	// every registration carries a generated IIN, so the violated constraint
	// decides the sentinel, not the presence of a field
	user := models.User{Email: "john@example.com", IIN: "E1a2b3c4d5e6"}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgUniqueViolation("users_email_key"))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_DuplicateIIN(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "jane@example.com", IIN: "880101300123"}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgUniqueViolation("users_iin_key"))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrIINAlreadyExists) {
		t.Fatalf("expected ErrIINAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "john@example.com"}

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, user)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows(userTestColumns).
		AddRow(7, "jane@example.com", "$argon2id$hash", nil, "Jane Doe", nil, nil, nil, true, "active", "supervisor", now, now)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	found, err := repo.FindUserByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", found.UserID)
	}
	if found.Role != models.RoleSupervisor {
		t.Errorf("expected role supervisor, got %s", found.Role)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByIIN_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("880101300123").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByIIN(ctx, "880101300123")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestGetAllUsers_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.
		NewRows(userTestColumns).
		AddRow(1, "a@example.com", "hash", nil, "A", nil, nil, nil, true, "active", "administrator", now, now).
		AddRow(2, "b@example.com", "hash", nil, "B", nil, nil, nil, true, "active", "employee", now, now)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(50, 0).
		WillReturnRows(rows)

	users, err := repo.GetAllUsers(ctx, 0, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Role != models.RoleAdministrator {
		t.Errorf("expected first user to be administrator, got %s", users[0].Role)
	}
}

func TestUpdateUser_NothingToUpdate(t *testing.T) {
	repo, _, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	_, err := repo.UpdateUser(ctx, 1, models.UserUpdate{})
	if !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestUpdateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	newName := "John Renamed"

	rows := sqlmock.
		NewRows(userTestColumns).
		AddRow(1, "john@example.com", "hash", nil, newName, nil, nil, nil, true, "active", "employee", now, now)

	mock.ExpectQuery("UPDATE users").
		WillReturnRows(rows)

	updated, err := repo.UpdateUser(ctx, 1, models.UserUpdate{FullName: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FullName != newName {
		t.Errorf("expected full name %q, got %q", newName, updated.FullName)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	newName := "Nobody"

	mock.ExpectQuery("UPDATE users").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateUser(ctx, 404, models.UserUpdate{FullName: &newName})
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestCountUsers_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count=3, got %d", count)
	}
}
