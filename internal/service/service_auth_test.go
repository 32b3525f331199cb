package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reqdesk/reqdesk/internal/adapter"
	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/mock"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/internal/utils"
	"github.com/reqdesk/reqdesk/models"
)

func newTestAuthSvc(t *testing.T) (AuthService, *mock.MockUserRepository, *mock.MockEDSVerifier) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mock.NewMockUserRepository(ctrl)
	verifier := mock.NewMockEDSVerifier(ctrl)

	svc := NewAuthService(users, verifier, config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "reqdesk-test",
		TokenDuration: time.Hour,
	}, logger.NewLogger("test"))

	return svc, users, verifier
}

func TestAuthService_RegisterUser_FirstUserBecomesAdministrator(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().CountUsers(ctx).Return(int64(0), nil)
	users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, models.RoleAdministrator, user.Role)
			assert.Equal(t, models.UserStatusActive, user.Status)
			assert.True(t, user.Active)
			assert.NotEmpty(t, user.PasswordHash)
			require.Len(t, user.IIN, 12)
			assert.Equal(t, byte('E'), user.IIN[0])

			user.UserID = 1
			return user, nil
		},
	)

	registered, err := svc.RegisterUser(ctx, models.User{
		Email:    "Boss@Example.KZ",
		FullName: "First Boss",
	}, "secret-password")

	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.UserID)
	assert.Equal(t, "boss@example.kz", registered.Email)
	assert.Equal(t, models.RoleAdministrator, registered.Role)
}

func TestAuthService_RegisterUser_LaterUsersAreEmployees(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().CountUsers(ctx).Return(int64(5), nil)
	users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, models.RoleEmployee, user.Role)
			user.UserID = 6
			return user, nil
		},
	)

	registered, err := svc.RegisterUser(ctx, models.User{
		Email:    "worker@example.kz",
		FullName: "Plain Worker",
	}, "secret-password")

	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, registered.Role)
}

func TestAuthService_RegisterUser_KeepsExplicitRole(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().CountUsers(ctx).Return(int64(3), nil)
	users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, models.RoleSupervisor, user.Role)
			return user, nil
		},
	)

	_, err := svc.RegisterUser(ctx, models.User{
		Email:    "lead@example.kz",
		FullName: "Team Lead",
		Role:     models.RoleSupervisor,
	}, "secret-password")

	require.NoError(t, err)
}

func TestAuthService_RegisterUser_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     models.User
		password string
	}{
		{name: "no email", user: models.User{FullName: "No Email"}, password: "secret"},
		{name: "no password", user: models.User{Email: "a@b.kz", FullName: "No Password"}},
		{name: "no full name", user: models.User{Email: "a@b.kz"}, password: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(ctx, tt.user, tt.password)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().CountUsers(ctx).Return(int64(2), nil)
	users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.RegisterUser(ctx, models.User{
		Email:    "taken@example.kz",
		FullName: "Second Comer",
	}, "secret-password")

	assert.ErrorIs(t, err, store.ErrEmailAlreadyExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)

	users.EXPECT().FindUserByEmail(ctx, "user@example.kz").Return(models.User{
		UserID:       7,
		Email:        "user@example.kz",
		PasswordHash: hash,
		Active:       true,
		Status:       models.UserStatusActive,
		Role:         models.RoleEmployee,
	}, nil)

	user, err := svc.Login(ctx, "  User@Example.KZ ", "correct-password")

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	hash, err := utils.HashPassword("correct-password")
	require.NoError(t, err)

	users.EXPECT().FindUserByEmail(ctx, "user@example.kz").Return(models.User{
		UserID:       7,
		PasswordHash: hash,
		Active:       true,
		Status:       models.UserStatusActive,
	}, nil)

	_, err = svc.Login(ctx, "user@example.kz", "wrong-password")

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().FindUserByEmail(ctx, "gone@example.kz").Return(models.User{
		UserID: 8,
		Active: false,
		Status: models.UserStatusInactive,
	}, nil)

	_, err := svc.Login(ctx, "gone@example.kz", "whatever")

	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().FindUserByEmail(ctx, "nobody@example.kz").Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.Login(ctx, "nobody@example.kz", "whatever")

	// unknown emails answer exactly like a wrong password
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.NotErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestAuthService_EDSLogin_ExistingUser(t *testing.T) {
	svc, users, verifier := newTestAuthSvc(t)
	ctx := context.Background()

	verifier.EXPECT().Verify(ctx, "<signed/>").Return("880101300123", nil)
	users.EXPECT().FindUserByIIN(ctx, "880101300123").Return(models.User{
		UserID: 3,
		IIN:    "880101300123",
		Active: true,
		Status: models.UserStatusActive,
	}, nil)

	user, created, err := svc.EDSLogin(ctx, "<signed/>")

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), user.UserID)
}

func TestAuthService_EDSLogin_FirstLoginCreatesPendingAccount(t *testing.T) {
	svc, users, verifier := newTestAuthSvc(t)
	ctx := context.Background()

	verifier.EXPECT().Verify(ctx, "<signed/>").Return("990202400456", nil)
	users.EXPECT().FindUserByIIN(ctx, "990202400456").Return(models.User{}, store.ErrNoUserWasFound)
	users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, "990202400456", user.IIN)
			assert.Equal(t, models.UserStatusPending, user.Status)
			assert.Equal(t, models.RoleEmployee, user.Role)
			assert.Empty(t, user.Email)
			assert.Empty(t, user.PasswordHash)

			user.UserID = 11
			return user, nil
		},
	)

	user, created, err := svc.EDSLogin(ctx, "<signed/>")

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(11), user.UserID)
}

func TestAuthService_EDSLogin_InvalidSignature(t *testing.T) {
	svc, _, verifier := newTestAuthSvc(t)
	ctx := context.Background()

	verifier.EXPECT().Verify(ctx, "<tampered/>").Return("", adapter.ErrInvalidSignature)

	_, _, err := svc.EDSLogin(ctx, "<tampered/>")

	assert.ErrorIs(t, err, adapter.ErrInvalidSignature)
}

func TestAuthService_EDSLogin_InactiveUser(t *testing.T) {
	svc, users, verifier := newTestAuthSvc(t)
	ctx := context.Background()

	verifier.EXPECT().Verify(ctx, "<signed/>").Return("880101300123", nil)
	users.EXPECT().FindUserByIIN(ctx, "880101300123").Return(models.User{
		UserID: 3,
		Active: false,
		Status: models.UserStatusInactive,
	}, nil)

	_, _, err := svc.EDSLogin(ctx, "<signed/>")

	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_CompleteRegistration_Success(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().GetUserByID(ctx, int64(11)).Return(models.User{
		UserID: 11,
		IIN:    "990202400456",
		Active: true,
		Status: models.UserStatusPending,
	}, nil)

	password := "chosen-password"
	users.EXPECT().UpdateUser(ctx, int64(11), gomock.Any()).DoAndReturn(
		func(_ context.Context, userID int64, update models.UserUpdate) (models.User, error) {
			require.NotNil(t, update.Status)
			assert.Equal(t, models.UserStatusActive, *update.Status)
			require.NotNil(t, update.Password)
			assert.NotEqual(t, password, *update.Password)

			return models.User{UserID: userID, Status: models.UserStatusActive}, nil
		},
	)

	email := "filled@example.kz"
	fullName := "Filled In"
	user, err := svc.CompleteRegistration(ctx, 11, models.UserUpdate{
		Email:    &email,
		FullName: &fullName,
		Password: &password,
	})

	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)
}

func TestAuthService_CompleteRegistration_NotPending(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	ctx := context.Background()

	users.EXPECT().GetUserByID(ctx, int64(2)).Return(models.User{
		UserID: 2,
		Status: models.UserStatusActive,
	}, nil)

	_, err := svc.CompleteRegistration(ctx, 2, models.UserUpdate{})

	assert.ErrorIs(t, err, ErrRegistrationNotPending)
}

func TestAuthService_CreateAndParseToken(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{
		UserID: 42,
		Role:   models.RoleSupervisor,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, models.RoleSupervisor, parsed.Role)
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.ParseToken(context.Background(), "not-a-token")

	assert.True(t, errors.Is(err, ErrTokenIsExpiredOrInvalid))
}
