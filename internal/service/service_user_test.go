package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/mock"
	"github.com/reqdesk/reqdesk/models"
)

func newTestUserSvc(t *testing.T) (UserService, *mock.MockUserRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mock.NewMockUserRepository(ctrl)
	svc := NewUserService(users, nil, logger.NewLogger("test"))

	return svc, users
}

func TestUserService_ListUsers_PassesPagination(t *testing.T) {
	svc, users := newTestUserSvc(t)
	ctx := context.Background()

	users.EXPECT().GetAllUsers(ctx, 40, 20).Return([]models.User{{UserID: 41}}, nil)

	listed, err := svc.ListUsers(ctx, models.RoleSupervisor, 40, 20)

	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestUserService_ListUsers_ClampsPagination(t *testing.T) {
	svc, users := newTestUserSvc(t)
	ctx := context.Background()

	tests := []struct {
		name                  string
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{name: "zero limit falls back to default", offset: 0, limit: 0, wantOffset: 0, wantLimit: DefaultPageLimit},
		{name: "oversized limit is capped", offset: 10, limit: 5000, wantOffset: 10, wantLimit: DefaultPageLimit},
		{name: "negative offset is zeroed", offset: -5, limit: 20, wantOffset: 0, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users.EXPECT().GetAllUsers(ctx, tt.wantOffset, tt.wantLimit).Return(nil, nil)

			_, err := svc.ListUsers(ctx, models.RoleAdministrator, tt.offset, tt.limit)
			assert.NoError(t, err)
		})
	}
}

func TestUserService_ListUsers_EmployeeDenied(t *testing.T) {
	svc, _ := newTestUserSvc(t)
	ctx := context.Background()

	_, err := svc.ListUsers(ctx, models.RoleEmployee, 0, 20)

	assert.ErrorIs(t, err, ErrPermissionDenied)
}
