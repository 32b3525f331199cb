package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqdesk/reqdesk/internal/service"
	"github.com/reqdesk/reqdesk/models"
)

func TestListUsers_PassesPagination(t *testing.T) {
	services := authedServices(testAdmin)
	services.UserService = &mockUserService{
		listUsersFn: func(_ context.Context, callerRole models.UserRole, offset int, limit int) ([]models.User, error) {
			assert.Equal(t, models.RoleAdministrator, callerRole)
			assert.Equal(t, 40, offset)
			assert.Equal(t, 20, limit)

			return []models.User{{UserID: 41}, {UserID: 42}}, nil
		},
	}
	h := newTestHandler(t, services)

	rec := doRequest(t, h, http.MethodGet, "/api/users?offset=40&limit=20", "", "valid-token")

	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	decodeJSON(t, rec, &users)
	require.Len(t, users, 2)
	assert.Equal(t, int64(41), users[0].UserID)
}

func TestListUsers_EmployeeForbidden(t *testing.T) {
	services := authedServices(testEmployee)
	services.UserService = &mockUserService{
		listUsersFn: func(_ context.Context, _ models.UserRole, _ int, _ int) ([]models.User, error) {
			return nil, service.ErrPermissionDenied
		},
	}
	h := newTestHandler(t, services)

	rec := doRequest(t, h, http.MethodGet, "/api/users", "", "valid-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
