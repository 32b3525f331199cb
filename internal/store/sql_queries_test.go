package store

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqdesk/reqdesk/models"
)

func Test_buildListRequestsQuery_NoFilter(t *testing.T) {
	query, args, err := buildListRequestsQuery(models.RequestFilter{})
	require.NoError(t, err)
	require.Empty(t, args)

	q := strings.ToLower(query)

	require.Contains(t, q, "select")
	require.Contains(t, q, "from requests")
	require.Contains(t, q, "order by created_at desc")
	require.NotContains(t, q, "where")
	require.NotContains(t, q, "limit")
	require.NotContains(t, q, "offset")
}

func Test_buildListRequestsQuery_SelectsAllExpectedColumns(t *testing.T) {
	query, _, err := buildListRequestsQuery(models.RequestFilter{})
	require.NoError(t, err)

	q := strings.ToLower(query)

	// Check that all expected columns are present in the SELECT section.
	// This is a "contains" check; it does not enforce order but catches regressions quickly.
	cols := []string{
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
	for _, c := range cols {
		require.Contains(t, q, c)
	}
}

func Test_buildListRequestsQuery(t *testing.T) {
	tests := []struct {
		name          string
		filter        models.RequestFilter
		wantContains  []string
		wantArgsCount int
	}{
		{
			name:          "status filter",
			filter:        models.RequestFilter{Status: models.RequestStatusNew},
			wantContains:  []string{"status = $1"},
			wantArgsCount: 1,
		},
		{
			name:          "type filter",
			filter:        models.RequestFilter{Type: models.RequestTypeIT},
			wantContains:  []string{"request_type = $1"},
			wantArgsCount: 1,
		},
		{
			name:          "department and creator filter",
			filter:        models.RequestFilter{DepartmentID: 3, CreatedByID: 7},
			wantContains:  []string{"department_id = $1", "created_by_id = $2"},
			wantArgsCount: 2,
		},
		{
			name:          "search matches title and description",
			filter:        models.RequestFilter{Search: "printer"},
			wantContains:  []string{"title ILIKE $1", "description ILIKE $2"},
			wantArgsCount: 2,
		},
		{
			name:          "pagination",
			filter:        models.RequestFilter{Limit: 20, Offset: 40},
			wantContains:  []string{"LIMIT 20", "OFFSET 40"},
			wantArgsCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListRequestsQuery(tt.filter)
			require.NoError(t, err)
			assert.Len(t, args, tt.wantArgsCount)

			for _, part := range tt.wantContains {
				assert.Contains(t, query, part)
			}
		})
	}
}

func Test_buildListRequestsQuery_SearchArgsWrapped(t *testing.T) {
	_, args, err := buildListRequestsQuery(models.RequestFilter{Search: "printer"})
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, "%printer%", args[0])
	assert.Equal(t, "%printer%", args[1])
}

func Test_buildCountRequestsQuery_IgnoresPagination(t *testing.T) {
	query, args, err := buildCountRequestsQuery(models.RequestFilter{
		Status: models.RequestStatusCompleted,
		Limit:  10,
		Offset: 50,
	})
	require.NoError(t, err)
	require.Len(t, args, 1)

	q := strings.ToLower(query)
	require.Contains(t, q, "count(*)")
	require.Contains(t, q, "from requests")
	require.NotContains(t, q, "limit")
	require.NotContains(t, q, "offset")
	require.NotContains(t, q, "order by")
}

func Test_buildUpdateRequestQuery(t *testing.T) {
	status := models.RequestStatusInProcess
	assignee := int64(5)

	query, args, err := buildUpdateRequestQuery(42, models.RequestUpdate{
		Status:       &status,
		AssignedToID: &assignee,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "UPDATE requests")
	assert.Contains(t, query, "updated_at = NOW()")
	assert.Contains(t, query, "status =")
	assert.Contains(t, query, "assigned_to_id =")
	assert.Contains(t, query, "request_id =")
	assert.Contains(t, query, "RETURNING")

	// NOW() is an expression, so args hold status, assignee and request id.
	require.Len(t, args, 3)
	assert.Contains(t, args, int64(42))
}

func Test_buildUpdateRequestQuery_ZeroClearsOptionalLinks(t *testing.T) {
	var noAssignee, noDepartment int64

	_, args, err := buildUpdateRequestQuery(42, models.RequestUpdate{
		AssignedToID: &noAssignee,
		DepartmentID: &noDepartment,
	})
	require.NoError(t, err)

	// a zero id must reach the database as NULL, never as a dangling 0
	require.Len(t, args, 3)
	assert.Contains(t, args, sql.NullInt64{})
	assert.NotContains(t, args, int64(0))
}

func Test_buildUpdateRequestQuery_SetsAssigneeID(t *testing.T) {
	assignee := int64(5)

	_, args, err := buildUpdateRequestQuery(42, models.RequestUpdate{AssignedToID: &assignee})
	require.NoError(t, err)
	assert.Contains(t, args, sql.NullInt64{Int64: 5, Valid: true})
}

func Test_buildUpdateRequestQuery_Empty(t *testing.T) {
	_, _, err := buildUpdateRequestQuery(42, models.RequestUpdate{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNothingToUpdate))
}

func Test_buildUpdateUserQuery(t *testing.T) {
	email := "new@example.com"
	hash := "$argon2id$hash"

	query, args, err := buildUpdateUserQuery(7, models.UserUpdate{
		Email:    &email,
		Password: &hash,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "UPDATE users")
	assert.Contains(t, query, "email =")
	assert.Contains(t, query, "password_hash =")
	assert.Contains(t, query, "user_id =")
	assert.Contains(t, query, "RETURNING")

	require.Len(t, args, 3)
	assert.Contains(t, args, email)
	assert.Contains(t, args, hash)
	assert.Contains(t, args, int64(7))
}

func Test_buildUpdateUserQuery_Empty(t *testing.T) {
	_, _, err := buildUpdateUserQuery(7, models.UserUpdate{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNothingToUpdate))
}
