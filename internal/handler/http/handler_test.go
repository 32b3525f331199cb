package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/service"
	"github.com/reqdesk/reqdesk/models"
)

// ─────────────────────────────────────────────
// Function-field mocks of the service layer
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerUserFn         func(ctx context.Context, user models.User, password string) (models.User, error)
	loginFn                func(ctx context.Context, email, password string) (models.User, error)
	edsLoginFn             func(ctx context.Context, signedXML string) (models.User, bool, error)
	completeRegistrationFn func(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)
	createTokenFn          func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn           func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User, password string) (models.User, error) {
	return m.registerUserFn(ctx, user, password)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	return m.loginFn(ctx, email, password)
}

func (m *mockAuthService) EDSLogin(ctx context.Context, signedXML string) (models.User, bool, error) {
	return m.edsLoginFn(ctx, signedXML)
}

func (m *mockAuthService) CompleteRegistration(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	return m.completeRegistrationFn(ctx, userID, update)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

type mockUserService struct {
	getUserFn       func(ctx context.Context, userID int64) (models.User, error)
	updateProfileFn func(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error)
	listUsersFn     func(ctx context.Context, callerRole models.UserRole, offset int, limit int) ([]models.User, error)
	createUserFn    func(ctx context.Context, callerRole models.UserRole, user models.User, password string) (models.User, error)
}

func (m *mockUserService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	return m.updateProfileFn(ctx, userID, update)
}

func (m *mockUserService) ListUsers(ctx context.Context, callerRole models.UserRole, offset int, limit int) ([]models.User, error) {
	return m.listUsersFn(ctx, callerRole, offset, limit)
}

func (m *mockUserService) CreateUser(ctx context.Context, callerRole models.UserRole, user models.User, password string) (models.User, error) {
	return m.createUserFn(ctx, callerRole, user, password)
}

type mockDepartmentService struct {
	listDepartmentsFn  func(ctx context.Context) ([]models.Department, error)
	getDepartmentFn    func(ctx context.Context, departmentID int64) (models.Department, error)
	createDepartmentFn func(ctx context.Context, callerRole models.UserRole, department models.Department) (models.Department, error)
}

func (m *mockDepartmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return m.listDepartmentsFn(ctx)
}

func (m *mockDepartmentService) GetDepartment(ctx context.Context, departmentID int64) (models.Department, error) {
	return m.getDepartmentFn(ctx, departmentID)
}

func (m *mockDepartmentService) CreateDepartment(ctx context.Context, callerRole models.UserRole, department models.Department) (models.Department, error) {
	return m.createDepartmentFn(ctx, callerRole, department)
}

type mockRequestService struct {
	createRequestFn func(ctx context.Context, caller service.Caller, request models.Request) (models.Request, error)
	getRequestFn    func(ctx context.Context, caller service.Caller, requestID int64) (models.RequestDetail, error)
	listRequestsFn  func(ctx context.Context, caller service.Caller, filter models.RequestFilter) (models.RequestList, error)
	updateRequestFn func(ctx context.Context, caller service.Caller, requestID int64, update models.RequestUpdate) (models.Request, error)
	deleteRequestFn func(ctx context.Context, caller service.Caller, requestID int64) error
}

func (m *mockRequestService) CreateRequest(ctx context.Context, caller service.Caller, request models.Request) (models.Request, error) {
	return m.createRequestFn(ctx, caller, request)
}

func (m *mockRequestService) GetRequest(ctx context.Context, caller service.Caller, requestID int64) (models.RequestDetail, error) {
	return m.getRequestFn(ctx, caller, requestID)
}

func (m *mockRequestService) ListRequests(ctx context.Context, caller service.Caller, filter models.RequestFilter) (models.RequestList, error) {
	return m.listRequestsFn(ctx, caller, filter)
}

func (m *mockRequestService) UpdateRequest(ctx context.Context, caller service.Caller, requestID int64, update models.RequestUpdate) (models.Request, error) {
	return m.updateRequestFn(ctx, caller, requestID, update)
}

func (m *mockRequestService) DeleteRequest(ctx context.Context, caller service.Caller, requestID int64) error {
	return m.deleteRequestFn(ctx, caller, requestID)
}

type mockCommentService struct {
	addCommentFn   func(ctx context.Context, caller service.Caller, comment models.Comment) (models.Comment, error)
	listCommentsFn func(ctx context.Context, caller service.Caller, requestID int64, offset, limit int) (models.CommentList, error)
}

func (m *mockCommentService) AddComment(ctx context.Context, caller service.Caller, comment models.Comment) (models.Comment, error) {
	return m.addCommentFn(ctx, caller, comment)
}

func (m *mockCommentService) ListComments(ctx context.Context, caller service.Caller, requestID int64, offset, limit int) (models.CommentList, error) {
	return m.listCommentsFn(ctx, caller, requestID, offset, limit)
}

type mockAttachmentService struct {
	uploadFn   func(ctx context.Context, caller service.Caller, attachment models.Attachment, payload io.Reader) (models.Attachment, error)
	listFn     func(ctx context.Context, caller service.Caller, requestID int64) (models.AttachmentList, error)
	downloadFn func(ctx context.Context, caller service.Caller, requestID, attachmentID int64) (models.Attachment, io.ReadCloser, error)
}

func (m *mockAttachmentService) Upload(ctx context.Context, caller service.Caller, attachment models.Attachment, payload io.Reader) (models.Attachment, error) {
	return m.uploadFn(ctx, caller, attachment, payload)
}

func (m *mockAttachmentService) List(ctx context.Context, caller service.Caller, requestID int64) (models.AttachmentList, error) {
	return m.listFn(ctx, caller, requestID)
}

func (m *mockAttachmentService) Download(ctx context.Context, caller service.Caller, requestID, attachmentID int64) (models.Attachment, io.ReadCloser, error) {
	return m.downloadFn(ctx, caller, requestID, attachmentID)
}

type mockStatisticsService struct {
	getStatisticsFn func(ctx context.Context, callerRole models.UserRole) (models.Statistics, error)
}

func (m *mockStatisticsService) GetStatistics(ctx context.Context, callerRole models.UserRole) (models.Statistics, error) {
	return m.getStatisticsFn(ctx, callerRole)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler around the given (partially populated)
// services container.
func newTestHandler(t *testing.T, services *service.Services) *Handler {
	t.Helper()
	return NewHandler(services, "test", logger.Nop())
}

// authedServices returns a Services value whose AuthService accepts the
// token "valid-token" as the given caller. Individual tests fill in the
// domain services they exercise.
func authedServices(caller service.Caller) *service.Services {
	return &service.Services{
		AuthService: &mockAuthService{
			parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
				if tokenString != "valid-token" {
					return models.Token{}, service.ErrTokenIsExpiredOrInvalid
				}
				return models.Token{
					UserID: caller.UserID,
					Claims: models.Claims{Role: caller.Role},
				}, nil
			},
		},
	}
}

// doRequest runs the request through the fully initialised router so that
// middleware and URL parameters behave as in production.
func doRequest(t *testing.T, h *Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// stubToken returns a models.Token with the given signed string.
func stubToken(signed string) models.Token {
	return models.Token{SignedString: signed}
}

var (
	testEmployee   = service.Caller{UserID: 10, Role: models.RoleEmployee}
	testSupervisor = service.Caller{UserID: 20, Role: models.RoleSupervisor}
	testAdmin      = service.Caller{UserID: 30, Role: models.RoleAdministrator}
)

// decodeJSON unmarshals the recorded response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
