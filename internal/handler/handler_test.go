package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskmaster/internal/auth"
	apperrors "taskmaster/internal/errors"
	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	return e
}

// withIdentity stands in for the bearer middleware.
func withIdentity(username string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(auth.ContextKey, auth.Identity{Username: username, Role: auth.RoleUser})
			return next(c)
		}
	}
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, owner string) ([]model.Task, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Add(ctx context.Context, owner string, in service.NewTask) (*model.Task, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, owner string, id uint) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "registered",
			body: `{"username":"bob","password":"pw123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "bob", "pw123").Return(&model.User{Username: "bob"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"user registered successfully"}`,
		},
		{
			name: "username taken",
			body: `{"username":"bob","password":"pw123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "bob", "pw123").Return(nil, apperrors.ErrUsernameTaken)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"username already exists","code":"USERNAME_TAKEN"}`,
		},
		{
			name:           "missing password",
			body:           `{"username":"bob"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"username":`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request body","code":"INVALID_REQUEST"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)
			e := newTestEcho()
			h := NewAuthHandler(zap.NewNop().Sugar(), svc)
			e.POST("/api/auth/register", h.Register)

			rec := doJSON(e, http.MethodPost, "/api/auth/register", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "token returned as JSON string",
			body: `{"username":"bob","password":"pw123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "bob", "pw123").Return("a.b.c", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"a.b.c"`,
		},
		{
			name: "bad credentials",
			body: `{"username":"bob","password":"wrong"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "bob", "wrong").Return("", apperrors.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"wrong username or password","code":"INVALID_CREDENTIALS"}`,
		},
		{
			name: "store failure hides the cause",
			body: `{"username":"bob","password":"pw123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "bob", "pw123").Return("", errors.New("dial tcp: refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)
			e := newTestEcho()
			h := NewAuthHandler(zap.NewNop().Sugar(), svc)
			e.POST("/api/auth/login", h.Login)

			rec := doJSON(e, http.MethodPost, "/api/auth/login", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_AddIgnoresClientOwner(t *testing.T) {
	svc := new(MockTaskService)
	svc.On("Add", mock.Anything, "bob", service.NewTask{Text: "buy milk", Category: "Work"}).
		Return(&model.Task{ID: 1, Text: "buy milk", Category: "Work", OwnerUsername: "bob"}, nil)

	e := newTestEcho()
	h := NewTaskHandler(zap.NewNop().Sugar(), svc)
	e.POST("/api/tasks", h.Add, withIdentity("bob"))

	rec := doJSON(e, http.MethodPost, "/api/tasks", `{"text":"buy milk","category":"Work","ownerUsername":"mallory","username":"mallory"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ownerUsername":"bob"`)
	svc.AssertExpectations(t)
}

func TestTaskHandler_AddMissingText(t *testing.T) {
	svc := new(MockTaskService)
	e := newTestEcho()
	h := NewTaskHandler(zap.NewNop().Sugar(), svc)
	e.POST("/api/tasks", h.Add, withIdentity("bob"))

	rec := doJSON(e, http.MethodPost, "/api/tasks", `{"category":"Work"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_List(t *testing.T) {
	svc := new(MockTaskService)
	svc.On("List", mock.Anything, "alice").Return([]model.Task{}, nil)

	e := newTestEcho()
	h := NewTaskHandler(zap.NewNop().Sugar(), svc)
	e.GET("/api/tasks", h.List, withIdentity("alice"))

	rec := doJSON(e, http.MethodGet, "/api/tasks", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestTaskHandler_WithoutIdentity(t *testing.T) {
	svc := new(MockTaskService)
	e := newTestEcho()
	h := NewTaskHandler(zap.NewNop().Sugar(), svc)
	e.GET("/api/tasks", h.List)

	rec := doJSON(e, http.MethodGet, "/api/tasks", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestTaskHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "deleted",
			path: "/api/tasks/7",
			setupMock: func(m *MockTaskService) {
				m.On("Delete", mock.Anything, "bob", uint(7)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"deleted"}`,
		},
		{
			name: "not found or not owned",
			path: "/api/tasks/8",
			setupMock: func(m *MockTaskService) {
				m.On("Delete", mock.Anything, "bob", uint(8)).Return(apperrors.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"task not found","code":"TASK_NOT_FOUND"}`,
		},
		{
			name:           "non-numeric id",
			path:           "/api/tasks/abc",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid task id","code":"INVALID_ID"}`,
		},
		{
			name:           "id beyond signed 64-bit range",
			path:           "/api/tasks/9223372036854775808",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid task id","code":"INVALID_ID"}`,
		},
		{
			name: "largest signed 64-bit id reaches the store",
			path: "/api/tasks/9223372036854775807",
			setupMock: func(m *MockTaskService) {
				m.On("Delete", mock.Anything, "bob", uint(9223372036854775807)).Return(apperrors.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"task not found","code":"TASK_NOT_FOUND"}`,
		},
		{
			name:           "negative id",
			path:           "/api/tasks/-1",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid task id","code":"INVALID_ID"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			tt.setupMock(svc)
			e := newTestEcho()
			h := NewTaskHandler(zap.NewNop().Sugar(), svc)
			e.DELETE("/api/tasks/:id", h.Delete, withIdentity("bob"))

			rec := doJSON(e, http.MethodDelete, tt.path, "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		checks         []Check
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "all up",
			checks:         []Check{{Name: "database", Required: true, Probe: ok}, {Name: "redis", Probe: ok}},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`,
		},
		{
			name:           "optional dependency down",
			checks:         []Check{{Name: "database", Required: true, Probe: ok}, {Name: "redis", Probe: down}},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{"database":"ok","redis":"connection refused"}}`,
		},
		{
			name:           "required dependency down",
			checks:         []Check{{Name: "database", Required: true, Probe: down}, {Name: "redis", Probe: ok}},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable","checks":{"database":"connection refused","redis":"ok"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			h := NewHealthHandler(tt.checks...)
			e.GET("/readyz", h.Readyz)

			rec := doJSON(e, http.MethodGet, "/readyz", "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}
