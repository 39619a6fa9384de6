package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/model"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, mobile, password string) (*model.User, error) {
	args := m.Called(ctx, username, email, mobile, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CheckSession(ctx context.Context, token string) (*auth.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "malformed email",
			body: `{"username":"alice","email":"not-an-email","mobile":"+15551234567","password":"pw1pw1"}`,
		},
		{
			name: "malformed mobile",
			body: `{"username":"alice","email":"alice@x.com","mobile":"12345","password":"pw1pw1"}`,
		},
		{
			name: "missing password",
			body: `{"username":"alice","email":"alice@x.com","mobile":"+15551234567"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			h := NewAuthHandler(mockService)

			c, _ := newTestContext(http.MethodPost, "/api/register", tt.body)
			err := h.Register(c)

			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
			mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Register", mock.Anything, "alice", "alice@x.com", "+15551234567", "pw1pw1").
		Return(nil, errors.ErrUserAlreadyExists)
	h := NewAuthHandler(mockService)

	c, _ := newTestContext(http.MethodPost, "/api/register",
		`{"username":"alice","email":"alice@x.com","mobile":"+15551234567","password":"pw1pw1"}`)
	err := h.Register(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, "alice", "pw1pw1").
		Return("session-token", &model.User{ID: 7, Username: "alice"}, nil)
	h := NewAuthHandler(mockService)

	c, rec := newTestContext(http.MethodPost, "/api/login", `{"username":"alice","password":"pw1pw1"}`)
	err := h.Login(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookieName {
			cookie = ck
		}
	}
	assert.NotNil(t, cookie)
	assert.Equal(t, "session-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "session-token", body["token"])
	assert.Equal(t, "alice", body["username"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, "alice", "wrong").
		Return("", nil, errors.ErrInvalidCredentials)
	h := NewAuthHandler(mockService)

	c, _ := newTestContext(http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`)
	err := h.Login(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthHandler_CheckSession(t *testing.T) {
	t.Run("logged in", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("CheckSession", mock.Anything, "session-token").
			Return(&auth.Session{UserID: 7, Username: "alice"}, nil)
		h := NewAuthHandler(mockService)

		c, rec := newTestContext(http.MethodGet, "/api/check-session", "")
		c.Request().AddCookie(&http.Cookie{Name: sessionCookieName, Value: "session-token"})

		assert.NoError(t, h.CheckSession(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body SessionResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.LoggedIn)
		assert.Equal(t, "alice", body.Username)
	})

	t.Run("anonymous", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("CheckSession", mock.Anything, "").Return(nil, nil)
		h := NewAuthHandler(mockService)

		c, rec := newTestContext(http.MethodGet, "/api/check-session", "")

		assert.NoError(t, h.CheckSession(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body SessionResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.LoggedIn)
		assert.Empty(t, body.Username)
	})
}

func TestSessionToken(t *testing.T) {
	t.Run("from cookie", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request().AddCookie(&http.Cookie{Name: sessionCookieName, Value: "from-cookie"})
		assert.Equal(t, "from-cookie", SessionToken(c))
	})

	t.Run("from bearer header", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request().Header.Set(echo.HeaderAuthorization, "Bearer from-header")
		assert.Equal(t, "from-header", SessionToken(c))
	})

	t.Run("absent", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		assert.Empty(t, SessionToken(c))
	})
}
