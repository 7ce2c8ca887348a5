package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workzen/internal/auth"
	autherrors "workzen/internal/auth/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (auth.TokenPair, auth.AuthResponse, error)
	refreshFn  func(ctx context.Context, token string) (auth.TokenPair, auth.AuthResponse, error)
	getMeFn    func(ctx context.Context, companyID, userID string) (auth.AuthResponse, error)
	registerFn func(ctx context.Context, companyID string, req auth.RegisterRequest) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (auth.TokenPair, auth.AuthResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) RefreshToken(ctx context.Context, token string) (auth.TokenPair, auth.AuthResponse, error) {
	return f.refreshFn(ctx, token)
}
func (f *fakeAuthService) GetMe(ctx context.Context, companyID, userID string) (auth.AuthResponse, error) {
	return f.getMeFn(ctx, companyID, userID)
}
func (f *fakeAuthService) Register(ctx context.Context, companyID string, req auth.RegisterRequest) (auth.AuthResponse, error) {
	return f.registerFn(ctx, companyID, req)
}
func (f *fakeAuthService) EnsureAdmin(ctx context.Context, companyID, email, password string) error {
	return nil
}

func setupAuthRouter(h *auth.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/refresh", h.RefreshToken)
	r.POST("/logout", h.Logout)
	return r
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandler_Login(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(ctx context.Context, email, password string) (auth.TokenPair, auth.AuthResponse, error) {
			if password != "password123" {
				return auth.TokenPair{}, auth.AuthResponse{}, autherrors.ErrInvalidCredentials
			}
			return auth.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"},
				auth.AuthResponse{ID: "user-1", Email: email, Role: "HR"}, nil
		},
	}
	router := setupAuthRouter(auth.NewHandler(svc, true))

	t.Run("web client gets cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@workzen.test","password":"password123"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "WEB")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		access := cookieNamed(w, "access_token")
		if assert.NotNil(t, access) {
			assert.Equal(t, "access-token", access.Value)
			assert.True(t, access.HttpOnly)
			assert.True(t, access.Secure)
		}
		assert.NotNil(t, cookieNamed(w, "refresh_token"))
	})

	t.Run("mobile client gets body only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@workzen.test","password":"password123"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "MOBILE")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, cookieNamed(w, "access_token"))
		assert.Contains(t, w.Body.String(), `"access_token":"access-token"`)
	})

	t.Run("bad credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@workzen.test","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"not-an-email"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestHandler_RefreshToken(t *testing.T) {
	svc := &fakeAuthService{
		refreshFn: func(ctx context.Context, token string) (auth.TokenPair, auth.AuthResponse, error) {
			if token != "refresh-token" {
				return auth.TokenPair{}, auth.AuthResponse{}, autherrors.ErrInvalidRefreshToken
			}
			return auth.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, auth.AuthResponse{ID: "user-1"}, nil
		},
	}
	router := setupAuthRouter(auth.NewHandler(svc, false))

	t.Run("web uses cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("X-Client-Type", "WEB")
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh-token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		if c := cookieNamed(w, "refresh_token"); assert.NotNil(t, c) {
			assert.Equal(t, "r2", c.Value)
		}
	})

	t.Run("web without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("X-Client-Type", "WEB")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("api uses body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"stale"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "API")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	router := setupAuthRouter(auth.NewHandler(&fakeAuthService{}, false))
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	if c := cookieNamed(w, "access_token"); assert.NotNil(t, c) {
		assert.Equal(t, "", c.Value)
		assert.True(t, c.MaxAge < 0)
	}
}

func TestHandler_Register(t *testing.T) {
	svc := &fakeAuthService{
		registerFn: func(ctx context.Context, companyID string, req auth.RegisterRequest) (auth.AuthResponse, error) {
			assert.Equal(t, "company-1", companyID)
			return auth.AuthResponse{ID: "user-2", Email: req.Email, Role: req.Role}, nil
		},
	}
	h := auth.NewHandler(svc, false)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"employee_id":"6f1c2d4e-8a57-4b3c-9e21-0d7f5a6b8c9d","email":"new@workzen.test","password":"password123","role":"EMPLOYEE"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("company_id", "company-1")

	h.Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "user-2")
}
