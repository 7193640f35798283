package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agendafacil/auth-service/internal/api/middleware"
	"github.com/agendafacil/auth-service/internal/core/domain"
	"github.com/agendafacil/auth-service/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn   func(ctx context.Context, tokenID string, expiresAt time.Time) (string, error)
	meFn       func(ctx context.Context, userID string) (*ports.MeResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) (string, error) {
	return s.logoutFn(ctx, tokenID, expiresAt)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*ports.MeResult, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAuthService) HealthCheck() ports.HealthStatus {
	return ports.HealthStatus{Status: "ok", Timestamp: time.Now().UTC()}
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			if input.Email != "a@b.com" || input.DisplayName != "A" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.AuthResult{
				Token: "token123",
				User:  &domain.User{ID: "u1", Email: input.Email, DisplayName: input.DisplayName, Role: domain.RoleClient, IsActive: true},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@b.com","password":"longenough1","display_name":"A"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["role"] != "client" {
		t.Fatalf("expected default role client, got %v", user["role"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash serialized in response")
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in response")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	cases := map[string]string{
		"malformed email": `{"email":"not-an-email","password":"longenough1","display_name":"A"}`,
		"short password":  `{"email":"a@b.com","password":"short","display_name":"A"}`,
		"missing name":    `{"email":"a@b.com","password":"longenough1"}`,
		"bad role":        `{"email":"a@b.com","password":"longenough1","display_name":"A","role":"root"}`,
	}
	for name, body := range cases {
		c, _ := newTestContext(http.MethodPost, "/auth/register", body)
		err := h.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@b.com","password":"longenough1","display_name":"A"}`)
	if err := h.Register(c); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "a@b.com" || password != "longenough1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{Token: "token123", User: &domain.User{ID: "u1", Email: email}}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"longenough1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_EmptyPassword(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":""}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"wrongpass"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Logout_WithToken(t *testing.T) {
	var gotTokenID string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, tokenID string, expiresAt time.Time) (string, error) {
			gotTokenID = tokenID
			return "logged out", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	c.Set(middleware.CtxTokenID, "jti-9")
	c.Set(middleware.CtxTokenExp, time.Now().Add(time.Hour))

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotTokenID != "jti-9" {
		t.Fatalf("token id not forwarded: %q", gotTokenID)
	}
}

func TestAuthHandler_Logout_WithoutToken(t *testing.T) {
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, tokenID string, expiresAt time.Time) (string, error) {
			if tokenID != "" {
				t.Fatalf("expected empty token id, got %q", tokenID)
			}
			return "logged out", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_Authenticated(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, userID string) (*ports.MeResult, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &ports.MeResult{Authenticated: true, User: &domain.User{ID: "u1"}}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/auth/me", "")
	c.Set(middleware.CtxUserID, "u1")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["authenticated"] != true {
		t.Fatalf("expected authenticated true")
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, userID string) (*ports.MeResult, error) {
			return &ports.MeResult{Authenticated: false}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/auth/me", "")
	if err := h.Me(c); err != nil {
		t.Fatalf("me must not error without identity: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["authenticated"] != false {
		t.Fatalf("expected authenticated false")
	}
	if resp["user"] != nil {
		t.Fatalf("expected null user")
	}
}

func TestAuthHandler_Health(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodGet, "/auth/health", "")
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", resp["status"])
	}
	if resp["timestamp"] == nil {
		t.Fatalf("expected timestamp")
	}
}
