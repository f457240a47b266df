package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rentport/accounts-api/internal/core/domain"
	"github.com/rentport/accounts-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, domain.TokenPair, error)
	loginFn          func(ctx context.Context, username, password string) (*domain.User, domain.TokenPair, error)
	getSelfFn        func(ctx context.Context, userID string) (*domain.User, error)
	updateSelfFn     func(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	changePasswordFn func(ctx context.Context, userID, currentPassword, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, domain.TokenPair, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.User, domain.TokenPair, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) GetSelf(ctx context.Context, userID string) (*domain.User, error) {
	return s.getSelfFn(ctx, userID)
}

func (s *stubAuthService) UpdateSelf(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	return s.updateSelfFn(ctx, userID, update)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, currentPassword, newPassword)
}

type stubTokenIssuer struct {
	refreshFn func(refreshToken string) (string, error)
}

func (s *stubTokenIssuer) Issue(*domain.User) (domain.TokenPair, error) {
	return domain.TokenPair{}, nil
}

func (s *stubTokenIssuer) ParseAccess(string) (*ports.AccessClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *stubTokenIssuer) Refresh(refreshToken string) (string, error) {
	return s.refreshFn(refreshToken)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, domain.TokenPair, error) {
			if in.Username != "alice" || in.Role != domain.RoleLandlord {
				t.Fatalf("unexpected input: %+v", in)
			}
			user := &domain.User{
				ID:           "u1",
				Username:     in.Username,
				Role:         in.Role,
				PasswordHash: "$2a$10$notyourbusiness",
				Active:       true,
			}
			return user, domain.TokenPair{Access: "acc", Refresh: "ref"}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenIssuer{})

	c, rec := jsonRequest(e, http.MethodPost, "/register/", `{"username":"alice","password":"secret1","role":"LANDLORD"}`)
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
	if resp["access"] != "acc" || resp["refresh"] != "ref" {
		t.Fatalf("tokens missing from response: %v", resp)
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || user["role"] != "LANDLORD" {
		t.Fatalf("unexpected user payload: %v", user)
	}
	for key := range user {
		if strings.Contains(strings.ToLower(key), "password") {
			t.Fatalf("password material leaked in response under key %q", key)
		}
	}
}

func TestAuthHandler_Register_RejectsAdminRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, domain.TokenPair, error) {
			t.Fatalf("service must not be called")
			return nil, domain.TokenPair{}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenIssuer{})

	c, _ := jsonRequest(e, http.MethodPost, "/register/", `{"username":"mallory","password":"secret1","role":"ADMIN"}`)
	err := h.Register(c)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["role"]; !ok {
		t.Fatalf("expected violation on role, got %v", verr.Fields)
	}
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, domain.TokenPair, error) {
			t.Fatalf("service must not be called")
			return nil, domain.TokenPair{}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenIssuer{})

	c, _ := jsonRequest(e, http.MethodPost, "/register/", `{"username":"bob","password":"secret1","email":"not-an-email"}`)
	err := h.Register(c)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["email"]; !ok {
		t.Fatalf("expected violation on email, got %v", verr.Fields)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, domain.TokenPair, error) {
			return nil, domain.TokenPair{}, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, &stubTokenIssuer{})

	c, _ := jsonRequest(e, http.MethodPost, "/register/", `{"username":"bob","password":"secret1"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*domain.User, domain.TokenPair, error) {
			if username != "alice" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return &domain.User{ID: "u1", Username: "alice", Role: domain.RoleTenant},
				domain.TokenPair{Access: "acc", Refresh: "ref"}, nil
		},
	}
	h := NewAuthHandler(stub, &stubTokenIssuer{})

	c, rec := jsonRequest(e, http.MethodPost, "/login/", `{"username":"alice","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"access":"acc"`) {
		t.Fatalf("access token missing: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.User, domain.TokenPair, error) {
			return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, &stubTokenIssuer{})

	c, _ := jsonRequest(e, http.MethodPost, "/login/", `{"username":"ghost","password":"whatever"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	e := newTestEcho()
	issuer := &stubTokenIssuer{
		refreshFn: func(refreshToken string) (string, error) {
			if refreshToken != "ref" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return "new-acc", nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, issuer)

	c, rec := jsonRequest(e, http.MethodPost, "/refresh/", `{"refresh":"ref"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"access":"new-acc"`) {
		t.Fatalf("new access token missing: %s", rec.Body.String())
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	e := newTestEcho()
	issuer := &stubTokenIssuer{
		refreshFn: func(string) (string, error) {
			return "", errors.New("token is expired")
		},
	}
	h := NewAuthHandler(&stubAuthService{}, issuer)

	c, _ := jsonRequest(e, http.MethodPost, "/refresh/", `{"refresh":"stale"}`)
	err := h.Refresh(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
