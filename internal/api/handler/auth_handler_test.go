package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/authlab/auth-backend/internal/api/middleware"
	"github.com/authlab/auth-backend/internal/core/domain"
	"github.com/authlab/auth-backend/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	updateFn     func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	deactivateFn func(ctx context.Context, id int64) error
	loginFn      func(ctx context.Context, email, password string) (*ports.AccessToken, error)
	getFn        func(ctx context.Context, id int64) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubAuthService) Deactivate(ctx context.Context, id int64) error {
	return s.deactivateFn(ctx, id)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AccessToken, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(context.Context) string { return "Logout successful" }

func (s *stubAuthService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// serve runs h and feeds a returned error through echo's default error handler.
func serve(e *echo.Echo, c echo.Context, h echo.HandlerFunc) {
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AccessToken, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AccessToken{AccessToken: "token123", TokenType: "bearer"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AccessToken, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"bad"}`), rec)

	err := handler.Login(c)
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to reach the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	for name, body := range map[string]string{
		"malformed json":   "{",
		"missing password": `{"email":"a@example.com"}`,
	} {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, email, password string) (*ports.AccessToken, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/api/login", body), rec)

			serve(e, c, NewAuthHandler(stub).Login)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/logout", nil), rec)

	if err := NewAuthHandler(&stubAuthService{}).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Logout successful") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "ann@example.com" || in.Role != domain.RoleAdmin || in.Password != "pw" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, Name: in.Name, Lastname: in.Lastname, Email: in.Email, Role: in.Role, IsActive: true, HashedPassword: "$2a$digest"}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/register",
		`{"name":"Ann","lastname":"Lee","email":"ann@example.com","role":"admin","password":"pw"}`), rec)

	if err := NewUserHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(1) || resp["email"] != "ann@example.com" || resp["is_active"] != true {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "digest") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password digest leaked: %s", rec.Body.String())
	}
}

func TestUserHandler_Register_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/register",
		`{"name":"Ann","lastname":"Lee","email":"not-an-email","role":"root","password":"pw"}`), rec)

	serve(e, c, NewUserHandler(stub).Register)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email must be a valid email") || !strings.Contains(rec.Body.String(), "role must be one of") {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
}

func TestUserHandler_Register_PasswordLimitCountsBytes(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	// 40 Cyrillic letters: 40 runes, 80 bytes.
	password := strings.Repeat("ж", 40)
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/register",
		`{"name":"Ann","lastname":"Lee","email":"ann@example.com","password":"`+password+`"}`), rec)

	serve(e, c, NewUserHandler(stub).Register)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "password must be 1-72 bytes") {
		t.Fatalf("unexpected message: %s", rec.Body.String())
	}
}

func TestUserHandler_Update_PassesOnlyPresentFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		updateFn: func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
			if id != 5 {
				t.Fatalf("unexpected id %d", id)
			}
			if patch.Email == nil || *patch.Email != "new@x.com" {
				t.Fatalf("email not passed: %+v", patch)
			}
			if patch.Name != nil || patch.Lastname != nil || patch.Role != nil || patch.IsActive != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.User{ID: 5, Email: *patch.Email, Role: domain.RoleUser, IsActive: true}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/user/5", `{"email":"new@x.com"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := NewUserHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_EmailTaken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		updateFn: func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
			return nil, domain.ErrEmailConflict
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/user/5", `{"email":"taken@x.com"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("5")

	serve(e, c, NewUserHandler(stub).Update)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestUserHandler_InvalidID(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAuthService{})

	for _, id := range []string{"abc", "0", "-3"} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/user/"+id, nil), rec)
		c.SetParamNames("id")
		c.SetParamValues(id)

		serve(e, c, h.Deactivate)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", id, rec.Code)
		}
	}
}

func TestUserHandler_Deactivate(t *testing.T) {
	e := newTestEcho()
	var got int64
	stub := &stubAuthService{
		deactivateFn: func(ctx context.Context, id int64) error {
			got = id
			return nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/user/7", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := NewUserHandler(stub).Deactivate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || got != 7 {
		t.Fatalf("unexpected response %d %q (id %d)", rec.Code, rec.Body.String(), got)
	}
}

func TestUserHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		getFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Email: "me@example.com", Role: domain.RoleUser}, nil
		},
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/me", nil), rec)
	c.Set(middleware.CtxSubject, "12")

	if err := NewUserHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":12`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandler_Me_WithoutClaims(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/me", nil), rec)

	serve(e, c, NewUserHandler(&stubAuthService{}).Me)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
