package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weyoung/user-center/internal/api/middleware"
	"github.com/weyoung/user-center/internal/core/domain"
	"github.com/weyoung/user-center/internal/core/ports"
)

// stubUserService backs the handler tests with canned behavior.
type stubUserService struct {
	registered map[string]int64
	nextID     int64
}

func newStubUserService() *stubUserService {
	return &stubUserService{registered: make(map[string]int64), nextID: 100}
}

func (s *stubUserService) Register(_ context.Context, account, password, confirm string) (int64, error) {
	if account == "" || password == "" || confirm == "" {
		return 0, fmt.Errorf("%w: blank field", domain.ErrInvalidArgument)
	}
	if _, ok := s.registered[account]; ok {
		return 0, domain.ErrDuplicateAccount
	}
	s.nextID++
	s.registered[account] = s.nextID
	return s.nextID, nil
}

func (s *stubUserService) Create(context.Context, ports.CreateUserInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) Update(context.Context, int64, ports.UpdateUserInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) Delete(context.Context, int64) error { return nil }

func (s *stubUserService) List(context.Context, int, int) ([]domain.User, int64, error) {
	return nil, 0, nil
}

// stubSessionService issues a fixed token for one known credential pair.
type stubSessionService struct {
	account  string
	password string
	user     *domain.User
	loggedIn bool
	changed  []string
}

func (s *stubSessionService) Login(_ context.Context, account, password string) (*ports.LoginResult, error) {
	if account != s.account || password != s.password {
		return nil, domain.ErrInvalidCredentials
	}
	s.loggedIn = true
	return &ports.LoginResult{Token: "tok123", User: s.user, IssuedAt: time.Now().UTC()}, nil
}

func (s *stubSessionService) ResolveCaller(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotAuthenticated
}

func (s *stubSessionService) ResolveCallerOptional(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func (s *stubSessionService) Logout(context.Context, string) error { return nil }

func (s *stubSessionService) ChangePassword(_ context.Context, _ int64, old, new string) error {
	s.changed = append(s.changed, old+"->"+new)
	return nil
}

func (s *stubSessionService) RevokeUser(context.Context, int64) error { return nil }

func newHandlerContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Created(t *testing.T) {
	h := NewAuthHandler(newStubUserService(), &stubSessionService{}, time.Hour)

	c, rec := newHandlerContext(http.MethodPost, "/auth/register",
		`{"account":"alice123","password":"password1","confirm_password":"password1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID <= 0 {
		t.Fatalf("expected positive id, got %d", resp.ID)
	}
}

func TestAuthHandler_Register_DuplicatePropagates(t *testing.T) {
	users := newStubUserService()
	h := NewAuthHandler(users, &stubSessionService{}, time.Hour)

	body := `{"account":"alice123","password":"password1","confirm_password":"password1"}`
	c, _ := newHandlerContext(http.MethodPost, "/auth/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	c, _ = newHandlerContext(http.MethodPost, "/auth/register", body)
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookieAndBody(t *testing.T) {
	alice := &domain.User{ID: 7, Account: "alice123", DisplayName: "Alice", Role: domain.RoleUser}
	sessions := &stubSessionService{account: "alice123", password: "password1", user: alice}
	h := NewAuthHandler(newStubUserService(), sessions, time.Hour)

	c, rec := newHandlerContext(http.MethodPost, "/auth/login",
		`{"account":"alice123","password":"password1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "tok123" {
		t.Fatalf("expected token in body, got %q", resp.Token)
	}
	if resp.User.ID != 7 || resp.User.Account != "alice123" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}

	cookieSet := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value == "tok123" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatalf("session cookie not written on login")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	sessions := &stubSessionService{account: "alice123", password: "password1", user: &domain.User{ID: 7}}
	h := NewAuthHandler(newStubUserService(), sessions, time.Hour)

	c, _ := newHandlerContext(http.MethodPost, "/auth/login",
		`{"account":"alice123","password":"wrongpass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me_RequiresCaller(t *testing.T) {
	h := NewAuthHandler(newStubUserService(), &stubSessionService{}, time.Hour)

	c, _ := newHandlerContext(http.MethodGet, "/auth/me", "")
	if err := h.Me(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	c, rec := newHandlerContext(http.MethodGet, "/auth/me", "")
	c.Set(middleware.CallerKey, &domain.User{ID: 7, Account: "alice123", Role: domain.RoleUser})
	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	sessions := &stubSessionService{}
	h := NewAuthHandler(newStubUserService(), sessions, time.Hour)

	c, rec := newHandlerContext(http.MethodPut, "/auth/password",
		`{"old_password":"password1","new_password":"password2"}`)
	c.Set(middleware.CallerKey, &domain.User{ID: 7, Account: "alice123", Role: domain.RoleUser})
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sessions.changed) != 1 || sessions.changed[0] != "password1->password2" {
		t.Fatalf("service not invoked as expected: %v", sessions.changed)
	}

	// Too-short new password is rejected at the schema layer.
	c, _ = newHandlerContext(http.MethodPut, "/auth/password",
		`{"old_password":"password1","new_password":"short"}`)
	c.Set(middleware.CallerKey, &domain.User{ID: 7, Role: domain.RoleUser})
	err := h.ChangePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %v", err)
	}
}
