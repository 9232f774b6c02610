package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/weyoung/user-center/internal/core/domain"
)

func gateContext(caller *domain.User) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(CallerKey, caller)
	}
	return c
}

func runGate(t *testing.T, required domain.Role, caller *domain.User) (called bool, err error) {
	t.Helper()
	handler := RequireRole(required)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err = handler(gateContext(caller))
	return called, err
}

func TestRequireRole_UnauthenticatedBeforeRoleComparison(t *testing.T) {
	called, err := runGate(t, domain.RoleAdmin, nil)
	if called {
		t.Fatalf("handler must not run for anonymous caller")
	}
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestRequireRole_Matrix(t *testing.T) {
	cases := []struct {
		name     string
		required domain.Role
		caller   domain.Role
		allow    bool
	}{
		{"user passes user gate", domain.RoleUser, domain.RoleUser, true},
		{"admin passes user gate", domain.RoleUser, domain.RoleAdmin, true},
		{"ban denied at user gate", domain.RoleUser, domain.RoleBan, false},
		{"user denied at admin gate", domain.RoleAdmin, domain.RoleUser, false},
		{"admin passes admin gate", domain.RoleAdmin, domain.RoleAdmin, true},
		{"ban denied at admin gate", domain.RoleAdmin, domain.RoleBan, false},
		{"nobody passes a ban gate", domain.RoleBan, domain.RoleAdmin, false},
		{"unknown requirement denies everyone", domain.Role("superuser"), domain.RoleAdmin, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called, err := runGate(t, tc.required, &domain.User{ID: 1, Account: "alice123", Role: tc.caller})
			if tc.allow {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				if !called {
					t.Fatalf("next handler not called")
				}
				return
			}
			if called {
				t.Fatalf("handler must not run on denial")
			}
			if !errors.Is(err, domain.ErrNoPermission) {
				t.Fatalf("expected ErrNoPermission, got %v", err)
			}
		})
	}
}

func TestRequireRole_NoRequirementAllowsAnyAuthenticated(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleBan} {
		called, err := runGate(t, "", &domain.User{ID: 1, Role: role})
		if err != nil || !called {
			t.Fatalf("role %s: expected pass-through, called=%v err=%v", role, called, err)
		}
	}
}
