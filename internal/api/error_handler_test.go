package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/weyoung/user-center/internal/core/domain"
)

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestResolveError_DomainTaxonomy(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid argument", fmt.Errorf("%w: account too short", domain.ErrInvalidArgument), http.StatusBadRequest, ""},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "account or password incorrect"},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized, "not authenticated"},
		{"no permission", domain.ErrNoPermission, http.StatusForbidden, "no permission"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"duplicate account", domain.ErrDuplicateAccount, http.StatusConflict, "account already exists"},
		{"system failure", fmt.Errorf("%w: insert: disk full", domain.ErrSystemFailure), http.StatusInternalServerError, "internal server error"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := resolveError(tc.err, zerolog.Nop(), testContext())
			if code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, code)
			}
			if tc.wantMsg != "" && msg != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, msg)
			}
		})
	}
}

// Wrapped system failures must never leak their underlying cause.
func TestResolveError_NoInternalLeak(t *testing.T) {
	_, msg := resolveError(fmt.Errorf("%w: dial tcp 10.0.0.1: refused", domain.ErrSystemFailure), zerolog.Nop(), testContext())
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestResolveError_EchoHTTPError(t *testing.T) {
	code, msg := resolveError(echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), zerolog.Nop(), testContext())
	if code != http.StatusBadRequest || msg != "invalid payload" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}
