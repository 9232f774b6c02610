package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weyoung/user-center/internal/core/domain"
	"github.com/weyoung/user-center/internal/core/ports"
)

// CallerKey is the echo context key under which the resolved caller is
// stored by Auth and OptionalAuth.
const CallerKey = "caller"

// SessionCookie is the cookie-equivalent token carrier; the Authorization
// header takes precedence when both are present.
const SessionCookie = "uc_session"

// ExtractToken pulls the session token from the request: a bearer
// Authorization header first, the session cookie as fallback.
func ExtractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth resolves the caller through the session manager and injects the
// current user record into the request context. Resolution always re-reads
// the user row, so a mid-session ban or demotion is visible immediately.
func Auth(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := sessions.ResolveCaller(c.Request().Context(), ExtractToken(c))
			if err != nil {
				return err
			}
			c.Set(CallerKey, user)
			return next(c)
		}
	}
}

// OptionalAuth is Auth for routes that tolerate anonymous callers: when no
// valid session exists the request proceeds without a caller in context.
func OptionalAuth(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := sessions.ResolveCallerOptional(c.Request().Context(), ExtractToken(c))
			if err != nil {
				return err
			}
			if user != nil {
				c.Set(CallerKey, user)
			}
			return next(c)
		}
	}
}

// Caller returns the user injected by Auth, or nil when absent.
func Caller(c echo.Context) *domain.User {
	user, _ := c.Get(CallerKey).(*domain.User)
	return user
}
