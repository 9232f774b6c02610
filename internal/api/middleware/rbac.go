package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/weyoung/user-center/internal/api/metrics"
	"github.com/weyoung/user-center/internal/core/domain"
)

// RequireRole is the access control gate. It must run after Auth: an
// unresolved caller is a 401 outcome, distinct from the 403 returned when
// the caller's role does not satisfy the requirement. The decision comes
// from the closed role table: unknown required roles and ban as a
// requirement qualify nobody.
func RequireRole(required domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := Caller(c)
			if caller == nil {
				metrics.AccessDeniedTotal.WithLabelValues("not_authenticated").Inc()
				return domain.ErrNotAuthenticated
			}
			if required == "" {
				return next(c)
			}
			if !caller.Role.Satisfies(required) {
				metrics.AccessDeniedTotal.WithLabelValues("no_permission").Inc()
				return domain.ErrNoPermission
			}
			return next(c)
		}
	}
}
