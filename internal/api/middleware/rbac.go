package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/account-api/internal/api/metrics"
)

// Authorize is the second stage of the access guard. The permitted role set
// is fixed per route at registration time. It assumes Authenticate already
// ran; a missing identity or a disallowed role are both 403 — the caller is
// "known but not permitted", distinct from the guard's 401s.
func Authorize(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := IdentityFrom(c)
			if !ok {
				metrics.AuthzDenialsTotal.WithLabelValues("none").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "user not authenticated")
			}

			if _, ok := allowed[user.Role]; !ok {
				metrics.AuthzDenialsTotal.WithLabelValues(user.Role).Inc()
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("role '%s' is not authorized to access this route", user.Role))
			}

			return next(c)
		}
	}
}
