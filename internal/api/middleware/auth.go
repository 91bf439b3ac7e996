package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/account-api/internal/api/metrics"
	"github.com/identitykit/account-api/internal/core/domain"
	"github.com/identitykit/account-api/internal/core/ports"
)

// Authenticate is the first stage of the access guard. It requires a bearer
// token, verifies it, reloads the identity by the token's id claim (password
// excluded), and attaches the identity to the request context. Every failure
// here is a 401: the caller is "not known".
func Authenticate(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenExpired.Error())
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			// The token may outlive the account; a valid signature alone is
			// not proof the identity still exists.
			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUserNotFound.Error())
				}
				return err
			}

			SetIdentity(c, user)
			return next(c)
		}
	}
}
