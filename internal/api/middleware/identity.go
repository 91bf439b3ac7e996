package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/identitykit/account-api/internal/core/domain"
)

// identityKey is the context key under which Authenticate stores the loaded
// identity. Downstream stages and handlers must go through SetIdentity and
// IdentityFrom rather than touching the raw context value.
const identityKey = "auth.identity"

// SetIdentity attaches the authenticated identity to the request context.
func SetIdentity(c echo.Context, user *domain.User) {
	c.Set(identityKey, user)
}

// IdentityFrom returns the identity attached by Authenticate, if any.
func IdentityFrom(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(identityKey).(*domain.User)
	return user, ok && user != nil
}
