package ports

import "github.com/identitykit/account-api/internal/core/domain"

// TokenClaims is the identity payload embedded in a session token.
type TokenClaims struct {
	UserID   string
	Username string
	Email    string
	Role     string
}

// TokenService issues and verifies signed, time-limited session tokens.
// Tokens are stateless: validity is purely a function of signature and
// expiry, and a new token requires a fresh login.
type TokenService interface {
	// Issue builds a signed token embedding the user's id, username, email
	// and role. Returns domain.ErrTokenSecretMissing when no signing secret
	// is configured.
	Issue(user *domain.User) (string, error)

	// Verify validates signature and expiry. Returns domain.ErrTokenExpired
	// past expiry and domain.ErrTokenInvalid for anything malformed.
	Verify(token string) (*TokenClaims, error)
}
