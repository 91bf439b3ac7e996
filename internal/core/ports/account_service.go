package ports

import (
	"context"

	"github.com/identitykit/account-api/internal/core/domain"
)

// ProfileUpdateInput carries the optional profile fields a user may change.
// Password is plaintext here; the service hashes it before persistence.
type ProfileUpdateInput struct {
	Username string
	Email    string
	Password string
}

// AccountService implements registration, login and profile management.
// Authorization (who may call ListUsers) is enforced by the access guard at
// the routing layer, not here.
type AccountService interface {
	// Register creates a new identity with the role forced to "user".
	// It returns only a confirmation; the caller must log in separately.
	Register(ctx context.Context, username, email, password string) error

	// Login authenticates by exact username and returns a session token.
	Login(ctx context.Context, username, password string) (string, error)

	// Profile returns the projection of an already-authenticated identity.
	Profile(user *domain.User) *domain.User

	// UpdateProfile applies the supplied fields to the identity and returns
	// the updated projection.
	UpdateProfile(ctx context.Context, id string, input ProfileUpdateInput) (*domain.User, error)

	// DeleteProfile removes the identity's own record.
	DeleteProfile(ctx context.Context, id string) error

	// ListUsers returns every identity, passwords excluded.
	ListUsers(ctx context.Context) ([]domain.User, error)
}
