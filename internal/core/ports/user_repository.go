package ports

import (
	"context"

	"github.com/identitykit/account-api/internal/core/domain"
)

// UserUpdate carries the fields a profile update may change. Empty fields are
// left untouched; PasswordHash must already be hashed by the caller.
type UserUpdate struct {
	Username     string
	Email        string
	PasswordHash string
}

// IsZero reports whether the update would change nothing.
func (u UserUpdate) IsZero() bool {
	return u.Username == "" && u.Email == "" && u.PasswordHash == ""
}

// UserRepository defines the persistence contract for identities. The store
// is required to enforce username/email uniqueness itself (unique indexes);
// the service-level existence check only improves error quality under
// concurrent registration.
//
// UpdateByID and DeleteByID return the number of affected records so the
// caller can distinguish "not found" from a no-op.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameOrEmail matches either field; email must already be
	// lowercased by the caller.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	// FindByID loads an identity with the password hash excluded.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateByID(ctx context.Context, id string, update UserUpdate) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
	// FindAll returns every identity with the password hash excluded.
	FindAll(ctx context.Context) ([]domain.User, error)
}
