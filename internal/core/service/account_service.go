package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/account-api/internal/api/metrics"
	"github.com/identitykit/account-api/internal/core/domain"
	"github.com/identitykit/account-api/internal/core/ports"
)

const minPasswordLen = 6

// AccountService implements registration, login and profile management on
// top of a user repository, a password hasher and a token service.
type AccountService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger
}

func NewAccountService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a new identity. The role is always "user"; it can never be
// supplied by the caller. The uniqueness pre-check and the store's duplicate
// rejection both surface the same ambiguous conflict error so the response
// never reveals which of username or email collided.
func (s *AccountService) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return domain.ErrMissingFields
	}

	email = strings.ToLower(email)

	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return domain.ErrUserConflict
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique indexes are the real duplicate guard; a concurrent
	// registration that slipped past the pre-check is rejected here.
	if _, err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return nil
}

// Login authenticates by exact username and returns a fresh session token.
// Unknown usernames and wrong passwords produce the identical client-facing
// error; only the server-side log distinguishes them.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrMissingFields
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("username", username).Str("reason", "unknown_username").Msg("login rejected")
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		s.log.Info().Str("username", username).Str("reason", "password_mismatch").Msg("login rejected")
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

// Profile returns the read-only projection of an authenticated identity.
func (s *AccountService) Profile(user *domain.User) *domain.User {
	projection := *user
	projection.PasswordHash = ""
	return &projection
}

// UpdateProfile applies the supplied fields; each is independently optional.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, input ports.ProfileUpdateInput) (*domain.User, error) {
	update := ports.UserUpdate{Username: input.Username}

	if input.Email != "" {
		update.Email = strings.ToLower(input.Email)
	}

	if input.Password != "" {
		if len(input.Password) < minPasswordLen {
			return nil, domain.ErrPasswordTooShort
		}
		hash, err := s.hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = hash
	}

	if update.IsZero() {
		return nil, domain.ErrUserNotFound
	}

	affected, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrUserNotFound
	}

	return s.repo.FindByID(ctx, id)
}

// DeleteProfile removes the identity's own record.
func (s *AccountService) DeleteProfile(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListUsers returns every identity, passwords excluded by the repository.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *AccountService) hashPassword(plain string) (string, error) {
	start := time.Now()
	hash, err := s.hasher.Hash(plain)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	return hash, err
}
