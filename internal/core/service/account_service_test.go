package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/account-api/internal/core/domain"
	"github.com/identitykit/account-api/internal/core/ports"
	"github.com/identitykit/account-api/internal/infrastructure/auth"
)

type stubUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func withoutPassword(u *domain.User) *domain.User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserConflict
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return withoutPassword(u), nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, update ports.UserUpdate) (int64, error) {
	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	for otherID, other := range r.users {
		if otherID == id {
			continue
		}
		if (update.Username != "" && other.Username == update.Username) ||
			(update.Email != "" && other.Email == update.Email) {
			return 0, domain.ErrUserTaken
		}
	}
	if update.Username != "" {
		u.Username = update.Username
	}
	if update.Email != "" {
		u.Email = update.Email
	}
	if update.PasswordHash != "" {
		u.PasswordHash = update.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) (int64, error) {
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *withoutPassword(u))
	}
	return users, nil
}

func newTestService(repo *stubUserRepo) *AccountService {
	hasher := auth.NewBcryptHasher()
	tokens := auth.NewJWTService("secret", time.Hour)
	return NewAccountService(repo, hasher, tokens, zerolog.Nop())
}

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "alice", "Alice@Example.COM", "pass123"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not lowercased: %s", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role not forced to user: %s", user.Role)
	}
	if user.PasswordHash == "pass123" || user.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}

	ok, err := auth.NewBcryptHasher().Verify("pass123", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not match password: ok=%v err=%v", ok, err)
	}
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	cases := [][3]string{
		{"", "a@b.com", "pass"},
		{"alice", "", "pass"},
		{"alice", "a@b.com", ""},
	}
	for _, tc := range cases {
		if err := svc.Register(context.Background(), tc[0], tc[1], tc[2]); !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %v, got %v", tc, err)
		}
	}
}

func TestAccountService_Register_AmbiguousConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "bob", "bob@example.com", "pass123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Same username, different email.
	errUsername := svc.Register(context.Background(), "bob", "other@example.com", "pass123")
	// Same email, different username.
	errEmail := svc.Register(context.Background(), "robert", "bob@example.com", "pass123")

	if !errors.Is(errUsername, domain.ErrUserConflict) {
		t.Fatalf("username collision: expected ErrUserConflict, got %v", errUsername)
	}
	if !errors.Is(errEmail, domain.ErrUserConflict) {
		t.Fatalf("email collision: expected ErrUserConflict, got %v", errEmail)
	}
	// The same error for both collisions is the anti-enumeration contract.
	if errUsername.Error() != errEmail.Error() {
		t.Fatalf("conflict messages differ: %q vs %q", errUsername, errEmail)
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "carol", "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims, err := auth.NewJWTService("secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Username != "carol" || claims.Email != "carol@example.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.UserID == "" {
		t.Fatalf("token missing user id claim")
	}
}

func TestAccountService_Login_AntiEnumeration(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "dave", "dave@example.com", "goodpass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassword := svc.Login(context.Background(), "dave", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "whatever")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("client-visible errors differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", ""); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAccountService_Profile_ExcludesPassword(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	user := &domain.User{ID: "user-1", Username: "erin", Email: "erin@example.com", PasswordHash: "hash", Role: domain.RoleUser}
	projection := svc.Profile(user)

	if projection.PasswordHash != "" {
		t.Fatalf("projection carries the password hash")
	}
	if user.PasswordHash != "hash" {
		t.Fatalf("Profile mutated its argument")
	}
	if projection.ID != "user-1" || projection.Username != "erin" {
		t.Fatalf("unexpected projection: %+v", projection)
	}
}

func TestAccountService_UpdateProfile_EmailOnly(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "frank", "frank@example.com", "original"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored, _ := repo.FindByUsername(context.Background(), "frank")
	originalHash := stored.PasswordHash

	updated, err := svc.UpdateProfile(context.Background(), stored.ID, ports.ProfileUpdateInput{Email: "X@Y.com"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "x@y.com" {
		t.Fatalf("email not lowercased: %s", updated.Email)
	}
	if updated.Username != "frank" {
		t.Fatalf("username changed unexpectedly: %s", updated.Username)
	}

	after, _ := repo.FindByUsername(context.Background(), "frank")
	if after.PasswordHash != originalHash {
		t.Fatalf("password hash changed on email-only update")
	}
}

func TestAccountService_UpdateProfile_ShortPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.Register(context.Background(), "grace", "grace@example.com", "longenough"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored, _ := repo.FindByUsername(context.Background(), "grace")

	_, err := svc.UpdateProfile(context.Background(), stored.ID, ports.ProfileUpdateInput{Password: "short"})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestAccountService_UpdateProfile_Conflict(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_ = svc.Register(context.Background(), "henry", "henry@example.com", "password")
	_ = svc.Register(context.Background(), "irene", "irene@example.com", "password")
	stored, _ := repo.FindByUsername(context.Background(), "irene")

	_, err := svc.UpdateProfile(context.Background(), stored.ID, ports.ProfileUpdateInput{Username: "henry"})
	if !errors.Is(err, domain.ErrUserTaken) {
		t.Fatalf("expected ErrUserTaken, got %v", err)
	}
}

func TestAccountService_UpdateProfile_Vanished(t *testing.T) {
	svc := newTestService(newStubUserRepo())

	_, err := svc.UpdateProfile(context.Background(), "gone", ports.ProfileUpdateInput{Username: "new"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_UpdateProfile_NoFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_ = svc.Register(context.Background(), "judy", "judy@example.com", "password")
	stored, _ := repo.FindByUsername(context.Background(), "judy")

	if _, err := svc.UpdateProfile(context.Background(), stored.ID, ports.ProfileUpdateInput{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for empty update, got %v", err)
	}
}

func TestAccountService_DeleteProfile_Twice(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_ = svc.Register(context.Background(), "kate", "kate@example.com", "password")
	stored, _ := repo.FindByUsername(context.Background(), "kate")

	if err := svc.DeleteProfile(context.Background(), stored.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.DeleteProfile(context.Background(), stored.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_ListUsers_ExcludesPasswords(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	_ = svc.Register(context.Background(), "leo", "leo@example.com", "password")
	_ = svc.Register(context.Background(), "mia", "mia@example.com", "password")

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("user %s carries a password hash", u.Username)
		}
	}
}
