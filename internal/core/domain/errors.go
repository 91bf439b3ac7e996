package domain

import "errors"

// Client-facing errors. The HTTP error handler maps each sentinel to a fixed
// status code and message, so services and middleware return these instead of
// building responses themselves.
var (
	// ErrMissingFields is returned when a required request field is absent.
	ErrMissingFields = errors.New("all fields are required")

	// ErrPasswordTooShort rejects profile updates with a password under the
	// minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")

	// ErrUserConflict is the deliberately ambiguous registration conflict:
	// it never reveals whether the username or the email collided.
	ErrUserConflict = errors.New("username or email is already registered")

	// ErrUserTaken is the profile-update counterpart of ErrUserConflict.
	ErrUserTaken = errors.New("username or email is already in use")

	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// logins so the response cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound signals that an id no longer resolves to a record.
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenExpired and ErrTokenInvalid are distinct so the access guard
	// can tell the client which happened; both still map to 401.
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Internal errors. These map to a generic 500 response; the real cause is
// only ever logged server-side.
var (
	ErrTokenSecretMissing = errors.New("token signing secret is not configured")
	ErrHashing            = errors.New("failed to hash password")
	ErrVerification       = errors.New("failed to verify password")
)
