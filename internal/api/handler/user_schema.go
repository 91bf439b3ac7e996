package handler

import "github.com/identitykit/account-api/internal/core/domain"

// messageResponse is the envelope for confirmations and, via the central
// error handler, for all error responses.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateProfileRequest fields are each independently optional; absent fields
// are left untouched. Password length is checked by the service so the rule
// lives next to the hashing it gates.
type updateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,max=32"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Response types ---

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// profileResponse is the identity projection: never includes the password.
type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type updateProfileResponse struct {
	Message string          `json:"message"`
	User    profileResponse `json:"user"`
}

type listUsersResponse struct {
	Count int           `json:"count"`
	Users []domain.User `json:"users"`
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
