package auth

import (
	"github.com/parfumelle/parfumelle-backend/pkg/db/models"
	"github.com/parfumelle/parfumelle-backend/pkg/enums"
	"github.com/google/uuid"
)

// RegisterRequest carries account-creation input. Role defaults to customer.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=customer seller"`
}

// LoginRequest carries credential input.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the token pair used to rotate a session.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserSummary is the public view of an account.
type UserSummary struct {
	ID       uuid.UUID      `json:"id"`
	Username string         `json:"username"`
	Role     enums.UserRole `json:"role"`
}

// AuthResponse returns a token pair plus the account it belongs to.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

func summarize(user *models.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
