package auth

import (
	"time"

	"github.com/angelmondragon/shopcart-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload required to open an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AuthResponse contains the tokens and user produced by a successful register or login.
type AuthResponse struct {
	Token        string         `json:"token"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	RefreshToken string         `json:"refreshToken"`
	User         *users.UserDTO `json:"user"`
}
