package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/boundary"
)

// UserRegisterRequest payload.
type UserRegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

// UserLoginRequest payload.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse includes issued token info.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse pairs the user record with a session token.
type LoginResponse struct {
	User *boundary.UserRecord `json:"user"`
	Auth AuthResponse         `json:"auth"`
}
