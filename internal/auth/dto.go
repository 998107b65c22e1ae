package auth

import (
	"github.com/softsellhq/softsell-backend/internal/users"
)

// RegisterRequest captures the payload required for onboarding a new account.
type RegisterRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	Role          string  `json:"role" validate:"required,oneof=user seller"`
	ContactNumber *string `json:"contact_number,omitempty"`
	QRCodeBase64  *string `json:"qr_code_base64,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the expired access token plus the refresh token to rotate.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest holds the mutable profile fields. Role is not among them.
type UpdateProfileRequest struct {
	Name          *string `json:"name,omitempty"`
	ContactNumber *string `json:"contact_number,omitempty"`
	Password      *string `json:"password,omitempty" validate:"omitempty,min=8"`
	QRCodeBase64  *string `json:"qr_code_base64,omitempty"`
}

// AuthResponse contains the tokens and user produced by a successful login or refresh.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
