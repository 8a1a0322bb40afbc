package structs

import (
	"time"

	"github.com/google/uuid"
)

type ArgonParams struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

type AuthClaims struct {
	Sub   int64     `json:"sub"`
	Email string    `json:"email"`
	Role  UserRole  `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
	Jti   uuid.UUID `json:"jti"`
}

// IsAdmin reports whether the token belongs to an administrator
func (c *AuthClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// CanActFor reports whether the token holder may act on behalf of userID
func (c *AuthClaims) CanActFor(userID int64) bool {
	return c != nil && (c.Sub == userID || c.IsAdmin())
}

type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponse struct {
	User        *UserDto  `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}
