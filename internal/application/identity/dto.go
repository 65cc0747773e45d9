package identity

import (
	"time"

	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput contains the input for a token based password reset
type ResetPasswordInput struct {
	Token    string
	Password string
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// LogoutInput identifies the session token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // remaining lifetime of the token
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	Role          string     `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// ToUserInfo converts a domain user to its public view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
	}
}
