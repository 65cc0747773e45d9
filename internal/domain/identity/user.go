package identity

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level of a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Password cost for bcrypt
const bcryptCost = 12

// Token lifetimes
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = time.Hour
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an account that owns business records
type User struct {
	shared.BaseEntity
	Email             string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Username          string     `gorm:"type:varchar(100);not null"`
	PasswordHash      string     `gorm:"type:varchar(255);not null"`
	Role              Role       `gorm:"type:varchar(20);not null;default:'USER'"`
	EmailVerified     bool       `gorm:"not null;default:false"`
	VerificationToken *string    `gorm:"type:varchar(128);index"`
	TokenExpires      *time.Time
	ResetToken        *string `gorm:"type:varchar(128);index"`
	ResetTokenExpires *time.Time
	PasswordChangedAt *time.Time
	LastLoginAt       *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with a hashed password and a pending verification token
func NewUser(email, username, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	user := &User{
		BaseEntity:        shared.NewBaseEntity(),
		Email:             email,
		Username:          strings.TrimSpace(username),
		PasswordHash:      passwordHash,
		Role:              RoleUser,
		PasswordChangedAt: &now,
	}
	if _, err := user.IssueVerificationToken(); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueVerificationToken generates a fresh email verification token
func (u *User) IssueVerificationToken() (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token")
	}
	expires := time.Now().Add(VerificationTokenTTL)
	u.VerificationToken = &token
	u.TokenExpires = &expires
	u.Touch()
	return token, nil
}

// VerifyEmail marks the email verified and clears the verification token
func (u *User) VerifyEmail() {
	u.EmailVerified = true
	u.VerificationToken = nil
	u.TokenExpires = nil
	u.Touch()
}

// IssueResetToken generates a password reset token valid for ResetTokenTTL
func (u *User) IssueResetToken() (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate token")
	}
	expires := time.Now().Add(ResetTokenTTL)
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	u.Touch()
	return token, nil
}

// ResetPassword replaces the password using a reset token. The token is
// consumed on success so it cannot be used twice.
func (u *User) ResetPassword(token, newPassword string, now time.Time) error {
	if u.ResetToken == nil || *u.ResetToken != token ||
		u.ResetTokenExpires == nil || !now.Before(*u.ResetTokenExpires) {
		return ErrInvalidResetToken
	}
	if err := u.SetPassword(newPassword); err != nil {
		return err
	}
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	return nil
}

// ChangePassword changes the user's password
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &now
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// Promote grants the admin role
func (u *User) Promote() {
	u.Role = RoleAdmin
	u.Touch()
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// VerificationTokenValid reports whether token matches the pending, unexpired verification token
func (u *User) VerificationTokenValid(token string, now time.Time) bool {
	return u.VerificationToken != nil && *u.VerificationToken == token &&
		u.TokenExpires != nil && now.Before(*u.TokenExpires)
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateToken returns 32 random bytes, hex encoded
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Identity errors
var (
	ErrEmailTaken           = shared.NewDomainError("EMAIL_ALREADY_REGISTERED", "Email already registered")
	ErrInvalidCredentials   = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailNotVerified     = shared.NewDomainError("EMAIL_NOT_VERIFIED", "Please verify your email before logging in")
	ErrEmailAlreadyVerified = shared.NewDomainError("EMAIL_ALREADY_VERIFIED", "Email is already verified")
	ErrInvalidResetToken    = shared.NewDomainError("INVALID_RESET_TOKEN", "Invalid or expired reset token")
	ErrInvalidVerifyToken   = shared.NewDomainError("INVALID_VERIFICATION_TOKEN", "Invalid or expired verification token")
	ErrUserNotFound         = shared.NewDomainError("USER_NOT_FOUND", "User not found")
)

// Validation functions

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
