package handler

// =====================
// Auth Request DTOs
// =====================

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255" example:"a@b.com"`
	Username string `json:"username" binding:"required,min=1,max=100" example:"alice"`
	Password string `json:"password" binding:"required,min=6,max=128" example:"secret123"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"a@b.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// ForgotPasswordRequest represents the request body for a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"a@b.com"`
}

// ResetPasswordRequest represents the request body for a token based reset
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6,max=128" example:"newsecret1"`
}

// ResendVerificationRequest represents the request body for a new verification mail
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email" example:"a@b.com"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}
