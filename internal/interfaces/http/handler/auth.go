package handler

import (
	"net/http"
	"time"

	identityapp "github.com/bizdesk/backend/internal/application/identity"
	"github.com/bizdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(base BaseHandler, authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, authService: authService}
}

// Register godoc
// @ID           register
// @Summary      Register a new account
// @Description  Create an account, send the verification mail and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} SessionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.session(c, http.StatusCreated, result)
}

// Login godoc
// @ID           login
// @Summary      User login
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.session(c, http.StatusOK, result)
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Get current user
// @Description  Get the profile of the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ForgotPassword godoc
// @ID           forgotPassword
// @Summary      Request a password reset
// @Description  Mail a single-use reset link valid for one hour
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password reset instructions sent to your email"})
}

// ResetPassword godoc
// @ID           resetPassword
// @Summary      Reset password
// @Description  Set a new password using a reset token. Existing sessions are revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.authService.ResetPassword(c.Request.Context(), identityapp.ResetPasswordInput{
		Token:    req.Token,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password has been reset"})
}

// VerifyEmail godoc
// @ID           verifyEmail
// @Summary      Verify email address
// @Tags         auth
// @Produce      json
// @Param        token path string true "Verification token"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} dto.ErrorResponse
// @Router       /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	user, err := h.authService.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResendVerification godoc
// @ID           resendVerification
// @Summary      Resend the verification mail
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResendVerificationRequest true "Account email"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Verification email sent"})
}

// Logout godoc
// @ID           logout
// @Summary      User logout
// @Description  Revoke the presented session token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	input := identityapp.LogoutInput{UserID: userID}
	if claims := middleware.GetClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		input.TokenTTL = claims.RemainingTTL(time.Now())
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Logged out"})
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Replace the password and return a fresh token. Older sessions are revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} SessionResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.session(c, http.StatusOK, result)
}

func (h *AuthHandler) session(c *gin.Context, status int, result *identityapp.AuthResult) {
	c.JSON(status, SessionResponse{Success: true, AuthResult: *result})
}
