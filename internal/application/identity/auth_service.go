package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/infrastructure/auth"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/mail"
	"github.com/bizdesk/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	RequireEmailVerification bool
	AutoVerifyEmail          bool
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	mailer     mail.Mailer
	templates  *mail.Templates
	metrics    *telemetry.Metrics
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer mail.Mailer,
	templates *mail.Templates,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		mailer:     mailer,
		templates:  templates,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// WithMetrics records auth outcomes on m
func (s *AuthService) WithMetrics(m *telemetry.Metrics) *AuthService {
	s.metrics = m
	return s
}

// Register creates an account and signs the user in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := identity.NormalizeEmail(input.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		s.metrics.RecordAuth(ctx, "register", false)
		return nil, identity.ErrEmailTaken
	}

	user, err := identity.NewUser(email, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	if s.config.AutoVerifyEmail {
		user.VerifyEmail()
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.metrics.RecordAuth(ctx, "register", false)
		return nil, err
	}

	if !user.EmailVerified && user.VerificationToken != nil {
		if err := s.sendVerification(ctx, user); err != nil {
			// The account exists; the user can ask for a new link later.
			logger.Enrich(ctx, s.logger).Warn("Failed to send verification email",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuth(ctx, "register", true)
	logger.Enrich(ctx, s.logger).Info("User registered", zap.String("user_id", user.ID.String()))
	return result, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	log := logger.Enrich(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			s.metrics.RecordAuth(ctx, "login", false)
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		s.metrics.RecordAuth(ctx, "login", false)
		return nil, identity.ErrInvalidCredentials
	}
	if s.config.RequireEmailVerification && !user.EmailVerified {
		s.metrics.RecordAuth(ctx, "login", false)
		return nil, identity.ErrEmailNotVerified
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Error("Failed to update user after successful login", zap.Error(err))
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuth(ctx, "login", true)
	log.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	return result, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// ForgotPassword issues a reset token and mails it to the user
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return err
	}
	token, err := user.IssueResetToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	msg, err := s.templates.PasswordReset(user.Email, user.Username, token)
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword sets a new password using a reset token and signs out every
// existing session of the user
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.userRepo.FindByResetToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			s.metrics.RecordAuth(ctx, "reset_password", false)
			return identity.ErrInvalidResetToken
		}
		return err
	}
	if err := user.ResetPassword(input.Token, input.Password, s.now()); err != nil {
		s.metrics.RecordAuth(ctx, "reset_password", false)
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.jwtService.Expiration()); err != nil {
		return err
	}
	s.metrics.RecordAuth(ctx, "reset_password", true)
	logger.Enrich(ctx, s.logger).Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// VerifyEmail confirms an address using the token sent at registration
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*UserInfo, error) {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, identity.ErrInvalidVerifyToken
		}
		return nil, err
	}
	if !user.VerificationTokenValid(token, s.now()) {
		return nil, identity.ErrInvalidVerifyToken
	}
	user.VerifyEmail()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// ResendVerification issues a fresh verification token and mails it
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return identity.ErrEmailAlreadyVerified
	}
	if _, err := user.IssueVerificationToken(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.sendVerification(ctx, user); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// Logout revokes the presented session token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("User logout", zap.String("user_id", input.UserID.String()))
	return nil
}

// ChangePassword replaces the password after checking the current one. Older
// sessions are revoked and a fresh token is returned.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return nil, err
	}
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.jwtService.Expiration()); err != nil {
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info("User password changed", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *AuthService) sendVerification(ctx context.Context, user *identity.User) error {
	msg, err := s.templates.Verification(user.Email, user.Username, *user.VerificationToken)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	token, err := s.jwtService.Generate(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, err
	}
	return &AuthResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserInfo(user),
	}, nil
}
