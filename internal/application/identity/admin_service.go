package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// AdminResult describes the outcome of EnsureAdmin
type AdminResult struct {
	User UserInfo
	// Created is false when an existing account was promoted
	Created bool
	// TemporaryPassword is set only for newly created accounts
	TemporaryPassword string
}

// AdminService creates and promotes administrator accounts
type AdminService struct {
	userRepo  identity.UserRepository
	mailer    mail.Mailer
	templates *mail.Templates
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo identity.UserRepository, mailer mail.Mailer, templates *mail.Templates, logger *zap.Logger) *AdminService {
	return &AdminService{userRepo: userRepo, mailer: mailer, templates: templates, logger: logger}
}

// EnsureAdmin promotes the account with email to ADMIN, creating it with a
// mailed temporary password when it does not exist yet
func (s *AdminService) EnsureAdmin(ctx context.Context, email, username string) (*AdminResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(email))
	switch {
	case err == nil:
		user.Promote()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("User promoted to admin", zap.String("user_id", user.ID.String()))
		return &AdminResult{User: ToUserInfo(user)}, nil
	case !errors.Is(err, identity.ErrUserNotFound):
		return nil, err
	}

	if username == "" {
		username = "admin"
	}
	password, err := TemporaryPassword(12)
	if err != nil {
		return nil, err
	}
	user, err = identity.NewUser(email, username, password)
	if err != nil {
		return nil, err
	}
	user.VerifyEmail()
	user.Promote()
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	msg, err := s.templates.TemporaryPassword(user.Email, user.Username, password)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Warn("Failed to send temporary password", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("Admin account created", zap.String("user_id", user.ID.String()))
	return &AdminResult{User: ToUserInfo(user), Created: true, TemporaryPassword: password}, nil
}

// TemporaryPassword returns a random password of n characters without
// look-alike letters
func TemporaryPassword(n int) (string, error) {
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
