package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/infrastructure/auth"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	ClaimsKey     = "claims"
	UserIDKey     = "user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

var errMissingToken = errors.New("missing bearer token")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional; when nil revocation is not checked
	TokenBlacklist auth.TokenBlacklist
	// OnError replaces the default 401 response
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// JWTAuthMiddleware creates JWT authentication middleware without revocation checks
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware.
// Valid claims are stored under ClaimsKey and the user ID under UserIDKey.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader(AuthHeaderKey))
		if !ok {
			handleAuthError(c, cfg, log, errMissingToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.Validate(tokenString)
		if err != nil {
			handleAuthError(c, cfg, log, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && isRevoked(c, cfg.TokenBlacklist, log, claims) {
			handleAuthError(c, cfg, log, auth.ErrTokenBlacklisted, "Token has been revoked")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// isRevoked checks the jti and the per-user invalidation timestamp.
// Backend errors are logged and the token is accepted.
func isRevoked(c *gin.Context, blacklist auth.TokenBlacklist, log *zap.Logger, claims *auth.Claims) bool {
	ctx := c.Request.Context()

	if claims.ID != "" {
		revoked, err := blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Enrich(ctx, log).Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return true
		}
	}

	revoked, err := blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		logger.Enrich(ctx, log).Error("Failed to check user session invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
		return false
	}
	return revoked
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, log *zap.Logger, err error, reason string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		c.Abort()
		return
	}

	logger.Enrich(c.Request.Context(), log).Debug("JWT authentication failed",
		zap.Error(err),
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeTokenInvalid, "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, errMissingToken):
		code, message = dto.ErrCodeUnauthorized, "Authentication required"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetClaims retrieves JWT claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID, or uuid.Nil when absent
func GetUserID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IsAdmin reports whether the authenticated user has the ADMIN role
func IsAdmin(c *gin.Context) bool {
	claims := GetClaims(c)
	return claims != nil && claims.Role == string(identity.RoleAdmin)
}
