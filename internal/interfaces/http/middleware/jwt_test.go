package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/infrastructure/auth"
	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: expiration,
		Issuer:     "test-issuer",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, role string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := svc.Generate(auth.Subject{UserID: userID, Email: "a@b.com", Role: role})
	require.NoError(t, err)
	return token.Value, userID
}

func jwtRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetUserID(c).String(),
			"ctx_user_id": logger.UserID(c.Request.Context()),
			"admin":       IsAdmin(c),
		})
	})
	return router
}

func serveWithToken(router http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	token, userID := newTestToken(t, svc, "ADMIN")

	rec := serveWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), BearerPrefix+token)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, userID.String(), body["ctx_user_id"])
	assert.Equal(t, true, body["admin"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	expired, _ := newTestToken(t, newTestJWTService(-time.Hour), "USER")
	foreign, _ := newTestToken(t, auth.NewJWTService(config.JWTConfig{
		Secret:     "another-secret-key-at-least-32-chars",
		Expiration: time.Hour,
	}), "USER")

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer invalid-token", dto.ErrCodeTokenInvalid},
		{"wrong signature", BearerPrefix + foreign, dto.ErrCodeTokenInvalid},
		{"expired token", BearerPrefix + expired, dto.ErrCodeTokenExpired},
	}

	router := jwtRouter(JWTMiddlewareConfig{JWTService: svc})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithToken(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(time.Hour)
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := jwtRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})

	token, _ := newTestToken(t, svc, "USER")
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, serveWithToken(router, BearerPrefix+token).Code)

	require.NoError(t, blacklist.Revoke(ctx, claims.ID, time.Hour))
	rec := serveWithToken(router, BearerPrefix+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))
}

func TestJWTAuthMiddleware_UserSessionsInvalidated(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(time.Hour)
	blacklist := auth.NewInMemoryTokenBlacklist()
	router := jwtRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})

	token, userID := newTestToken(t, svc, "USER")
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, blacklist.RevokeUser(ctx, userID.String(), time.Hour))

	rec := serveWithToken(router, BearerPrefix+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))

	time.Sleep(5 * time.Millisecond)
	fresh, err := svc.Generate(auth.Subject{UserID: userID, Role: "USER"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, serveWithToken(router, BearerPrefix+fresh.Value).Code)
}

type failingBlacklist struct{ auth.TokenBlacklist }

func (failingBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingBlacklist) IsUserRevoked(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuthMiddleware_BlacklistFailureFailsOpen(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	token, _ := newTestToken(t, svc, "USER")

	rec := serveWithToken(jwtRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: failingBlacklist{}}), BearerPrefix+token)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	var got error
	router := jwtRouter(JWTMiddlewareConfig{
		JWTService: svc,
		OnError: func(c *gin.Context, err error) {
			got = err
			c.JSON(http.StatusForbidden, gin.H{"custom": true})
		},
	})

	rec := serveWithToken(router, "Bearer nope")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.ErrorIs(t, got, auth.ErrInvalidToken)
}

func TestContextHelpers_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetClaims(c))
	assert.Equal(t, uuid.Nil, GetUserID(c))
	assert.False(t, IsAdmin(c))

	c.Set(UserIDKey, "not-a-uuid")
	assert.Equal(t, uuid.Nil, GetUserID(c))
}
