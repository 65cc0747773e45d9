package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Input error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "INVALID_TOKEN"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
)

// Account error codes
const (
	ErrCodeEmailRegistered    = "EMAIL_ALREADY_REGISTERED"
	ErrCodeEmailVerified      = "EMAIL_ALREADY_VERIFIED"
	ErrCodeInvalidResetToken  = "INVALID_RESET_TOKEN"
	ErrCodeInvalidVerifyToken = "INVALID_VERIFICATION_TOKEN"
	ErrCodeInvalidPassword    = "INVALID_PASSWORD"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodePasswordHash       = "PASSWORD_HASH_ERROR"
	ErrCodeTokenGeneration    = "TOKEN_GENERATION_ERROR"
)

// Resource and state error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInvalidTransition = "INVALID_STATUS_TRANSITION"
)

// ErrCodeRateLimited is used when a rate limit is exceeded
const ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeEmailNotVerified:   http.StatusForbidden,

	ErrCodeEmailRegistered:    http.StatusBadRequest,
	ErrCodeEmailVerified:      http.StatusBadRequest,
	ErrCodeInvalidResetToken:  http.StatusBadRequest,
	ErrCodeInvalidVerifyToken: http.StatusBadRequest,
	ErrCodeInvalidPassword:    http.StatusBadRequest,
	ErrCodeUserNotFound:       http.StatusNotFound,
	ErrCodePasswordHash:       http.StatusInternalServerError,
	ErrCodeTokenGeneration:    http.StatusInternalServerError,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code. Field level
// domain codes (INVALID_*) not listed in the table are client errors; any
// other unknown code is a server error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
