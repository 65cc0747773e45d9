package handler

import (
	identityapp "github.com/bizdesk/backend/internal/application/identity"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// MessageData carries a human readable confirmation
// @Description Confirmation message
type MessageData struct {
	Message string `json:"message" example:"Password reset instructions sent to your email"`
}

// SessionResponse is returned when a session is opened: the token and user
// sit at the top level next to success
// @Description Session token with the signed-in user
type SessionResponse struct {
	Success bool `json:"success"`
	identityapp.AuthResult
}
