// Package handler contains the gin handlers of the REST API.
package handler

import (
	"errors"
	"net/http"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	logger *zap.Logger
	// exposeDetails adds the raw error of unexpected failures to the response
	exposeDetails bool
}

// NewBaseHandler creates a BaseHandler. exposeDetails should be false in
// production.
func NewBaseHandler(log *zap.Logger, exposeDetails bool) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log, exposeDetails: exposeDetails}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the status code from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 INVALID_INPUT response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInvalidInput, message)
}

// Forbidden sends a 403 response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeForbidden, message)
}

// HandleError translates an error returned by the application layer into
// the response envelope. Domain errors keep their code; anything else is
// logged and reported as INTERNAL_ERROR.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	log := h.logger
	if log == nil {
		log = zap.NewNop()
	}
	logger.Enrich(c.Request.Context(), log).Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))

	if h.exposeDetails {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithDetails(
			dto.ErrCodeInternal, "An unexpected error occurred", err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred"))
}
