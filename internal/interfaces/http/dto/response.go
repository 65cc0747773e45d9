package dto

import "github.com/bizdesk/backend/internal/domain/shared"

// Response represents the standard API envelope
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code" example:"NOT_FOUND"`
	Message string `json:"message" example:"Client not found"`
	Details any    `json:"details,omitempty"`
}

// ValidationDetail describes one rejected field
type ValidationDetail struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"Invalid email format"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool       `json:"success" example:"false"`
	Error   *ErrorInfo `json:"error"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta[T any](items []T, total int64, page, pageSize int) Response {
	p := shared.NewPaginated(items, total, page, pageSize)
	return Response{
		Success: true,
		Data:    p.Items,
		Meta: &Meta{
			Total:      p.Total,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response carrying details
func NewErrorResponseWithDetails(code, message string, details any) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details
	return resp
}

// NewValidationErrorResponse creates a VALIDATION_ERROR response
func NewValidationErrorResponse(message string, details []ValidationDetail) Response {
	if len(details) == 0 {
		return NewErrorResponse(ErrCodeValidation, message)
	}
	return NewErrorResponseWithDetails(ErrCodeValidation, message, details)
}

// ListQuery represents the common list/pagination query parameters.
// perPage, startDate and endDate are accepted as aliases.
type ListQuery struct {
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage      int    `form:"perPage" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search       string `form:"search" binding:"omitempty,max=200"`
	StartDate    string `form:"start_date"`
	StartDateAlt string `form:"startDate"`
	EndDate      string `form:"end_date"`
	EndDateAlt   string `form:"endDate"`
}

// Size returns the requested page size, honouring the perPage alias
func (q ListQuery) Size() int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	return q.PerPage
}

// DateRange returns the raw start and end dates, honouring the aliases
func (q ListQuery) DateRange() (start, end string) {
	start, end = q.StartDate, q.EndDate
	if start == "" {
		start = q.StartDateAlt
	}
	if end == "" {
		end = q.EndDateAlt
	}
	return start, end
}
