package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/bizdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// filterKind tells how a query parameter is converted into a filter value
type filterKind int

const (
	filterString filterKind = iota
	filterBool
	filterUUID
)

// filterParam maps one query parameter (and its camelCase alias) onto a
// repository filter key
type filterParam struct {
	key   string
	alias string
	kind  filterKind
}

// listParams is the set of equality filters a list endpoint accepts
type listParams []filterParam

// ownerID returns the authenticated caller. The JWT middleware guarantees a
// valid id on protected routes, so uuid.Nil means the route is misconfigured.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetUserID(c)
	if id == uuid.Nil {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeUnauthorized), dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeInvalidInput),
			dto.NewErrorResponse(dto.ErrCodeInvalidInput, "Invalid "+resource+" ID format"))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, answering 400 VALIDATION_ERROR on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// listFilter builds a repository filter from the common list query and the
// resource's equality filters
func listFilter(c *gin.Context, params listParams) (shared.Filter, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return shared.Filter{}, false
	}

	filter := shared.Filter{
		Page:     q.Page,
		PageSize: q.Size(),
		OrderBy:  q.OrderBy,
		OrderDir: strings.ToLower(q.OrderDir),
		Search:   strings.TrimSpace(q.Search),
		Filters:  make(map[string]any),
	}

	start, end := q.DateRange()
	from, err := queryDate(start)
	if err != nil {
		badQuery(c, "start_date", err)
		return shared.Filter{}, false
	}
	to, err := queryDate(end)
	if err != nil {
		badQuery(c, "end_date", err)
		return shared.Filter{}, false
	}
	if to != nil {
		eod := valueobject.EndOfDay(*to)
		to = &eod
	}
	filter.From, filter.To = from, to

	for _, p := range params {
		raw := strings.TrimSpace(c.Query(p.key))
		if raw == "" && p.alias != "" {
			raw = strings.TrimSpace(c.Query(p.alias))
		}
		if raw == "" {
			continue
		}
		switch p.kind {
		case filterBool:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				badQuery(c, p.key, err)
				return shared.Filter{}, false
			}
			filter.Filters[p.key] = v
		case filterUUID:
			v, err := uuid.Parse(raw)
			if err != nil {
				badQuery(c, p.key, err)
				return shared.Filter{}, false
			}
			filter.Filters[p.key] = v
		default:
			filter.Filters[p.key] = raw
		}
	}

	return filter.Normalize(), true
}

func queryDate(s string) (*time.Time, error) {
	return valueobject.ParseDatePtr(&s)
}

func badQuery(c *gin.Context, param string, err error) {
	c.JSON(dto.GetHTTPStatus(dto.ErrCodeValidation), dto.NewValidationErrorResponse(
		"Invalid query parameter",
		[]dto.ValidationDetail{{Field: param, Message: err.Error()}},
	))
}

// paginated sends a list page with its meta block
func paginated[T any](c *gin.Context, items []T, total int64, filter shared.Filter) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(items, total, filter.Page, filter.PageSize))
}
