package handler

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ownedService is the application service shape shared by every owner
// scoped resource
type ownedService[C, U, R any] interface {
	Create(ctx context.Context, ownerID uuid.UUID, req C) (*R, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*R, error)
	List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]R, int64, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, req U) (*R, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// ownedCRUD implements the five CRUD endpoints on top of an ownedService.
// The owner always comes from the token, never from the request body.
type ownedCRUD[C, U, R any] struct {
	*BaseHandler
	svc      ownedService[C, U, R]
	resource string
	params   listParams
}

func (h ownedCRUD[C, U, R]) create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req C
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func (h ownedCRUD[C, U, R]) get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", h.resource)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h ownedCRUD[C, U, R]) list(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c, h.params)
	if !ok {
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), owner, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, items, total, filter)
}

func (h ownedCRUD[C, U, R]) update(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", h.resource)
	if !ok {
		return
	}
	var req U
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), owner, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h ownedCRUD[C, U, R]) delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", h.resource)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), owner, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// statusChanger is implemented by services whose records follow a lifecycle
type statusChanger[S, R any] interface {
	ChangeStatus(ctx context.Context, ownerID, id uuid.UUID, req S) (*R, error)
}

func changeStatus[S, R any](h *BaseHandler, c *gin.Context, svc statusChanger[S, R], resource string) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", resource)
	if !ok {
		return
	}
	var req S
	if !bindJSON(c, &req) {
		return
	}
	resp, err := svc.ChangeStatus(c.Request.Context(), owner, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
