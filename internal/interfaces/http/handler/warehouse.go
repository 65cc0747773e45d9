package handler

import (
	partnerapp "github.com/bizdesk/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse and stock endpoints
type WarehouseHandler struct {
	BaseHandler
	crud             ownedCRUD[partnerapp.CreateWarehouseRequest, partnerapp.UpdateWarehouseRequest, partnerapp.WarehouseResponse]
	warehouseService *partnerapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(base BaseHandler, warehouseService *partnerapp.WarehouseService) *WarehouseHandler {
	h := &WarehouseHandler{BaseHandler: base, warehouseService: warehouseService}
	h.crud = ownedCRUD[partnerapp.CreateWarehouseRequest, partnerapp.UpdateWarehouseRequest, partnerapp.WarehouseResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         warehouseService,
		resource:    "warehouse",
		params: listParams{
			{key: "status"},
			{key: "client_id", alias: "clientId", kind: filterUUID},
		},
	}
	return h
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateWarehouseRequest true "Warehouse data"
// @Success      201 {object} APIResponse[partnerapp.WarehouseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getWarehouseById
// @Summary      Get a warehouse by ID
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.WarehouseResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search in name, code and address"
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        client_id query string false "Client ID" format(uuid)
// @Success      200 {object} APIResponse[[]partnerapp.WarehouseResponse]
// @Security     BearerAuth
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Description  An empty client_id or responsible_person_id detaches the reference
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body partnerapp.UpdateWarehouseRequest true "Fields to change"
// @Success      200 {object} APIResponse[partnerapp.WarehouseResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteWarehouse
// @Summary      Delete a warehouse
// @Tags         warehouses
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// Stock godoc
// @ID           getWarehouseStock
// @Summary      List the stock lines of a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[[]partnerapp.StockLineResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock [get]
func (h *WarehouseHandler) Stock(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "warehouse")
	if !ok {
		return
	}
	lines, err := h.warehouseService.Stock(c.Request.Context(), owner, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// SetStock godoc
// @ID           setWarehouseStock
// @Summary      Set the quantity of a product in a warehouse
// @Description  A zero quantity removes the stock line and answers 204
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body partnerapp.SetStockRequest true "Quantity"
// @Success      200 {object} APIResponse[partnerapp.StockLineResponse]
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock/{productId} [put]
func (h *WarehouseHandler) SetStock(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "warehouse")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId", "product")
	if !ok {
		return
	}
	var req partnerapp.SetStockRequest
	if !bindJSON(c, &req) {
		return
	}
	line, err := h.warehouseService.SetStock(c.Request.Context(), owner, id, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if line == nil {
		h.NoContent(c)
		return
	}
	h.Success(c, line)
}
