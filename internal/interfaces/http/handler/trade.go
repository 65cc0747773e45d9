package handler

import (
	tradeapp "github.com/bizdesk/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// documentParams are the list filters of sales and purchases
var documentParams = listParams{
	{key: "client_id", alias: "clientId", kind: filterUUID},
	{key: "warehouse_id", alias: "warehouseId", kind: filterUUID},
	{key: "status"},
}

// SaleHandler handles sale document endpoints
type SaleHandler struct {
	BaseHandler
	crud        ownedCRUD[tradeapp.CreateSaleRequest, tradeapp.UpdateSaleRequest, tradeapp.SaleResponse]
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(base BaseHandler, saleService *tradeapp.SaleService) *SaleHandler {
	h := &SaleHandler{BaseHandler: base, saleService: saleService}
	h.crud = ownedCRUD[tradeapp.CreateSaleRequest, tradeapp.UpdateSaleRequest, tradeapp.SaleResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         saleService,
		resource:    "sale",
		params:      documentParams,
	}
	return h
}

// Create godoc
// @ID           createSale
// @Summary      Create a sale
// @Description  Client and warehouse must belong to the caller
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSaleRequest true "Sale document"
// @Success      201 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getSaleById
// @Summary      Get a sale by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search in document and invoice numbers"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, confirmed, completed, cancelled)
// @Param        start_date query string false "Earliest document date (YYYY-MM-DD)"
// @Param        end_date query string false "Latest document date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]tradeapp.SaleResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateSale
// @Summary      Update a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body tradeapp.UpdateSaleRequest true "Fields to change"
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [put]
func (h *SaleHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteSale
// @Summary      Delete a sale
// @Tags         sales
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SaleHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// ChangeStatus godoc
// @ID           changeSaleStatus
// @Summary      Change the status of a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body tradeapp.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[tradeapp.SaleResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/status [patch]
func (h *SaleHandler) ChangeStatus(c *gin.Context) {
	changeStatus[tradeapp.ChangeStatusRequest, tradeapp.SaleResponse](&h.BaseHandler, c, h.saleService, "sale")
}

// PurchaseHandler handles purchase document endpoints
type PurchaseHandler struct {
	BaseHandler
	crud            ownedCRUD[tradeapp.CreatePurchaseRequest, tradeapp.UpdatePurchaseRequest, tradeapp.PurchaseResponse]
	purchaseService *tradeapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(base BaseHandler, purchaseService *tradeapp.PurchaseService) *PurchaseHandler {
	h := &PurchaseHandler{BaseHandler: base, purchaseService: purchaseService}
	h.crud = ownedCRUD[tradeapp.CreatePurchaseRequest, tradeapp.UpdatePurchaseRequest, tradeapp.PurchaseResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         purchaseService,
		resource:    "purchase",
		params:      documentParams,
	}
	return h
}

// Create godoc
// @ID           createPurchase
// @Summary      Create a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseRequest true "Purchase document"
// @Success      201 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getPurchaseById
// @Summary      Get a purchase by ID
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listPurchases
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, confirmed, completed, cancelled)
// @Param        start_date query string false "Earliest document date (YYYY-MM-DD)"
// @Param        end_date query string false "Latest document date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]tradeapp.PurchaseResponse]
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updatePurchase
// @Summary      Update a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        request body tradeapp.UpdatePurchaseRequest true "Fields to change"
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id} [put]
func (h *PurchaseHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deletePurchase
// @Summary      Delete a purchase
// @Tags         purchases
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// ChangeStatus godoc
// @ID           changePurchaseStatus
// @Summary      Change the status of a purchase
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Param        request body tradeapp.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[tradeapp.PurchaseResponse]
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /purchases/{id}/status [patch]
func (h *PurchaseHandler) ChangeStatus(c *gin.Context) {
	changeStatus[tradeapp.ChangeStatusRequest, tradeapp.PurchaseResponse](&h.BaseHandler, c, h.purchaseService, "purchase")
}
