package handler

import (
	"context"

	reportapp "github.com/bizdesk/backend/internal/application/report"
	"github.com/bizdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StatsHandler serves the read-only aggregates under /api/stats
type StatsHandler struct {
	BaseHandler
	statsService *reportapp.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(base BaseHandler, statsService *reportapp.StatsService) *StatsHandler {
	return &StatsHandler{BaseHandler: base, statsService: statsService}
}

// serve answers with fn's result for the calling owner
func serve[T any](h *BaseHandler, c *gin.Context, fn func(context.Context, uuid.UUID) (T, error)) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DatabaseStats godoc
// @ID           getDatabaseStats
// @Summary      Database connectivity and row counts
// @Description  Counts the caller's rows per table. Administrators may pass scope=all for global counts.
// @Tags         stats
// @Produce      json
// @Param        scope query string false "Count scope" Enums(own, all)
// @Success      200 {object} APIResponse[reportapp.DatabaseStatsResponse]
// @Failure      403 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /stats/database-stats [get]
func (h *StatsHandler) DatabaseStats(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if c.Query("scope") == "all" {
		if !middleware.IsAdmin(c) {
			h.Forbidden(c, "Global statistics require the ADMIN role")
			return
		}
		owner = uuid.Nil
	}
	result, err := h.statsService.DatabaseStats(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SalesStats godoc
// @ID           getSalesStats
// @Summary      Sales grouped by status
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[[]report.StatusBreakdown]
// @Security     BearerAuth
// @Router       /stats/sales-stats [get]
func (h *StatsHandler) SalesStats(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.SalesStats)
}

// PurchaseStats godoc
// @ID           getPurchaseStats
// @Summary      Purchases grouped by status
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[[]report.StatusBreakdown]
// @Security     BearerAuth
// @Router       /stats/purchase-stats [get]
func (h *StatsHandler) PurchaseStats(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.PurchaseStats)
}

// BankStats godoc
// @ID           getBankStats
// @Summary      Bank operations grouped by type
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[[]report.OperationBreakdown]
// @Security     BearerAuth
// @Router       /stats/bank-stats [get]
func (h *StatsHandler) BankStats(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.BankStats)
}

// WarehouseStats godoc
// @ID           getWarehouseStats
// @Summary      Warehouses with their product counts
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[[]report.WarehouseSummary]
// @Security     BearerAuth
// @Router       /stats/warehouse-stats [get]
func (h *StatsHandler) WarehouseStats(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.WarehouseStats)
}

// TopClients godoc
// @ID           getTopClients
// @Summary      Top clients by number of sales
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[[]report.ClientRanking]
// @Security     BearerAuth
// @Router       /stats/top-clients [get]
func (h *StatsHandler) TopClients(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.TopClients)
}

// FinancialSummary godoc
// @ID           getFinancialSummary
// @Summary      Sales and purchase totals with the bank balance
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[report.FinancialSummary]
// @Security     BearerAuth
// @Router       /stats/financial-summary [get]
func (h *StatsHandler) FinancialSummary(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.FinancialSummary)
}

// DocumentsSummary godoc
// @ID           getDocumentsSummary
// @Summary      Documents grouped by status
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[report.DocumentsSummary]
// @Security     BearerAuth
// @Router       /stats/documents-summary [get]
func (h *StatsHandler) DocumentsSummary(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.DocumentsSummary)
}

// WarehouseDetailed godoc
// @ID           getWarehouseDetailed
// @Summary      Warehouses with valued stock lines
// @Tags         stats
// @Produce      json
// @Success      200 {object} APIResponse[[]report.WarehouseDetail]
// @Security     BearerAuth
// @Router       /stats/warehouse-detailed [get]
func (h *StatsHandler) WarehouseDetailed(c *gin.Context) {
	serve(&h.BaseHandler, c, h.statsService.WarehouseDetailed)
}
