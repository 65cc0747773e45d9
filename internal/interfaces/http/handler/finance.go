package handler

import (
	financeapp "github.com/bizdesk/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// BankOperationHandler handles bank operation endpoints
type BankOperationHandler struct {
	BaseHandler
	crud ownedCRUD[financeapp.CreateBankOperationRequest, financeapp.UpdateBankOperationRequest, financeapp.BankOperationResponse]
}

// NewBankOperationHandler creates a new BankOperationHandler
func NewBankOperationHandler(base BaseHandler, svc *financeapp.BankOperationService) *BankOperationHandler {
	h := &BankOperationHandler{BaseHandler: base}
	h.crud = ownedCRUD[financeapp.CreateBankOperationRequest, financeapp.UpdateBankOperationRequest, financeapp.BankOperationResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         svc,
		resource:    "bank operation",
		params: listParams{
			{key: "type"},
			{key: "account_id", alias: "accountId", kind: filterUUID},
			{key: "client_id", alias: "clientId", kind: filterUUID},
		},
	}
	return h
}

// Create godoc
// @ID           createBankOperation
// @Summary      Record a bank operation
// @Tags         bank-operations
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateBankOperationRequest true "Bank operation"
// @Success      201 {object} APIResponse[financeapp.BankOperationResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /bank-operations [post]
func (h *BankOperationHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getBankOperationById
// @Summary      Get a bank operation by ID
// @Tags         bank-operations
// @Produce      json
// @Param        id path string true "Bank operation ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.BankOperationResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /bank-operations/{id} [get]
func (h *BankOperationHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listBankOperations
// @Summary      List bank operations
// @Tags         bank-operations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search in description"
// @Param        type query string false "Direction" Enums(credit, debit)
// @Param        account_id query string false "Account ID" format(uuid)
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        start_date query string false "Earliest operation date (YYYY-MM-DD)"
// @Param        end_date query string false "Latest operation date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]financeapp.BankOperationResponse]
// @Security     BearerAuth
// @Router       /bank-operations [get]
func (h *BankOperationHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateBankOperation
// @Summary      Update a bank operation
// @Tags         bank-operations
// @Accept       json
// @Produce      json
// @Param        id path string true "Bank operation ID" format(uuid)
// @Param        request body financeapp.UpdateBankOperationRequest true "Fields to change"
// @Success      200 {object} APIResponse[financeapp.BankOperationResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /bank-operations/{id} [put]
func (h *BankOperationHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteBankOperation
// @Summary      Delete a bank operation
// @Tags         bank-operations
// @Param        id path string true "Bank operation ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /bank-operations/{id} [delete]
func (h *BankOperationHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// AccountHandler handles chart-of-accounts endpoints
type AccountHandler struct {
	BaseHandler
	crud ownedCRUD[financeapp.CreateAccountRequest, financeapp.UpdateAccountRequest, financeapp.AccountResponse]
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(base BaseHandler, svc *financeapp.AccountService) *AccountHandler {
	h := &AccountHandler{BaseHandler: base}
	h.crud = ownedCRUD[financeapp.CreateAccountRequest, financeapp.UpdateAccountRequest, financeapp.AccountResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         svc,
		resource:    "account",
		params: listParams{
			{key: "type"},
			{key: "account_type", alias: "accountType"},
			{key: "is_active", alias: "isActive", kind: filterBool},
			{key: "parent_code", alias: "parentCode"},
		},
	}
	return h
}

// Create godoc
// @ID           createAccount
// @Summary      Add an account to the chart of accounts
// @Tags         chart-of-accounts
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateAccountRequest true "Account"
// @Success      201 {object} APIResponse[financeapp.AccountResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts [post]
func (h *AccountHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getAccountById
// @Summary      Get an account by ID
// @Tags         chart-of-accounts
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.AccountResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{id} [get]
func (h *AccountHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listAccounts
// @Summary      List the chart of accounts
// @Tags         chart-of-accounts
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search in code and name"
// @Param        type query string false "Account class" Enums(asset, liability, equity, income, expense)
// @Param        is_active query bool false "Active flag"
// @Param        parent_code query string false "Parent account code"
// @Success      200 {object} APIResponse[[]financeapp.AccountResponse]
// @Security     BearerAuth
// @Router       /chart-of-accounts [get]
func (h *AccountHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateAccount
// @Summary      Update an account
// @Description  An empty parent_code makes the account top level
// @Tags         chart-of-accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body financeapp.UpdateAccountRequest true "Fields to change"
// @Success      200 {object} APIResponse[financeapp.AccountResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteAccount
// @Summary      Delete an account
// @Tags         chart-of-accounts
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /chart-of-accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// SettlementHandler handles document settlement endpoints
type SettlementHandler struct {
	BaseHandler
	crud              ownedCRUD[financeapp.CreateSettlementRequest, financeapp.UpdateSettlementRequest, financeapp.SettlementResponse]
	settlementService *financeapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(base BaseHandler, svc *financeapp.SettlementService) *SettlementHandler {
	h := &SettlementHandler{BaseHandler: base, settlementService: svc}
	h.crud = ownedCRUD[financeapp.CreateSettlementRequest, financeapp.UpdateSettlementRequest, financeapp.SettlementResponse]{
		BaseHandler: &h.BaseHandler,
		svc:         svc,
		resource:    "settlement",
		params: listParams{
			{key: "client_id", alias: "clientId", kind: filterUUID},
			{key: "status"},
		},
	}
	return h
}

// Create godoc
// @ID           createSettlement
// @Summary      Create a document settlement
// @Tags         doc-settlements
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateSettlementRequest true "Settlement"
// @Success      201 {object} APIResponse[financeapp.SettlementResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /doc-settlements [post]
func (h *SettlementHandler) Create(c *gin.Context) { h.crud.create(c) }

// GetByID godoc
// @ID           getSettlementById
// @Summary      Get a settlement by ID
// @Tags         doc-settlements
// @Produce      json
// @Param        id path string true "Settlement ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.SettlementResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /doc-settlements/{id} [get]
func (h *SettlementHandler) GetByID(c *gin.Context) { h.crud.get(c) }

// List godoc
// @ID           listSettlements
// @Summary      List document settlements
// @Tags         doc-settlements
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        perPage query int false "Page size alias" maximum(100)
// @Param        client_id query string false "Client ID (alias clientId)" format(uuid)
// @Param        status query string false "Status" Enums(draft, pending, completed, cancelled)
// @Param        start_date query string false "Earliest document date, alias startDate"
// @Param        end_date query string false "Latest document date, alias endDate"
// @Success      200 {object} APIResponse[[]financeapp.SettlementResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /doc-settlements [get]
func (h *SettlementHandler) List(c *gin.Context) { h.crud.list(c) }

// Update godoc
// @ID           updateSettlement
// @Summary      Update a settlement
// @Tags         doc-settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Settlement ID" format(uuid)
// @Param        request body financeapp.UpdateSettlementRequest true "Fields to change"
// @Success      200 {object} APIResponse[financeapp.SettlementResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /doc-settlements/{id} [put]
func (h *SettlementHandler) Update(c *gin.Context) { h.crud.update(c) }

// Delete godoc
// @ID           deleteSettlement
// @Summary      Delete a settlement
// @Tags         doc-settlements
// @Param        id path string true "Settlement ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /doc-settlements/{id} [delete]
func (h *SettlementHandler) Delete(c *gin.Context) { h.crud.delete(c) }

// ChangeStatus godoc
// @ID           changeSettlementStatus
// @Summary      Change the status of a settlement
// @Tags         doc-settlements
// @Accept       json
// @Produce      json
// @Param        id path string true "Settlement ID" format(uuid)
// @Param        request body financeapp.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[financeapp.SettlementResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /doc-settlements/{id}/status [patch]
func (h *SettlementHandler) ChangeStatus(c *gin.Context) {
	changeStatus[financeapp.ChangeStatusRequest, financeapp.SettlementResponse](&h.BaseHandler, c, h.settlementService, "settlement")
}
