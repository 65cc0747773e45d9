package finance

import (
	"time"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBankOperationRequest represents a request to record a bank operation
type CreateBankOperationRequest struct {
	Date        string           `json:"date" binding:"required"`
	Description string           `json:"description" binding:"max=2000"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Type        string           `json:"type" binding:"required,oneof=credit debit"`
	AccountID   *uuid.UUID       `json:"account_id"`
	ClientID    *uuid.UUID       `json:"client_id"`
}

// UpdateBankOperationRequest represents a partial update; an empty
// account_id or client_id detaches the reference
type UpdateBankOperationRequest struct {
	Date        *string          `json:"date"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *string          `json:"type" binding:"omitempty,oneof=credit debit"`
	AccountID   *string          `json:"account_id"`
	ClientID    *string          `json:"client_id"`
}

// BankOperationResponse represents a bank operation in API responses
type BankOperationResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	AccountID   *uuid.UUID      `json:"account_id"`
	ClientID    *uuid.UUID      `json:"client_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToBankOperationResponse converts a domain bank operation to a response
func ToBankOperationResponse(b *finance.BankOperation) BankOperationResponse {
	return BankOperationResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Date:        b.Date,
		Description: b.Description,
		Amount:      b.Amount,
		Type:        string(b.Type),
		AccountID:   b.AccountID,
		ClientID:    b.ClientID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// CreateAccountRequest represents a request to add a chart-of-accounts entry
type CreateAccountRequest struct {
	Code        string  `json:"code" binding:"required,min=1,max=20"`
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Type        string  `json:"type" binding:"required,oneof=asset liability equity income expense"`
	AccountType string  `json:"account_type" binding:"max=50"`
	ParentCode  *string `json:"parent_code" binding:"omitempty,max=20"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateAccountRequest represents a partial update; an empty parent_code
// makes the account top level
type UpdateAccountRequest struct {
	Code        *string `json:"code" binding:"omitempty,min=1,max=20"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Type        *string `json:"type" binding:"omitempty,oneof=asset liability equity income expense"`
	AccountType *string `json:"account_type" binding:"omitempty,max=50"`
	ParentCode  *string `json:"parent_code" binding:"omitempty,max=20"`
	IsActive    *bool   `json:"is_active"`
}

// AccountResponse represents a chart-of-accounts entry in API responses
type AccountResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	AccountType string    `json:"account_type"`
	ParentCode  *string   `json:"parent_code"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToAccountResponse converts a domain account to a response
func ToAccountResponse(a *finance.ChartOfAccount) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		AccountType: a.AccountType,
		ParentCode:  a.ParentCode,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// CreateSettlementRequest represents a request to create a document settlement
type CreateSettlementRequest struct {
	DocNumber   string           `json:"doc_number" binding:"required,min=1,max=50"`
	DocDate     string           `json:"doc_date" binding:"required"`
	ClientID    uuid.UUID        `json:"client_id" binding:"required"`
	Amount      *decimal.Decimal `json:"amount"`
	PeriodStart *string          `json:"period_start"`
	PeriodEnd   *string          `json:"period_end"`
	Status      string           `json:"status" binding:"omitempty,oneof=draft pending completed cancelled"`
}

// UpdateSettlementRequest represents a partial settlement update
type UpdateSettlementRequest struct {
	DocNumber   *string          `json:"doc_number" binding:"omitempty,min=1,max=50"`
	DocDate     *string          `json:"doc_date"`
	ClientID    *uuid.UUID       `json:"client_id"`
	Amount      *decimal.Decimal `json:"amount"`
	PeriodStart *string          `json:"period_start"`
	PeriodEnd   *string          `json:"period_end"`
	Status      *string          `json:"status" binding:"omitempty,oneof=draft pending completed cancelled"`
}

// ChangeStatusRequest moves a settlement along its lifecycle
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SettlementResponse represents a document settlement in API responses
type SettlementResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	DocNumber   string          `json:"doc_number"`
	DocDate     time.Time       `json:"doc_date"`
	ClientID    uuid.UUID       `json:"client_id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	PeriodStart *time.Time      `json:"period_start"`
	PeriodEnd   *time.Time      `json:"period_end"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToSettlementResponse converts a domain settlement to a response
func ToSettlementResponse(s *finance.DocSettlement) SettlementResponse {
	return SettlementResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		DocNumber:   s.DocNumber,
		DocDate:     s.DocDate,
		ClientID:    s.ClientID,
		Status:      string(s.Status),
		Amount:      s.Amount,
		PeriodStart: s.PeriodStart,
		PeriodEnd:   s.PeriodEnd,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
