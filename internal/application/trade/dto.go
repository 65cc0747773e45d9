package trade

import (
	"time"

	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest holds the fields shared by new sales and purchases.
// Dates are YYYY-MM-DD.
type CreateDocumentRequest struct {
	DocNumber     string           `json:"doc_number" binding:"required,min=1,max=50"`
	DocDate       string           `json:"doc_date" binding:"required"`
	ClientID      uuid.UUID        `json:"client_id" binding:"required"`
	WarehouseID   *uuid.UUID       `json:"warehouse_id"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
	InvoiceType   string           `json:"invoice_type" binding:"max=30"`
	InvoiceNumber string           `json:"invoice_number" binding:"max=50"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	Status        string           `json:"status" binding:"omitempty,oneof=draft confirmed completed cancelled"`
}

// UpdateDocumentRequest holds a partial update of a sale or purchase. An
// empty warehouse_id detaches the warehouse.
type UpdateDocumentRequest struct {
	DocNumber     *string          `json:"doc_number" binding:"omitempty,min=1,max=50"`
	DocDate       *string          `json:"doc_date"`
	ClientID      *uuid.UUID       `json:"client_id"`
	WarehouseID   *string          `json:"warehouse_id"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Currency      *string          `json:"currency" binding:"omitempty,len=3"`
	InvoiceType   *string          `json:"invoice_type" binding:"omitempty,max=30"`
	InvoiceNumber *string          `json:"invoice_number" binding:"omitempty,max=50"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	Status        *string          `json:"status" binding:"omitempty,oneof=draft confirmed completed cancelled"`
}

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	CreateDocumentRequest
	SaleDate *string `json:"sale_date"`
}

// UpdateSaleRequest represents a partial sale update; an empty sale_date clears it
type UpdateSaleRequest struct {
	UpdateDocumentRequest
	SaleDate *string `json:"sale_date"`
}

// CreatePurchaseRequest represents a request to create a purchase
type CreatePurchaseRequest struct {
	CreateDocumentRequest
	PurchaseDate *string `json:"purchase_date"`
}

// UpdatePurchaseRequest represents a partial purchase update; an empty
// purchase_date clears it
type UpdatePurchaseRequest struct {
	UpdateDocumentRequest
	PurchaseDate *string `json:"purchase_date"`
}

// ChangeStatusRequest moves a document along its lifecycle
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DocumentResponse holds the fields shared by sale and purchase responses
type DocumentResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	DocNumber     string          `json:"doc_number"`
	DocDate       time.Time       `json:"doc_date"`
	ClientID      uuid.UUID       `json:"client_id"`
	WarehouseID   *uuid.UUID      `json:"warehouse_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	InvoiceType   string          `json:"invoice_type"`
	InvoiceNumber string          `json:"invoice_number"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	DocumentResponse
	SaleDate *time.Time `json:"sale_date"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	DocumentResponse
	PurchaseDate *time.Time `json:"purchase_date"`
}

func toDocumentResponse(d *trade.Document) DocumentResponse {
	return DocumentResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		DocNumber:     d.DocNumber,
		DocDate:       d.DocDate,
		ClientID:      d.ClientID,
		WarehouseID:   d.WarehouseID,
		TotalAmount:   d.TotalAmount,
		Currency:      d.Currency.String(),
		InvoiceType:   d.InvoiceType,
		InvoiceNumber: d.InvoiceNumber,
		VATRate:       d.VATRate,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToSaleResponse converts a domain sale to a response
func ToSaleResponse(s *trade.Sale) SaleResponse {
	return SaleResponse{DocumentResponse: toDocumentResponse(&s.Document), SaleDate: s.SaleDate}
}

// ToPurchaseResponse converts a domain purchase to a response
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	return PurchaseResponse{DocumentResponse: toDocumentResponse(&p.Document), PurchaseDate: p.PurchaseDate}
}
