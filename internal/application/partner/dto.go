package partner

import (
	"time"

	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Phone      string `json:"phone" binding:"max=50"`
	Type       string `json:"type" binding:"omitempty,oneof=company individual"`
	ClientType string `json:"client_type" binding:"omitempty,oneof=customer supplier both"`
	Code       string `json:"code" binding:"max=50"`
	VATCode    string `json:"vat_code" binding:"max=50"`
	IsActive   *bool  `json:"is_active"`
}

// UpdateClientRequest represents a partial client update
type UpdateClientRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string `json:"email" binding:"omitempty,max=200"`
	Phone      *string `json:"phone" binding:"omitempty,max=50"`
	Type       *string `json:"type" binding:"omitempty,oneof=company individual"`
	ClientType *string `json:"client_type" binding:"omitempty,oneof=customer supplier both"`
	Code       *string `json:"code" binding:"omitempty,max=50"`
	VATCode    *string `json:"vat_code" binding:"omitempty,max=50"`
	IsActive   *bool   `json:"is_active"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Type       string    `json:"type"`
	ClientType string    `json:"client_type"`
	Code       string    `json:"code"`
	VATCode    string    `json:"vat_code"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Type:       string(c.Type),
		ClientType: string(c.ClientType),
		Code:       c.Code,
		VATCode:    c.VATCode,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Name                string     `json:"name" binding:"required,min=1,max=200"`
	Code                string     `json:"code" binding:"max=50"`
	Address             string     `json:"address"`
	Status              string     `json:"status" binding:"omitempty,oneof=active inactive Active Inactive"`
	ClientID            *uuid.UUID `json:"client_id"`
	ResponsiblePersonID *uuid.UUID `json:"responsible_person_id"`
}

// UpdateWarehouseRequest represents a partial warehouse update. An empty
// client_id or responsible_person_id detaches the reference.
type UpdateWarehouseRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=1,max=200"`
	Code                *string `json:"code" binding:"omitempty,max=50"`
	Address             *string `json:"address"`
	Status              *string `json:"status" binding:"omitempty,oneof=active inactive Active Inactive"`
	ClientID            *string `json:"client_id"`
	ResponsiblePersonID *string `json:"responsible_person_id"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	Name                string     `json:"name"`
	Code                string     `json:"code"`
	Address             string     `json:"address"`
	Status              string     `json:"status"`
	ClientID            *uuid.UUID `json:"client_id"`
	ResponsiblePersonID *uuid.UUID `json:"responsible_person_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ToWarehouseResponse converts a domain warehouse to a response
func ToWarehouseResponse(w *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:                  w.ID,
		UserID:              w.UserID,
		Name:                w.Name,
		Code:                w.Code,
		Address:             w.Address,
		Status:              string(w.Status),
		ClientID:            w.ClientID,
		ResponsiblePersonID: w.ResponsiblePersonID,
		CreatedAt:           w.CreatedAt,
		UpdatedAt:           w.UpdatedAt,
	}
}

// SetStockRequest sets the quantity of one product in a warehouse
type SetStockRequest struct {
	Quantity *decimal.Decimal `json:"quantity" binding:"required"`
}

// StockLineResponse represents a warehouse stock line
type StockLineResponse struct {
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToStockLineResponse converts a stock line to a response
func ToStockLineResponse(s *partner.WarehouseStock) StockLineResponse {
	return StockLineResponse{
		WarehouseID: s.WarehouseID,
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		UpdatedAt:   s.UpdatedAt,
	}
}
