package catalog

import (
	"time"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code        string           `json:"code" binding:"required,min=1,max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Unit        string           `json:"unit" binding:"max=20"`
	Price       *decimal.Decimal `json:"price"`
	Currency    string           `json:"currency" binding:"omitempty,len=3"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Code        *string          `json:"code" binding:"omitempty,min=1,max=50"`
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Unit        *string          `json:"unit" binding:"omitempty,max=20"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Price:       p.Price,
		Currency:    p.Currency.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
