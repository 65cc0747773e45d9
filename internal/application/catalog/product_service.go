package catalog

import (
	"context"
	"strings"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errCodeTaken = shared.ErrAlreadyExists.WithMessage("Product with this code already exists")

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, ownerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}
	product, err := catalog.NewProduct(ownerID, req.Code, req.Name, price)
	if err != nil {
		return nil, err
	}

	// Check if code already exists
	exists, err := s.productRepo.ExistsByCode(ctx, ownerID, product.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errCodeTaken
	}

	ch := catalog.ProductChanges{}
	if req.Description != "" {
		ch.Description = &req.Description
	}
	if req.Unit != "" {
		ch.Unit = &req.Unit
	}
	if req.Currency != "" {
		ch.Currency = &req.Currency
	}
	if err := product.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product of ownerID
func (s *ProductService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*ProductResponse, error) {
	product, err := shared.RequireOwned(ctx, s.productRepo, ownerID, id, "Product")
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products with the total count
func (s *ProductService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	if c, ok := filter.Filters["currency"].(string); ok {
		filter.Filters["currency"] = strings.ToUpper(c)
	}
	products, err := s.productRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := shared.RequireOwned(ctx, s.productRepo, ownerID, id, "Product")
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code != product.Code {
			exists, err := s.productRepo.ExistsByCode(ctx, ownerID, code, product.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, errCodeTaken
			}
		}
	}

	if err := product.Apply(catalog.ProductChanges{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		Price:       req.Price,
		Currency:    req.Currency,
	}); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete soft-deletes a product
func (s *ProductService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.productRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Product")
		}
		return err
	}
	return nil
}
