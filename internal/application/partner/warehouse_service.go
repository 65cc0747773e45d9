package partner

import (
	"context"
	"errors"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// WarehouseService handles warehouse and stock operations
type WarehouseService struct {
	warehouseRepo partner.WarehouseRepository
	clientRepo    partner.ClientRepository
	productRepo   catalog.ProductRepository
	userRepo      identity.UserRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo partner.WarehouseRepository,
	clientRepo partner.ClientRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, ownerID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := partner.NewWarehouse(ownerID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, ownerID, req.ClientID, req.ResponsiblePersonID); err != nil {
		return nil, err
	}

	ch := partner.WarehouseChanges{
		ClientID:            req.ClientID,
		ResponsiblePersonID: req.ResponsiblePersonID,
	}
	if req.Code != "" {
		ch.Code = &req.Code
	}
	if req.Address != "" {
		ch.Address = &req.Address
	}
	if req.Status != "" {
		ch.Status = &req.Status
	}
	if err := warehouse.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse of ownerID
func (s *WarehouseService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := shared.RequireOwned(ctx, s.warehouseRepo, ownerID, id, "Warehouse")
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List retrieves a page of warehouses with the total count
func (s *WarehouseService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]WarehouseResponse, int64, error) {
	if st, ok := filter.Filters["status"].(string); ok {
		if parsed, valid := partner.ParseWarehouseStatus(st); valid {
			filter.Filters["status"] = string(parsed)
		}
	}
	warehouses, err := s.warehouseRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a warehouse
func (s *WarehouseService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := shared.RequireOwned(ctx, s.warehouseRepo, ownerID, id, "Warehouse")
	if err != nil {
		return nil, err
	}

	clientID, clearClient, err := valueobject.ParseRef(req.ClientID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("client_id: %v", err)
	}
	personID, clearPerson, err := valueobject.ParseRef(req.ResponsiblePersonID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("responsible_person_id: %v", err)
	}
	if err := s.checkRefs(ctx, ownerID, clientID, personID); err != nil {
		return nil, err
	}

	if err := warehouse.Apply(partner.WarehouseChanges{
		Name:                req.Name,
		Code:                req.Code,
		Address:             req.Address,
		Status:              req.Status,
		ClientID:            clientID,
		ClearClient:         clearClient,
		ResponsiblePersonID: personID,
		ClearResponsible:    clearPerson,
	}); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Delete soft-deletes a warehouse
func (s *WarehouseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.warehouseRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Warehouse")
		}
		return err
	}
	return nil
}

// Stock lists the stock lines of a warehouse
func (s *WarehouseService) Stock(ctx context.Context, ownerID, warehouseID uuid.UUID) ([]StockLineResponse, error) {
	if _, err := shared.RequireOwned(ctx, s.warehouseRepo, ownerID, warehouseID, "Warehouse"); err != nil {
		return nil, err
	}
	lines, err := s.warehouseRepo.FindStock(ctx, ownerID, warehouseID)
	if err != nil {
		return nil, err
	}
	responses := make([]StockLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToStockLineResponse(&lines[i])
	}
	return responses, nil
}

// SetStock sets the quantity of a product in a warehouse. A zero quantity
// removes the line and returns nil.
func (s *WarehouseService) SetStock(ctx context.Context, ownerID, warehouseID, productID uuid.UUID, req SetStockRequest) (*StockLineResponse, error) {
	if req.Quantity == nil {
		return nil, shared.ErrInvalidInput.WithMessage("quantity is required")
	}
	if err := partner.ValidateQuantity(*req.Quantity); err != nil {
		return nil, err
	}
	if _, err := shared.RequireOwned(ctx, s.warehouseRepo, ownerID, warehouseID, "Warehouse"); err != nil {
		return nil, err
	}
	if _, err := shared.RequireOwned(ctx, s.productRepo, ownerID, productID, "Product"); err != nil {
		return nil, err
	}

	line, err := s.warehouseRepo.SetStock(ctx, ownerID, warehouseID, productID, *req.Quantity)
	if err != nil || line == nil {
		return nil, err
	}
	response := ToStockLineResponse(line)
	return &response, nil
}

func (s *WarehouseService) checkRefs(ctx context.Context, ownerID uuid.UUID, clientID, personID *uuid.UUID) error {
	if clientID != nil {
		if _, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, *clientID, "Client"); err != nil {
			return err
		}
	}
	if personID != nil {
		// Accounts are private; the only user an owner can name is itself
		if *personID != ownerID {
			return shared.NotFound("Responsible person")
		}
		if _, err := s.userRepo.FindByID(ctx, *personID); err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				return shared.NotFound("Responsible person")
			}
			return err
		}
	}
	return nil
}
