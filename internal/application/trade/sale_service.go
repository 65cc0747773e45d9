package trade

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// SaleService handles sales document operations
type SaleService struct {
	saleRepo trade.SaleRepository
	refs     refChecker
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo trade.SaleRepository, clientRepo partner.ClientRepository, warehouseRepo partner.WarehouseRepository) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		refs:     refChecker{clientRepo: clientRepo, warehouseRepo: warehouseRepo},
	}
}

// Create creates a draft sale, or one in the requested initial status
func (s *SaleService) Create(ctx context.Context, ownerID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	docDate, err := parseDocDate(req.DocDate)
	if err != nil {
		return nil, err
	}
	saleDate, err := parseOptionalDate("sale_date", req.SaleDate)
	if err != nil {
		return nil, err
	}
	if err := s.refs.check(ctx, ownerID, &req.ClientID, req.WarehouseID); err != nil {
		return nil, err
	}

	sale, err := trade.NewSale(ownerID, req.DocNumber, docDate, req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := sale.Apply(creationChanges(req.CreateDocumentRequest)); err != nil {
		return nil, err
	}
	if saleDate != nil {
		sale.SetSaleDate(saleDate)
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale of ownerID
func (s *SaleService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := shared.RequireOwned(ctx, s.saleRepo, ownerID, id, "Sale")
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves a page of sales with the total count
func (s *SaleService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]SaleResponse, int64, error) {
	filter = normalizeListFilter(filter)
	sales, err := s.saleRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a sale
func (s *SaleService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	sale, err := shared.RequireOwned(ctx, s.saleRepo, ownerID, id, "Sale")
	if err != nil {
		return nil, err
	}
	if req.SaleDate != nil && sale.Status.IsTerminal() {
		return nil, trade.ErrInvalidTransition.WithMessage("Document is %s and can no longer be edited", sale.Status)
	}
	saleDate, err := parseOptionalDate("sale_date", req.SaleDate)
	if err != nil {
		return nil, err
	}
	ch, err := s.refs.updateChanges(ctx, ownerID, req.UpdateDocumentRequest)
	if err != nil {
		return nil, err
	}
	if err := sale.Apply(ch); err != nil {
		return nil, err
	}
	if req.SaleDate != nil {
		sale.SetSaleDate(saleDate)
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// ChangeStatus moves a sale along its lifecycle
func (s *SaleService) ChangeStatus(ctx context.Context, ownerID, id uuid.UUID, req ChangeStatusRequest) (*SaleResponse, error) {
	sale, err := shared.RequireOwned(ctx, s.saleRepo, ownerID, id, "Sale")
	if err != nil {
		return nil, err
	}
	if err := sale.ChangeStatus(req.Status); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// Delete soft-deletes a sale
func (s *SaleService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.saleRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Sale")
		}
		return err
	}
	return nil
}
