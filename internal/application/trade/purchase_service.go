package trade

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// PurchaseService handles purchase document operations
type PurchaseService struct {
	purchaseRepo trade.PurchaseRepository
	refs         refChecker
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo trade.PurchaseRepository, clientRepo partner.ClientRepository, warehouseRepo partner.WarehouseRepository) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		refs:         refChecker{clientRepo: clientRepo, warehouseRepo: warehouseRepo},
	}
}

// Create creates a draft purchase, or one in the requested initial status
func (s *PurchaseService) Create(ctx context.Context, ownerID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	docDate, err := parseDocDate(req.DocDate)
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	if err := s.refs.check(ctx, ownerID, &req.ClientID, req.WarehouseID); err != nil {
		return nil, err
	}

	purchase, err := trade.NewPurchase(ownerID, req.DocNumber, docDate, req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := purchase.Apply(creationChanges(req.CreateDocumentRequest)); err != nil {
		return nil, err
	}
	if purchaseDate != nil {
		purchase.SetPurchaseDate(purchaseDate)
	}

	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// GetByID retrieves a purchase of ownerID
func (s *PurchaseService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := shared.RequireOwned(ctx, s.purchaseRepo, ownerID, id, "Purchase")
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves a page of purchases with the total count
func (s *PurchaseService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]PurchaseResponse, int64, error) {
	filter = normalizeListFilter(filter)
	purchases, err := s.purchaseRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.purchaseRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a purchase
func (s *PurchaseService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	purchase, err := shared.RequireOwned(ctx, s.purchaseRepo, ownerID, id, "Purchase")
	if err != nil {
		return nil, err
	}
	if req.PurchaseDate != nil && purchase.Status.IsTerminal() {
		return nil, trade.ErrInvalidTransition.WithMessage("Document is %s and can no longer be edited", purchase.Status)
	}
	purchaseDate, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	ch, err := s.refs.updateChanges(ctx, ownerID, req.UpdateDocumentRequest)
	if err != nil {
		return nil, err
	}
	if err := purchase.Apply(ch); err != nil {
		return nil, err
	}
	if req.PurchaseDate != nil {
		purchase.SetPurchaseDate(purchaseDate)
	}

	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// ChangeStatus moves a purchase along its lifecycle
func (s *PurchaseService) ChangeStatus(ctx context.Context, ownerID, id uuid.UUID, req ChangeStatusRequest) (*PurchaseResponse, error) {
	purchase, err := shared.RequireOwned(ctx, s.purchaseRepo, ownerID, id, "Purchase")
	if err != nil {
		return nil, err
	}
	if err := purchase.ChangeStatus(req.Status); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// Delete soft-deletes a purchase
func (s *PurchaseService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.purchaseRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Purchase")
		}
		return err
	}
	return nil
}
