package finance

import (
	"context"
	"strings"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SettlementService handles document settlements
type SettlementService struct {
	settlementRepo finance.DocSettlementRepository
	clientRepo     partner.ClientRepository
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(settlementRepo finance.DocSettlementRepository, clientRepo partner.ClientRepository) *SettlementService {
	return &SettlementService{settlementRepo: settlementRepo, clientRepo: clientRepo}
}

// Create creates a settlement, draft unless another status is requested
func (s *SettlementService) Create(ctx context.Context, ownerID uuid.UUID, req CreateSettlementRequest) (*SettlementResponse, error) {
	docDate, err := parseDate("doc_date", req.DocDate)
	if err != nil {
		return nil, err
	}
	start, err := parseOptionalDate("period_start", req.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("period_end", req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if _, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, req.ClientID, "Client"); err != nil {
		return nil, err
	}

	settlement, err := finance.NewDocSettlement(ownerID, req.DocNumber, docDate, req.ClientID)
	if err != nil {
		return nil, err
	}
	ch := finance.SettlementChanges{Amount: req.Amount, PeriodStart: start, PeriodEnd: end}
	if req.Status != "" {
		ch.Status = &req.Status
	}
	if err := settlement.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.settlementRepo.Save(ctx, settlement); err != nil {
		return nil, err
	}
	response := ToSettlementResponse(settlement)
	return &response, nil
}

// GetByID retrieves a settlement of ownerID
func (s *SettlementService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*SettlementResponse, error) {
	settlement, err := shared.RequireOwned(ctx, s.settlementRepo, ownerID, id, "Settlement")
	if err != nil {
		return nil, err
	}
	response := ToSettlementResponse(settlement)
	return &response, nil
}

// List retrieves a page of settlements with the total count
func (s *SettlementService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]SettlementResponse, int64, error) {
	filter = filter.Normalize()
	if st, ok := filter.Filters["status"].(string); ok {
		filter.Filters["status"] = strings.ToLower(strings.TrimSpace(st))
	}
	settlements, err := s.settlementRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.settlementRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SettlementResponse, len(settlements))
	for i := range settlements {
		responses[i] = ToSettlementResponse(&settlements[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a settlement
func (s *SettlementService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateSettlementRequest) (*SettlementResponse, error) {
	settlement, err := shared.RequireOwned(ctx, s.settlementRepo, ownerID, id, "Settlement")
	if err != nil {
		return nil, err
	}
	if req.ClientID != nil {
		if _, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, *req.ClientID, "Client"); err != nil {
			return nil, err
		}
	}

	ch := finance.SettlementChanges{
		DocNumber: req.DocNumber,
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		Status:    req.Status,
	}
	if req.DocDate != nil {
		d, err := parseDate("doc_date", *req.DocDate)
		if err != nil {
			return nil, err
		}
		ch.DocDate = &d
	}
	if ch.PeriodStart, err = parseOptionalDate("period_start", req.PeriodStart); err != nil {
		return nil, err
	}
	if ch.PeriodEnd, err = parseOptionalDate("period_end", req.PeriodEnd); err != nil {
		return nil, err
	}
	if err := settlement.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.settlementRepo.Save(ctx, settlement); err != nil {
		return nil, err
	}
	response := ToSettlementResponse(settlement)
	return &response, nil
}

// ChangeStatus moves a settlement along its lifecycle
func (s *SettlementService) ChangeStatus(ctx context.Context, ownerID, id uuid.UUID, req ChangeStatusRequest) (*SettlementResponse, error) {
	settlement, err := shared.RequireOwned(ctx, s.settlementRepo, ownerID, id, "Settlement")
	if err != nil {
		return nil, err
	}
	if err := settlement.ChangeStatus(req.Status); err != nil {
		return nil, err
	}
	if err := s.settlementRepo.Save(ctx, settlement); err != nil {
		return nil, err
	}
	response := ToSettlementResponse(settlement)
	return &response, nil
}

// Delete soft-deletes a settlement
func (s *SettlementService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.settlementRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Settlement")
		}
		return err
	}
	return nil
}
