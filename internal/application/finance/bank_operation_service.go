package finance

import (
	"context"
	"strings"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BankOperationService handles bank operation records
type BankOperationService struct {
	operationRepo finance.BankOperationRepository
	accountRepo   finance.ChartOfAccountRepository
	clientRepo    partner.ClientRepository
}

// NewBankOperationService creates a new BankOperationService
func NewBankOperationService(
	operationRepo finance.BankOperationRepository,
	accountRepo finance.ChartOfAccountRepository,
	clientRepo partner.ClientRepository,
) *BankOperationService {
	return &BankOperationService{
		operationRepo: operationRepo,
		accountRepo:   accountRepo,
		clientRepo:    clientRepo,
	}
}

// Create records a bank operation
func (s *BankOperationService) Create(ctx context.Context, ownerID uuid.UUID, req CreateBankOperationRequest) (*BankOperationResponse, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, shared.ErrInvalidInput.WithMessage("amount is required")
	}
	if err := s.checkRefs(ctx, ownerID, req.AccountID, req.ClientID); err != nil {
		return nil, err
	}

	op, err := finance.NewBankOperation(ownerID, date, *req.Amount, req.Type)
	if err != nil {
		return nil, err
	}
	if err := op.Apply(finance.BankOperationChanges{
		Description: &req.Description,
		AccountID:   req.AccountID,
		ClientID:    req.ClientID,
	}); err != nil {
		return nil, err
	}

	if err := s.operationRepo.Save(ctx, op); err != nil {
		return nil, err
	}
	response := ToBankOperationResponse(op)
	return &response, nil
}

// GetByID retrieves a bank operation of ownerID
func (s *BankOperationService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*BankOperationResponse, error) {
	op, err := shared.RequireOwned(ctx, s.operationRepo, ownerID, id, "Bank operation")
	if err != nil {
		return nil, err
	}
	response := ToBankOperationResponse(op)
	return &response, nil
}

// List retrieves a page of bank operations with the total count
func (s *BankOperationService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]BankOperationResponse, int64, error) {
	filter = filter.Normalize()
	if t, ok := filter.Filters["type"].(string); ok {
		filter.Filters["type"] = strings.ToLower(strings.TrimSpace(t))
	}
	ops, err := s.operationRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.operationRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BankOperationResponse, len(ops))
	for i := range ops {
		responses[i] = ToBankOperationResponse(&ops[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a bank operation
func (s *BankOperationService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateBankOperationRequest) (*BankOperationResponse, error) {
	op, err := shared.RequireOwned(ctx, s.operationRepo, ownerID, id, "Bank operation")
	if err != nil {
		return nil, err
	}

	accountID, detachAccount, err := valueobject.ParseRef(req.AccountID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("account_id: %v", err)
	}
	clientID, detachClient, err := valueobject.ParseRef(req.ClientID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("client_id: %v", err)
	}
	if err := s.checkRefs(ctx, ownerID, accountID, clientID); err != nil {
		return nil, err
	}

	ch := finance.BankOperationChanges{
		Description:  req.Description,
		Amount:       req.Amount,
		Type:         req.Type,
		AccountID:    accountID,
		ClearAccount: detachAccount,
		ClientID:     clientID,
		ClearClient:  detachClient,
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return nil, err
		}
		ch.Date = &date
	}
	if err := op.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.operationRepo.Save(ctx, op); err != nil {
		return nil, err
	}
	response := ToBankOperationResponse(op)
	return &response, nil
}

// Delete soft-deletes a bank operation
func (s *BankOperationService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.operationRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Bank operation")
		}
		return err
	}
	return nil
}

func (s *BankOperationService) checkRefs(ctx context.Context, ownerID uuid.UUID, accountID, clientID *uuid.UUID) error {
	if accountID != nil {
		if _, err := shared.RequireOwned(ctx, s.accountRepo, ownerID, *accountID, "Account"); err != nil {
			return err
		}
	}
	if clientID != nil {
		if _, err := shared.RequireOwned(ctx, s.clientRepo, ownerID, *clientID, "Client"); err != nil {
			return err
		}
	}
	return nil
}
