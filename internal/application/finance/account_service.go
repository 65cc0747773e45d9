package finance

import (
	"context"
	"errors"
	"strings"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var errAccountCodeTaken = shared.ErrAlreadyExists.WithMessage("Account with this code already exists")

// AccountService manages the chart of accounts
type AccountService struct {
	accountRepo finance.ChartOfAccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo finance.ChartOfAccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Create adds an account to the owner's chart
func (s *AccountService) Create(ctx context.Context, ownerID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := finance.NewChartOfAccount(ownerID, req.Code, req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, ownerID, account.Code, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.ensureParent(ctx, ownerID, req.ParentCode); err != nil {
		return nil, err
	}

	ch := finance.AccountChanges{ParentCode: req.ParentCode, IsActive: req.IsActive}
	if req.AccountType != "" {
		ch.AccountType = &req.AccountType
	}
	if err := account.Apply(ch); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// GetByID retrieves an account of ownerID
func (s *AccountService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*AccountResponse, error) {
	account, err := shared.RequireOwned(ctx, s.accountRepo, ownerID, id, "Account")
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves a page of accounts with the total count
func (s *AccountService) List(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]AccountResponse, int64, error) {
	filter = filter.Normalize()
	if t, ok := filter.Filters["type"].(string); ok {
		filter.Filters["type"] = strings.ToLower(strings.TrimSpace(t))
	}
	accounts, err := s.accountRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, total, nil
}

// Update applies a partial update to an account
func (s *AccountService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := shared.RequireOwned(ctx, s.accountRepo, ownerID, id, "Account")
	if err != nil {
		return nil, err
	}
	if req.Code != nil {
		if code := strings.TrimSpace(*req.Code); code != account.Code {
			if err := s.ensureCodeFree(ctx, ownerID, code, account.ID); err != nil {
				return nil, err
			}
		}
	}
	if err := s.ensureParent(ctx, ownerID, req.ParentCode); err != nil {
		return nil, err
	}

	if err := account.Apply(finance.AccountChanges{
		Code:        req.Code,
		Name:        req.Name,
		Type:        req.Type,
		AccountType: req.AccountType,
		ParentCode:  req.ParentCode,
		IsActive:    req.IsActive,
	}); err != nil {
		return nil, err
	}
	if err := s.ensureAcyclic(ctx, ownerID, account); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// Delete soft-deletes an account
func (s *AccountService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.accountRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		if shared.IsNotFound(err) {
			return shared.NotFound("Account")
		}
		return err
	}
	return nil
}

func (s *AccountService) ensureCodeFree(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) error {
	exists, err := s.accountRepo.ExistsByCode(ctx, ownerID, code, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errAccountCodeTaken
	}
	return nil
}

// ensureParent checks that a non-blank parent code names an account of the owner
func (s *AccountService) ensureParent(ctx context.Context, ownerID uuid.UUID, parentCode *string) error {
	if parentCode == nil || strings.TrimSpace(*parentCode) == "" {
		return nil
	}
	if _, err := s.accountRepo.FindByCode(ctx, ownerID, strings.TrimSpace(*parentCode)); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NotFound("Parent account")
		}
		return err
	}
	return nil
}

// ensureAcyclic follows the parent chain of the updated account and rejects
// it when the chain comes back to the account
func (s *AccountService) ensureAcyclic(ctx context.Context, ownerID uuid.UUID, account *finance.ChartOfAccount) error {
	seen := map[string]bool{account.Code: true}
	for next := account.ParentCode; next != nil; {
		if seen[*next] {
			return finance.ErrParentCycle
		}
		seen[*next] = true

		parent, err := s.accountRepo.FindByCode(ctx, ownerID, *next)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		// The stored row of this account under its old code ends the chain
		if parent.ID == account.ID {
			return nil
		}
		next = parent.ParentCode
	}
	return nil
}
