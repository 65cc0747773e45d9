package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBankOperationRepository implements BankOperationRepository using GORM
type GormBankOperationRepository struct {
	ownedRepository[finance.BankOperation, *finance.BankOperation]
}

var _ finance.BankOperationRepository = (*GormBankOperationRepository)(nil)

// NewGormBankOperationRepository creates a new GormBankOperationRepository
func NewGormBankOperationRepository(db *gorm.DB) *GormBankOperationRepository {
	return &GormBankOperationRepository{newOwnedRepository[finance.BankOperation](db, listSpec{
		searchColumns: []string{"description"},
		sortFields:    BankOperationSortFields,
		defaultSort:   "date",
		filterColumns: map[string]string{
			"type":       "type",
			"account_id": "account_id",
			"client_id":  "client_id",
		},
		dateColumn: "date",
	})}
}

// GormChartOfAccountRepository implements ChartOfAccountRepository using GORM
type GormChartOfAccountRepository struct {
	ownedRepository[finance.ChartOfAccount, *finance.ChartOfAccount]
}

var _ finance.ChartOfAccountRepository = (*GormChartOfAccountRepository)(nil)

// NewGormChartOfAccountRepository creates a new GormChartOfAccountRepository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{newOwnedRepository[finance.ChartOfAccount](db, listSpec{
		searchColumns: []string{"code", "name", "account_type"},
		sortFields:    AccountSortFields,
		defaultSort:   "code",
		filterColumns: map[string]string{
			"type":         "type",
			"account_type": "account_type",
			"is_active":    "is_active",
			"parent_code":  "parent_code",
		},
	})}
}

// FindByCode finds an account by code within the owner's chart
func (r *GormChartOfAccountRepository) FindByCode(ctx context.Context, ownerID uuid.UUID, code string) (*finance.ChartOfAccount, error) {
	var acc finance.ChartOfAccount
	if err := r.scoped(ctx, ownerID).Where("code = ?", strings.TrimSpace(code)).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// ExistsByCode reports whether code is taken, ignoring excludeID
func (r *GormChartOfAccountRepository) ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsForOwner(ctx, ownerID, "code", strings.TrimSpace(code), excludeID)
}

// GormDocSettlementRepository implements DocSettlementRepository using GORM
type GormDocSettlementRepository struct {
	ownedRepository[finance.DocSettlement, *finance.DocSettlement]
}

var _ finance.DocSettlementRepository = (*GormDocSettlementRepository)(nil)

// NewGormDocSettlementRepository creates a new GormDocSettlementRepository
func NewGormDocSettlementRepository(db *gorm.DB) *GormDocSettlementRepository {
	return &GormDocSettlementRepository{newOwnedRepository[finance.DocSettlement](db, listSpec{
		searchColumns: []string{"doc_number"},
		sortFields:    SettlementSortFields,
		defaultSort:   "doc_date",
		filterColumns: map[string]string{
			"client_id": "client_id",
			"status":    "status",
		},
		dateColumn: "doc_date",
	})}
}
