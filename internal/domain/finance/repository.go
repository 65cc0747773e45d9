package finance

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BankOperationRepository defines persistence for bank operations
type BankOperationRepository interface {
	shared.OwnedRepository[BankOperation]
}

// ChartOfAccountRepository defines persistence for the chart of accounts
type ChartOfAccountRepository interface {
	shared.OwnedRepository[ChartOfAccount]

	// FindByCode finds an account by its code within the owner's chart
	FindByCode(ctx context.Context, ownerID uuid.UUID, code string) (*ChartOfAccount, error)

	// ExistsByCode reports whether code is taken, ignoring excludeID
	ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
}

// DocSettlementRepository defines persistence for document settlements
type DocSettlementRepository interface {
	shared.OwnedRepository[DocSettlement]
}
