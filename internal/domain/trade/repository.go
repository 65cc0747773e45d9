package trade

import "github.com/bizdesk/backend/internal/domain/shared"

// SaleRepository defines persistence for sales
type SaleRepository interface {
	shared.OwnedRepository[Sale]
}

// PurchaseRepository defines persistence for purchases
type PurchaseRepository interface {
	shared.OwnedRepository[Purchase]
}
