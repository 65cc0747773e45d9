package partner

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientRepository defines persistence for clients
type ClientRepository interface {
	shared.OwnedRepository[Client]
}

// WarehouseRepository defines persistence for warehouses and their stock lines
type WarehouseRepository interface {
	shared.OwnedRepository[Warehouse]

	// FindStock lists the stock lines of a warehouse
	FindStock(ctx context.Context, ownerID, warehouseID uuid.UUID) ([]WarehouseStock, error)

	// SetStock upserts a stock line; a zero quantity removes it and returns nil
	SetStock(ctx context.Context, ownerID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) (*WarehouseStock, error)
}
