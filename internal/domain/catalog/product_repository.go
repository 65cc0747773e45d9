package catalog

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence for products
type ProductRepository interface {
	shared.OwnedRepository[Product]

	// ExistsByCode reports whether the owner already has a product with code,
	// ignoring excludeID (uuid.Nil to check all)
	ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)

	// FindByIDs loads several products of one owner
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]Product, error)
}
