package persistence

import (
	"context"
	"strings"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/infrastructure/persistence/owner"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	ownedRepository[catalog.Product, *catalog.Product]
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{newOwnedRepository[catalog.Product](db, listSpec{
		searchColumns: []string{"code", "name", "description"},
		sortFields:    ProductSortFields,
		defaultSort:   "code",
		filterColumns: map[string]string{
			"currency": "currency",
			"unit":     "unit",
		},
	})}
}

// ExistsByCode reports whether the owner already uses code
func (r *GormProductRepository) ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return r.existsForOwner(ctx, ownerID, "code", strings.ToUpper(strings.TrimSpace(code)), excludeID)
}

// FindByIDs loads several products of one owner
func (r *GormProductRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Scopes(owner.Scope(ownerID)).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
