package persistence

import (
	"context"
	"errors"

	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/infrastructure/persistence/owner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	ownedRepository[partner.Warehouse, *partner.Warehouse]
}

var _ partner.WarehouseRepository = (*GormWarehouseRepository)(nil)

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{newOwnedRepository[partner.Warehouse](db, listSpec{
		searchColumns: []string{"name", "code", "address"},
		sortFields:    WarehouseSortFields,
		defaultSort:   "name",
		filterColumns: map[string]string{
			"status":    "status",
			"client_id": "client_id",
		},
	})}
}

// FindStock lists the stock lines of a warehouse
func (r *GormWarehouseRepository) FindStock(ctx context.Context, ownerID, warehouseID uuid.UUID) ([]partner.WarehouseStock, error) {
	var lines []partner.WarehouseStock
	if err := r.db.WithContext(ctx).
		Scopes(owner.Scope(ownerID)).
		Where("warehouse_id = ?", warehouseID).
		Order("created_at").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// SetStock upserts a stock line inside a transaction; zero removes the line
func (r *GormWarehouseRepository) SetStock(ctx context.Context, ownerID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) (*partner.WarehouseStock, error) {
	var result *partner.WarehouseStock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line partner.WarehouseStock
		err := tx.Scopes(owner.Scope(ownerID)).
			Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
			First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity.IsZero() {
				return nil
			}
			line = partner.WarehouseStock{
				BaseEntity:  shared.NewBaseEntity(),
				UserID:      ownerID,
				WarehouseID: warehouseID,
				ProductID:   productID,
				Quantity:    quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return translateWriteError(err)
			}
			result = &line
			return nil
		case err != nil:
			return err
		}

		if quantity.IsZero() {
			return tx.Scopes(owner.Scope(ownerID)).Delete(&partner.WarehouseStock{}, "id = ?", line.ID).Error
		}
		line.Quantity = quantity
		line.Touch()
		if err := tx.Scopes(owner.Scope(ownerID)).
			Model(&line).
			Updates(map[string]any{"quantity": line.Quantity, "updated_at": line.UpdatedAt}).Error; err != nil {
			return err
		}
		result = &line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
