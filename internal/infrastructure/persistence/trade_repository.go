package persistence

import (
	"github.com/bizdesk/backend/internal/domain/trade"
	"gorm.io/gorm"
)

var documentFilters = map[string]string{
	"client_id":    "client_id",
	"warehouse_id": "warehouse_id",
	"status":       "status",
	"currency":     "currency",
	"invoice_type": "invoice_type",
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	ownedRepository[trade.Sale, *trade.Sale]
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{newOwnedRepository[trade.Sale](db, listSpec{
		searchColumns: []string{"doc_number", "invoice_number"},
		sortFields:    SaleSortFields,
		defaultSort:   "doc_date",
		filterColumns: documentFilters,
		dateColumn:    "doc_date",
	})}
}

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	ownedRepository[trade.Purchase, *trade.Purchase]
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{newOwnedRepository[trade.Purchase](db, listSpec{
		searchColumns: []string{"doc_number", "invoice_number"},
		sortFields:    PurchaseSortFields,
		defaultSort:   "doc_date",
		filterColumns: documentFilters,
		dateColumn:    "doc_date",
	})}
}
