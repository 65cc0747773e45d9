package persistence

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/report"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/bizdesk/backend/internal/infrastructure/persistence/owner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStatsRepository implements report.StatsRepository with aggregate queries
type GormStatsRepository struct {
	db *gorm.DB
}

var _ report.StatsRepository = (*GormStatsRepository)(nil)

// NewGormStatsRepository creates a new GormStatsRepository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

type countedTable struct {
	name  string
	model any
}

var countedTables = []countedTable{
	{"users", &identity.User{}},
	{"clients", &partner.Client{}},
	{"products", &catalog.Product{}},
	{"sales", &trade.Sale{}},
	{"purchases", &trade.Purchase{}},
	{"warehouses", &partner.Warehouse{}},
	{"warehouse_stock", &partner.WarehouseStock{}},
	{"bank_operations", &finance.BankOperation{}},
	{"chart_of_accounts", &finance.ChartOfAccount{}},
	{"doc_settlements", &finance.DocSettlement{}},
}

// TableCounts counts live rows per table. For a single owner, "users" is the
// owner's own row.
func (r *GormStatsRepository) TableCounts(ctx context.Context, ownerID uuid.UUID) ([]report.TableCount, error) {
	counts := make([]report.TableCount, 0, len(countedTables))
	for _, t := range countedTables {
		q := r.db.WithContext(ctx).Model(t.model)
		if t.name == "users" {
			if ownerID != uuid.Nil {
				q = q.Where("id = ?", ownerID)
			}
		} else {
			q = q.Scopes(owner.Scope(ownerID))
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		counts = append(counts, report.TableCount{Name: t.name, RecordCount: n})
	}
	return counts, nil
}

// SalesByStatus groups sales by status
func (r *GormStatsRepository) SalesByStatus(ctx context.Context, ownerID uuid.UUID) ([]report.StatusBreakdown, error) {
	return r.byStatus(ctx, &trade.Sale{}, "total_amount", ownerID)
}

// PurchasesByStatus groups purchases by status
func (r *GormStatsRepository) PurchasesByStatus(ctx context.Context, ownerID uuid.UUID) ([]report.StatusBreakdown, error) {
	return r.byStatus(ctx, &trade.Purchase{}, "total_amount", ownerID)
}

// SettlementsByStatus groups document settlements by status
func (r *GormStatsRepository) SettlementsByStatus(ctx context.Context, ownerID uuid.UUID) ([]report.StatusBreakdown, error) {
	return r.byStatus(ctx, &finance.DocSettlement{}, "amount", ownerID)
}

func (r *GormStatsRepository) byStatus(ctx context.Context, model any, amountColumn string, ownerID uuid.UUID) ([]report.StatusBreakdown, error) {
	rows := []report.StatusBreakdown{}
	err := r.db.WithContext(ctx).Model(model).
		Scopes(owner.Scope(ownerID)).
		Select("status, COUNT(*) AS count, COALESCE(SUM(" + amountColumn + "), 0) AS total_amount").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BankByType groups bank operations by credit/debit
func (r *GormStatsRepository) BankByType(ctx context.Context, ownerID uuid.UUID) ([]report.OperationBreakdown, error) {
	rows := []report.OperationBreakdown{}
	err := r.db.WithContext(ctx).Model(&finance.BankOperation{}).
		Scopes(owner.Scope(ownerID)).
		Select("type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("type").
		Order("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Warehouses lists warehouses with the number of stocked products
func (r *GormStatsRepository) Warehouses(ctx context.Context, ownerID uuid.UUID) ([]report.WarehouseSummary, error) {
	rows := []report.WarehouseSummary{}
	err := r.db.WithContext(ctx).
		Table("warehouses AS w").
		Select("w.id, w.name, w.status, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN warehouse_stock ws ON ws.warehouse_id = w.id").
		Joins("LEFT JOIN products p ON p.id = ws.product_id AND p.deleted_at IS NULL").
		Where("w.deleted_at IS NULL").
		Scopes(owner.ScopeTable("w", ownerID)).
		Group("w.id, w.name, w.status").
		Order("w.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopClients ranks clients by number of sales, then by sales amount
func (r *GormStatsRepository) TopClients(ctx context.Context, ownerID uuid.UUID, limit int) ([]report.ClientRanking, error) {
	rows := []report.ClientRanking{}
	err := r.db.WithContext(ctx).
		Table("clients AS c").
		Select("c.id AS client_id, c.name, COUNT(s.id) AS sales_count, COALESCE(SUM(s.total_amount), 0) AS total_amount").
		Joins("JOIN sales s ON s.client_id = c.id AND s.deleted_at IS NULL").
		Where("c.deleted_at IS NULL").
		Scopes(owner.ScopeTable("c", ownerID)).
		Group("c.id, c.name").
		Order("sales_count DESC, total_amount DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

type warehouseRow struct {
	ID       uuid.UUID
	Name     string
	Username *string
	Email    *string
}

type stockRow struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	Name        string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// WarehouseDetails values every warehouse's stock at list price
func (r *GormStatsRepository) WarehouseDetails(ctx context.Context, ownerID uuid.UUID) ([]report.WarehouseDetail, error) {
	var warehouses []warehouseRow
	err := r.db.WithContext(ctx).
		Table("warehouses AS w").
		Select("w.id, w.name, u.username, u.email").
		Joins("LEFT JOIN users u ON u.id = w.responsible_person_id AND u.id = w.user_id").
		Where("w.deleted_at IS NULL").
		Scopes(owner.ScopeTable("w", ownerID)).
		Order("w.name").
		Scan(&warehouses).Error
	if err != nil {
		return nil, err
	}

	var lines []stockRow
	err = r.db.WithContext(ctx).
		Table("warehouse_stock AS ws").
		Select("ws.warehouse_id, ws.product_id, p.name, ws.quantity, p.price").
		Joins("JOIN products p ON p.id = ws.product_id AND p.deleted_at IS NULL").
		Scopes(owner.ScopeTable("ws", ownerID)).
		Order("p.name").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	byWarehouse := make(map[uuid.UUID][]report.StockLine, len(warehouses))
	for _, l := range lines {
		byWarehouse[l.WarehouseID] = append(byWarehouse[l.WarehouseID], report.StockLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Value:     l.Quantity.Mul(l.Price).RoundBank(2),
		})
	}

	details := make([]report.WarehouseDetail, 0, len(warehouses))
	for _, w := range warehouses {
		products := byWarehouse[w.ID]
		if products == nil {
			products = []report.StockLine{}
		}
		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Value)
		}
		d := report.WarehouseDetail{
			ID:            w.ID,
			Name:          w.Name,
			TotalProducts: len(products),
			TotalValue:    total,
			Products:      products,
		}
		if w.Username != nil {
			d.ResponsiblePerson = &report.ResponsiblePerson{Username: *w.Username}
			if w.Email != nil {
				d.ResponsiblePerson.Email = *w.Email
			}
		}
		details = append(details, d)
	}
	return details, nil
}
