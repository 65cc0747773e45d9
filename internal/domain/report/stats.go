package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TableCount is the number of live rows in one table
type TableCount struct {
	Name        string `json:"name"`
	RecordCount int64  `json:"record_count"`
}

// StatusBreakdown aggregates documents sharing a status
type StatusBreakdown struct {
	Status      string          `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OperationBreakdown aggregates bank operations of one type
type OperationBreakdown struct {
	Type        string          `json:"type"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// WarehouseSummary is a warehouse with the number of products it stocks
type WarehouseSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ProductCount int64     `json:"product_count"`
}

// ClientRanking is a client ranked by sales
type ClientRanking struct {
	Rank        int             `json:"rank"`
	ClientID    uuid.UUID       `json:"client_id"`
	Name        string          `json:"name"`
	SalesCount  int64           `json:"sales_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// FinancialSummary totals sales, purchases and the bank balance
type FinancialSummary struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	BankBalance    decimal.Decimal `json:"bank_balance"`
	GrossMargin    decimal.Decimal `json:"gross_margin"`
}

// DocumentsSummary groups every document kind by status
type DocumentsSummary struct {
	Sales       []StatusBreakdown `json:"sales"`
	Purchases   []StatusBreakdown `json:"purchases"`
	Settlements []StatusBreakdown `json:"settlements"`
}

// ResponsiblePerson is the user looking after a warehouse
type ResponsiblePerson struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// StockLine is one product held in a warehouse, valued at list price
type StockLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
}

// WarehouseDetail is a warehouse with its valued stock
type WarehouseDetail struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	ResponsiblePerson *ResponsiblePerson `json:"responsible_person"`
	TotalProducts     int                `json:"total_products"`
	TotalValue        decimal.Decimal    `json:"total_value"`
	Products          []StockLine        `json:"products"`
}

// StatsRepository provides read-only aggregates over owned data.
// ownerID == uuid.Nil means "all owners" and is reserved for admins.
type StatsRepository interface {
	TableCounts(ctx context.Context, ownerID uuid.UUID) ([]TableCount, error)
	SalesByStatus(ctx context.Context, ownerID uuid.UUID) ([]StatusBreakdown, error)
	PurchasesByStatus(ctx context.Context, ownerID uuid.UUID) ([]StatusBreakdown, error)
	SettlementsByStatus(ctx context.Context, ownerID uuid.UUID) ([]StatusBreakdown, error)
	BankByType(ctx context.Context, ownerID uuid.UUID) ([]OperationBreakdown, error)
	Warehouses(ctx context.Context, ownerID uuid.UUID) ([]WarehouseSummary, error)
	TopClients(ctx context.Context, ownerID uuid.UUID, limit int) ([]ClientRanking, error)
	WarehouseDetails(ctx context.Context, ownerID uuid.UUID) ([]WarehouseDetail, error)
}
