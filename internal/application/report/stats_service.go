package report

import (
	"context"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/report"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopClientsLimit is the size of the top-clients ranking
const TopClientsLimit = 5

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseStatsResponse describes database connectivity and row counts
type DatabaseStatsResponse struct {
	Connected    bool                `json:"connected"`
	Tables       []report.TableCount `json:"tables"`
	TotalRecords int64               `json:"total_records"`
}

// StatsService serves read-only aggregates over an owner's data.
// uuid.Nil as owner widens every aggregate to all owners.
type StatsService struct {
	statsRepo report.StatsRepository
	db        Pinger
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo report.StatsRepository, db Pinger) *StatsService {
	return &StatsService{statsRepo: statsRepo, db: db}
}

// DatabaseStats reports connectivity and per-table row counts. An unreachable
// database is not an error: Connected is false and Tables is empty.
func (s *StatsService) DatabaseStats(ctx context.Context, ownerID uuid.UUID) (*DatabaseStatsResponse, error) {
	resp := &DatabaseStatsResponse{Tables: []report.TableCount{}}
	if err := s.db.Ping(ctx); err != nil {
		return resp, nil
	}
	resp.Connected = true

	tables, err := s.statsRepo.TableCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp.Tables = tables
	for _, t := range tables {
		resp.TotalRecords += t.RecordCount
	}
	return resp, nil
}

// SalesStats groups sales by status
func (s *StatsService) SalesStats(ctx context.Context, ownerID uuid.UUID) ([]report.StatusBreakdown, error) {
	return s.statsRepo.SalesByStatus(ctx, ownerID)
}

// PurchaseStats groups purchases by status
func (s *StatsService) PurchaseStats(ctx context.Context, ownerID uuid.UUID) ([]report.StatusBreakdown, error) {
	return s.statsRepo.PurchasesByStatus(ctx, ownerID)
}

// BankStats groups bank operations by type
func (s *StatsService) BankStats(ctx context.Context, ownerID uuid.UUID) ([]report.OperationBreakdown, error) {
	return s.statsRepo.BankByType(ctx, ownerID)
}

// WarehouseStats lists warehouses with their product counts
func (s *StatsService) WarehouseStats(ctx context.Context, ownerID uuid.UUID) ([]report.WarehouseSummary, error) {
	return s.statsRepo.Warehouses(ctx, ownerID)
}

// TopClients ranks the owner's best clients by number of sales
func (s *StatsService) TopClients(ctx context.Context, ownerID uuid.UUID) ([]report.ClientRanking, error) {
	return s.statsRepo.TopClients(ctx, ownerID, TopClientsLimit)
}

// FinancialSummary totals non-cancelled sales and purchases and the bank
// balance (credits minus debits)
func (s *StatsService) FinancialSummary(ctx context.Context, ownerID uuid.UUID) (*report.FinancialSummary, error) {
	sales, err := s.statsRepo.SalesByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.statsRepo.PurchasesByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	bank, err := s.statsRepo.BankByType(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &report.FinancialSummary{
		TotalSales:     activeTotal(sales),
		TotalPurchases: activeTotal(purchases),
		BankBalance:    decimal.Zero,
	}
	for _, op := range bank {
		switch finance.OperationType(op.Type) {
		case finance.OperationCredit:
			summary.BankBalance = summary.BankBalance.Add(op.TotalAmount)
		case finance.OperationDebit:
			summary.BankBalance = summary.BankBalance.Sub(op.TotalAmount)
		}
	}
	summary.GrossMargin = summary.TotalSales.Sub(summary.TotalPurchases)
	return summary, nil
}

// DocumentsSummary groups sales, purchases and settlements by status
func (s *StatsService) DocumentsSummary(ctx context.Context, ownerID uuid.UUID) (*report.DocumentsSummary, error) {
	sales, err := s.statsRepo.SalesByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.statsRepo.PurchasesByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.statsRepo.SettlementsByStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &report.DocumentsSummary{Sales: sales, Purchases: purchases, Settlements: settlements}, nil
}

// WarehouseDetailed lists warehouses with their stock valued at list price
func (s *StatsService) WarehouseDetailed(ctx context.Context, ownerID uuid.UUID) ([]report.WarehouseDetail, error) {
	return s.statsRepo.WarehouseDetails(ctx, ownerID)
}

func activeTotal(rows []report.StatusBreakdown) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		if trade.DocumentStatus(r.Status) == trade.StatusCancelled {
			continue
		}
		total = total.Add(r.TotalAmount)
	}
	return total
}
