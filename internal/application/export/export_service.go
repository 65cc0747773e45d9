package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Resource names an exportable collection
type Resource string

const (
	ResourceClients        Resource = "clients"
	ResourceProducts       Resource = "products"
	ResourceSales          Resource = "sales"
	ResourcePurchases      Resource = "purchases"
	ResourceBankOperations Resource = "bank-operations"
	ResourceSettlements    Resource = "doc-settlements"
)

// ErrUnknownResource is returned for a resource that cannot be exported
var ErrUnknownResource = shared.NotFound("Export resource")

// Repositories are the record sources of the exporter
type Repositories struct {
	Clients        partner.ClientRepository
	Products       catalog.ProductRepository
	Sales          trade.SaleRepository
	Purchases      trade.PurchaseRepository
	BankOperations finance.BankOperationRepository
	Settlements    finance.DocSettlementRepository
}

// File is a rendered workbook
type File struct {
	Name string
	Data []byte
}

// LinkResponse points at an uploaded workbook
type LinkResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Key       string    `json:"key"`
}

// Result holds either an uploaded workbook's link or the workbook itself
type Result struct {
	Link *LinkResponse
	File *File
}

type builder func(ctx context.Context, ownerID uuid.UUID) (*excelize.File, error)

// Service renders an owner's records as XLSX workbooks
type Service struct {
	builders map[Resource]builder
	store    storage.ObjectStorage
	linkTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates an export service. A nil store streams workbooks back
// to the caller instead of uploading them.
func NewService(repos Repositories, store storage.ObjectStorage, linkTTL time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	return &Service{
		builders: map[Resource]builder{
			ResourceClients:        sheetOf("Clients", repos.Clients, clientColumns),
			ResourceProducts:       sheetOf("Products", repos.Products, productColumns),
			ResourceSales:          sheetOf("Sales", repos.Sales, saleColumns),
			ResourcePurchases:      sheetOf("Purchases", repos.Purchases, purchaseColumns),
			ResourceBankOperations: sheetOf("Bank Operations", repos.BankOperations, bankOperationColumns),
			ResourceSettlements:    sheetOf("Settlements", repos.Settlements, settlementColumns),
		},
		store:   store,
		linkTTL: linkTTL,
		logger:  log,
		now:     time.Now,
	}
}

func sheetOf[T any](sheet string, repo shared.OwnedRepository[T], cols []column[T]) builder {
	return func(ctx context.Context, ownerID uuid.UUID) (*excelize.File, error) {
		rows, err := fetchAll(ctx, repo, ownerID)
		if err != nil {
			return nil, err
		}
		return writeSheet(sheet, cols, rows)
	}
}

// Resources lists the exportable resources
func (s *Service) Resources() []Resource {
	return []Resource{
		ResourceClients, ResourceProducts, ResourceSales,
		ResourcePurchases, ResourceBankOperations, ResourceSettlements,
	}
}

// Render builds the workbook of one resource for ownerID
func (s *Service) Render(ctx context.Context, ownerID uuid.UUID, resource Resource) (*File, error) {
	build, ok := s.builders[resource]
	if !ok {
		return nil, ErrUnknownResource
	}
	f, err := build(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &File{
		Name: fmt.Sprintf("%s-%s.xlsx", resource, s.now().UTC().Format("20060102T150405Z")),
		Data: buf.Bytes(),
	}, nil
}

// Export renders a workbook and, when object storage is configured, uploads
// it under exports/<owner>/ and returns a presigned link instead
func (s *Service) Export(ctx context.Context, ownerID uuid.UUID, resource Resource) (*Result, error) {
	file, err := s.Render(ctx, ownerID, resource)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return &Result{File: file}, nil
	}

	key := fmt.Sprintf("exports/%s/%s", ownerID, file.Name)
	if err := s.store.Upload(ctx, key, file.Data, ContentType); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	url, expiresAt, err := s.store.GenerateDownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	logger.Enrich(ctx, s.logger).Info("Export uploaded",
		zap.String("resource", string(resource)),
		zap.String("key", key),
		zap.Int("bytes", len(file.Data)))
	return &Result{Link: &LinkResponse{URL: url, ExpiresAt: expiresAt, Key: key}}, nil
}

var clientColumns = []column[partner.Client]{
	{"name", func(c *partner.Client) any { return c.Name }},
	{"email", func(c *partner.Client) any { return c.Email }},
	{"phone", func(c *partner.Client) any { return c.Phone }},
	{"type", func(c *partner.Client) any { return string(c.Type) }},
	{"client_type", func(c *partner.Client) any { return string(c.ClientType) }},
	{"code", func(c *partner.Client) any { return c.Code }},
	{"vat_code", func(c *partner.Client) any { return c.VATCode }},
	{"is_active", func(c *partner.Client) any { return c.IsActive }},
	{"created_at", func(c *partner.Client) any { return date(c.CreatedAt) }},
}

var productColumns = []column[catalog.Product]{
	{"code", func(p *catalog.Product) any { return p.Code }},
	{"name", func(p *catalog.Product) any { return p.Name }},
	{"description", func(p *catalog.Product) any { return p.Description }},
	{"unit", func(p *catalog.Product) any { return p.Unit }},
	{"price", func(p *catalog.Product) any { return money(p.Price) }},
	{"currency", func(p *catalog.Product) any { return string(p.Currency) }},
}

func documentColumns[T any](doc func(*T) *trade.Document) []column[T] {
	return []column[T]{
		{"doc_number", func(t *T) any { return doc(t).DocNumber }},
		{"doc_date", func(t *T) any { return date(doc(t).DocDate) }},
		{"client_id", func(t *T) any { return doc(t).ClientID.String() }},
		{"warehouse_id", func(t *T) any { return optionalID(doc(t).WarehouseID) }},
		{"total_amount", func(t *T) any { return money(doc(t).TotalAmount) }},
		{"currency", func(t *T) any { return string(doc(t).Currency) }},
		{"invoice_type", func(t *T) any { return doc(t).InvoiceType }},
		{"invoice_number", func(t *T) any { return doc(t).InvoiceNumber }},
		{"vat_rate", func(t *T) any { return money(doc(t).VATRate) }},
		{"status", func(t *T) any { return string(doc(t).Status) }},
	}
}

var saleColumns = append(
	documentColumns(func(s *trade.Sale) *trade.Document { return &s.Document }),
	column[trade.Sale]{"sale_date", func(s *trade.Sale) any { return optionalDate(s.SaleDate) }},
)

var purchaseColumns = append(
	documentColumns(func(p *trade.Purchase) *trade.Document { return &p.Document }),
	column[trade.Purchase]{"purchase_date", func(p *trade.Purchase) any { return optionalDate(p.PurchaseDate) }},
)

var bankOperationColumns = []column[finance.BankOperation]{
	{"date", func(b *finance.BankOperation) any { return date(b.Date) }},
	{"description", func(b *finance.BankOperation) any { return b.Description }},
	{"type", func(b *finance.BankOperation) any { return string(b.Type) }},
	{"amount", func(b *finance.BankOperation) any { return money(b.Amount) }},
	{"account_id", func(b *finance.BankOperation) any { return optionalID(b.AccountID) }},
	{"client_id", func(b *finance.BankOperation) any { return optionalID(b.ClientID) }},
}

var settlementColumns = []column[finance.DocSettlement]{
	{"doc_number", func(s *finance.DocSettlement) any { return s.DocNumber }},
	{"doc_date", func(s *finance.DocSettlement) any { return date(s.DocDate) }},
	{"client_id", func(s *finance.DocSettlement) any { return s.ClientID.String() }},
	{"status", func(s *finance.DocSettlement) any { return string(s.Status) }},
	{"amount", func(s *finance.DocSettlement) any { return money(s.Amount) }},
	{"period_start", func(s *finance.DocSettlement) any { return optionalDate(s.PeriodStart) }},
	{"period_end", func(s *finance.DocSettlement) any { return optionalDate(s.PeriodEnd) }},
}
