package trade

import (
	"context"
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// refChecker verifies that documents only point at the owner's clients and
// warehouses
type refChecker struct {
	clientRepo    partner.ClientRepository
	warehouseRepo partner.WarehouseRepository
}

func (r refChecker) check(ctx context.Context, ownerID uuid.UUID, clientID, warehouseID *uuid.UUID) error {
	if clientID != nil {
		if _, err := shared.RequireOwned(ctx, r.clientRepo, ownerID, *clientID, "Client"); err != nil {
			return err
		}
	}
	if warehouseID != nil {
		if _, err := shared.RequireOwned(ctx, r.warehouseRepo, ownerID, *warehouseID, "Warehouse"); err != nil {
			return err
		}
	}
	return nil
}

func parseDocDate(s string) (time.Time, error) {
	t, err := valueobject.ParseDate(s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DOC_DATE", err.Error())
	}
	return t, nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	t, err := valueobject.ParseDatePtr(s)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("%s: %v", field, err)
	}
	return t, nil
}

// creationChanges turns the optional fields of a create request into changes
// applied on top of a fresh draft
func creationChanges(req CreateDocumentRequest) trade.DocumentChanges {
	ch := trade.DocumentChanges{
		WarehouseID: req.WarehouseID,
		TotalAmount: req.TotalAmount,
		VATRate:     req.VATRate,
	}
	if req.Currency != "" {
		ch.Currency = &req.Currency
	}
	if req.InvoiceType != "" {
		ch.InvoiceType = &req.InvoiceType
	}
	if req.InvoiceNumber != "" {
		ch.InvoiceNumber = &req.InvoiceNumber
	}
	if req.Status != "" {
		ch.Status = &req.Status
	}
	return ch
}

// updateChanges converts an update request, checking any new references
func (r refChecker) updateChanges(ctx context.Context, ownerID uuid.UUID, req UpdateDocumentRequest) (trade.DocumentChanges, error) {
	warehouseID, detach, err := valueobject.ParseRef(req.WarehouseID)
	if err != nil {
		return trade.DocumentChanges{}, shared.ErrInvalidInput.WithMessage("warehouse_id: %v", err)
	}
	if err := r.check(ctx, ownerID, req.ClientID, warehouseID); err != nil {
		return trade.DocumentChanges{}, err
	}

	ch := trade.DocumentChanges{
		DocNumber:      req.DocNumber,
		ClientID:       req.ClientID,
		WarehouseID:    warehouseID,
		ClearWarehouse: detach,
		TotalAmount:    req.TotalAmount,
		Currency:       req.Currency,
		InvoiceType:    req.InvoiceType,
		InvoiceNumber:  req.InvoiceNumber,
		VATRate:        req.VATRate,
		Status:         req.Status,
	}
	if req.DocDate != nil {
		d, err := parseDocDate(*req.DocDate)
		if err != nil {
			return trade.DocumentChanges{}, err
		}
		ch.DocDate = &d
	}
	return ch, nil
}

// normalizeListFilter lower-cases status and upper-cases currency filters
func normalizeListFilter(filter shared.Filter) shared.Filter {
	filter = filter.Normalize()
	if s, ok := filter.Filters["status"].(string); ok {
		filter.Filters["status"] = strings.ToLower(strings.TrimSpace(s))
	}
	if c, ok := filter.Filters["currency"].(string); ok {
		filter.Filters["currency"] = strings.ToUpper(strings.TrimSpace(c))
	}
	return filter
}
