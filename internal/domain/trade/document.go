package trade

import (
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle state of a sale or purchase document
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusConfirmed DocumentStatus = "confirmed"
	StatusCompleted DocumentStatus = "completed"
	StatusCancelled DocumentStatus = "cancelled"
)

// DefaultInvoiceType is used when none is supplied
const DefaultInvoiceType = "standard"

var allowedTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:     {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ParseDocumentStatus validates a status string
func ParseDocumentStatus(s string) (DocumentStatus, bool) {
	st := DocumentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusDraft, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the status may move to next
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s DocumentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Document holds the fields shared by sales and purchases
type Document struct {
	shared.OwnedAggregateRoot
	DocNumber     string               `gorm:"type:varchar(50);not null;index"`
	DocDate       time.Time            `gorm:"type:date;not null;index"`
	ClientID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	WarehouseID   *uuid.UUID           `gorm:"type:uuid;index"`
	TotalAmount   decimal.Decimal      `gorm:"type:numeric(18,2);not null;default:0"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	InvoiceType   string               `gorm:"type:varchar(30);not null;default:'standard'"`
	InvoiceNumber string               `gorm:"type:varchar(50)"`
	VATRate       decimal.Decimal      `gorm:"column:vat_rate;type:numeric(5,2);not null;default:0"`
	Status        DocumentStatus       `gorm:"type:varchar(20);not null;default:'draft';index"`
}

// DocumentChanges carries a partial update; nil fields are left untouched
type DocumentChanges struct {
	DocNumber      *string
	DocDate        *time.Time
	ClientID       *uuid.UUID
	WarehouseID    *uuid.UUID
	ClearWarehouse bool
	TotalAmount    *decimal.Decimal
	Currency       *string
	InvoiceType    *string
	InvoiceNumber  *string
	VATRate        *decimal.Decimal
	Status         *string
}

func newDocument(ownerID uuid.UUID, docNumber string, docDate time.Time, clientID uuid.UUID) (Document, error) {
	if err := validateDocNumber(docNumber); err != nil {
		return Document{}, err
	}
	if docDate.IsZero() {
		return Document{}, shared.NewDomainError("INVALID_DOC_DATE", "Document date is required")
	}
	if clientID == uuid.Nil {
		return Document{}, shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	return Document{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		DocNumber:          strings.TrimSpace(docNumber),
		DocDate:            docDate,
		ClientID:           clientID,
		TotalAmount:        decimal.Zero,
		Currency:           valueobject.DefaultCurrency,
		InvoiceType:        DefaultInvoiceType,
		VATRate:            decimal.Zero,
		Status:             StatusDraft,
	}, nil
}

// Apply validates and applies a partial update. A status change must follow
// the document lifecycle; terminal documents accept no other edits.
func (d *Document) Apply(ch DocumentChanges) error {
	var (
		status   DocumentStatus
		currency valueobject.Currency
	)
	if ch.Status != nil {
		var ok bool
		if status, ok = ParseDocumentStatus(*ch.Status); !ok {
			return shared.NewDomainError("INVALID_STATUS", "Unknown document status")
		}
		if status != d.Status && !d.Status.CanTransitionTo(status) {
			return ErrInvalidTransition.WithMessage("Cannot change status from %s to %s", d.Status, status)
		}
	}
	if d.Status.IsTerminal() && ch.touchesContent() {
		return ErrInvalidTransition.WithMessage("Document is %s and can no longer be edited", d.Status)
	}
	if ch.DocNumber != nil {
		if err := validateDocNumber(*ch.DocNumber); err != nil {
			return err
		}
	}
	if ch.DocDate != nil && ch.DocDate.IsZero() {
		return shared.NewDomainError("INVALID_DOC_DATE", "Document date is required")
	}
	if ch.ClientID != nil && *ch.ClientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	if ch.TotalAmount != nil && ch.TotalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if ch.VATRate != nil {
		if err := ValidateVATRate(*ch.VATRate); err != nil {
			return err
		}
	}
	if ch.Currency != nil {
		var ok bool
		if currency, ok = valueobject.ParseCurrency(*ch.Currency); !ok {
			return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
		}
	}

	if ch.DocNumber != nil {
		d.DocNumber = strings.TrimSpace(*ch.DocNumber)
	}
	if ch.DocDate != nil {
		d.DocDate = *ch.DocDate
	}
	if ch.ClientID != nil {
		d.ClientID = *ch.ClientID
	}
	switch {
	case ch.ClearWarehouse:
		d.WarehouseID = nil
	case ch.WarehouseID != nil:
		d.WarehouseID = ch.WarehouseID
	}
	if ch.TotalAmount != nil {
		d.TotalAmount = valueobject.RoundMoney(*ch.TotalAmount)
	}
	if ch.Currency != nil {
		d.Currency = currency
	}
	if ch.InvoiceType != nil {
		d.InvoiceType = strings.TrimSpace(*ch.InvoiceType)
		if d.InvoiceType == "" {
			d.InvoiceType = DefaultInvoiceType
		}
	}
	if ch.InvoiceNumber != nil {
		d.InvoiceNumber = strings.TrimSpace(*ch.InvoiceNumber)
	}
	if ch.VATRate != nil {
		d.VATRate = *ch.VATRate
	}
	if ch.Status != nil {
		d.Status = status
	}
	d.Touch()
	return nil
}

// ChangeStatus moves the document along its lifecycle
func (d *Document) ChangeStatus(next string) error {
	return d.Apply(DocumentChanges{Status: &next})
}

func (ch DocumentChanges) touchesContent() bool {
	return ch.DocNumber != nil || ch.DocDate != nil || ch.ClientID != nil ||
		ch.WarehouseID != nil || ch.ClearWarehouse || ch.TotalAmount != nil ||
		ch.Currency != nil || ch.InvoiceType != nil || ch.InvoiceNumber != nil ||
		ch.VATRate != nil
}

// ValidateVATRate accepts percentages between 0 and 100
func ValidateVATRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	return nil
}

func validateDocNumber(n string) error {
	n = strings.TrimSpace(n)
	if n == "" {
		return shared.NewDomainError("INVALID_DOC_NUMBER", "Document number cannot be empty")
	}
	if len(n) > 50 {
		return shared.NewDomainError("INVALID_DOC_NUMBER", "Document number cannot exceed 50 characters")
	}
	return nil
}

// ErrInvalidTransition is returned for lifecycle violations
var ErrInvalidTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Status transition not allowed")
