package finance

import (
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementStatus is the state of a document settlement
type SettlementStatus string

const (
	SettlementDraft     SettlementStatus = "draft"
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
	SettlementCancelled SettlementStatus = "cancelled"
)

var settlementTransitions = map[SettlementStatus][]SettlementStatus{
	SettlementDraft:   {SettlementPending, SettlementCompleted, SettlementCancelled},
	SettlementPending: {SettlementCompleted, SettlementCancelled, SettlementDraft},
}

// ParseSettlementStatus validates a settlement status
func ParseSettlementStatus(s string) (SettlementStatus, bool) {
	st := SettlementStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case SettlementDraft, SettlementPending, SettlementCompleted, SettlementCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the status may move to next
func (s SettlementStatus) CanTransitionTo(next SettlementStatus) bool {
	for _, allowed := range settlementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DocSettlement settles a client's documents over a period
type DocSettlement struct {
	shared.OwnedAggregateRoot
	DocNumber   string           `gorm:"type:varchar(50);not null;index"`
	DocDate     time.Time        `gorm:"type:date;not null;index"`
	ClientID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status      SettlementStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Amount      decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0"`
	PeriodStart *time.Time       `gorm:"type:date"`
	PeriodEnd   *time.Time       `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (DocSettlement) TableName() string {
	return "doc_settlements"
}

// SettlementChanges carries a partial update; nil fields are left untouched
type SettlementChanges struct {
	DocNumber   *string
	DocDate     *time.Time
	ClientID    *uuid.UUID
	Amount      *decimal.Decimal
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Status      *string
}

// NewDocSettlement creates a draft settlement
func NewDocSettlement(ownerID uuid.UUID, docNumber string, docDate time.Time, clientID uuid.UUID) (*DocSettlement, error) {
	docNumber = strings.TrimSpace(docNumber)
	if docNumber == "" {
		return nil, shared.NewDomainError("INVALID_DOC_NUMBER", "Document number cannot be empty")
	}
	if docDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DOC_DATE", "Document date is required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	return &DocSettlement{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		DocNumber:          docNumber,
		DocDate:            docDate,
		ClientID:           clientID,
		Status:             SettlementDraft,
		Amount:             decimal.Zero,
	}, nil
}

// Apply validates and applies a partial update
func (s *DocSettlement) Apply(ch SettlementChanges) error {
	var status SettlementStatus
	if ch.Status != nil {
		var ok bool
		if status, ok = ParseSettlementStatus(*ch.Status); !ok {
			return shared.NewDomainError("INVALID_STATUS", "Unknown settlement status")
		}
		if status != s.Status && !s.Status.CanTransitionTo(status) {
			return ErrInvalidSettlementTransition.WithMessage("Cannot change status from %s to %s", s.Status, status)
		}
	}
	if ch.DocNumber != nil && strings.TrimSpace(*ch.DocNumber) == "" {
		return shared.NewDomainError("INVALID_DOC_NUMBER", "Document number cannot be empty")
	}
	if ch.DocDate != nil && ch.DocDate.IsZero() {
		return shared.NewDomainError("INVALID_DOC_DATE", "Document date is required")
	}
	if ch.ClientID != nil && *ch.ClientID == uuid.Nil {
		return shared.NewDomainError("INVALID_CLIENT", "Client is required")
	}
	if ch.Amount != nil && ch.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	start, end := s.PeriodStart, s.PeriodEnd
	if ch.PeriodStart != nil {
		start = ch.PeriodStart
	}
	if ch.PeriodEnd != nil {
		end = ch.PeriodEnd
	}
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end cannot be before period start")
	}

	if ch.DocNumber != nil {
		s.DocNumber = strings.TrimSpace(*ch.DocNumber)
	}
	if ch.DocDate != nil {
		s.DocDate = *ch.DocDate
	}
	if ch.ClientID != nil {
		s.ClientID = *ch.ClientID
	}
	if ch.Amount != nil {
		s.Amount = valueobject.RoundMoney(*ch.Amount)
	}
	s.PeriodStart, s.PeriodEnd = start, end
	if ch.Status != nil {
		s.Status = status
	}
	s.Touch()
	return nil
}

// ChangeStatus moves the settlement along its lifecycle
func (s *DocSettlement) ChangeStatus(next string) error {
	return s.Apply(SettlementChanges{Status: &next})
}

// ErrInvalidSettlementTransition is returned for lifecycle violations
var ErrInvalidSettlementTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Status transition not allowed")
