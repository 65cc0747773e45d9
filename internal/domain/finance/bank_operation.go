package finance

import (
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType is the direction of a bank operation
type OperationType string

const (
	OperationCredit OperationType = "credit" // money in
	OperationDebit  OperationType = "debit"  // money out
)

// ParseOperationType validates an operation type
func ParseOperationType(s string) (OperationType, bool) {
	t := OperationType(strings.ToLower(strings.TrimSpace(s)))
	return t, t == OperationCredit || t == OperationDebit
}

// BankOperation is a single movement on a bank account
type BankOperation struct {
	shared.OwnedAggregateRoot
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Type        OperationType   `gorm:"type:varchar(10);not null;index"`
	AccountID   *uuid.UUID      `gorm:"type:uuid;index"`
	ClientID    *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BankOperation) TableName() string {
	return "bank_operations"
}

// BankOperationChanges carries a partial update; nil fields are left untouched
type BankOperationChanges struct {
	Date         *time.Time
	Description  *string
	Amount       *decimal.Decimal
	Type         *string
	AccountID    *uuid.UUID
	ClearAccount bool
	ClientID     *uuid.UUID
	ClearClient  bool
}

// NewBankOperation creates a bank operation. Amount is always positive; the
// direction is carried by the type.
func NewBankOperation(ownerID uuid.UUID, date time.Time, amount decimal.Decimal, opType string) (*BankOperation, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	if err := validateOperationAmount(amount); err != nil {
		return nil, err
	}
	t, ok := ParseOperationType(opType)
	if !ok {
		return nil, errInvalidOperationType
	}
	return &BankOperation{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Date:               date,
		Amount:             valueobject.RoundMoney(amount),
		Type:               t,
	}, nil
}

// Apply validates and applies a partial update
func (b *BankOperation) Apply(ch BankOperationChanges) error {
	var opType OperationType
	if ch.Date != nil && ch.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	if ch.Amount != nil {
		if err := validateOperationAmount(*ch.Amount); err != nil {
			return err
		}
	}
	if ch.Type != nil {
		var ok bool
		if opType, ok = ParseOperationType(*ch.Type); !ok {
			return errInvalidOperationType
		}
	}

	if ch.Date != nil {
		b.Date = *ch.Date
	}
	if ch.Description != nil {
		b.Description = strings.TrimSpace(*ch.Description)
	}
	if ch.Amount != nil {
		b.Amount = valueobject.RoundMoney(*ch.Amount)
	}
	if ch.Type != nil {
		b.Type = opType
	}
	switch {
	case ch.ClearAccount:
		b.AccountID = nil
	case ch.AccountID != nil:
		b.AccountID = ch.AccountID
	}
	switch {
	case ch.ClearClient:
		b.ClientID = nil
	case ch.ClientID != nil:
		b.ClientID = ch.ClientID
	}
	b.Touch()
	return nil
}

// SignedAmount returns the amount with debits negated
func (b *BankOperation) SignedAmount() decimal.Decimal {
	if b.Type == OperationDebit {
		return b.Amount.Neg()
	}
	return b.Amount
}

var errInvalidOperationType = shared.NewDomainError("INVALID_OPERATION_TYPE", "Type must be credit or debit")

func validateOperationAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	return nil
}
