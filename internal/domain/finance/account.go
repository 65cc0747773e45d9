package finance

import (
	"strings"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountClass is the top-level class of a ledger account
type AccountClass string

const (
	AccountAsset     AccountClass = "asset"
	AccountLiability AccountClass = "liability"
	AccountEquity    AccountClass = "equity"
	AccountIncome    AccountClass = "income"
	AccountExpense   AccountClass = "expense"
)

// ParseAccountClass validates an account class
func ParseAccountClass(s string) (AccountClass, bool) {
	c := AccountClass(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case AccountAsset, AccountLiability, AccountEquity, AccountIncome, AccountExpense:
		return c, true
	}
	return "", false
}

// ChartOfAccount is one entry of the owner's chart of accounts.
// Code is unique per owner; ParentCode links to another entry's code.
type ChartOfAccount struct {
	shared.OwnedAggregateRoot
	Code        string       `gorm:"type:varchar(20);not null;index"`
	Name        string       `gorm:"type:varchar(200);not null"`
	Type        AccountClass `gorm:"type:varchar(20);not null"`
	AccountType string       `gorm:"type:varchar(50)"`
	ParentCode  *string      `gorm:"type:varchar(20)"`
	IsActive    bool         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

// AccountChanges carries a partial update; nil fields are left untouched
type AccountChanges struct {
	Code        *string
	Name        *string
	Type        *string
	AccountType *string
	ParentCode  *string
	IsActive    *bool
}

// NewChartOfAccount creates an active account
func NewChartOfAccount(ownerID uuid.UUID, code, name, class string) (*ChartOfAccount, error) {
	if err := validateAccountCode(code); err != nil {
		return nil, err
	}
	if err := validateAccountName(name); err != nil {
		return nil, err
	}
	c, ok := ParseAccountClass(class)
	if !ok {
		return nil, errInvalidAccountClass
	}
	return &ChartOfAccount{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Code:               strings.TrimSpace(code),
		Name:               strings.TrimSpace(name),
		Type:               c,
		IsActive:           true,
	}, nil
}

// Apply validates and applies a partial update
func (a *ChartOfAccount) Apply(ch AccountChanges) error {
	var class AccountClass
	if ch.Code != nil {
		if err := validateAccountCode(*ch.Code); err != nil {
			return err
		}
	}
	if ch.Name != nil {
		if err := validateAccountName(*ch.Name); err != nil {
			return err
		}
	}
	if ch.Type != nil {
		var ok bool
		if class, ok = ParseAccountClass(*ch.Type); !ok {
			return errInvalidAccountClass
		}
	}
	code := a.Code
	if ch.Code != nil {
		code = strings.TrimSpace(*ch.Code)
	}
	parent := a.ParentCode
	if ch.ParentCode != nil {
		trimmed := strings.TrimSpace(*ch.ParentCode)
		parent = &trimmed
	}
	if parent != nil && *parent == code {
		return ErrParentCycle
	}

	a.Code = code
	if ch.Name != nil {
		a.Name = strings.TrimSpace(*ch.Name)
	}
	if ch.Type != nil {
		a.Type = class
	}
	if ch.AccountType != nil {
		a.AccountType = strings.TrimSpace(*ch.AccountType)
	}
	if ch.ParentCode != nil {
		if *parent == "" {
			a.ParentCode = nil
		} else {
			a.ParentCode = parent
		}
	}
	if ch.IsActive != nil {
		a.IsActive = *ch.IsActive
	}
	a.Touch()
	return nil
}

// ErrParentCycle rejects a parent chain that leads back to the account
var ErrParentCycle = shared.NewDomainError("INVALID_PARENT", "Account cannot be its own ancestor")

var errInvalidAccountClass = shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Type must be asset, liability, equity, income or expense")

func validateAccountCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 20 characters")
	}
	return nil
}

func validateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
