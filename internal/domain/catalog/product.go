package catalog

import (
	"strings"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUnit is used when a product is created without a unit
const DefaultUnit = "pcs"

// Product is a sellable item of the owning user
type Product struct {
	shared.OwnedAggregateRoot
	Code        string               `gorm:"type:varchar(50);not null;index"`
	Name        string               `gorm:"type:varchar(200);not null"`
	Description string               `gorm:"type:text"`
	Unit        string               `gorm:"type:varchar(20);not null;default:'pcs'"`
	Price       decimal.Decimal      `gorm:"type:numeric(18,2);not null;default:0"`
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductChanges carries a partial update; nil fields are left untouched
type ProductChanges struct {
	Code        *string
	Name        *string
	Description *string
	Unit        *string
	Price       *decimal.Decimal
	Currency    *string
}

// NewProduct creates a product priced in the default currency
func NewProduct(ownerID uuid.UUID, code, name string, price decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	return &Product{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Code:               strings.ToUpper(strings.TrimSpace(code)),
		Name:               strings.TrimSpace(name),
		Unit:               DefaultUnit,
		Price:              valueobject.RoundMoney(price),
		Currency:           valueobject.DefaultCurrency,
	}, nil
}

// Apply validates and applies a partial update
func (p *Product) Apply(ch ProductChanges) error {
	var currency valueobject.Currency
	if ch.Code != nil {
		if err := validateProductCode(*ch.Code); err != nil {
			return err
		}
	}
	if ch.Name != nil {
		if err := validateProductName(*ch.Name); err != nil {
			return err
		}
	}
	if ch.Price != nil {
		if err := validatePrice(*ch.Price); err != nil {
			return err
		}
	}
	if ch.Currency != nil {
		var ok bool
		if currency, ok = valueobject.ParseCurrency(*ch.Currency); !ok {
			return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
		}
	}
	if ch.Unit != nil && len(*ch.Unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}

	if ch.Code != nil {
		p.Code = strings.ToUpper(strings.TrimSpace(*ch.Code))
	}
	if ch.Name != nil {
		p.Name = strings.TrimSpace(*ch.Name)
	}
	if ch.Description != nil {
		p.Description = *ch.Description
	}
	if ch.Unit != nil {
		p.Unit = strings.TrimSpace(*ch.Unit)
		if p.Unit == "" {
			p.Unit = DefaultUnit
		}
	}
	if ch.Price != nil {
		p.Price = valueobject.RoundMoney(*ch.Price)
	}
	if ch.Currency != nil {
		p.Currency = currency
	}
	p.Touch()
	return nil
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
