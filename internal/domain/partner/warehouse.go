package partner

import (
	"strings"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// ParseWarehouseStatus accepts any casing ("Active", "ACTIVE")
func ParseWarehouseStatus(s string) (WarehouseStatus, bool) {
	st := WarehouseStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st == WarehouseStatusActive || st == WarehouseStatusInactive
}

// Warehouse is a storage location of the owning user
type Warehouse struct {
	shared.OwnedAggregateRoot
	Name                string          `gorm:"type:varchar(200);not null"`
	Code                string          `gorm:"type:varchar(50);index"`
	Address             string          `gorm:"type:text"`
	Status              WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ClientID            *uuid.UUID      `gorm:"type:uuid;index"`
	ResponsiblePersonID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// WarehouseChanges carries a partial update; nil fields are left untouched.
// ClearClient and ClearResponsible detach the optional references.
type WarehouseChanges struct {
	Name                *string
	Code                *string
	Address             *string
	Status              *string
	ClientID            *uuid.UUID
	ClearClient         bool
	ResponsiblePersonID *uuid.UUID
	ClearResponsible    bool
}

// NewWarehouse creates a new active warehouse
func NewWarehouse(ownerID uuid.UUID, name string) (*Warehouse, error) {
	if err := validateWarehouseName(name); err != nil {
		return nil, err
	}
	return &Warehouse{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               strings.TrimSpace(name),
		Status:             WarehouseStatusActive,
	}, nil
}

// Apply validates and applies a partial update
func (w *Warehouse) Apply(ch WarehouseChanges) error {
	var status WarehouseStatus
	if ch.Name != nil {
		if err := validateWarehouseName(*ch.Name); err != nil {
			return err
		}
	}
	if ch.Status != nil {
		var ok bool
		if status, ok = ParseWarehouseStatus(*ch.Status); !ok {
			return shared.NewDomainError("INVALID_STATUS", "Status must be active or inactive")
		}
	}
	if ch.Code != nil && len(*ch.Code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}

	if ch.Name != nil {
		w.Name = strings.TrimSpace(*ch.Name)
	}
	if ch.Code != nil {
		w.Code = strings.ToUpper(strings.TrimSpace(*ch.Code))
	}
	if ch.Address != nil {
		w.Address = strings.TrimSpace(*ch.Address)
	}
	if ch.Status != nil {
		w.Status = status
	}
	switch {
	case ch.ClearClient:
		w.ClientID = nil
	case ch.ClientID != nil:
		w.ClientID = ch.ClientID
	}
	switch {
	case ch.ClearResponsible:
		w.ResponsiblePersonID = nil
	case ch.ResponsiblePersonID != nil:
		w.ResponsiblePersonID = ch.ResponsiblePersonID
	}
	w.Touch()
	return nil
}

// IsActive reports whether the warehouse accepts documents
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// WarehouseStock is the quantity of one product held in one warehouse
type WarehouseStock struct {
	shared.BaseEntity
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_stock_product,priority:1" json:"warehouse_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_stock_product,priority:2" json:"product_id"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,3);not null;default:0" json:"quantity"`
}

// TableName returns the table name for GORM
func (WarehouseStock) TableName() string {
	return "warehouse_stock"
}

// ValidateQuantity rejects negative stock
func ValidateQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	return nil
}

func validateWarehouseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
