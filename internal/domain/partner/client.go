package partner

import (
	"regexp"
	"strings"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientType distinguishes legal persons from individuals
type ClientType string

const (
	ClientTypeCompany    ClientType = "company"
	ClientTypeIndividual ClientType = "individual"
)

// ClientRole tells whether the client buys from us, sells to us, or both
type ClientRole string

const (
	ClientRoleCustomer ClientRole = "customer"
	ClientRoleSupplier ClientRole = "supplier"
	ClientRoleBoth     ClientRole = "both"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Client is a customer or supplier of the owning user
type Client struct {
	shared.OwnedAggregateRoot
	Name       string     `gorm:"type:varchar(200);not null"`
	Email      string     `gorm:"type:varchar(200)"`
	Phone      string     `gorm:"type:varchar(50)"`
	Type       ClientType `gorm:"type:varchar(20);not null;default:'company'"`
	ClientType ClientRole `gorm:"column:client_type;type:varchar(20);not null;default:'customer'"`
	Code       string     `gorm:"type:varchar(50);index"`
	VATCode    string     `gorm:"column:vat_code;type:varchar(50)"`
	IsActive   bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// ClientChanges carries a partial update; nil fields are left untouched
type ClientChanges struct {
	Name       *string
	Email      *string
	Phone      *string
	Type       *ClientType
	ClientType *ClientRole
	Code       *string
	VATCode    *string
	IsActive   *bool
}

// NewClient creates a new active client
func NewClient(ownerID uuid.UUID, name string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	return &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               strings.TrimSpace(name),
		Type:               ClientTypeCompany,
		ClientType:         ClientRoleCustomer,
		IsActive:           true,
	}, nil
}

// Apply validates and applies a partial update
func (c *Client) Apply(ch ClientChanges) error {
	if ch.Name != nil {
		if err := validateClientName(*ch.Name); err != nil {
			return err
		}
	}
	if ch.Email != nil && *ch.Email != "" && !emailRegex.MatchString(strings.TrimSpace(*ch.Email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if ch.Type != nil && !ch.Type.IsValid() {
		return shared.NewDomainError("INVALID_CLIENT_TYPE", "Type must be company or individual")
	}
	if ch.ClientType != nil && !ch.ClientType.IsValid() {
		return shared.NewDomainError("INVALID_CLIENT_TYPE", "Client type must be customer, supplier or both")
	}
	if ch.Code != nil && len(*ch.Code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}

	if ch.Name != nil {
		c.Name = strings.TrimSpace(*ch.Name)
	}
	if ch.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*ch.Email))
	}
	if ch.Phone != nil {
		c.Phone = strings.TrimSpace(*ch.Phone)
	}
	if ch.Type != nil {
		c.Type = *ch.Type
	}
	if ch.ClientType != nil {
		c.ClientType = *ch.ClientType
	}
	if ch.Code != nil {
		c.Code = strings.TrimSpace(*ch.Code)
	}
	if ch.VATCode != nil {
		c.VATCode = strings.TrimSpace(*ch.VATCode)
	}
	if ch.IsActive != nil {
		c.IsActive = *ch.IsActive
	}
	c.Touch()
	return nil
}

// Copy returns a new client with the same attributes and a marked name
func (c *Client) Copy() *Client {
	cp := *c
	cp.OwnedAggregateRoot = shared.NewOwnedAggregateRoot(c.UserID)
	cp.Name = c.Name + " (Copy)"
	return &cp
}

// IsValid reports whether the client type is known
func (t ClientType) IsValid() bool {
	return t == ClientTypeCompany || t == ClientTypeIndividual
}

// IsValid reports whether the client role is known
func (r ClientRole) IsValid() bool {
	switch r {
	case ClientRoleCustomer, ClientRoleSupplier, ClientRoleBoth:
		return true
	}
	return false
}

func validateClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
