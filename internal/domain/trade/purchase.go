package trade

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an incoming purchase document
type Purchase struct {
	Document
	PurchaseDate *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a draft purchase
func NewPurchase(ownerID uuid.UUID, docNumber string, docDate time.Time, clientID uuid.UUID) (*Purchase, error) {
	doc, err := newDocument(ownerID, docNumber, docDate, clientID)
	if err != nil {
		return nil, err
	}
	return &Purchase{Document: doc}, nil
}

// SetPurchaseDate sets or clears the date goods were received
func (p *Purchase) SetPurchaseDate(date *time.Time) {
	p.PurchaseDate = date
	p.Touch()
}
