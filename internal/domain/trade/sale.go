package trade

import (
	"time"

	"github.com/google/uuid"
)

// Sale is an outgoing sales document
type Sale struct {
	Document
	SaleDate *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a draft sale
func NewSale(ownerID uuid.UUID, docNumber string, docDate time.Time, clientID uuid.UUID) (*Sale, error) {
	doc, err := newDocument(ownerID, docNumber, docDate, clientID)
	if err != nil {
		return nil, err
	}
	return &Sale{Document: doc}, nil
}

// SetSaleDate sets or clears the date goods were handed over
func (s *Sale) SetSaleDate(date *time.Time) {
	s.SaleDate = date
	s.Touch()
}
