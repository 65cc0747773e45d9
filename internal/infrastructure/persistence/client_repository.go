package persistence

import (
	"github.com/bizdesk/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	ownedRepository[partner.Client, *partner.Client]
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{newOwnedRepository[partner.Client](db, listSpec{
		searchColumns: []string{"name", "email", "code", "vat_code", "phone"},
		sortFields:    ClientSortFields,
		defaultSort:   "name",
		filterColumns: map[string]string{
			"type":        "type",
			"client_type": "client_type",
			"is_active":   "is_active",
		},
	})}
}
