package shared

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseEntity carries the identity and timestamps every table row has
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// NewBaseEntity stamps a fresh ID with both timestamps set to now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// GetID returns the row ID
func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// OwnedAggregate is a business record that belongs to exactly one user
type OwnedAggregate interface {
	GetID() uuid.UUID
	GetOwnerID() uuid.UUID
}

// OwnedAggregateRoot is embedded by clients, products, documents and the
// other per-user records. Deleting one sets DeletedAt; GORM then hides
// the row from every query.
type OwnedAggregateRoot struct {
	BaseEntity
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewOwnedAggregateRoot starts a record owned by userID
func NewOwnedAggregateRoot(userID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{BaseEntity: NewBaseEntity(), UserID: userID}
}

func (a *OwnedAggregateRoot) GetOwnerID() uuid.UUID { return a.UserID }

// BelongsTo reports whether userID owns the record
func (a *OwnedAggregateRoot) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}
