package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewOwnedAggregateRoot(t *testing.T) {
	owner := uuid.New()
	root := NewOwnedAggregateRoot(owner)

	assert.NotEqual(t, uuid.Nil, root.GetID())
	assert.Equal(t, owner, root.GetOwnerID())
	assert.Equal(t, root.CreatedAt, root.UpdatedAt)
	assert.True(t, root.BelongsTo(owner))
	assert.False(t, root.BelongsTo(uuid.New()))
	assert.False(t, root.DeletedAt.Valid)

	var _ OwnedAggregate = &root
}

func TestBaseEntity_Touch(t *testing.T) {
	e := NewBaseEntity()
	e.UpdatedAt = e.UpdatedAt.Add(-time.Minute)
	before := e.UpdatedAt

	e.Touch()
	assert.True(t, e.UpdatedAt.After(before))
	assert.True(t, e.CreatedAt.After(before))
}
