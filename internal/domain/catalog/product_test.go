package catalog

import (
	"testing"

	"github.com/bizdesk/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	ownerID := uuid.New()

	t.Run("normalizes code and applies defaults", func(t *testing.T) {
		p, err := NewProduct(ownerID, " sp-100 ", "Solar panel", decimal.RequireFromString("2999.899"))
		require.NoError(t, err)
		assert.Equal(t, "SP-100", p.Code)
		assert.Equal(t, DefaultUnit, p.Unit)
		assert.Equal(t, valueobject.EUR, p.Currency)
		assert.Equal(t, "2999.90", p.Price.StringFixed(2))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(ownerID, "X", "X", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewProduct(ownerID, "", "X", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestProduct_Apply(t *testing.T) {
	p, err := NewProduct(uuid.New(), "X1", "Inverter", decimal.NewFromInt(899))
	require.NoError(t, err)

	usd := "usd"
	price := decimal.RequireFromString("950.5")
	require.NoError(t, p.Apply(ProductChanges{Currency: &usd, Price: &price}))
	assert.Equal(t, valueobject.USD, p.Currency)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("950.50")))
	assert.Equal(t, "Inverter", p.Name)

	bad := "dollars"
	assert.Error(t, p.Apply(ProductChanges{Currency: &bad}))
	assert.Equal(t, valueobject.USD, p.Currency)
}
