package catalog

import (
	"context"
	"testing"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, ownerID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ownerID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("creates product with defaults", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsByCode", ctx, ownerID, "SKU-1", uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		price := decimal.RequireFromString("9.999")
		resp, err := NewProductService(repo).Create(ctx, ownerID, CreateProductRequest{
			Code:  "sku-1",
			Name:  "Widget",
			Price: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-1", resp.Code)
		assert.Equal(t, "pcs", resp.Unit)
		assert.Equal(t, "EUR", resp.Currency)
		assert.True(t, resp.Price.Equal(decimal.RequireFromString("10.00")))
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("ExistsByCode", ctx, ownerID, "SKU-1", uuid.Nil).Return(true, nil)

		_, err := NewProductService(repo).Create(ctx, ownerID, CreateProductRequest{Code: "SKU-1", Name: "Widget"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative price", func(t *testing.T) {
		repo := new(MockProductRepository)
		price := decimal.NewFromInt(-1)
		_, err := NewProductService(repo).Create(ctx, ownerID, CreateProductRequest{Code: "X", Name: "Widget", Price: &price})
		assert.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	product, err := catalog.NewProduct(ownerID, "SKU-1", "Widget", decimal.NewFromInt(5))
	require.NoError(t, err)

	t.Run("code change checks uniqueness excluding itself", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)
		repo.On("ExistsByCode", ctx, ownerID, "SKU-2", product.ID).Return(true, nil)

		code := "sku-2"
		_, err := NewProductService(repo).Update(ctx, ownerID, product.ID, UpdateProductRequest{Code: &code})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("FindByIDForOwner", ctx, ownerID, product.ID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		currency := "usd"
		resp, err := NewProductService(repo).Update(ctx, ownerID, product.ID, UpdateProductRequest{Currency: &currency})
		require.NoError(t, err)
		assert.Equal(t, "USD", resp.Currency)
		assert.Equal(t, "Widget", resp.Name)
		repo.AssertNotCalled(t, "ExistsByCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign product is not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		other := uuid.New()
		repo.On("FindByIDForOwner", ctx, other, product.ID).Return(nil, shared.ErrNotFound)

		name := "Mine now"
		_, err := NewProductService(repo).Update(ctx, other, product.ID, UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Product not found", err.Error())
	})
}

func TestProductService_ListNormalizesCurrency(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	repo := new(MockProductRepository)

	filter := shared.DefaultFilter()
	filter.Filters["currency"] = "eur"
	matchesEUR := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters["currency"] == "EUR" })
	repo.On("FindAllForOwner", ctx, ownerID, matchesEUR).Return([]catalog.Product{}, nil)
	repo.On("CountForOwner", ctx, ownerID, matchesEUR).Return(int64(0), nil)

	items, total, err := NewProductService(repo).List(ctx, ownerID, filter)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID, id := uuid.New(), uuid.New()
	repo := new(MockProductRepository)
	repo.On("DeleteForOwner", ctx, ownerID, id).Return(nil)

	require.NoError(t, NewProductService(repo).Delete(ctx, ownerID, id))
	repo.AssertExpectations(t)
}
