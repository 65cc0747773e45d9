package partner

import (
	"context"
	"testing"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/bizdesk/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warehouseFixture struct {
	svc      *WarehouseService
	clients  *ClientService
	products *persistence.GormProductRepository
	users    *persistence.GormUserRepository
}

func newWarehouseFixture(t *testing.T) *warehouseFixture {
	t.Helper()
	db := testutil.NewSQLiteDatabase(t).DB
	clientRepo := persistence.NewGormClientRepository(db)
	f := &warehouseFixture{
		clients:  NewClientService(clientRepo),
		products: persistence.NewGormProductRepository(db),
		users:    persistence.NewGormUserRepository(db),
	}
	f.svc = NewWarehouseService(persistence.NewGormWarehouseRepository(db), clientRepo, f.products, f.users)
	return f
}

func TestWarehouseService_CreateChecksReferences(t *testing.T) {
	ctx := context.Background()
	f := newWarehouseFixture(t)
	owner, other := testutil.TestUserID(), testutil.OtherUserID()

	foreign, err := f.clients.Create(ctx, other, CreateClientRequest{Name: "Not yours"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, owner, CreateWarehouseRequest{Name: "Main", ClientID: &foreign.ID})
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Client not found", err.Error())

	missing := uuid.New()
	_, err = f.svc.Create(ctx, owner, CreateWarehouseRequest{Name: "Main", ResponsiblePersonID: &missing})
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Responsible person not found", err.Error())

	mine, err := f.clients.Create(ctx, owner, CreateClientRequest{Name: "Mine"})
	require.NoError(t, err)
	user, err := identity.NewUser("keeper@b.com", "keeper", "secret123")
	require.NoError(t, err)
	user.ID = owner
	require.NoError(t, f.users.Create(ctx, user))
	stranger, err := identity.NewUser("stranger@b.com", "stranger", "secret123")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(ctx, stranger))

	_, err = f.svc.Create(ctx, owner, CreateWarehouseRequest{Name: "Main", ResponsiblePersonID: &stranger.ID})
	require.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, "Responsible person not found", err.Error())

	wh, err := f.svc.Create(ctx, owner, CreateWarehouseRequest{
		Name:                "Main",
		Code:                "wh-1",
		Status:              "Inactive",
		ClientID:            &mine.ID,
		ResponsiblePersonID: &user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "WH-1", wh.Code)
	assert.Equal(t, "inactive", wh.Status)
	assert.Equal(t, mine.ID, *wh.ClientID)
}

func TestWarehouseService_UpdateAndIsolation(t *testing.T) {
	ctx := context.Background()
	f := newWarehouseFixture(t)
	owner, other := testutil.TestUserID(), testutil.OtherUserID()

	client, err := f.clients.Create(ctx, owner, CreateClientRequest{Name: "Mine"})
	require.NoError(t, err)
	wh, err := f.svc.Create(ctx, owner, CreateWarehouseRequest{Name: "Main", ClientID: &client.ID, Address: "Street 1"})
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, other, wh.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, other, wh.ID), shared.ErrNotFound)

	detach := ""
	name := "Central"
	updated, err := f.svc.Update(ctx, owner, wh.ID, UpdateWarehouseRequest{Name: &name, ClientID: &detach})
	require.NoError(t, err)
	assert.Equal(t, "Central", updated.Name)
	assert.Nil(t, updated.ClientID)
	assert.Equal(t, "Street 1", updated.Address)

	bad := "not-a-uuid"
	_, err = f.svc.Update(ctx, owner, wh.ID, UpdateWarehouseRequest{ClientID: &bad})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = "Active"
	items, total, err := f.svc.List(ctx, owner, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	require.NoError(t, f.svc.Delete(ctx, owner, wh.ID))
	_, err = f.svc.GetByID(ctx, owner, wh.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestWarehouseService_Stock(t *testing.T) {
	ctx := context.Background()
	f := newWarehouseFixture(t)
	owner, other := testutil.TestUserID(), testutil.OtherUserID()

	wh, err := f.svc.Create(ctx, owner, CreateWarehouseRequest{Name: "Main"})
	require.NoError(t, err)
	product, err := catalog.NewProduct(owner, "P-1", "Bolt", decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, f.products.Save(ctx, product))
	foreignProduct, err := catalog.NewProduct(other, "P-1", "Bolt", decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, f.products.Save(ctx, foreignProduct))

	qty := decimal.NewFromInt(5)
	line, err := f.svc.SetStock(ctx, owner, wh.ID, product.ID, SetStockRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(qty))

	_, err = f.svc.SetStock(ctx, owner, wh.ID, foreignProduct.ID, SetStockRequest{Quantity: &qty})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	negative := decimal.NewFromInt(-1)
	_, err = f.svc.SetStock(ctx, owner, wh.ID, product.ID, SetStockRequest{Quantity: &negative})
	assert.Error(t, err)

	lines, err := f.svc.Stock(ctx, owner, wh.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	zero := decimal.Zero
	line, err = f.svc.SetStock(ctx, owner, wh.ID, product.ID, SetStockRequest{Quantity: &zero})
	require.NoError(t, err)
	assert.Nil(t, line)

	lines, err = f.svc.Stock(ctx, owner, wh.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = f.svc.Stock(ctx, other, wh.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
