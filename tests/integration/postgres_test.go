package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/report"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/bizdesk/backend/internal/infrastructure/migration"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createUser(t *testing.T, db *TestDB, email string) *identity.User {
	t.Helper()

	user, err := identity.NewUser(email, "owner", "secret123")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(db.DB).Create(context.Background(), user))
	return user
}

func createClient(t *testing.T, db *TestDB, ownerID uuid.UUID, name string) *partner.Client {
	t.Helper()

	client, err := partner.NewClient(ownerID, name)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormClientRepository(db.DB).Save(context.Background(), client))
	return client
}

func TestPostgres_OwnerIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := persistence.NewGormClientRepository(db.DB)

	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	client := createClient(t, db, alice.ID, "Acme")

	_, err := repo.FindByIDForOwner(ctx, bob.ID, client.ID)
	assert.True(t, shared.IsNotFound(err))

	assert.True(t, shared.IsNotFound(repo.DeleteForOwner(ctx, bob.ID, client.ID)))

	count, err := repo.CountForOwner(ctx, bob.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, count)

	found, err := repo.FindByIDForOwner(ctx, alice.ID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)

	require.NoError(t, repo.DeleteForOwner(ctx, alice.ID, client.ID))
	_, err = repo.FindByIDForOwner(ctx, alice.ID, client.ID)
	assert.True(t, shared.IsNotFound(err), "soft-deleted clients are hidden")
}

func TestPostgres_DocumentsAndStats(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	acme := createClient(t, db, owner.ID, "Acme")
	globex := createClient(t, db, owner.ID, "Globex")
	createClient(t, db, other.ID, "Initech")

	sales := persistence.NewGormSaleRepository(db.DB)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []*partner.Client{acme, acme, globex} {
		sale, err := trade.NewSale(owner.ID, fmt.Sprintf("S-%d", i+1), day, c.ID)
		require.NoError(t, err)
		amount := decimal.NewFromInt(int64(100 * (i + 1)))
		require.NoError(t, sale.Apply(trade.DocumentChanges{TotalAmount: &amount}))
		require.NoError(t, sales.Save(ctx, sale))
	}

	ops := persistence.NewGormBankOperationRepository(db.DB)
	in, err := finance.NewBankOperation(owner.ID, day, decimal.NewFromInt(500), "credit")
	require.NoError(t, err)
	require.NoError(t, ops.Save(ctx, in))
	out, err := finance.NewBankOperation(owner.ID, day, decimal.NewFromInt(120), "debit")
	require.NoError(t, err)
	require.NoError(t, ops.Save(ctx, out))

	t.Run("date range filter", func(t *testing.T) {
		from := day
		to := day.Add(24*time.Hour - time.Nanosecond)
		f := shared.DefaultFilter()
		f.From, f.To = &from, &to

		items, err := sales.FindAllForOwner(ctx, owner.ID, f)
		require.NoError(t, err)
		assert.Len(t, items, 3)

		before := day.Add(-time.Hour)
		f.To = &before
		items, err = sales.FindAllForOwner(ctx, owner.ID, f)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	stats := persistence.NewGormStatsRepository(db.DB)

	t.Run("sales by status", func(t *testing.T) {
		rows, err := stats.SalesByStatus(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "draft", rows[0].Status)
		assert.Equal(t, int64(3), rows[0].Count)
		assert.True(t, rows[0].TotalAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("bank by type", func(t *testing.T) {
		rows, err := stats.BankByType(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("top clients", func(t *testing.T) {
		rows, err := stats.TopClients(ctx, owner.ID, 5)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, acme.ID, rows[0].ClientID)
		assert.Equal(t, int64(2), rows[0].SalesCount)
		assert.Equal(t, 1, rows[0].Rank)
	})

	t.Run("table counts per owner and global", func(t *testing.T) {
		own, err := stats.TableCounts(ctx, owner.ID)
		require.NoError(t, err)
		all, err := stats.TableCounts(ctx, uuid.Nil)
		require.NoError(t, err)

		clients := func(rows []report.TableCount) int64 {
			for _, r := range rows {
				if r.Name == "clients" {
					return r.RecordCount
				}
			}
			return -1
		}
		assert.Equal(t, int64(2), clients(own))
		assert.Equal(t, int64(3), clients(all))
	})
}

func TestPostgres_WarehouseStock(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")

	products := persistence.NewGormProductRepository(db.DB)
	product, err := catalog.NewProduct(owner.ID, "SKU-1", "Widget", decimal.RequireFromString("4.50"))
	require.NoError(t, err)
	require.NoError(t, products.Save(ctx, product))

	warehouses := persistence.NewGormWarehouseRepository(db.DB)
	w, err := partner.NewWarehouse(owner.ID, "Main")
	require.NoError(t, err)
	require.NoError(t, warehouses.Save(ctx, w))

	line, err := warehouses.SetStock(ctx, owner.ID, w.ID, product.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NotNil(t, line)

	line, err = warehouses.SetStock(ctx, owner.ID, w.ID, product.ID, decimal.NewFromInt(9))
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(9)))

	stock, err := warehouses.FindStock(ctx, owner.ID, w.ID)
	require.NoError(t, err)
	assert.Len(t, stock, 1)

	line, err = warehouses.SetStock(ctx, owner.ID, w.ID, product.ID, decimal.Zero)
	require.NoError(t, err)
	assert.Nil(t, line)

	stock, err = warehouses.FindStock(ctx, owner.ID, w.ID)
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestPostgres_MigrationsRoundTrip(t *testing.T) {
	db := NewTestDB(t)

	sqlDB, err := migration.Open(db.DSN)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
