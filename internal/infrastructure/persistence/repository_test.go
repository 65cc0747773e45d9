package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/domain/catalog"
	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/identity"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/domain/trade"
	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func mustClient(t *testing.T, ownerID uuid.UUID, name string) *partner.Client {
	t.Helper()
	c, err := partner.NewClient(ownerID, name)
	require.NoError(t, err)
	return c
}

func TestClientRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(newTestDB(t))
	ownerID := uuid.New()

	c := mustClient(t, ownerID, "Acme Ltd")
	c.Email = "sales@acme.test"
	require.NoError(t, repo.Save(ctx, c))

	found, err := repo.FindByIDForOwner(ctx, ownerID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", found.Name)
	assert.True(t, found.IsActive)

	inactive := false
	newName := "Acme Group"
	require.NoError(t, found.Apply(partner.ClientChanges{Name: &newName, IsActive: &inactive}))
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByIDForOwner(ctx, ownerID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Group", reloaded.Name)
	assert.False(t, reloaded.IsActive)
	assert.Equal(t, "sales@acme.test", reloaded.Email)

	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, c.ID))
	_, err = repo.FindByIDForOwner(ctx, ownerID, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.DeleteForOwner(ctx, ownerID, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// An update racing the delete must not resurrect the row
	reloaded.Name = "Acme Revived"
	err = repo.Save(ctx, reloaded)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByIDForOwner(ctx, ownerID, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientRepository_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(newTestDB(t))
	alice, bob := uuid.New(), uuid.New()

	c := mustClient(t, alice, "Alice's client")
	require.NoError(t, repo.Save(ctx, c))

	_, err := repo.FindByIDForOwner(ctx, bob, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.DeleteForOwner(ctx, bob, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	count, err := repo.CountForOwner(ctx, bob, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, count)

	// An entity re-owned in memory cannot overwrite the original row
	hijack := *c
	hijack.UserID = bob
	hijack.Name = "stolen"
	err = repo.Save(ctx, &hijack)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	original, err := repo.FindByIDForOwner(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's client", original.Name)
}

func TestClientRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewGormClientRepository(newTestDB(t))
	ownerID := uuid.New()

	for _, name := range []string{"Beta Foods", "Alpha Metals", "Gamma Foods"} {
		c := mustClient(t, ownerID, name)
		if name == "Gamma Foods" {
			c.ClientType = partner.ClientRoleSupplier
		}
		require.NoError(t, repo.Save(ctx, c))
	}
	require.NoError(t, repo.Save(ctx, mustClient(t, uuid.New(), "Foreign Foods")))

	t.Run("search is case-insensitive", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Search = "FOODS"
		f.OrderBy = "name"
		f.OrderDir = "asc"
		items, err := repo.FindAllForOwner(ctx, ownerID, f)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Beta Foods", items[0].Name)
		assert.Equal(t, "Gamma Foods", items[1].Name)
	})

	t.Run("equality filter", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Filters["client_type"] = "supplier"
		items, err := repo.FindAllForOwner(ctx, ownerID, f)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Gamma Foods", items[0].Name)
	})

	t.Run("unknown filter and sort are ignored", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Filters["password_hash"] = "x"
		f.OrderBy = "name; DROP TABLE clients"
		count, err := repo.CountForOwner(ctx, ownerID, f)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("pagination", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.OrderBy = "name"
		f.OrderDir = "asc"
		f.PageSize = 2
		f.Page = 2
		items, err := repo.FindAllForOwner(ctx, ownerID, f)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Gamma Foods", items[0].Name)
	})
}

func TestProductRepository_ExistsByCode(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDB(t))
	ownerID := uuid.New()

	p, err := catalog.NewProduct(ownerID, "sku-1", "Widget", decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, p))

	exists, err := repo.ExistsByCode(ctx, ownerID, "SKU-1", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(ctx, ownerID, "sku-1", p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByCode(ctx, uuid.New(), "SKU-1", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)

	products, err := repo.FindByIDs(ctx, ownerID, []uuid.UUID{p.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("9.99")))
}

func TestWarehouseRepository_SetStock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWarehouseRepository(newTestDB(t))
	ownerID := uuid.New()

	w, err := partner.NewWarehouse(ownerID, "Main")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, w))
	productID := uuid.New()

	line, err := repo.SetStock(ctx, ownerID, w.ID, productID, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NotNil(t, line)

	line, err = repo.SetStock(ctx, ownerID, w.ID, productID, decimal.NewFromInt(8))
	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(8)))

	lines, err := repo.FindStock(ctx, ownerID, w.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	other, err := repo.FindStock(ctx, uuid.New(), w.ID)
	require.NoError(t, err)
	assert.Empty(t, other)

	line, err = repo.SetStock(ctx, ownerID, w.ID, productID, decimal.Zero)
	require.NoError(t, err)
	assert.Nil(t, line)

	lines, err = repo.FindStock(ctx, ownerID, w.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSaleRepository_DateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSaleRepository(newTestDB(t))
	ownerID, clientID := uuid.New(), uuid.New()

	for i, day := range []int{1, 15, 28} {
		s, err := trade.NewSale(ownerID, "S-"+string(rune('A'+i)), time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC), clientID)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, s))
	}

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	f := shared.DefaultFilter()
	f.From, f.To = &from, &to
	items, err := repo.FindAllForOwner(ctx, ownerID, f)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "S-B", items[0].DocNumber)
}

func TestChartOfAccountRepository_FindByCode(t *testing.T) {
	ctx := context.Background()
	repo := NewGormChartOfAccountRepository(newTestDB(t))
	ownerID := uuid.New()

	acc, err := finance.NewChartOfAccount(ownerID, "1000", "Cash", "asset")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, acc))

	found, err := repo.FindByCode(ctx, ownerID, " 1000 ")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, found.ID)

	_, err = repo.FindByCode(ctx, uuid.New(), "1000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	u, err := identity.NewUser("Jane@Example.com", "jane", "secret123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	t.Run("duplicate email", func(t *testing.T) {
		dup, err := identity.NewUser("jane@example.com", "jane2", "secret123")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), identity.ErrEmailTaken)
	})

	t.Run("lookup by email ignores case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "JANE@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
	})

	t.Run("reset token round trip", func(t *testing.T) {
		token, err := u.IssueResetToken()
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, u))

		found, err := repo.FindByResetToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		_, err = repo.FindByResetToken(ctx, "")
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
	})

	t.Run("update of missing user", func(t *testing.T) {
		ghost, err := identity.NewUser("ghost@example.com", "ghost", "secret123")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Update(ctx, ghost), identity.ErrUserNotFound)
	})
}

func TestStatsRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	stats := NewGormStatsRepository(db)
	users := NewGormUserRepository(db)
	clients := NewGormClientRepository(db)
	products := NewGormProductRepository(db)
	warehouses := NewGormWarehouseRepository(db)
	sales := NewGormSaleRepository(db)
	bank := NewGormBankOperationRepository(db)

	u, err := identity.NewUser("owner@example.com", "owner", "secret123")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))
	ownerID := u.ID

	acme := mustClient(t, ownerID, "Acme")
	globex := mustClient(t, ownerID, "Globex")
	require.NoError(t, clients.Save(ctx, acme))
	require.NoError(t, clients.Save(ctx, globex))

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []*partner.Client{acme, acme, globex} {
		s, err := trade.NewSale(ownerID, "INV-"+string(rune('1'+i)), date, c.ID)
		require.NoError(t, err)
		s.TotalAmount = decimal.NewFromInt(int64(100 * (i + 1)))
		require.NoError(t, sales.Save(ctx, s))
	}

	for _, op := range []struct {
		amount int64
		typ    string
	}{{500, "credit"}, {120, "debit"}} {
		b, err := finance.NewBankOperation(ownerID, date, decimal.NewFromInt(op.amount), op.typ)
		require.NoError(t, err)
		require.NoError(t, bank.Save(ctx, b))
	}

	w, err := partner.NewWarehouse(ownerID, "Main")
	require.NoError(t, err)
	w.ResponsiblePersonID = &u.ID
	require.NoError(t, warehouses.Save(ctx, w))
	p, err := catalog.NewProduct(ownerID, "W-1", "Widget", decimal.RequireFromString("2.50"))
	require.NoError(t, err)
	require.NoError(t, products.Save(ctx, p))
	_, err = warehouses.SetStock(ctx, ownerID, w.ID, p.ID, decimal.NewFromInt(4))
	require.NoError(t, err)

	t.Run("table counts", func(t *testing.T) {
		counts, err := stats.TableCounts(ctx, ownerID)
		require.NoError(t, err)
		byName := map[string]int64{}
		for _, c := range counts {
			byName[c.Name] = c.RecordCount
		}
		assert.Equal(t, int64(1), byName["users"])
		assert.Equal(t, int64(2), byName["clients"])
		assert.Equal(t, int64(3), byName["sales"])
		assert.Equal(t, int64(0), byName["purchases"])

		other, err := stats.TableCounts(ctx, uuid.New())
		require.NoError(t, err)
		for _, c := range other {
			assert.Zero(t, c.RecordCount, c.Name)
		}
	})

	t.Run("sales by status", func(t *testing.T) {
		rows, err := stats.SalesByStatus(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "draft", rows[0].Status)
		assert.Equal(t, int64(3), rows[0].Count)
		assert.True(t, rows[0].TotalAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("bank by type", func(t *testing.T) {
		rows, err := stats.BankByType(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "credit", rows[0].Type)
		assert.True(t, rows[1].TotalAmount.Equal(decimal.NewFromInt(120)))
	})

	t.Run("top clients", func(t *testing.T) {
		rows, err := stats.TopClients(ctx, ownerID, 5)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, "Acme", rows[0].Name)
		assert.Equal(t, int64(2), rows[0].SalesCount)
		assert.True(t, rows[0].TotalAmount.Equal(decimal.NewFromInt(300)))
	})

	t.Run("warehouses", func(t *testing.T) {
		rows, err := stats.Warehouses(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(1), rows[0].ProductCount)
	})

	t.Run("warehouse details", func(t *testing.T) {
		rows, err := stats.WarehouseDetails(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		d := rows[0]
		require.NotNil(t, d.ResponsiblePerson)
		assert.Equal(t, "owner", d.ResponsiblePerson.Username)
		assert.Equal(t, 1, d.TotalProducts)
		assert.True(t, d.TotalValue.Equal(decimal.NewFromInt(10)), d.TotalValue.String())
	})

	t.Run("deleted products leave the stock counts", func(t *testing.T) {
		gone, err := catalog.NewProduct(ownerID, "W-2", "Retired", decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, products.Save(ctx, gone))
		_, err = warehouses.SetStock(ctx, ownerID, w.ID, gone.ID, decimal.NewFromInt(7))
		require.NoError(t, err)
		require.NoError(t, products.DeleteForOwner(ctx, ownerID, gone.ID))

		summary, err := stats.Warehouses(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, summary, 1)
		assert.Equal(t, int64(1), summary[0].ProductCount)

		details, err := stats.WarehouseDetails(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, 1, details[0].TotalProducts)
	})

	t.Run("responsible person of another account is not resolved", func(t *testing.T) {
		stranger, err := identity.NewUser("stranger@example.com", "stranger", "secret123")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, stranger))

		annex, err := partner.NewWarehouse(ownerID, "Annex")
		require.NoError(t, err)
		annex.ResponsiblePersonID = &stranger.ID
		require.NoError(t, warehouses.Save(ctx, annex))

		details, err := stats.WarehouseDetails(ctx, ownerID)
		require.NoError(t, err)
		require.Len(t, details, 2)
		for _, d := range details {
			if d.ID == annex.ID {
				assert.Nil(t, d.ResponsiblePerson)
			} else {
				require.NotNil(t, d.ResponsiblePerson)
				assert.Equal(t, "owner", d.ResponsiblePerson.Username)
			}
		}
	})
}
