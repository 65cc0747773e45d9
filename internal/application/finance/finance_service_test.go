package finance

import (
	"context"
	"testing"

	"github.com/bizdesk/backend/internal/domain/finance"
	"github.com/bizdesk/backend/internal/domain/partner"
	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/bizdesk/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type financeFixture struct {
	operations  *BankOperationService
	accounts    *AccountService
	settlements *SettlementService
	clients     *persistence.GormClientRepository
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	db := testutil.NewSQLiteDatabase(t).DB
	clients := persistence.NewGormClientRepository(db)
	accounts := persistence.NewGormChartOfAccountRepository(db)
	return &financeFixture{
		operations:  NewBankOperationService(persistence.NewGormBankOperationRepository(db), accounts, clients),
		accounts:    NewAccountService(accounts),
		settlements: NewSettlementService(persistence.NewGormDocSettlementRepository(db), clients),
		clients:     clients,
	}
}

func (f *financeFixture) client(t *testing.T, ownerID uuid.UUID) uuid.UUID {
	t.Helper()
	c, err := partner.NewClient(ownerID, "Acme")
	require.NoError(t, err)
	require.NoError(t, f.clients.Save(context.Background(), c))
	return c.ID
}

func strPtr(s string) *string { return &s }

func TestAccountService(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture(t)
	owner, other := testutil.TestUserID(), testutil.OtherUserID()

	root, err := f.accounts.Create(ctx, owner, CreateAccountRequest{Code: "1000", Name: "Assets", Type: "asset"})
	require.NoError(t, err)
	assert.True(t, root.IsActive)
	assert.Nil(t, root.ParentCode)

	t.Run("duplicate code conflicts", func(t *testing.T) {
		_, err := f.accounts.Create(ctx, owner, CreateAccountRequest{Code: "1000", Name: "Dup", Type: "asset"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("same code for another owner is fine", func(t *testing.T) {
		_, err := f.accounts.Create(ctx, other, CreateAccountRequest{Code: "1000", Name: "Assets", Type: "asset"})
		assert.NoError(t, err)
	})

	t.Run("parent must exist", func(t *testing.T) {
		_, err := f.accounts.Create(ctx, owner, CreateAccountRequest{Code: "1100", Name: "Cash", Type: "asset", ParentCode: strPtr("9999")})
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Parent account not found", err.Error())
	})

	child, err := f.accounts.Create(ctx, owner, CreateAccountRequest{Code: "1100", Name: "Cash", Type: "asset", ParentCode: strPtr("1000")})
	require.NoError(t, err)
	assert.Equal(t, "1000", *child.ParentCode)

	t.Run("rename to taken code conflicts", func(t *testing.T) {
		_, err := f.accounts.Update(ctx, owner, child.ID, UpdateAccountRequest{Code: strPtr("1000")})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("parent chain cannot loop", func(t *testing.T) {
		_, err := f.accounts.Update(ctx, owner, child.ID, UpdateAccountRequest{ParentCode: strPtr("1100")})
		require.ErrorIs(t, err, finance.ErrParentCycle)

		_, err = f.accounts.Update(ctx, owner, root.ID, UpdateAccountRequest{ParentCode: strPtr("1100")})
		require.ErrorIs(t, err, finance.ErrParentCycle)

		reloaded, err := f.accounts.GetByID(ctx, owner, root.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.ParentCode)
	})

	t.Run("blank parent makes it top level", func(t *testing.T) {
		updated, err := f.accounts.Update(ctx, owner, child.ID, UpdateAccountRequest{ParentCode: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentCode)
	})

	filter := shared.DefaultFilter()
	filter.Filters["type"] = "ASSET"
	_, total, err := f.accounts.List(ctx, owner, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, err = f.accounts.GetByID(ctx, other, child.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestBankOperationService(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture(t)
	owner, other := testutil.TestUserID(), testutil.OtherUserID()

	account, err := f.accounts.Create(ctx, owner, CreateAccountRequest{Code: "2710", Name: "Bank", Type: "asset"})
	require.NoError(t, err)
	foreignAccount, err := f.accounts.Create(ctx, other, CreateAccountRequest{Code: "2710", Name: "Bank", Type: "asset"})
	require.NoError(t, err)

	amount := decimal.RequireFromString("150.50")
	op, err := f.operations.Create(ctx, owner, CreateBankOperationRequest{
		Date:      "2024-02-01",
		Amount:    &amount,
		Type:      "credit",
		AccountID: &account.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "credit", op.Type)
	assert.Equal(t, account.ID, *op.AccountID)

	t.Run("foreign account is not found", func(t *testing.T) {
		_, err := f.operations.Create(ctx, owner, CreateBankOperationRequest{
			Date: "2024-02-01", Amount: &amount, Type: "debit", AccountID: &foreignAccount.ID,
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Account not found", err.Error())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		zero := decimal.Zero
		_, err := f.operations.Create(ctx, owner, CreateBankOperationRequest{Date: "2024-02-01", Amount: &zero, Type: "debit"})
		assert.Error(t, err)
	})

	t.Run("update attaches client and detaches account", func(t *testing.T) {
		clientID := f.client(t, owner).String()
		updated, err := f.operations.Update(ctx, owner, op.ID, UpdateBankOperationRequest{
			AccountID: strPtr(""),
			ClientID:  &clientID,
			Type:      strPtr("debit"),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.AccountID)
		assert.Equal(t, clientID, updated.ClientID.String())
		assert.Equal(t, "debit", updated.Type)
		assert.True(t, updated.Amount.Equal(amount))
	})

	filter := shared.DefaultFilter()
	filter.Filters["type"] = "DEBIT"
	items, total, err := f.operations.List(ctx, owner, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	assert.ErrorIs(t, f.operations.Delete(ctx, other, op.ID), shared.ErrNotFound)
	require.NoError(t, f.operations.Delete(ctx, owner, op.ID))
}

func TestSettlementService(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture(t)
	owner, other := testutil.TestUserID(), testutil.OtherUserID()
	clientID := f.client(t, owner)

	_, err := f.settlements.Create(ctx, owner, CreateSettlementRequest{
		DocNumber: "DS-1", DocDate: "2024-03-01", ClientID: f.client(t, other),
	})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.settlements.Create(ctx, owner, CreateSettlementRequest{
		DocNumber:   "DS-1",
		DocDate:     "2024-03-01",
		ClientID:    clientID,
		PeriodStart: strPtr("2024-03-31"),
		PeriodEnd:   strPtr("2024-03-01"),
	})
	assert.Error(t, err, "period end before start")

	settlement, err := f.settlements.Create(ctx, owner, CreateSettlementRequest{
		DocNumber:   "DS-1",
		DocDate:     "2024-03-01",
		ClientID:    clientID,
		PeriodStart: strPtr("2024-02-01"),
		PeriodEnd:   strPtr("2024-02-29"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(finance.SettlementDraft), settlement.Status)

	pending, err := f.settlements.ChangeStatus(ctx, owner, settlement.ID, ChangeStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.Status)

	done, err := f.settlements.ChangeStatus(ctx, owner, settlement.ID, ChangeStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)

	_, err = f.settlements.ChangeStatus(ctx, owner, settlement.ID, ChangeStatusRequest{Status: "draft"})
	assert.ErrorIs(t, err, finance.ErrInvalidSettlementTransition)

	amount := decimal.NewFromInt(300)
	updated, err := f.settlements.Update(ctx, owner, settlement.ID, UpdateSettlementRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount))
	require.NotNil(t, updated.PeriodStart)

	filter := shared.DefaultFilter()
	filter.Filters["client_id"] = clientID
	filter.Filters["status"] = "Completed"
	_, total, err := f.settlements.List(ctx, owner, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = f.settlements.GetByID(ctx, other, settlement.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
