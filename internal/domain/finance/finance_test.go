package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBankOperation(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC)

	t.Run("credit keeps positive sign", func(t *testing.T) {
		op, err := NewBankOperation(owner, date, decimal.RequireFromString("10000"), "Credit")
		require.NoError(t, err)
		assert.Equal(t, OperationCredit, op.Type)
		assert.True(t, op.SignedAmount().Equal(decimal.NewFromInt(10000)))
	})

	t.Run("debit is negated in signed amount", func(t *testing.T) {
		op, err := NewBankOperation(owner, date, decimal.RequireFromString("899.99"), "debit")
		require.NoError(t, err)
		assert.Equal(t, "-899.99", op.SignedAmount().StringFixed(2))
	})

	t.Run("rejects zero amount and unknown type", func(t *testing.T) {
		_, err := NewBankOperation(owner, date, decimal.Zero, "credit")
		assert.Error(t, err)
		_, err = NewBankOperation(owner, date, decimal.NewFromInt(1), "transfer")
		assert.Error(t, err)
	})
}

func TestChartOfAccount_Apply(t *testing.T) {
	acc, err := NewChartOfAccount(uuid.New(), "1100", "Bank Account", "asset")
	require.NoError(t, err)
	assert.True(t, acc.IsActive)

	parent := "1000"
	require.NoError(t, acc.Apply(AccountChanges{ParentCode: &parent}))
	require.NotNil(t, acc.ParentCode)
	assert.Equal(t, "1000", *acc.ParentCode)

	self := "1100"
	assert.ErrorIs(t, acc.Apply(AccountChanges{ParentCode: &self}), ErrParentCycle)

	// Renaming onto the current parent code loops the same way
	assert.ErrorIs(t, acc.Apply(AccountChanges{Code: &parent}), ErrParentCycle)
	assert.Equal(t, "1100", acc.Code)

	empty := ""
	require.NoError(t, acc.Apply(AccountChanges{ParentCode: &empty}))
	assert.Nil(t, acc.ParentCode)

	bad := "revenue"
	assert.Error(t, acc.Apply(AccountChanges{Type: &bad}))
}

func TestDocSettlement(t *testing.T) {
	s, err := NewDocSettlement(uuid.New(), "DS-1", time.Now(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, SettlementDraft, s.Status)

	t.Run("period end before start is rejected", func(t *testing.T) {
		start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		err := s.Apply(SettlementChanges{PeriodStart: &start, PeriodEnd: &end})
		assert.Error(t, err)
		assert.Nil(t, s.PeriodStart)
	})

	t.Run("status lifecycle", func(t *testing.T) {
		require.NoError(t, s.ChangeStatus("pending"))
		require.NoError(t, s.ChangeStatus("completed"))
		assert.ErrorIs(t, s.ChangeStatus("draft"), ErrInvalidSettlementTransition)
	})
}
