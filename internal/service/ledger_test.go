package service_test

import (
	"context"
	"testing"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/repository/memory"
	"wardrobe-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService(t *testing.T) {
	ctx := context.Background()
	svc := service.NewLedgerService(memory.NewStore().LedgerRepository)

	t.Run("Credit", func(t *testing.T) {
		tx, err := svc.Credit(ctx, 1, 1500, domain.TransactionTypeSignupGift, "  Welcome  ")
		require.NoError(t, err)
		assert.Equal(t, "Welcome", tx.Description)

		_, err = svc.Credit(ctx, 1, 500, domain.TransactionTypeManualCredit, "Goodwill")
		require.NoError(t, err)

		balance, err := svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), balance)
	})

	t.Run("Rejects lifecycle types and non-positive amounts", func(t *testing.T) {
		_, err := svc.Credit(ctx, 1, 500, domain.TransactionTypeBalanceRefund, "")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		_, err = svc.Credit(ctx, 1, 0, domain.TransactionTypeManualCredit, "")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Paging defaults", func(t *testing.T) {
		txs, total, err := svc.GetTransactions(ctx, 1, 0, 500)
		require.NoError(t, err)
		assert.Equal(t, int32(2), total)
		require.Len(t, txs, 2)
		assert.Equal(t, domain.TransactionTypeManualCredit, txs[0].Type)

		txs, _, err = svc.GetTransactions(ctx, 2, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}
