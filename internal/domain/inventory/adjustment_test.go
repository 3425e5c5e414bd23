package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStockLevel(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		current  int64
		quantity int64
		want     int64
		wantErr  error
	}{
		// purchase adds the quantity to the current level
		{"purchase adds", TransactionTypePurchase, 10, 5, 15, nil},
		{"purchase from zero", TransactionTypePurchase, 0, 20, 20, nil},

		// sale subtracts, bounded at zero
		{"sale subtracts", TransactionTypeSale, 10, 4, 6, nil},
		{"sale drains to zero", TransactionTypeSale, 10, 10, 0, nil},
		{"sale below zero rejected", TransactionTypeSale, 3, 4, 0, shared.ErrInsufficientStock},

		// adjustment sets the absolute level regardless of current
		{"adjustment overwrites", TransactionTypeAdjustment, 10, 42, 42, nil},
		{"adjustment to zero", TransactionTypeAdjustment, 10, 0, 0, nil},
		{"adjustment ignores current", TransactionTypeAdjustment, 0, 7, 7, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStockLevel(tt.txType, tt.current, tt.quantity)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("negative absolute target rejected", func(t *testing.T) {
		_, err := NextStockLevel(TransactionTypeAdjustment, 10, -1)
		assert.Error(t, err)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := NextStockLevel(TransactionType("transfer"), 10, 1)
		assert.Error(t, err)
	})

	t.Run("non-positive quantity rejected for movements", func(t *testing.T) {
		_, err := NextStockLevel(TransactionTypeSale, 10, 0)
		assert.Error(t, err)
		_, err = NextStockLevel(TransactionTypePurchase, 10, -2)
		assert.Error(t, err)
	})
}

func TestNewTransaction(t *testing.T) {
	productID := uuid.New()

	t.Run("records balances as given", func(t *testing.T) {
		tx, err := NewTransaction(productID, TransactionTypeSale, 4, 10, 6)
		require.NoError(t, err)
		assert.Equal(t, int64(10), tx.BalanceBefore)
		assert.Equal(t, int64(6), tx.BalanceAfter)
		assert.Equal(t, int64(-4), tx.SignedQuantity())
	})

	t.Run("purchase has positive signed quantity", func(t *testing.T) {
		tx, err := NewTransaction(productID, TransactionTypePurchase, 5, 10, 15)
		require.NoError(t, err)
		assert.Equal(t, int64(5), tx.SignedQuantity())
	})

	t.Run("adjustment signed quantity is the delta", func(t *testing.T) {
		tx, err := NewTransaction(productID, TransactionTypeAdjustment, 42, 10, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(32), tx.SignedQuantity())
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		_, err := NewTransaction(productID, TransactionType("transfer"), 4, 10, 6)
		assert.Error(t, err)
	})
}

func TestNewReferencedTransaction(t *testing.T) {
	productID := uuid.New()
	saleID := uuid.New()

	tx, err := NewReferencedTransaction(productID, TransactionTypeSale, 2, 8, 6, ReferenceTypeSale, saleID)
	require.NoError(t, err)
	require.NotNil(t, tx.ReferenceType)
	require.NotNil(t, tx.ReferenceID)
	assert.Equal(t, ReferenceTypeSale, *tx.ReferenceType)
	assert.Equal(t, saleID, *tx.ReferenceID)
}
