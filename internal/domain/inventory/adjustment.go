package inventory

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// The three adjustment semantics, one pure function each. The transaction
// type acts as a tagged variant selecting how the supplied quantity combines
// with the current on-hand level.

// applyPurchase adds the quantity to the current level
func applyPurchase(current, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return current + quantity, nil
}

// applySale subtracts the quantity with a zero floor
func applySale(current, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	next := current - quantity
	if next < 0 {
		return 0, shared.ErrInsufficientStock
	}
	return next, nil
}

// applyAbsolute replaces the current level outright
func applyAbsolute(_, quantity int64) (int64, error) {
	if quantity < 0 {
		return 0, shared.NewDomainError("INVALID_QUANTITY", "Absolute stock level cannot be negative")
	}
	return quantity, nil
}

// NextStockLevel computes the stock level that results from applying a
// quantity of the given transaction type to the current level.
// The floor check applies only to the subtract case.
func NextStockLevel(txType TransactionType, current, quantity int64) (int64, error) {
	switch txType {
	case TransactionTypePurchase:
		return applyPurchase(current, quantity)
	case TransactionTypeSale:
		return applySale(current, quantity)
	case TransactionTypeAdjustment:
		return applyAbsolute(current, quantity)
	default:
		return 0, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
}
