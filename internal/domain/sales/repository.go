package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// SaleRepository defines the persistence contract for sales
type SaleRepository interface {
	// FindByID retrieves a sale with its items and payment preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindBySaleNumber retrieves a sale by its human-facing number
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// FindAll retrieves sales with pagination, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]*Sale, error)

	// FindByCashier retrieves sales recorded by a cashier
	FindByCashier(ctx context.Context, cashierID uuid.UUID, filter shared.Filter) ([]*Sale, error)

	// Save persists a sale together with its items and payment
	Save(ctx context.Context, sale *Sale) error

	// Count returns the total number of sales
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes every sale with its items and payments.
	// Administrative reset only; ledger rows are not touched.
	DeleteAll(ctx context.Context) (int64, error)

	// NextSaleNumber reserves the next sale number for the given year.
	// Must be called inside the transaction that persists the sale so a
	// rolled-back checkout does not burn visible gaps under contention.
	NextSaleNumber(ctx context.Context, year int) (string, error)
}
