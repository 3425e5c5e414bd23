package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TransactionRepository defines the interface for ledger persistence.
// The log is append-only: there are deliberately no update or delete methods.
type TransactionRepository interface {
	// FindByID finds a ledger row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByProduct finds ledger rows for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Transaction, error)

	// FindByReference finds the rows created by a specific sale or purchase order
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]Transaction, error)

	// FindAll finds ledger rows matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Transaction, error)

	// FindByDateRange finds rows within a time window
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]Transaction, error)

	// Create appends a single row
	Create(ctx context.Context, tx *Transaction) error

	// CreateBatch appends multiple rows
	CreateBatch(ctx context.Context, txs []*Transaction) error

	// Count counts rows matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByProduct counts rows for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// CountByDateRange counts rows within a time window
	CountByDateRange(ctx context.Context, start, end time.Time) (int64, error)
}
