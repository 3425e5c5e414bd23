package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence contract for purchase orders
type PurchaseOrderRepository interface {
	// FindByID retrieves a purchase order with its items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForUpdate retrieves a purchase order with a row lock held for
	// the rest of the transaction. Used by status transitions.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber retrieves a purchase order by its human-facing number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll retrieves purchase orders with pagination, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseOrder, error)

	// FindByStatus retrieves purchase orders in a given state
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]*PurchaseOrder, error)

	// FindBySupplier retrieves purchase orders placed with a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]*PurchaseOrder, error)

	// Save persists a purchase order together with its items, replacing the
	// item set already stored
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock persists with an optimistic version check and returns
	// shared.ErrConcurrencyConflict when the stored version moved
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Count returns the total number of purchase orders
	Count(ctx context.Context) (int64, error)

	// NextOrderNumber reserves the next order number for the given year.
	// Must be called inside the transaction that persists the order.
	NextOrderNumber(ctx context.Context, year int) (string, error)
}
