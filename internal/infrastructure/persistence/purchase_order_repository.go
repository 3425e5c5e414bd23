package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate finds a purchase order and takes a SELECT ... FOR UPDATE
// row lock on the order row. Must run inside a transaction; status writers
// use it to serialize concurrent transitions of the same order.
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	// The locking clause applies to the order row only; items are loaded
	// separately under the protection of that lock.
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", order.ID).
		Order("created_at ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by its human-readable number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*purchasing.PurchaseOrder, error) {
	var found []*purchasing.PurchaseOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).Preload("Items"), filter)

	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// FindByStatus finds purchase orders in a given lifecycle state
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status purchasing.Status, filter shared.Filter) ([]*purchasing.PurchaseOrder, error) {
	var found []*purchasing.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
			Preload("Items").
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// FindBySupplier finds purchase orders placed with a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]*purchasing.PurchaseOrder, error) {
	var found []*purchasing.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
			Preload("Items").
			Where("supplier_id = ?", supplierID),
		filter,
	)

	if err := query.Find(&found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// Save persists a purchase order and replaces its items wholesale.
// The aggregate owns the full item set, so rows missing from it are removed.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return r.replaceItems(tx, order)
	})
}

// SaveWithLock persists a purchase order with an optimistic version check on
// the order row, then replaces its items wholesale. Returns
// shared.ErrConcurrencyConflict when the row moved on since it was read.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(order).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"supplier_id":  order.SupplierID,
				"status":       order.Status,
				"total_amount": order.TotalAmount,
				"note":         order.Note,
				"completed_at": order.CompletedAt,
				"cancelled_at": order.CancelledAt,
				"version":      order.Version,
				"updated_at":   order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.replaceItems(tx, order)
	})
}

func (r *GormPurchaseOrderRepository) replaceItems(tx *gorm.DB, order *purchasing.PurchaseOrder) error {
	if err := tx.Where("purchase_order_id = ?", order.ID).
		Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	return tx.Create(&order.Items).Error
}

// Count counts all purchase orders
func (r *GormPurchaseOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextOrderNumber reserves the next purchase order number for the year.
// Format: PO-YYYY-NNNNN (e.g. PO-2026-00007).
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context, year int) (string, error) {
	return nextDocumentNumber(ctx, r.db, "purchase_order", "PO", year)
}

func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
