package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a purchase order
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for states that admit no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the transition is allowed. The lifecycle is
// one-way: pending may move to completed or cancelled, terminal states accept
// nothing. pending→pending is a permitted no-op.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() {
		return false
	}
	switch s {
	case StatusPending:
		return true
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// PurchaseOrderItem represents a line item on a purchase order.
// Subtotal = Quantity × UnitCost.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int64           `gorm:"not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

func newPurchaseOrderItem(orderID, productID uuid.UUID, productName string, quantity int64, unitCost valueobject.Money) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: orderID,
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		UnitCost:        unitCost.Amount(),
		Subtotal:        unitCost.MulInt(quantity).Amount(),
		CreatedAt:       time.Now(),
	}, nil
}

// PurchaseOrder is the replenishment aggregate root. Items and supplier are
// editable while pending; completion receives the goods into stock and seals
// the order, cancellation seals it without stock movement.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status      Status              `gorm:"type:varchar(20);not null;default:'pending'"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Note        string              `gorm:"type:text"`
	CompletedAt *time.Time          `gorm:""`
	CancelledAt *time.Time          `gorm:""`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a pending purchase order with no items
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		Status:            StatusPending,
		Items:             make([]PurchaseOrderItem, 0),
		TotalAmount:       decimal.Zero,
	}, nil
}

// ItemInput carries the values for one order line
type ItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitCost    valueobject.Money
}

// ReplaceItems swaps the full item set. Updates are wholesale: the previous
// lines are discarded and the new set becomes the order. Pending orders only.
func (po *PurchaseOrder) ReplaceItems(inputs []ItemInput) error {
	if po.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot modify items of a %s purchase order", po.Status))
	}
	if err := po.replaceItemSet(inputs); err != nil {
		return err
	}
	po.IncrementVersion()

	return nil
}

// Revise applies a revision to a pending order: a non-nil supplierID moves it
// to another supplier, a non-nil item set replaces the lines wholesale.
// Either part may be omitted, not both. The whole revision is one state
// change with a single version bump.
func (po *PurchaseOrder) Revise(supplierID *uuid.UUID, inputs []ItemInput) error {
	if supplierID == nil && inputs == nil {
		return shared.NewDomainError("EMPTY_REVISION", "Revision must change the supplier or the items")
	}
	if po.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot revise a %s purchase order", po.Status))
	}
	if supplierID != nil && *supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	if inputs != nil {
		if err := po.replaceItemSet(inputs); err != nil {
			return err
		}
	}
	if supplierID != nil {
		po.SupplierID = *supplierID
	}
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// replaceItemSet validates and installs new lines without touching the version
func (po *PurchaseOrder) replaceItemSet(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Purchase order must contain at least one item")
	}

	items := make([]PurchaseOrderItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := newPurchaseOrderItem(po.ID, in.ProductID, in.ProductName, in.Quantity, in.UnitCost)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	po.Items = items
	po.recalculateTotal()

	return nil
}

// SetSupplier changes the supplier of a pending order
func (po *PurchaseOrder) SetSupplier(supplierID uuid.UUID) error {
	if po.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change supplier of a %s purchase order", po.Status))
	}
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	po.SupplierID = supplierID
	po.UpdatedAt = time.Now()
	po.IncrementVersion()

	return nil
}

// SetNote updates the free-form note of a pending order
func (po *PurchaseOrder) SetNote(note string) error {
	if po.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change note of a %s purchase order", po.Status))
	}
	po.Note = note
	po.UpdatedAt = time.Now()
	return nil
}

// Complete marks the order received. The caller is responsible for applying
// the stock increments in the same transaction.
func (po *PurchaseOrder) Complete() error {
	if !po.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete a %s purchase order", po.Status))
	}
	if len(po.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot complete a purchase order with no items")
	}

	now := time.Now()
	po.Status = StatusCompleted
	po.CompletedAt = &now
	po.UpdatedAt = now
	po.IncrementVersion()

	return nil
}

// Cancel marks the order cancelled. No stock is moved.
func (po *PurchaseOrder) Cancel() error {
	if !po.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel a %s purchase order", po.Status))
	}

	now := time.Now()
	po.Status = StatusCancelled
	po.CancelledAt = &now
	po.UpdatedAt = now
	po.IncrementVersion()

	return nil
}

// recalculateTotal derives the order total from its lines
func (po *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.Subtotal)
	}
	po.TotalAmount = total
	po.UpdatedAt = time.Now()
}

// TotalQuantity returns the summed quantity across all lines
func (po *PurchaseOrder) TotalQuantity() int64 {
	var total int64
	for _, item := range po.Items {
		total += item.Quantity
	}
	return total
}

// ItemCount returns the number of order lines
func (po *PurchaseOrder) ItemCount() int {
	return len(po.Items)
}
