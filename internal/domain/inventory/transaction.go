package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// TransactionType represents the kind of stock mutation a ledger row records
type TransactionType string

const (
	// TransactionTypeSale decrements stock (checkout or sale-type correction)
	TransactionTypeSale TransactionType = "sale"
	// TransactionTypePurchase increments stock (PO completion or purchase-type correction)
	TransactionTypePurchase TransactionType = "purchase"
	// TransactionTypeAdjustment sets stock to an absolute value
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReferenceType identifies the originating document of a ledger row
type ReferenceType string

const (
	// ReferenceTypeSale links a row to the sale that caused it
	ReferenceTypeSale ReferenceType = "sale"
	// ReferenceTypePurchaseOrder links a row to the purchase order that caused it
	ReferenceTypePurchaseOrder ReferenceType = "purchase_order"
)

// Transaction is an immutable record of a single stock mutation. Rows are
// append-only: corrections are made with new rows, never by editing history.
// Quantity keeps the caller-supplied meaning per type: the amount subtracted
// for sale, the amount added for purchase, the absolute level for adjustment.
type Transaction struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_tx_product"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index:idx_inventory_tx_type"`
	Quantity        int64           `gorm:"not null"`
	BalanceBefore   int64           `gorm:"not null"`
	BalanceAfter    int64           `gorm:"not null"`
	ReferenceType   *ReferenceType  `gorm:"type:varchar(20);index:idx_inventory_tx_reference,priority:1"`
	ReferenceID     *uuid.UUID      `gorm:"type:uuid;index:idx_inventory_tx_reference,priority:2"`
	Note            string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "inventory_transactions"
}

// NewTransaction creates a new ledger row without a document reference
// (manual adjustments)
func NewTransaction(productID uuid.UUID, txType TransactionType, quantity, balanceBefore, balanceAfter int64) (*Transaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if balanceAfter < 0 {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Resulting balance cannot be negative")
	}

	return &Transaction{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		TransactionType: txType,
		Quantity:        quantity,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
	}, nil
}

// NewReferencedTransaction creates a ledger row linked to its originating
// sale or purchase order
func NewReferencedTransaction(productID uuid.UUID, txType TransactionType, quantity, balanceBefore, balanceAfter int64, refType ReferenceType, refID uuid.UUID) (*Transaction, error) {
	tx, err := NewTransaction(productID, txType, quantity, balanceBefore, balanceAfter)
	if err != nil {
		return nil, err
	}
	if refID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}
	tx.ReferenceType = &refType
	tx.ReferenceID = &refID
	return tx, nil
}

// WithNote attaches a free-form note to the row
func (t *Transaction) WithNote(note string) *Transaction {
	t.Note = note
	return t
}

// SignedQuantity returns the net stock change recorded by this row
func (t *Transaction) SignedQuantity() int64 {
	return t.BalanceAfter - t.BalanceBefore
}

// TransactionDate returns when the mutation was recorded
func (t *Transaction) TransactionDate() time.Time {
	return t.CreatedAt
}
