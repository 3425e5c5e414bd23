package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of a sale
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// SaleItem represents a line item in a sale.
// Subtotal = Quantity × UnitPrice − Discount, fixed at creation.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// newSaleItem creates a line item and computes its subtotal
func newSaleItem(saleID, productID uuid.UUID, productName string, quantity int64, unitPrice, discount valueobject.Money) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	gross := unitPrice.MulInt(quantity)
	if discount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line amount")
	}
	subtotal := gross.Amount().Sub(discount.Amount())

	return &SaleItem{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Discount:    discount.Amount(),
		Subtotal:    subtotal,
		CreatedAt:   time.Now(),
	}, nil
}

// Payment records the settlement of a sale. One payment per sale; its amount
// equals the sale's final amount and its method mirrors the sale's.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Sale is the checkout aggregate root. A sale with its items, payment and
// ledger rows is created in one operation and never mutated afterwards; the
// only write beyond creation is the administrative bulk delete.
type Sale struct {
	shared.BaseAggregateRoot
	SaleNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	CashierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID;references:ID"`
	Payment        *Payment        `gorm:"foreignKey:SaleID;references:ID"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates an empty sale; add items, then Finalize before persisting
func NewSale(saleNumber string, cashierID uuid.UUID, customerID *uuid.UUID, method PaymentMethod) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleNumber:        saleNumber,
		CustomerID:        customerID,
		CashierID:         cashierID,
		Items:             make([]SaleItem, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		FinalAmount:       decimal.Zero,
		PaymentMethod:     method,
		PaymentStatus:     PaymentStatusPending,
	}, nil
}

// AddItem adds a line item. Only possible before Finalize.
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity int64, unitPrice, discount valueobject.Money) (*SaleItem, error) {
	if s.Payment != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale is finalized; items cannot be added")
	}

	item, err := newSaleItem(s.ID, productID, productName, quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.recalculateTotals()

	return item, nil
}

// ApplyAdjustments sets the sale-level discount and tax.
// FinalAmount = TotalAmount − DiscountAmount + TaxAmount.
func (s *Sale) ApplyAdjustments(discount, tax valueobject.Money) error {
	if s.Payment != nil {
		return shared.NewDomainError("INVALID_STATE", "Sale is finalized; adjustments cannot change")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}
	if tax.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax amount cannot be negative")
	}

	s.DiscountAmount = discount.Amount()
	s.TaxAmount = tax.Amount()
	s.recalculateTotals()

	return nil
}

// Finalize seals the sale: at least one item is required, the final amount
// must not be negative, and the payment row is created for exactly the final
// amount with the sale's method. The payment status flips to paid.
func (s *Sale) Finalize() error {
	if s.Payment != nil {
		return shared.NewDomainError("INVALID_STATE", "Sale is already finalized")
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Sale must contain at least one item")
	}
	if s.FinalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Final amount cannot be negative")
	}

	s.Payment = &Payment{
		ID:        uuid.New(),
		SaleID:    s.ID,
		Amount:    s.FinalAmount,
		Method:    s.PaymentMethod,
		CreatedAt: time.Now(),
	}
	s.PaymentStatus = PaymentStatusPaid
	s.UpdatedAt = time.Now()

	return nil
}

// recalculateTotals derives the sale totals from its lines and adjustments
func (s *Sale) recalculateTotals() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal)
	}
	s.TotalAmount = total
	s.FinalAmount = s.TotalAmount.Sub(s.DiscountAmount).Add(s.TaxAmount)
	s.UpdatedAt = time.Now()
}

// ItemCount returns the number of line items
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

// TotalQuantity returns the summed quantity across all lines
func (s *Sale) TotalQuantity() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// IsFinalized returns true once the payment row exists
func (s *Sale) IsFinalized() bool {
	return s.Payment != nil
}

// GetItemByProduct returns the line for a product, or nil
func (s *Sale) GetItemByProduct(productID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			return &s.Items[idx]
		}
	}
	return nil
}
