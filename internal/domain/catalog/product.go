package catalog

import (
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product. It is the aggregate root that owns
// the on-hand stock counter; StockQuantity is mutated only through the stock
// methods below, never assigned directly by callers.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	CategoryID    *string         `gorm:"type:varchar(50);index"`
	StockQuantity int64           `gorm:"not null;default:0"`
	MinStockLevel int64           `gorm:"not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with zero stock
func NewProduct(sku, name string, costPrice, sellingPrice valueobject.Money) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		StockQuantity:     0,
		MinStockLevel:     0,
		CostPrice:         costPrice.Amount(),
		SellingPrice:      sellingPrice.Amount(),
	}, nil
}

// IncreaseStock adds quantity to the on-hand counter.
// Used by purchase-order completion and purchase-type adjustments.
func (p *Product) IncreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.StockQuantity += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// DecreaseStock removes quantity from the on-hand counter.
// The counter must never go negative through a decrement; the caller's whole
// operation is expected to abort on ErrInsufficientStock.
func (p *Product) DecreaseStock(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.StockQuantity-quantity < 0 {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStock replaces the on-hand counter with an absolute value.
// Used by adjustment-type corrections and initial stocking.
func (p *Product) SetStock(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}

	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// CanFulfill returns true if the on-hand quantity covers the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return p.StockQuantity >= quantity
}

// IsBelowMinimum returns true if on-hand stock is below the reorder threshold
func (p *Product) IsBelowMinimum() bool {
	return p.MinStockLevel > 0 && p.StockQuantity < p.MinStockLevel
}

// SetMinStockLevel sets the reorder threshold
func (p *Product) SetMinStockLevel(level int64) error {
	if level < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock level cannot be negative")
	}
	p.MinStockLevel = level
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// UpdateDetails updates catalog fields. Stock is deliberately untouched here;
// only the ledger writers mutate it.
func (p *Product) UpdateDetails(name string, costPrice, sellingPrice valueobject.Money) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if costPrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = name
	p.CostPrice = costPrice.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// GetCostPriceMoney returns the cost price as a Money value object
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.CostPrice)
}

// GetSellingPriceMoney returns the selling price as a Money value object
func (p *Product) GetSellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.SellingPrice)
}
