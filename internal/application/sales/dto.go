package sales

import (
	"time"

	"github.com/retailpos/backend/internal/domain/sales"
)

// CreateSaleItemInput is one line of a checkout request
type CreateSaleItemInput struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  int64   `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"min=0"`
	Discount  float64 `json:"discount" binding:"min=0"`
}

// CreateSaleInput is the checkout request
type CreateSaleInput struct {
	CustomerID     *string               `json:"customer_id" binding:"omitempty,uuid"`
	CashierID      string                `json:"-"`
	PaymentMethod  string                `json:"payment_method" binding:"required,oneof=cash card transfer"`
	DiscountAmount float64               `json:"discount_amount" binding:"min=0"`
	TaxAmount      float64               `json:"tax_amount" binding:"min=0"`
	Items          []CreateSaleItemInput `json:"items" binding:"required,min=1,dive"`
	IdempotencyKey string                `json:"-"`
}

// SaleItemDTO is one line of a sale response
type SaleItemDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Discount    string `json:"discount"`
	Subtotal    string `json:"subtotal"`
}

// PaymentDTO is the settlement part of a sale response
type PaymentDTO struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Method string `json:"method"`
}

// SaleDTO is the full sale response
type SaleDTO struct {
	ID             string        `json:"id"`
	SaleNumber     string        `json:"sale_number"`
	CustomerID     *string       `json:"customer_id,omitempty"`
	CashierID      string        `json:"cashier_id"`
	Items          []SaleItemDTO `json:"items"`
	Payment        *PaymentDTO   `json:"payment,omitempty"`
	TotalAmount    string        `json:"total_amount"`
	DiscountAmount string        `json:"discount_amount"`
	TaxAmount      string        `json:"tax_amount"`
	FinalAmount    string        `json:"final_amount"`
	PaymentMethod  string        `json:"payment_method"`
	PaymentStatus  string        `json:"payment_status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SaleListDTO is the paginated list response
type SaleListDTO struct {
	Sales []SaleDTO `json:"sales"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

func toSaleDTO(sale *sales.Sale) SaleDTO {
	dto := SaleDTO{
		ID:             sale.ID.String(),
		SaleNumber:     sale.SaleNumber,
		CashierID:      sale.CashierID.String(),
		Items:          make([]SaleItemDTO, 0, len(sale.Items)),
		TotalAmount:    sale.TotalAmount.String(),
		DiscountAmount: sale.DiscountAmount.String(),
		TaxAmount:      sale.TaxAmount.String(),
		FinalAmount:    sale.FinalAmount.String(),
		PaymentMethod:  string(sale.PaymentMethod),
		PaymentStatus:  string(sale.PaymentStatus),
		CreatedAt:      sale.CreatedAt,
	}
	if sale.CustomerID != nil {
		id := sale.CustomerID.String()
		dto.CustomerID = &id
	}
	for _, item := range sale.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Discount:    item.Discount.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}
	if sale.Payment != nil {
		dto.Payment = &PaymentDTO{
			ID:     sale.Payment.ID.String(),
			Amount: sale.Payment.Amount.String(),
			Method: string(sale.Payment.Method),
		}
	}
	return dto
}
