package purchasing

import (
	"time"

	"github.com/retailpos/backend/internal/domain/purchasing"
)

// PurchaseOrderItemInput is one line of a create or update request
type PurchaseOrderItemInput struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  int64   `json:"quantity" binding:"required,min=1"`
	UnitCost  float64 `json:"unit_cost" binding:"min=0"`
}

// CreatePurchaseOrderInput is the request to open a purchase order
type CreatePurchaseOrderInput struct {
	SupplierID string                   `json:"supplier_id" binding:"required,uuid"`
	Note       string                   `json:"note"`
	Items      []PurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderItemsInput revises a pending order. Both parts are
// optional but at least one must be present: items replace the full set,
// supplier_id moves the order to another supplier.
type UpdatePurchaseOrderItemsInput struct {
	SupplierID *string                  `json:"supplier_id" binding:"omitempty,uuid"`
	Items      []PurchaseOrderItemInput `json:"items" binding:"omitempty,min=1,dive"`
}

// TransitionStatusInput requests a lifecycle transition
type TransitionStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending completed cancelled"`
}

// PurchaseOrderItemDTO is one line of an order response
type PurchaseOrderItemDTO struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitCost    string `json:"unit_cost"`
	Subtotal    string `json:"subtotal"`
}

// PurchaseOrderDTO is the full order response
type PurchaseOrderDTO struct {
	ID          string                 `json:"id"`
	OrderNumber string                 `json:"order_number"`
	SupplierID  string                 `json:"supplier_id"`
	Status      string                 `json:"status"`
	Items       []PurchaseOrderItemDTO `json:"items"`
	TotalAmount string                 `json:"total_amount"`
	Note        string                 `json:"note,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CancelledAt *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// PurchaseOrderListDTO is the paginated list response
type PurchaseOrderListDTO struct {
	Orders []PurchaseOrderDTO `json:"orders"`
	Total  int64              `json:"total"`
	Page   int                `json:"page"`
	Limit  int                `json:"limit"`
}

func toPurchaseOrderDTO(po *purchasing.PurchaseOrder) PurchaseOrderDTO {
	dto := PurchaseOrderDTO{
		ID:          po.ID.String(),
		OrderNumber: po.OrderNumber,
		SupplierID:  po.SupplierID.String(),
		Status:      string(po.Status),
		Items:       make([]PurchaseOrderItemDTO, 0, len(po.Items)),
		TotalAmount: po.TotalAmount.String(),
		Note:        po.Note,
		CompletedAt: po.CompletedAt,
		CancelledAt: po.CancelledAt,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
	for _, item := range po.Items {
		dto.Items = append(dto.Items, PurchaseOrderItemDTO{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}
	return dto
}
