package handler

import (
	"github.com/gin-gonic/gin"
	purchasingapp "github.com/retailpos/backend/internal/application/purchasing"
)

// PurchaseOrderHandler handles replenishment order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchasingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// RegisterRoutes registers purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id/items", h.UpdateItems)
		orders.POST("/:id/status", h.TransitionStatus)
	}
}

// Create places a new pending purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var input purchasingapp.CreatePurchaseOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.CreatePurchaseOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID returns a purchase order with its items
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	order, err := h.orderService.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItems revises a pending order: a new item set, a new supplier, or both
func (h *PurchaseOrderHandler) UpdateItems(c *gin.Context) {
	var input purchasingapp.UpdatePurchaseOrderItemsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateItems(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// TransitionStatus moves an order through its lifecycle. Completing an
// order receives its items into stock in the same transaction.
func (h *PurchaseOrderHandler) TransitionStatus(c *gin.Context) {
	var input purchasingapp.TransitionStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.TransitionStatus(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns a page of purchase orders, optionally filtered by status
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	page, pageSize, err := parseListParams(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	list, err := h.orderService.ListPurchaseOrders(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list.Orders, list.Total, list.Page, list.Limit)
}
