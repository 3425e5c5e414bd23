package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
)

// parseDateTime parses a datetime query parameter
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// InventoryHandler handles stock adjustment and ledger endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/adjustments", h.Adjust)
		inv.GET("/transactions", h.ListTransactions)
		inv.GET("/transactions/:id", h.GetTransaction)
		inv.GET("/products/:id/transactions", h.ListProductTransactions)
	}
}

// Adjust applies a manual stock mutation and appends the matching ledger row
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var input inventoryapp.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetTransaction returns a single ledger row
func (h *InventoryHandler) GetTransaction(c *gin.Context) {
	tx, err := h.inventoryService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tx)
}

// ListTransactions returns a page of ledger rows, newest first. When both
// `from` and `to` are given the page is restricted to that window.
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	page, pageSize, err := parseListParams(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")

	var list *inventoryapp.TransactionListDTO
	if fromStr != "" || toStr != "" {
		from, err := parseDateTime(fromStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' datetime")
			return
		}
		to, err := parseDateTime(toStr)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' datetime")
			return
		}
		list, err = h.inventoryService.ListTransactionsByDateRange(c.Request.Context(), from, to, page, pageSize)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
	} else {
		list, err = h.inventoryService.ListTransactions(c.Request.Context(), page, pageSize)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
	}

	h.SuccessWithMeta(c, list.Transactions, list.Total, list.Page, list.Limit)
}

// ListProductTransactions returns the ledger history of one product
func (h *InventoryHandler) ListProductTransactions(c *gin.Context) {
	page, pageSize, err := parseListParams(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	list, err := h.inventoryService.ListProductTransactions(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list.Transactions, list.Total, list.Page, list.Limit)
}
