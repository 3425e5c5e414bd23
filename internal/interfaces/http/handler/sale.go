package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/retailpos/backend/internal/application/sales"
)

// IdempotencyKeyHeader carries the client-chosen key that makes checkout
// retries safe to replay
const IdempotencyKeyHeader = "Idempotency-Key"

// SaleHandler handles checkout and sale lookup endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.GetByID)
		sales.GET("/number/:number", h.GetByNumber)
		sales.DELETE("", h.DeleteAll)
	}
}

// Create processes a checkout: it validates the cart, decrements stock and
// writes the sale with its ledger rows in one transaction
func (h *SaleHandler) Create(c *gin.Context) {
	cashierID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input salesapp.CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}
	input.CashierID = cashierID.String()
	input.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID returns a sale with its items and payment
func (h *SaleHandler) GetByID(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// GetByNumber returns a sale by its human-readable number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	sale, err := h.saleService.GetSaleByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// List returns a page of sales, newest first
func (h *SaleHandler) List(c *gin.Context) {
	page, pageSize, err := parseListParams(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	list, err := h.saleService.ListSales(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, list.Sales, list.Total, list.Page, list.Limit)
}

// DeleteAll removes every sale document. The inventory ledger is untouched.
func (h *SaleHandler) DeleteAll(c *gin.Context) {
	deleted, err := h.saleService.DeleteAllSales(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"deleted": deleted})
}
