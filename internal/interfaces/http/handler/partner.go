package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/retailpos/backend/internal/application/partner"
)

// PartnerHandler handles supplier and customer endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// RegisterRoutes registers supplier and customer routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
	}

	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
	}
}

// CreateSupplier registers a supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var input partnerapp.SupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.partnerService.CreateSupplier(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetSupplier returns a supplier
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.partnerService.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// ListSuppliers returns a page of suppliers
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	page, pageSize, err := parseListParams(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	suppliers, total, err := h.partnerService.ListSuppliers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, suppliers, total, page, pageSize)
}

// CreateCustomer registers a customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var input partnerapp.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.partnerService.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetCustomer returns a customer
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.partnerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, customer)
}

// ListCustomers returns a page of customers
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	page, pageSize, err := parseListParams(c)
	if err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	customers, total, err := h.partnerService.ListCustomers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, page, pageSize)
}
