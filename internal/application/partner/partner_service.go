package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierInput is the request to create or update a supplier
type SupplierInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Contact string `json:"contact" binding:"max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// CustomerInput is the request to create or update a customer
type CustomerInput struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"max=50"`
	Email string `json:"email" binding:"omitempty,email"`
}

// SupplierDTO is the supplier response
type SupplierDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerDTO is the customer response
type CustomerDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toSupplierDTO(s *partner.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:        s.ID.String(),
		Name:      s.Name,
		Contact:   s.Contact,
		Phone:     s.Phone,
		Email:     s.Email,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

func toCustomerDTO(c *partner.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

// PartnerService handles suppliers and customers
type PartnerService struct {
	supplierRepo partner.SupplierRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewPartnerService creates a partner service
func NewPartnerService(supplierRepo partner.SupplierRepository, customerRepo partner.CustomerRepository, logger *zap.Logger) *PartnerService {
	return &PartnerService{
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// CreateSupplier registers a supplier
func (s *PartnerService) CreateSupplier(ctx context.Context, input SupplierInput) (*SupplierDTO, error) {
	supplier, err := partner.NewSupplier(input.Name)
	if err != nil {
		return nil, err
	}
	supplier.UpdateContact(input.Contact, input.Phone, input.Email)

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier created", zap.String("supplier_id", supplier.ID.String()))
	dto := toSupplierDTO(supplier)
	return &dto, nil
}

// GetSupplier retrieves a supplier by ID
func (s *PartnerService) GetSupplier(ctx context.Context, id string) (*SupplierDTO, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid supplier ID")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	dto := toSupplierDTO(supplier)
	return &dto, nil
}

// ListSuppliers retrieves suppliers with pagination
func (s *PartnerService) ListSuppliers(ctx context.Context, page, limit int) ([]SupplierDTO, int64, error) {
	filter := shared.NewFilter(page, limit)

	found, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]SupplierDTO, 0, len(found))
	for idx := range found {
		dtos = append(dtos, toSupplierDTO(&found[idx]))
	}
	return dtos, total, nil
}

// CreateCustomer registers a customer
func (s *PartnerService) CreateCustomer(ctx context.Context, input CustomerInput) (*CustomerDTO, error) {
	customer, err := partner.NewCustomer(input.Name)
	if err != nil {
		return nil, err
	}
	customer.UpdateContact(input.Phone, input.Email)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID.String()))
	dto := toCustomerDTO(customer)
	return &dto, nil
}

// GetCustomer retrieves a customer by ID
func (s *PartnerService) GetCustomer(ctx context.Context, id string) (*CustomerDTO, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid customer ID")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	dto := toCustomerDTO(customer)
	return &dto, nil
}

// ListCustomers retrieves customers with pagination
func (s *PartnerService) ListCustomers(ctx context.Context, page, limit int) ([]CustomerDTO, int64, error) {
	filter := shared.NewFilter(page, limit)

	found, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]CustomerDTO, 0, len(found))
	for idx := range found {
		dtos = append(dtos, toCustomerDTO(&found[idx]))
	}
	return dtos, total, nil
}
