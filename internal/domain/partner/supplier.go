package partner

import (
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Supplier represents a goods supplier referenced by purchase orders
type Supplier struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Contact string `gorm:"type:varchar(100)"`
	Phone   string `gorm:"type:varchar(30)"`
	Email   string `gorm:"type:varchar(200)"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(name string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}

// UpdateContact updates contact details
func (s *Supplier) UpdateContact(contact, phone, email string) {
	s.Contact = contact
	s.Phone = phone
	s.Email = email
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate marks the supplier inactive; existing orders keep their reference
func (s *Supplier) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
