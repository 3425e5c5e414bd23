package common

import (
	"context"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/sales"
)

// TransactionalRepositories exposes the repositories bound to one database
// transaction. Every repository obtained from the same instance shares that
// transaction, so a stock decrement, its ledger row and the owning document
// commit or roll back together.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Sales() sales.SaleRepository
	PurchaseOrders() purchasing.PurchaseOrderRepository
	Transactions() inventory.TransactionRepository
}

// TransactionScope runs a function inside a database transaction. A non-nil
// error from fn rolls the transaction back; nil commits it.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope passes the wired repositories through without any
// transaction. Used in tests where repositories are mocks.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a pass-through scope over fixed repositories
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute invokes fn directly with the fixed repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

// StaticRepositories is a TransactionalRepositories over fixed instances
type StaticRepositories struct {
	ProductRepo       catalog.ProductRepository
	SaleRepo          sales.SaleRepository
	PurchaseOrderRepo purchasing.PurchaseOrderRepository
	TransactionRepo   inventory.TransactionRepository
}

func (r *StaticRepositories) Products() catalog.ProductRepository { return r.ProductRepo }

func (r *StaticRepositories) Sales() sales.SaleRepository { return r.SaleRepo }

func (r *StaticRepositories) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return r.PurchaseOrderRepo
}

func (r *StaticRepositories) Transactions() inventory.TransactionRepository {
	return r.TransactionRepo
}
