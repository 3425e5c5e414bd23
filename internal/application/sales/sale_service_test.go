package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/common"
	"github.com/retailpos/backend/internal/domain/catalog"
	domaininventory "github.com/retailpos/backend/internal/domain/inventory"
	domainsales "github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Mocks
// ============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) SaveStockWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

type mockSaleRepo struct {
	mock.Mock
}

func (m *mockSaleRepo) FindByID(ctx context.Context, id uuid.UUID) (*domainsales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsales.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindBySaleNumber(ctx context.Context, saleNumber string) (*domainsales.Sale, error) {
	args := m.Called(ctx, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsales.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*domainsales.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domainsales.Sale), args.Error(1)
}

func (m *mockSaleRepo) FindByCashier(ctx context.Context, cashierID uuid.UUID, filter shared.Filter) ([]*domainsales.Sale, error) {
	args := m.Called(ctx, cashierID, filter)
	return args.Get(0).([]*domainsales.Sale), args.Error(1)
}

func (m *mockSaleRepo) Save(ctx context.Context, sale *domainsales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *mockSaleRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSaleRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSaleRepo) NextSaleNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domaininventory.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domaininventory.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]domaininventory.Transaction, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]domaininventory.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) FindByReference(ctx context.Context, refType domaininventory.ReferenceType, refID uuid.UUID) ([]domaininventory.Transaction, error) {
	args := m.Called(ctx, refType, refID)
	return args.Get(0).([]domaininventory.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) FindAll(ctx context.Context, filter shared.Filter) ([]domaininventory.Transaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domaininventory.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]domaininventory.Transaction, error) {
	args := m.Called(ctx, start, end, filter)
	return args.Get(0).([]domaininventory.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *domaininventory.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepo) CreateBatch(ctx context.Context, txs []*domaininventory.Transaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *mockTransactionRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(int64), args.Error(1)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

// ============================================================================
// Fixtures
// ============================================================================

type saleServiceFixture struct {
	service     *SaleService
	productRepo *mockProductRepo
	saleRepo    *mockSaleRepo
	txRepo      *mockTransactionRepo
	store       *mockIdempotencyStore
}

func newSaleServiceFixture(t *testing.T) *saleServiceFixture {
	t.Helper()
	productRepo := new(mockProductRepo)
	saleRepo := new(mockSaleRepo)
	txRepo := new(mockTransactionRepo)
	store := new(mockIdempotencyStore)

	scope := common.NewNoOpTransactionScope(&common.StaticRepositories{
		ProductRepo:     productRepo,
		SaleRepo:        saleRepo,
		TransactionRepo: txRepo,
	})

	service := NewSaleService(scope, saleRepo, nil, store, zap.NewNop())
	return &saleServiceFixture{
		service:     service,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		txRepo:      txRepo,
		store:       store,
	}
}

func fixtureProduct(t *testing.T, sku string, stock int64, price float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Product "+sku,
		valueobject.NewMoneyUSDFromFloat(price/2), valueobject.NewMoneyUSDFromFloat(price))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(stock))
	return product
}

// ============================================================================
// CreateSale
// ============================================================================

func TestSaleService_CreateSale(t *testing.T) {
	ctx := context.Background()
	cashierID := uuid.New()

	t.Run("decrements stock and writes one ledger row per line", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 10, 8.00)
		papers := fixtureProduct(t, "SKU-PAPERS", 50, 3.50)

		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.productRepo.On("FindByIDForUpdate", ctx, papers.ID).Return(papers, nil)
		f.saleRepo.On("NextSaleNumber", ctx, mock.AnythingOfType("int")).Return("SALE-2026-00042", nil)
		f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		f.productRepo.On("SaveStockWithLock", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*inventory.Transaction")).Return(nil)

		dto, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items: []CreateSaleItemInput{
				{ProductID: beans.ID.String(), Quantity: 3, UnitPrice: 8.00},
				{ProductID: papers.ID.String(), Quantity: 2, UnitPrice: 3.50},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "SALE-2026-00042", dto.SaleNumber)
		assert.Len(t, dto.Items, 2)
		require.NotNil(t, dto.Payment)
		assert.Equal(t, dto.FinalAmount, dto.Payment.Amount)

		assert.Equal(t, int64(7), beans.StockQuantity)
		assert.Equal(t, int64(48), papers.StockQuantity)
		f.productRepo.AssertNumberOfCalls(t, "SaveStockWithLock", 2)
		f.txRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("ledger rows carry balances around the decrement", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 10, 8.00)

		var row *domaininventory.Transaction
		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.saleRepo.On("NextSaleNumber", ctx, mock.AnythingOfType("int")).Return("SALE-2026-00001", nil)
		f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		f.productRepo.On("SaveStockWithLock", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*inventory.Transaction")).
			Run(func(args mock.Arguments) {
				row = args.Get(1).(*domaininventory.Transaction)
			}).Return(nil)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "card",
			Items:         []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 4, UnitPrice: 8.00}},
		})
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, int64(10), row.BalanceBefore)
		assert.Equal(t, int64(6), row.BalanceAfter)
		assert.Equal(t, domaininventory.TransactionTypeSale, row.TransactionType)
		require.NotNil(t, row.ReferenceType)
		assert.Equal(t, domaininventory.ReferenceTypeSale, *row.ReferenceType)
	})

	t.Run("line price comes from the request, not the catalog", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 100, 8.00)

		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.saleRepo.On("NextSaleNumber", ctx, mock.AnythingOfType("int")).Return("SALE-2026-00010", nil)
		f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		f.productRepo.On("SaveStockWithLock", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*inventory.Transaction")).Return(nil)

		// Promotional price of 5.00 overrides the 8.00 catalog price.
		dto, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items:         []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 30, UnitPrice: 5.00}},
		})
		require.NoError(t, err)
		require.Len(t, dto.Items, 1)
		assert.Equal(t, "5", dto.Items[0].UnitPrice)
		assert.Equal(t, "150", dto.Items[0].Subtotal)
		assert.Equal(t, "150", dto.FinalAmount)
		assert.Equal(t, int64(70), beans.StockQuantity)
	})

	t.Run("negative line price rejected", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 10, 8.00)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items:         []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 1, UnitPrice: -1.00}},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
		f.productRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock rejects the whole sale", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 2, 8.00)

		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.saleRepo.On("NextSaleNumber", ctx, mock.AnythingOfType("int")).Return("SALE-2026-00001", nil)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items:         []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 3, UnitPrice: 8.00}},
		})
		require.Error(t, err)
		assert.Equal(t, int64(2), beans.StockQuantity, "stock must be untouched after rejection")
		f.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown product rejects the sale", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		missing := uuid.New()

		f.productRepo.On("FindByIDForUpdate", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items:         []CreateSaleItemInput{{ProductID: missing.String(), Quantity: 1, UnitPrice: 8.00}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("duplicate product lines rejected before locking", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		productID := uuid.New()

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items: []CreateSaleItemInput{
				{ProductID: productID.String(), Quantity: 1, UnitPrice: 2.00},
				{ProductID: productID.String(), Quantity: 2, UnitPrice: 2.00},
			},
		})
		require.Error(t, err)
		f.productRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("empty item list rejected", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
		})
		require.Error(t, err)
	})

	t.Run("replayed idempotency key rejected", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 10, 8.00)

		f.store.On("MarkProcessed", ctx, "sale:req-123", mock.AnythingOfType("time.Duration")).Return(false, nil)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:      cashierID.String(),
			PaymentMethod:  "cash",
			IdempotencyKey: "req-123",
			Items:          []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 1, UnitPrice: 8.00}},
		})
		require.Error(t, err)
		f.productRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("fresh idempotency key proceeds", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 10, 8.00)

		f.store.On("MarkProcessed", ctx, "sale:req-456", mock.AnythingOfType("time.Duration")).Return(true, nil)
		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.saleRepo.On("NextSaleNumber", ctx, mock.AnythingOfType("int")).Return("SALE-2026-00002", nil)
		f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		f.productRepo.On("SaveStockWithLock", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*inventory.Transaction")).Return(nil)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:      cashierID.String(),
			PaymentMethod:  "cash",
			IdempotencyKey: "req-456",
			Items:          []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 1, UnitPrice: 8.00}},
		})
		require.NoError(t, err)
	})

	t.Run("version conflict surfaces to the caller", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 10, 8.00)

		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.saleRepo.On("NextSaleNumber", ctx, mock.AnythingOfType("int")).Return("SALE-2026-00003", nil)
		f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
		f.productRepo.On("SaveStockWithLock", ctx, mock.AnythingOfType("*catalog.Product")).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.CreateSale(ctx, CreateSaleInput{
			CashierID:     cashierID.String(),
			PaymentMethod: "cash",
			Items:         []CreateSaleItemInput{{ProductID: beans.ID.String(), Quantity: 1, UnitPrice: 8.00}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrConcurrencyConflict))
	})
}

// ============================================================================
// Queries
// ============================================================================

func TestSaleService_GetSale(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the sale with items", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		sale, err := domainsales.NewSale("SALE-2026-00001", uuid.New(), nil, domainsales.PaymentMethodCash)
		require.NoError(t, err)
		_, err = sale.AddItem(uuid.New(), "Espresso Beans 1kg", 1, valueobject.NewMoneyUSDFromFloat(8.00), valueobject.ZeroUSD())
		require.NoError(t, err)
		require.NoError(t, sale.Finalize())

		f.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		dto, err := f.service.GetSale(ctx, sale.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "SALE-2026-00001", dto.SaleNumber)
		assert.Len(t, dto.Items, 1)
	})

	t.Run("unknown sale", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		id := uuid.New()
		f.saleRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.GetSale(ctx, id.String())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newSaleServiceFixture(t)
		_, err := f.service.GetSale(ctx, "not-a-uuid")
		assert.Error(t, err)
	})
}

func TestSaleService_DeleteAllSales(t *testing.T) {
	ctx := context.Background()
	f := newSaleServiceFixture(t)
	f.saleRepo.On("DeleteAll", ctx).Return(int64(7), nil)

	deleted, err := f.service.DeleteAllSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}
