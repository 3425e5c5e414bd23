package purchasing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/common"
	"github.com/retailpos/backend/internal/domain/catalog"
	domaininventory "github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	domainpurchasing "github.com/retailpos/backend/internal/domain/purchasing"
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

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domainpurchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpurchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domainpurchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpurchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*domainpurchasing.PurchaseOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainpurchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*domainpurchasing.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domainpurchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindByStatus(ctx context.Context, status domainpurchasing.Status, filter shared.Filter) ([]*domainpurchasing.PurchaseOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]*domainpurchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]*domainpurchasing.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID, filter)
	return args.Get(0).([]*domainpurchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, order *domainpurchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) SaveWithLock(ctx context.Context, order *domainpurchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepo) NextOrderNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

type mockSupplierRepo struct {
	mock.Mock
}

func (m *mockSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *mockSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSupplierRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSupplierRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
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

// ============================================================================
// Fixtures
// ============================================================================

type orderServiceFixture struct {
	service      *PurchaseOrderService
	orderRepo    *mockOrderRepo
	productRepo  *mockProductRepo
	supplierRepo *mockSupplierRepo
	txRepo       *mockTransactionRepo
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()
	orderRepo := new(mockOrderRepo)
	productRepo := new(mockProductRepo)
	supplierRepo := new(mockSupplierRepo)
	txRepo := new(mockTransactionRepo)

	scope := common.NewNoOpTransactionScope(&common.StaticRepositories{
		ProductRepo:       productRepo,
		PurchaseOrderRepo: orderRepo,
		TransactionRepo:   txRepo,
	})

	service := NewPurchaseOrderService(scope, orderRepo, productRepo, supplierRepo, zap.NewNop())
	return &orderServiceFixture{
		service:      service,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		txRepo:       txRepo,
	}
}

func fixtureProduct(t *testing.T, sku string, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Product "+sku,
		valueobject.NewMoneyUSDFromFloat(4.50), valueobject.NewMoneyUSDFromFloat(8.00))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(stock))
	return product
}

func fixtureOrder(t *testing.T, productIDs ...uuid.UUID) *domainpurchasing.PurchaseOrder {
	t.Helper()
	order, err := domainpurchasing.NewPurchaseOrder("PO-2026-00001", uuid.New())
	require.NoError(t, err)

	inputs := make([]domainpurchasing.ItemInput, 0, len(productIDs))
	for i, id := range productIDs {
		inputs = append(inputs, domainpurchasing.ItemInput{
			ProductID:   id,
			ProductName: "Product",
			Quantity:    int64(10 * (i + 1)),
			UnitCost:    valueobject.NewMoneyUSDFromFloat(4.50),
		})
	}
	require.NoError(t, order.ReplaceItems(inputs))
	return order
}

// ============================================================================
// CreatePurchaseOrder
// ============================================================================

func TestPurchaseOrderService_CreatePurchaseOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a pending order with a reserved number", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		supplierID := uuid.New()
		beans := fixtureProduct(t, "SKU-BEANS", 5)

		f.supplierRepo.On("ExistsByID", ctx, supplierID).Return(true, nil)
		f.productRepo.On("FindByID", ctx, beans.ID).Return(beans, nil)
		f.orderRepo.On("NextOrderNumber", ctx, mock.AnythingOfType("int")).Return("PO-2026-00007", nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*purchasing.PurchaseOrder")).Return(nil)

		dto, err := f.service.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
			SupplierID: supplierID.String(),
			Items: []PurchaseOrderItemInput{
				{ProductID: beans.ID.String(), Quantity: 20, UnitCost: 4.50},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "PO-2026-00007", dto.OrderNumber)
		assert.Equal(t, "pending", dto.Status)
		// 20 × 4.50 = 90
		assert.Equal(t, "90", dto.TotalAmount)
	})

	t.Run("unknown supplier rejected", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		supplierID := uuid.New()

		f.supplierRepo.On("ExistsByID", ctx, supplierID).Return(false, nil)

		_, err := f.service.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
			SupplierID: supplierID.String(),
			Items: []PurchaseOrderItemInput{
				{ProductID: uuid.New().String(), Quantity: 20, UnitCost: 4.50},
			},
		})
		require.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty item set rejected", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		supplierID := uuid.New()
		f.supplierRepo.On("ExistsByID", ctx, supplierID).Return(true, nil)

		_, err := f.service.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
			SupplierID: supplierID.String(),
		})
		require.Error(t, err)
	})
}

// ============================================================================
// TransitionStatus
// ============================================================================

func TestPurchaseOrderService_TransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("completion receives stock and writes ledger rows", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		beans := fixtureProduct(t, "SKU-BEANS", 5)
		order := fixtureOrder(t, beans.ID)

		var row *domaininventory.Transaction
		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
		f.productRepo.On("FindByIDForUpdate", ctx, beans.ID).Return(beans, nil)
		f.productRepo.On("SaveStockWithLock", ctx, beans).Return(nil)
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*inventory.Transaction")).
			Run(func(args mock.Arguments) {
				row = args.Get(1).(*domaininventory.Transaction)
			}).Return(nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		dto, err := f.service.TransitionStatus(ctx, order.ID.String(), TransitionStatusInput{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", dto.Status)
		assert.Equal(t, int64(15), beans.StockQuantity)

		require.NotNil(t, row)
		assert.Equal(t, domaininventory.TransactionTypePurchase, row.TransactionType)
		assert.Equal(t, int64(5), row.BalanceBefore)
		assert.Equal(t, int64(15), row.BalanceAfter)
		require.NotNil(t, row.ReferenceType)
		assert.Equal(t, domaininventory.ReferenceTypePurchaseOrder, *row.ReferenceType)
	})

	t.Run("cancellation flips status without stock movement", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())

		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		dto, err := f.service.TransitionStatus(ctx, order.ID.String(), TransitionStatusInput{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", dto.Status)
		f.productRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("pending target on a pending order is a no-op", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())

		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

		dto, err := f.service.TransitionStatus(ctx, order.ID.String(), TransitionStatusInput{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, "pending", dto.Status)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("completed order rejects further transitions", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())
		require.NoError(t, order.Complete())

		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

		for _, target := range []string{"pending", "completed", "cancelled"} {
			_, err := f.service.TransitionStatus(ctx, order.ID.String(), TransitionStatusInput{Status: target})
			assert.Error(t, err, "target %s", target)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		_, err := f.service.TransitionStatus(ctx, uuid.New().String(), TransitionStatusInput{Status: "draft"})
		require.Error(t, err)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		id := uuid.New()
		f.orderRepo.On("FindByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.TransitionStatus(ctx, id.String(), TransitionStatusInput{Status: "completed"})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

// ============================================================================
// UpdateItems
// ============================================================================

func TestPurchaseOrderService_UpdateItems(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the item set wholesale", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New(), uuid.New())
		replacement := fixtureProduct(t, "SKU-CUPS", 0)

		f.productRepo.On("FindByID", ctx, replacement.ID).Return(replacement, nil)
		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		dto, err := f.service.UpdateItems(ctx, order.ID.String(), UpdatePurchaseOrderItemsInput{
			Items: []PurchaseOrderItemInput{
				{ProductID: replacement.ID.String(), Quantity: 100, UnitCost: 0.10},
			},
		})
		require.NoError(t, err)
		assert.Len(t, dto.Items, 1)
		assert.Equal(t, replacement.ID.String(), dto.Items[0].ProductID)
	})

	t.Run("moves the order to another supplier in one revision", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())
		newSupplierID := uuid.New()
		replacement := fixtureProduct(t, "SKU-CUPS", 0)
		versionBefore := order.Version

		f.supplierRepo.On("ExistsByID", ctx, newSupplierID).Return(true, nil)
		f.productRepo.On("FindByID", ctx, replacement.ID).Return(replacement, nil)
		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		supplierStr := newSupplierID.String()
		dto, err := f.service.UpdateItems(ctx, order.ID.String(), UpdatePurchaseOrderItemsInput{
			SupplierID: &supplierStr,
			Items: []PurchaseOrderItemInput{
				{ProductID: replacement.ID.String(), Quantity: 50, UnitCost: 0.20},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, newSupplierID.String(), dto.SupplierID)
		assert.Equal(t, versionBefore+1, order.Version, "revision must bump the version exactly once")
	})

	t.Run("supplier-only revision keeps the existing items", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())
		newSupplierID := uuid.New()
		itemsBefore := order.ItemCount()
		versionBefore := order.Version

		f.supplierRepo.On("ExistsByID", ctx, newSupplierID).Return(true, nil)
		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		supplierStr := newSupplierID.String()
		dto, err := f.service.UpdateItems(ctx, order.ID.String(), UpdatePurchaseOrderItemsInput{
			SupplierID: &supplierStr,
		})
		require.NoError(t, err)
		assert.Equal(t, newSupplierID.String(), dto.SupplierID)
		assert.Len(t, dto.Items, itemsBefore)
		assert.Equal(t, versionBefore+1, order.Version)
		f.productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("revision with neither supplier nor items rejected", func(t *testing.T) {
		f := newOrderServiceFixture(t)

		_, err := f.service.UpdateItems(ctx, uuid.New().String(), UpdatePurchaseOrderItemsInput{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "EMPTY_REVISION", domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("unknown replacement supplier rejected", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())
		missingSupplier := uuid.New().String()

		f.supplierRepo.On("ExistsByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(false, nil)

		_, err := f.service.UpdateItems(ctx, order.ID.String(), UpdatePurchaseOrderItemsInput{
			SupplierID: &missingSupplier,
			Items: []PurchaseOrderItemInput{
				{ProductID: uuid.New().String(), Quantity: 10, UnitCost: 1.00},
			},
		})
		require.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("non-pending order rejects updates", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())
		require.NoError(t, order.Cancel())
		replacement := fixtureProduct(t, "SKU-CUPS", 0)

		f.productRepo.On("FindByID", ctx, replacement.ID).Return(replacement, nil)
		f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)

		_, err := f.service.UpdateItems(ctx, order.ID.String(), UpdatePurchaseOrderItemsInput{
			Items: []PurchaseOrderItemInput{
				{ProductID: replacement.ID.String(), Quantity: 100, UnitCost: 0.10},
			},
		})
		require.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("unknown product in the set rejected", func(t *testing.T) {
		f := newOrderServiceFixture(t)
		order := fixtureOrder(t, uuid.New())
		missing := uuid.New()

		f.productRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.UpdateItems(ctx, order.ID.String(), UpdatePurchaseOrderItemsInput{
			Items: []PurchaseOrderItemInput{
				{ProductID: missing.String(), Quantity: 10, UnitCost: 1.00},
			},
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
