package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/common"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// SaleService handles checkout and sale queries. All writes of one checkout
// run inside a single transaction scope: the sale document, its items, the
// payment, every stock decrement and every ledger row commit together or not
// at all.
type SaleService struct {
	scope            common.TransactionScope
	saleRepo         sales.SaleRepository
	customerRepo     partner.CustomerRepository
	idempotencyStore common.IdempotencyStore
	logger           *zap.Logger
}

// NewSaleService creates a sale service
func NewSaleService(
	scope common.TransactionScope,
	saleRepo sales.SaleRepository,
	customerRepo partner.CustomerRepository,
	idempotencyStore common.IdempotencyStore,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:            scope,
		saleRepo:         saleRepo,
		customerRepo:     customerRepo,
		idempotencyStore: idempotencyStore,
		logger:           logger,
	}
}

// CreateSale processes a checkout. Products are locked in ascending ID order
// before any stock check, so concurrent checkouts serialize per product and a
// decrement can never observe a stale quantity.
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*SaleDTO, error) {
	cashierID, err := uuid.Parse(input.CashierID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Invalid cashier ID")
	}

	var customerID *uuid.UUID
	if input.CustomerID != nil {
		id, err := uuid.Parse(*input.CustomerID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Invalid customer ID")
		}
		exists, err := s.customerRepo.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		customerID = &id
	}

	lines, err := parseSaleLines(input.Items)
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" {
		fresh, err := s.idempotencyStore.MarkProcessed(ctx, "sale:"+input.IdempotencyKey, idempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
		}
	}

	var sale *sales.Sale
	err = s.scope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		// Lock every product up front, in ascending ID order so two
		// checkouts touching the same products cannot deadlock.
		productIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			productIDs = append(productIDs, line.productID)
		}
		sort.Slice(productIDs, func(i, j int) bool {
			return productIDs[i].String() < productIDs[j].String()
		})

		locked := make(map[uuid.UUID]*catalog.Product, len(productIDs))
		for _, id := range productIDs {
			product, err := repos.Products().FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = product
		}

		saleNumber, err := repos.Sales().NextSaleNumber(ctx, time.Now().Year())
		if err != nil {
			return err
		}

		sale, err = sales.NewSale(saleNumber, cashierID, customerID, sales.PaymentMethod(input.PaymentMethod))
		if err != nil {
			return err
		}

		for _, line := range lines {
			product := locked[line.productID]
			if !product.CanFulfill(line.quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for product %s: have %d, need %d",
						product.SKU, product.StockQuantity, line.quantity))
			}
			if _, err := sale.AddItem(product.ID, product.Name, line.quantity,
				line.unitPrice, line.discount); err != nil {
				return err
			}
		}

		if err := sale.ApplyAdjustments(
			valueobject.NewMoneyUSDFromFloat(input.DiscountAmount),
			valueobject.NewMoneyUSDFromFloat(input.TaxAmount),
		); err != nil {
			return err
		}
		if err := sale.Finalize(); err != nil {
			return err
		}

		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}

		// Apply decrements in lock order. Each stock mutation writes
		// exactly one ledger row carrying the before and after balances.
		for _, id := range productIDs {
			product := locked[id]
			item := sale.GetItemByProduct(id)

			balanceBefore := product.StockQuantity
			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.Products().SaveStockWithLock(ctx, product); err != nil {
				return err
			}

			ledgerRow, err := inventory.NewReferencedTransaction(product.ID,
				inventory.TransactionTypeSale, item.Quantity, balanceBefore,
				product.StockQuantity, inventory.ReferenceTypeSale, sale.ID)
			if err != nil {
				return err
			}
			if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.Int("items", sale.ItemCount()),
		zap.String("final_amount", sale.FinalAmount.String()),
	)

	dto := toSaleDTO(sale)
	return &dto, nil
}

// GetSale retrieves a sale with its items and payment
func (s *SaleService) GetSale(ctx context.Context, id string) (*SaleDTO, error) {
	saleID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid sale ID")
	}

	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	dto := toSaleDTO(sale)
	return &dto, nil
}

// GetSaleByNumber retrieves a sale by its human-facing number
func (s *SaleService) GetSaleByNumber(ctx context.Context, saleNumber string) (*SaleDTO, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}

	sale, err := s.saleRepo.FindBySaleNumber(ctx, saleNumber)
	if err != nil {
		return nil, err
	}

	dto := toSaleDTO(sale)
	return &dto, nil
}

// ListSales retrieves sales with pagination, newest first
func (s *SaleService) ListSales(ctx context.Context, page, limit int) (*SaleListDTO, error) {
	filter := shared.NewFilter(page, limit)

	found, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	list := &SaleListDTO{
		Sales: make([]SaleDTO, 0, len(found)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.PageSize,
	}
	for _, sale := range found {
		list.Sales = append(list.Sales, toSaleDTO(sale))
	}
	return list, nil
}

// DeleteAllSales removes every sale. Administrative reset; ledger rows are
// kept so the stock history stays intact.
func (s *SaleService) DeleteAllSales(ctx context.Context) (int64, error) {
	deleted, err := s.saleRepo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.Warn("All sales deleted", zap.Int64("count", deleted))
	return deleted, nil
}

type saleLine struct {
	productID uuid.UUID
	quantity  int64
	unitPrice valueobject.Money
	discount  valueobject.Money
}

func parseSaleLines(items []CreateSaleItemInput) ([]saleLine, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Sale must contain at least one item")
	}

	lines := make([]saleLine, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Invalid product ID")
		}
		if seen[productID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears on more than one line")
		}
		seen[productID] = true

		if item.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if item.UnitPrice < 0 {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		if item.Discount < 0 {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
		}

		lines = append(lines, saleLine{
			productID: productID,
			quantity:  item.Quantity,
			unitPrice: valueobject.NewMoneyUSDFromFloat(item.UnitPrice),
			discount:  valueobject.NewMoneyUSDFromFloat(item.Discount),
		})
	}
	return lines, nil
}
