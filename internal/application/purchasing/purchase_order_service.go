package purchasing

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
	"github.com/retailpos/backend/internal/domain/purchasing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// PurchaseOrderService handles the replenishment lifecycle. Completing an
// order receives the goods: every line's stock increment, its ledger row and
// the status flip commit in one transaction.
type PurchaseOrderService struct {
	scope        common.TransactionScope
	orderRepo    purchasing.PurchaseOrderRepository
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a purchase order service
func NewPurchaseOrderService(
	scope common.TransactionScope,
	orderRepo purchasing.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:        scope,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// CreatePurchaseOrder opens a pending order against a known supplier
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (*PurchaseOrderDTO, error) {
	supplierID, err := uuid.Parse(input.SupplierID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Invalid supplier ID")
	}

	exists, err := s.supplierRepo.ExistsByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
	}

	itemInputs, err := s.resolveItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var order *purchasing.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		orderNumber, err := repos.PurchaseOrders().NextOrderNumber(ctx, time.Now().Year())
		if err != nil {
			return err
		}

		order, err = purchasing.NewPurchaseOrder(orderNumber, supplierID)
		if err != nil {
			return err
		}
		if input.Note != "" {
			if err := order.SetNote(input.Note); err != nil {
				return err
			}
		}
		if err := order.ReplaceItems(itemInputs); err != nil {
			return err
		}

		return repos.PurchaseOrders().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("supplier_id", supplierID.String()),
		zap.Int("items", order.ItemCount()),
	)

	dto := toPurchaseOrderDTO(order)
	return &dto, nil
}

// UpdateItems revises a pending order. Either part may be omitted: a new
// supplier moves the order, new items replace the full set wholesale.
func (s *PurchaseOrderService) UpdateItems(ctx context.Context, id string, input UpdatePurchaseOrderItemsInput) (*PurchaseOrderDTO, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid purchase order ID")
	}
	if input.SupplierID == nil && len(input.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_REVISION", "Revision must change the supplier or the items")
	}

	var newSupplierID *uuid.UUID
	if input.SupplierID != nil {
		id, err := uuid.Parse(*input.SupplierID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_SUPPLIER", "Invalid supplier ID")
		}
		exists, err := s.supplierRepo.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
		}
		newSupplierID = &id
	}

	var itemInputs []purchasing.ItemInput
	if len(input.Items) > 0 {
		itemInputs, err = s.resolveItems(ctx, input.Items)
		if err != nil {
			return nil, err
		}
	}

	var order *purchasing.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Revise(newSupplierID, itemInputs); err != nil {
			return err
		}
		return repos.PurchaseOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order revised",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", order.ItemCount()),
	)

	dto := toPurchaseOrderDTO(order)
	return &dto, nil
}

// TransitionStatus moves an order through its lifecycle. Completion applies
// the stock increments and their ledger rows inside the same transaction as
// the status flip; cancellation flips the status only. A pending target on a
// pending order is a no-op.
func (s *PurchaseOrderService) TransitionStatus(ctx context.Context, id string, input TransitionStatusInput) (*PurchaseOrderDTO, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid purchase order ID")
	}
	target := purchasing.Status(input.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", input.Status))
	}

	var order *purchasing.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		switch target {
		case purchasing.StatusPending:
			if order.Status != purchasing.StatusPending {
				return shared.NewDomainError("INVALID_STATE",
					fmt.Sprintf("Cannot move a %s purchase order back to pending", order.Status))
			}
			// pending → pending is a no-op
			return nil

		case purchasing.StatusCancelled:
			if err := order.Cancel(); err != nil {
				return err
			}
			return repos.PurchaseOrders().SaveWithLock(ctx, order)

		case purchasing.StatusCompleted:
			if err := order.Complete(); err != nil {
				return err
			}
			if err := s.receiveStock(ctx, repos, order); err != nil {
				return err
			}
			return repos.PurchaseOrders().SaveWithLock(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)

	dto := toPurchaseOrderDTO(order)
	return &dto, nil
}

// receiveStock applies one order's increments. Products are locked in
// ascending ID order; each increment writes exactly one ledger row.
func (s *PurchaseOrderService) receiveStock(ctx context.Context, repos common.TransactionalRepositories, order *purchasing.PurchaseOrder) error {
	items := make([]purchasing.PurchaseOrderItem, len(order.Items))
	copy(items, order.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	for _, item := range items {
		product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return err
		}

		balanceBefore := product.StockQuantity
		if err := product.IncreaseStock(item.Quantity); err != nil {
			return err
		}
		if err := repos.Products().SaveStockWithLock(ctx, product); err != nil {
			return err
		}

		ledgerRow, err := inventory.NewReferencedTransaction(product.ID,
			inventory.TransactionTypePurchase, item.Quantity, balanceBefore,
			product.StockQuantity, inventory.ReferenceTypePurchaseOrder, order.ID)
		if err != nil {
			return err
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}
	}
	return nil
}

// GetPurchaseOrder retrieves an order with its items
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id string) (*PurchaseOrderDTO, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid purchase order ID")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	dto := toPurchaseOrderDTO(order)
	return &dto, nil
}

// ListPurchaseOrders retrieves orders with pagination, optionally filtered by
// status
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, status string, page, limit int) (*PurchaseOrderListDTO, error) {
	filter := shared.NewFilter(page, limit)

	var (
		found []*purchasing.PurchaseOrder
		err   error
	)
	if status != "" {
		st := purchasing.Status(status)
		if !st.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", status))
		}
		found, err = s.orderRepo.FindByStatus(ctx, st, filter)
	} else {
		found, err = s.orderRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	list := &PurchaseOrderListDTO{
		Orders: make([]PurchaseOrderDTO, 0, len(found)),
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.PageSize,
	}
	for _, order := range found {
		list.Orders = append(list.Orders, toPurchaseOrderDTO(order))
	}
	return list, nil
}

// resolveItems validates the request lines against the catalog and carries
// the product names onto the order
func (s *PurchaseOrderService) resolveItems(ctx context.Context, items []PurchaseOrderItemInput) ([]purchasing.ItemInput, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Purchase order must contain at least one item")
	}

	inputs := make([]purchasing.ItemInput, 0, len(items))
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

		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, purchasing.ItemInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitCost:    valueobject.NewMoneyUSDFromFloat(item.UnitCost),
		})
	}
	return inputs, nil
}
