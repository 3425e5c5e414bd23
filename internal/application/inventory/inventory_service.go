package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/application/common"
	"github.com/retailpos/backend/internal/domain/inventory"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService handles manual stock adjustments and ledger queries
type InventoryService struct {
	scope  common.TransactionScope
	txRepo inventory.TransactionRepository
	logger *zap.Logger
}

// NewInventoryService creates an inventory service
func NewInventoryService(
	scope common.TransactionScope,
	txRepo inventory.TransactionRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		scope:  scope,
		txRepo: txRepo,
		logger: logger,
	}
}

// AdjustStock applies a manual stock mutation. The product row is locked, the
// next level computed from the transaction type, and the new level and its
// ledger row written in one transaction.
func (s *InventoryService) AdjustStock(ctx context.Context, input AdjustStockInput) (*AdjustStockResult, error) {
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Invalid product ID")
	}
	txType := inventory.TransactionType(input.TransactionType)
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}

	var result *AdjustStockResult
	err = s.scope.Execute(ctx, func(repos common.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		balanceBefore := product.StockQuantity
		next, err := inventory.NextStockLevel(txType, balanceBefore, input.Quantity)
		if err != nil {
			return err
		}

		if err := product.SetStock(next); err != nil {
			return err
		}
		if err := repos.Products().SaveStockWithLock(ctx, product); err != nil {
			return err
		}

		ledgerRow, err := inventory.NewTransaction(product.ID, txType, input.Quantity, balanceBefore, next)
		if err != nil {
			return err
		}
		if input.Note != "" {
			ledgerRow.WithNote(input.Note)
		}
		if err := repos.Transactions().Create(ctx, ledgerRow); err != nil {
			return err
		}

		result = &AdjustStockResult{
			ProductID:     product.ID.String(),
			TransactionID: ledgerRow.ID.String(),
			StockBefore:   balanceBefore,
			NewStock:      next,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock adjusted",
		zap.String("product_id", result.ProductID),
		zap.String("transaction_type", input.TransactionType),
		zap.Int64("stock_before", result.StockBefore),
		zap.Int64("new_stock", result.NewStock),
	)

	return result, nil
}

// GetTransaction retrieves one ledger row
func (s *InventoryService) GetTransaction(ctx context.Context, id string) (*TransactionDTO, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ID", "Invalid transaction ID")
	}

	tx, err := s.txRepo.FindByID(ctx, txID)
	if err != nil {
		return nil, err
	}

	dto := toTransactionDTO(tx)
	return &dto, nil
}

// ListTransactions retrieves ledger rows with pagination, newest first
func (s *InventoryService) ListTransactions(ctx context.Context, page, limit int) (*TransactionListDTO, error) {
	filter := shared.NewFilter(page, limit)

	found, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.toList(found, total, filter), nil
}

// ListProductTransactions retrieves one product's stock history, newest first
func (s *InventoryService) ListProductTransactions(ctx context.Context, productID string, page, limit int) (*TransactionListDTO, error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Invalid product ID")
	}
	filter := shared.NewFilter(page, limit)

	found, err := s.txRepo.FindByProduct(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.CountByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.toList(found, total, filter), nil
}

// ListTransactionsByDateRange retrieves ledger rows recorded inside a window
func (s *InventoryService) ListTransactionsByDateRange(ctx context.Context, from, to time.Time, page, limit int) (*TransactionListDTO, error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "End of range must be after its start")
	}
	filter := shared.NewFilter(page, limit)

	found, err := s.txRepo.FindByDateRange(ctx, from, to, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txRepo.CountByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return s.toList(found, total, filter), nil
}

func (s *InventoryService) toList(found []inventory.Transaction, total int64, filter shared.Filter) *TransactionListDTO {
	list := &TransactionListDTO{
		Transactions: make([]TransactionDTO, 0, len(found)),
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.PageSize,
	}
	for idx := range found {
		list.Transactions = append(list.Transactions, toTransactionDTO(&found[idx]))
	}
	return list
}
