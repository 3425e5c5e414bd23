package inventory

import (
	"time"

	"github.com/retailpos/backend/internal/domain/inventory"
)

// AdjustStockInput is the manual stock adjustment request. The transaction
// type selects how the quantity applies: purchase adds, sale subtracts,
// adjustment sets the absolute level.
type AdjustStockInput struct {
	ProductID       string `json:"product_id" binding:"required,uuid"`
	TransactionType string `json:"transaction_type" binding:"required,oneof=sale purchase adjustment"`
	Quantity        int64  `json:"quantity"`
	Note            string `json:"note"`
}

// AdjustStockResult reports the outcome of an adjustment
type AdjustStockResult struct {
	ProductID     string `json:"product_id"`
	TransactionID string `json:"transaction_id"`
	StockBefore   int64  `json:"stock_before"`
	NewStock      int64  `json:"new_stock"`
}

// TransactionDTO is one ledger row in a response
type TransactionDTO struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        int64     `json:"quantity"`
	BalanceBefore   int64     `json:"balance_before"`
	BalanceAfter    int64     `json:"balance_after"`
	ReferenceType   *string   `json:"reference_type,omitempty"`
	ReferenceID     *string   `json:"reference_id,omitempty"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionListDTO is the paginated ledger response
type TransactionListDTO struct {
	Transactions []TransactionDTO `json:"transactions"`
	Total        int64            `json:"total"`
	Page         int              `json:"page"`
	Limit        int              `json:"limit"`
}

func toTransactionDTO(tx *inventory.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:              tx.ID.String(),
		ProductID:       tx.ProductID.String(),
		TransactionType: string(tx.TransactionType),
		Quantity:        tx.Quantity,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		Note:            tx.Note,
		CreatedAt:       tx.CreatedAt,
	}
	if tx.ReferenceType != nil {
		refType := string(*tx.ReferenceType)
		dto.ReferenceType = &refType
	}
	if tx.ReferenceID != nil {
		refID := tx.ReferenceID.String()
		dto.ReferenceID = &refID
	}
	return dto
}
