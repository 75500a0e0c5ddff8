package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockBalanceResponse struct {
	ProductID uint64          `json:"product_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type MovementResponse struct {
	ID           uint64          `json:"id"`
	ProductID    uint64          `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	OccurredAt   time.Time       `json:"occurred_at"`
	SourceEntity string          `json:"source_entity"`
	SourceID     string          `json:"source_id"`
}

// AdjustStockRequest sets a product's balance to an absolute count. The
// service derives the delta against the current ledger sum.
type AdjustStockRequest struct {
	ProductID uint64          `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type AdjustStockResponse struct {
	ProductID uint64          `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Balance   decimal.Decimal `json:"balance"`
	Adjusted  bool            `json:"adjusted"`
}
