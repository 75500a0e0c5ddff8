package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayableResponse struct {
	ID           uint64          `json:"id"`
	SupplierID   uint64          `json:"supplier_id"`
	SourceEntity string          `json:"source_entity"`
	SourceID     string          `json:"source_id"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	Status       string          `json:"status"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

type ReceivableResponse struct {
	ID           uint64          `json:"id"`
	CustomerID   uint64          `json:"customer_id"`
	SourceEntity string          `json:"source_entity"`
	SourceID     string          `json:"source_id"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	Status       string          `json:"status"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}
