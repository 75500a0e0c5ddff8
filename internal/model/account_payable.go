package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Financial obligation statuses. The only transition is OPEN→PAID.
const (
	ObligationOpen = "OPEN"
	ObligationPaid = "PAID"
)

// AccountPayable is a single-installment obligation created from a confirmed
// purchase. One purchase → one payable. The (source_entity, source_id) pair
// is unique and doubles as the confirm-time idempotency guard.
type AccountPayable struct {
	ID         uint64 `gorm:"primaryKey"`
	SupplierID uint64 `gorm:"not null;index"`

	SourceEntity string `gorm:"size:50;not null;uniqueIndex:uq_payables_source,priority:1"`
	SourceID     string `gorm:"size:100;not null;uniqueIndex:uq_payables_source,priority:2"`

	Amount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate time.Time       `gorm:"type:date;not null"`
	Status  string          `gorm:"size:20;not null;default:'OPEN';index"`

	CreatedAt time.Time
	PaidAt    *time.Time

	Supplier *Customer `gorm:"foreignKey:SupplierID"`
}

func (AccountPayable) TableName() string { return "accounts_payable" }
