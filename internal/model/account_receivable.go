package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountReceivable mirrors AccountPayable for the sales side: one confirmed
// order → one receivable, unique per (source_entity, source_id), OPEN→PAID.
type AccountReceivable struct {
	ID         uint64 `gorm:"primaryKey"`
	CustomerID uint64 `gorm:"not null;index"`

	SourceEntity string `gorm:"size:50;not null;uniqueIndex:uq_receivables_source,priority:1"`
	SourceID     string `gorm:"size:100;not null;uniqueIndex:uq_receivables_source,priority:2"`

	Amount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate time.Time       `gorm:"type:date;not null"`
	Status  string          `gorm:"size:20;not null;default:'OPEN';index"`

	CreatedAt time.Time
	PaidAt    *time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

func (AccountReceivable) TableName() string { return "accounts_receivable" }
