package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types. Quantity sign must agree with the type: IN positive,
// OUT negative, ADJUST either.
const (
	MovementIn     = "IN"
	MovementOut    = "OUT"
	MovementAdjust = "ADJUST"
)

// Provenance tags recorded on movements and financial obligations.
const (
	SourcePurchase     = "PURCHASE"
	SourcePurchaseXML  = "purchase_xml"
	SourceManualAdjust = "manual_adjust"
)

// InventoryMovement is an immutable ledger entry. Stock balance for a product
// is always the sum of its movements; never a stored column. Corrections are
// new ADJUST rows, not updates.
type InventoryMovement struct {
	ID           uint64          `gorm:"primaryKey"`
	ProductID    uint64          `gorm:"not null;index"`
	MovementType string          `gorm:"size:20;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	OccurredAt   time.Time       `gorm:"not null"`
	// SourceEntity/SourceID trace the movement back to its origin
	// (order, purchase_xml, inventory_initial, manual_adjust). They are a
	// provenance pointer, not a foreign key.
	SourceEntity string `gorm:"size:50;not null"`
	SourceID     string `gorm:"size:100;not null"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
