package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses.
const (
	OrderDraft     = "DRAFT"
	OrderOpen      = "OPEN"
	OrderConfirmed = "CONFIRMED"
	OrderCanceled  = "CANCELED"
	OrderClosed    = "CLOSED"
)

// Order is the transaction header. An order is never persisted without at
// least one item; deleting an order cascades to its items.
type Order struct {
	ID uint64 `gorm:"primaryKey"`
	// ExternalID is the legacy order identifier, when promoted from staging.
	ExternalID     *string `gorm:"size:50;index"`
	CustomerID     uint64  `gorm:"not null;index"`
	IssuedAt       time.Time `gorm:"not null"`
	Status         string    `gorm:"size:20;not null"`
	Active         bool      `gorm:"not null;default:true"`
	TotalAmount    decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	DiscountAmount *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Notes          *string          `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a single line within an order. Sale context lives here, not
// product definition.
type OrderItem struct {
	ID             uint64          `gorm:"primaryKey"`
	OrderID        uint64          `gorm:"not null;index"`
	ProductID      uint64          `gorm:"not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DiscountAmount *decimal.Decimal `gorm:"type:decimal(14,2)"`
	TotalPrice     decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	Notes          *string          `gorm:"type:text"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
