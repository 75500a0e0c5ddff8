package model

import "time"

// Party types. A record starts as customer or supplier and may only widen to
// "both"; it never narrows back.
const (
	PartyCustomer = "customer"
	PartySupplier = "supplier"
	PartyBoth     = "both"
)

// Customer is the generic party entity, covering customers and suppliers.
type Customer struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	LegalName *string `gorm:"size:255"`
	// Document is the normalized CPF/CNPJ (digits only, 11 or 14).
	Document  *string `gorm:"size:50;uniqueIndex"`
	Email     *string `gorm:"size:255"`
	Phone     *string `gorm:"size:50"`
	Type      string  `gorm:"size:20;not null"`
	Active    bool    `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WidenType returns the party type after gaining a new role. Transitions only
// widen: customer+supplier → both; both stays both.
func WidenType(current, gained string) string {
	if current == gained || current == PartyBoth {
		return current
	}
	return PartyBoth
}
