package model

import "time"

// Product is the core catalog entity. Barcode and manufacturer code are
// nullable because legacy catalogs rarely fill both; they are the match keys
// for the purchase-XML flow.
type Product struct {
	ID               uint64 `gorm:"primaryKey"`
	Code             string `gorm:"size:50;uniqueIndex;not null"`
	Name             string `gorm:"size:255;not null"`
	ShortName        *string `gorm:"size:100"`
	Description      *string `gorm:"type:text"`
	Barcode          *string `gorm:"size:50;index"`
	ManufacturerCode *string `gorm:"size:50;index"`
	Unit             *string `gorm:"size:20"`
	Active           bool    `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
