package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseHeader is the document-level preview data echoed back to the
// client for later confirmation.
type PurchaseHeader struct {
	SourceID         string          `json:"source_id"`
	SupplierDocument string          `json:"supplier_document"`
	IssueDate        time.Time       `json:"issue_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// PurchaseItem is one document line in its resolution state. ProductID and
// ProductName are set only when the line is matched.
type PurchaseItem struct {
	Barcode          string          `json:"barcode,omitempty"`
	ManufacturerCode string          `json:"manufacturer_code,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Description      string          `json:"description"`
	ProductID        uint64          `json:"product_id,omitempty"`
	ProductName      string          `json:"product_name,omitempty"`
	NeedsReview      bool            `json:"needs_review"`
}

// PurchasePreviewResponse is the preview endpoint payload.
type PurchasePreviewResponse struct {
	Purchase    PurchaseHeader  `json:"purchase"`
	Matched     []PurchaseItem  `json:"matched"`
	NeedsReview []PurchaseItem  `json:"needs_review"`
	Summary     PurchaseSummary `json:"summary"`
}

type PurchaseSummary struct {
	TotalItems  int `json:"total_items"`
	Matched     int `json:"matched"`
	NeedsReview int `json:"needs_review"`
}

// ResolveLinkRequest links one reviewed line to an existing product,
// optionally backfilling enrichment fields.
type ResolveLinkRequest struct {
	ProductID        uint64          `json:"product_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" validate:"gt=0"`
	ManufacturerCode string          `json:"manufacturer_code"`
	Barcode          string          `json:"barcode"`
}

// ResolveCreateProductRequest creates a new product from a reviewed line's
// descriptive fields.
type ResolveCreateProductRequest struct {
	Description      string          `json:"description" binding:"required"`
	Unit             string          `json:"unit"`
	ManufacturerCode string          `json:"manufacturer_code"`
	Barcode          string          `json:"barcode"`
	Quantity         decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// ResolvedItemResponse is the normalized matched-item shape both resolve
// endpoints return; the client assembles the final confirm payload from it.
type ResolvedItemResponse struct {
	ProductID        uint64          `json:"product_id"`
	Code             string          `json:"code,omitempty"`
	ManufacturerCode string          `json:"manufacturer_code,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	Status           string          `json:"status"`
}

// ConfirmRequest finalizes a document: every line must carry a product id.
type ConfirmRequest struct {
	SourceID    string               `json:"source_id" binding:"required"`
	SupplierID  uint64               `json:"supplier_id" binding:"required"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	IssueDate   time.Time            `json:"issue_date" binding:"required"`
	Items       []ConfirmItemRequest `json:"items" binding:"required"`
}

type ConfirmItemRequest struct {
	ProductID uint64          `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ConfirmResponse reports what the confirmation created.
type ConfirmResponse struct {
	ItemsCreated   int  `json:"items_created"`
	PayableCreated bool `json:"payable_created"`
}
