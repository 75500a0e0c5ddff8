package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/nfe"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

var (
	// ErrAlreadyConfirmed means a payable already exists for the document key.
	ErrAlreadyConfirmed = errors.New("purchase already confirmed")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// PurchaseService drives the XML purchase flow: preview (parse and match),
// resolve (link or create products for unmatched lines) and confirm (stock
// in plus payable, atomically).
type PurchaseService interface {
	Preview(ctx context.Context, xml io.Reader) (*dto.PurchasePreviewResponse, error)
	ResolveLink(ctx context.Context, req dto.ResolveLinkRequest) (*dto.ResolvedItemResponse, error)
	ResolveCreate(ctx context.Context, req dto.ResolveCreateProductRequest) (*dto.ResolvedItemResponse, error)
	Confirm(ctx context.Context, req dto.ConfirmRequest) (*dto.ConfirmResponse, error)
}

type purchaseService struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	movements repository.MovementRepository
	payables  repository.PayableRepository
}

func NewPurchaseService(
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	payables repository.PayableRepository,
) PurchaseService {
	return &purchaseService{
		customers: customers,
		products:  products,
		movements: movements,
		payables:  payables,
	}
}

// newProductCode builds a synthetic code for products created from a
// document line. Swappable so tests get deterministic codes.
var newProductCode = func() string {
	return fmt.Sprintf("XML-%d", time.Now().UTC().UnixNano())
}

func (s *purchaseService) Preview(ctx context.Context, xml io.Reader) (*dto.PurchasePreviewResponse, error) {
	doc, err := nfe.Parse(xml)
	if err != nil {
		return nil, err
	}

	resp := &dto.PurchasePreviewResponse{
		Purchase: dto.PurchaseHeader{
			SourceID:         doc.SourceID,
			SupplierDocument: doc.SupplierDocument,
			IssueDate:        doc.IssueDate,
			TotalAmount:      doc.TotalAmount,
		},
		Matched:     []dto.PurchaseItem{},
		NeedsReview: []dto.PurchaseItem{},
	}

	for _, it := range doc.Items {
		item := dto.PurchaseItem{
			Barcode:          it.Barcode,
			ManufacturerCode: it.ManufacturerCode,
			Unit:             it.Unit,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Description:      it.Description,
		}

		var matched *model.Product
		if it.Barcode != "" {
			p, found, err := s.products.FindByBarcode(ctx, it.Barcode)
			if err != nil {
				return nil, err
			}
			if found {
				matched = p
			}
		}

		if matched != nil {
			item.ProductID = matched.ID
			item.ProductName = matched.Name
			resp.Matched = append(resp.Matched, item)
		} else {
			item.NeedsReview = true
			resp.NeedsReview = append(resp.NeedsReview, item)
		}
	}

	resp.Summary = dto.PurchaseSummary{
		TotalItems:  len(doc.Items),
		Matched:     len(resp.Matched),
		NeedsReview: len(resp.NeedsReview),
	}

	log.Info().
		Str("source_id", doc.SourceID).
		Int("matched", resp.Summary.Matched).
		Int("needs_review", resp.Summary.NeedsReview).
		Msg("purchase preview built")
	return resp, nil
}

// ResolveLink attaches a reviewed line to an existing product. Enrichment is
// non-destructive: manufacturer code is written when provided and different,
// barcode only when the product has none.
func (s *purchaseService) ResolveLink(ctx context.Context, req dto.ResolveLinkRequest) (*dto.ResolvedItemResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	changed := false
	if req.ManufacturerCode != "" {
		if p.ManufacturerCode == nil || *p.ManufacturerCode != req.ManufacturerCode {
			code := req.ManufacturerCode
			p.ManufacturerCode = &code
			changed = true
		}
	}
	if req.Barcode != "" && (p.Barcode == nil || *p.Barcode == "") {
		barcode := req.Barcode
		p.Barcode = &barcode
		changed = true
	}
	if changed {
		if err := s.products.Save(ctx, p); err != nil {
			return nil, err
		}
	}

	out := &dto.ResolvedItemResponse{
		ProductID: p.ID,
		Code:      p.Code,
		Quantity:  req.Quantity,
		Status:    "matched",
	}
	if p.ManufacturerCode != nil {
		out.ManufacturerCode = *p.ManufacturerCode
	}
	return out, nil
}

// ResolveCreate registers a new product from a reviewed line. The code is
// synthetic; the short name is the description truncated to 50 runes.
func (s *purchaseService) ResolveCreate(ctx context.Context, req dto.ResolveCreateProductRequest) (*dto.ResolvedItemResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	name := strings.TrimSpace(req.Description)
	short := name
	if runes := []rune(short); len(runes) > 50 {
		short = string(runes[:50])
	}

	p := &model.Product{
		Code:   newProductCode(),
		Name:   name,
		Active: true,
	}
	p.ShortName = &short
	if req.Unit != "" {
		unit := req.Unit
		p.Unit = &unit
	}
	if req.ManufacturerCode != "" {
		code := req.ManufacturerCode
		p.ManufacturerCode = &code
	}
	if req.Barcode != "" {
		barcode := req.Barcode
		p.Barcode = &barcode
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Uint64("product_id", p.ID).Str("code", p.Code).Msg("product created from purchase line")

	out := &dto.ResolvedItemResponse{
		ProductID: p.ID,
		Code:      p.Code,
		Quantity:  req.Quantity,
		Status:    "matched",
	}
	if p.ManufacturerCode != nil {
		out.ManufacturerCode = *p.ManufacturerCode
	}
	return out, nil
}

// Confirm finalizes a purchase. Validation runs before any write; the
// idempotency check looks up the payable keyed by (PURCHASE, source_id), so
// re-sending a confirmed document fails without side effects. Stock entries,
// the payable and the supplier type widening land in a single transaction;
// a racing duplicate that slips past the lookup is caught by the payable's
// unique source index.
func (s *purchaseService) Confirm(ctx context.Context, req dto.ConfirmRequest) (*dto.ConfirmResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("purchase without items")
	}
	for _, it := range req.Items {
		if !it.Quantity.IsPositive() {
			return nil, ErrInvalidQuantity
		}
		if _, err := s.products.FindByID(ctx, it.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, it.ProductID)
			}
			return nil, err
		}
	}

	supplier, err := s.customers.FindByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("supplier not found")
		}
		return nil, err
	}

	if _, found, err := s.payables.FindBySource(ctx, model.SourcePurchase, req.SourceID); err != nil {
		return nil, err
	} else if found {
		return nil, ErrAlreadyConfirmed
	}

	occurredAt := req.IssueDate.UTC()
	err = runTx(ctx, s.payables.DB(), func(tx *gorm.DB) error {
		for _, it := range req.Items {
			mv := &model.InventoryMovement{
				ProductID:    it.ProductID,
				MovementType: model.MovementIn,
				Quantity:     it.Quantity,
				OccurredAt:   occurredAt,
				SourceEntity: model.SourcePurchaseXML,
				SourceID:     req.SourceID,
			}
			if err := s.movements.CreateTx(tx, mv); err != nil {
				return err
			}
		}
		payable := &model.AccountPayable{
			SupplierID:   req.SupplierID,
			SourceEntity: model.SourcePurchase,
			SourceID:     req.SourceID,
			Amount:       req.TotalAmount,
			DueDate:      occurredAt,
			Status:       model.ObligationOpen,
		}
		if err := s.payables.CreateTx(tx, payable); err != nil {
			return err
		}
		// Widening rides the same transaction so a failed confirm never
		// leaves the supplier half-converted.
		if widened := model.WidenType(supplier.Type, model.PartySupplier); widened != supplier.Type {
			return s.customers.UpdateTypeTx(tx, supplier.ID, widened)
		}
		return nil
	})
	if err != nil {
		// Concurrent confirms can both pass the lookup above; the loser
		// then collides on the payable's source unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyConfirmed
		}
		return nil, err
	}

	log.Info().
		Str("source_id", req.SourceID).
		Uint64("supplier_id", req.SupplierID).
		Int("items", len(req.Items)).
		Msg("purchase confirmed")
	return &dto.ConfirmResponse{ItemsCreated: len(req.Items), PayableCreated: true}, nil
}
