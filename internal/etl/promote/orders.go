package promote

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/payload"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// legacyOrderStatus maps legacy numeric situation codes onto the domain
// lifecycle. Unmapped codes default to OPEN.
var legacyOrderStatus = map[int64]string{
	1: model.OrderOpen,
	2: model.OrderConfirmed,
	3: model.OrderCanceled,
	4: model.OrderClosed,
	6: model.OrderOpen,
}

func mapOrderStatus(raw payload.Map) string {
	code, ok := raw.Int("Cd_Situacao_Pedido")
	if !ok {
		return model.OrderOpen
	}
	if status, mapped := legacyOrderStatus[code]; mapped {
		return status
	}
	return model.OrderOpen
}

// OrderPromoter promotes header+items groups. The group is atomic: a header
// with zero NEW items, or any item whose product cannot be resolved, rejects
// the whole group; never a half-created order.
type OrderPromoter struct {
	staging      repository.StagingRepository
	orders       repository.OrderRepository
	resolver     *resolve.Resolver
	sourceSystem string
}

func NewOrderPromoter(staging repository.StagingRepository, orders repository.OrderRepository, resolver *resolve.Resolver, sourceSystem string) *OrderPromoter {
	return &OrderPromoter{staging: staging, orders: orders, resolver: resolver, sourceSystem: sourceSystem}
}

func (p *OrderPromoter) Run(ctx context.Context) (Report, error) {
	report := Report{Entity: extract.EntityOrderHeader}

	headers, err := p.staging.FindNew(ctx, p.sourceSystem, extract.EntityOrderHeader)
	if err != nil {
		return report, err
	}

	for i := range headers {
		header := &headers[i]
		if err := p.promoteGroup(ctx, header, &report); err != nil {
			return report, err
		}
	}
	report.log()
	return report, nil
}

func (p *OrderPromoter) promoteGroup(ctx context.Context, header *model.StagingRecord, report *Report) error {
	raw := header.RawPayload

	orderNumber, hasNumber := raw.String("Nr_Pedido")
	rawDoc, _ := raw.String("Cd_CPF_CNPJ")
	document := resolve.NormalizeDocument(rawDoc)
	if !hasNumber || document == "" {
		return p.failGroup(ctx, report, header, nil, "missing order number or invalid document")
	}

	// A re-extraction resets staging rows to NEW while the order may already
	// be in core. Flip the whole group to PROMOTED without writing again.
	if _, exists, err := p.orders.FindByExternalID(ctx, orderNumber); err != nil {
		return err
	} else if exists {
		items, err := p.staging.FindNewByPKPrefix(ctx, p.sourceSystem, extract.EntityOrderItem, orderNumber+":")
		if err != nil {
			return err
		}
		report.Promoted++
		return runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
			for i := range items {
				if err := p.staging.MarkPromotedTx(tx, &items[i], now()); err != nil {
					return err
				}
			}
			return p.staging.MarkPromotedTx(tx, header, now())
		})
	}

	customer, found, err := p.resolver.CustomerByDocument(ctx, document)
	if err != nil {
		return err
	}
	if !found {
		return p.failGroup(ctx, report, header, nil,
			fmt.Sprintf("customer not found for document %s", document))
	}

	issuedAt, hasIssuedAt := raw.Time("Dt_Emissao")
	if !hasIssuedAt {
		return p.failGroup(ctx, report, header, nil, "missing or unparsable issue date (Dt_Emissao)")
	}

	items, err := p.staging.FindNewByPKPrefix(ctx, p.sourceSystem, extract.EntityOrderItem, orderNumber+":")
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return p.failGroup(ctx, report, header, nil, "order without items")
	}

	// Resolve item products up front; any miss rejects the whole group.
	orderItems := make([]model.OrderItem, 0, len(items))
	for i := range items {
		it := items[i].RawPayload

		productCode, _ := it.String("Cd_Produto")
		product, found, err := p.resolver.ProductByCode(ctx, productCode)
		if err != nil {
			return err
		}
		if !found {
			return p.failGroup(ctx, report, header, items,
				fmt.Sprintf("product not found for code %q", productCode))
		}

		qty, _ := it.Decimal("Qt_Pedida")
		unitPrice, _ := it.Decimal("Vl_Unitario_Venda")
		orderItems = append(orderItems, model.OrderItem{
			ProductID:      product.ID,
			Quantity:       qty,
			UnitPrice:      unitPrice,
			DiscountAmount: optDecimal(it, "Pc_Desc_Concedido"),
			TotalPrice:     qty.Mul(unitPrice),
			Notes:          optString(it, "Ds_Observacao_Produto"),
		})
	}

	total, ok := raw.Decimal("Vl_Total_Pagar")
	if !ok {
		total, _ = raw.Decimal("Vl_Total_Pedido")
	}

	order := model.Order{
		ExternalID:     &orderNumber,
		CustomerID:     customer.ID,
		IssuedAt:       issuedAt,
		Status:         mapOrderStatus(raw),
		Active:         true,
		TotalAmount:    total,
		DiscountAmount: optDecimal(raw, "Pc_Desc_Concedido"),
		Notes:          optString(raw, "Ds_Obs"),
		Items:          orderItems,
	}

	// Header, items, and every staging status flip commit together.
	return runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
		if err := p.orders.CreateTx(tx, &order); err != nil {
			return err
		}
		for i := range items {
			if err := p.staging.MarkPromotedTx(tx, &items[i], now()); err != nil {
				return err
			}
		}
		report.Promoted++
		return p.staging.MarkPromotedTx(tx, header, now())
	})
}

// failGroup marks the header (and, when the failure concerns the group as a
// whole, its items) as ERROR in one transaction.
func (p *OrderPromoter) failGroup(ctx context.Context, report *Report, header *model.StagingRecord, items []model.StagingRecord, reason string) error {
	report.Failed++
	return runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
		for i := range items {
			if err := p.staging.MarkErrorTx(tx, &items[i], reason); err != nil {
				return err
			}
		}
		return p.staging.MarkErrorTx(tx, header, reason)
	})
}

func optDecimal(raw payload.Map, key string) *decimal.Decimal {
	if d, ok := raw.Decimal(key); ok {
		return &d
	}
	return nil
}
