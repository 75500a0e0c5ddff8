package promote

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// InventoryInitialPromoter converts staged inventory-closing counts into IN
// movements. Each staged row is an absolute stock-setting event: the counted
// quantity is emitted as-is, with no delta against existing movements.
// Precondition (not enforced): this runs exactly once per product, before
// any live movements exist; re-running after live movements would
// double-count stock. The live manual-adjustment flow is the delta-computing
// counterpart (see service.InventoryService.Adjust).
type InventoryInitialPromoter struct {
	staging      repository.StagingRepository
	movements    repository.MovementRepository
	resolver     *resolve.Resolver
	sourceSystem string
}

func NewInventoryInitialPromoter(staging repository.StagingRepository, movements repository.MovementRepository, resolver *resolve.Resolver, sourceSystem string) *InventoryInitialPromoter {
	return &InventoryInitialPromoter{staging: staging, movements: movements, resolver: resolver, sourceSystem: sourceSystem}
}

func (p *InventoryInitialPromoter) Run(ctx context.Context) (Report, error) {
	report := Report{Entity: extract.EntityInventoryInitial}

	recs, err := p.staging.FindNew(ctx, p.sourceSystem, extract.EntityInventoryInitial)
	if err != nil {
		return report, err
	}

	for i := range recs {
		rec := &recs[i]

		product, found, err := p.resolver.ProductByCode(ctx, rec.SourcePK)
		if err != nil {
			return report, err
		}
		if !found {
			report.Failed++
			if err := runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				return p.staging.MarkErrorTx(tx, rec, fmt.Sprintf("product not found for code %s", rec.SourcePK))
			}); err != nil {
				return report, err
			}
			continue
		}

		quantity, ok := rec.RawPayload.Decimal("Qt_Produto")
		if !ok {
			report.Failed++
			if err := runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				return p.staging.MarkErrorTx(tx, rec, "missing Qt_Produto in legacy payload")
			}); err != nil {
				return report, err
			}
			continue
		}

		movement := model.InventoryMovement{
			ProductID:    product.ID,
			MovementType: model.MovementIn,
			Quantity:     quantity,
			OccurredAt:   now(),
			SourceEntity: extract.EntityInventoryInitial,
			SourceID:     rec.SourcePK,
		}
		err = runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
			if err := p.movements.CreateTx(tx, &movement); err != nil {
				return err
			}
			report.Promoted++
			return p.staging.MarkPromotedTx(tx, rec, now())
		})
		if err != nil {
			return report, err
		}
	}
	report.log()
	return report, nil
}
