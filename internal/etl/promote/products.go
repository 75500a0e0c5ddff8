package promote

import (
	"context"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// ProductEnrichmentPromoter is UPDATE-only: it copies enrichment fields
// (manufacturer reference) onto core products that already exist. A missing
// target product is a skip, not an error; the row stays NEW so a later run
// can retry once the catalog promoter has landed the product.
type ProductEnrichmentPromoter struct {
	staging      repository.StagingRepository
	products     repository.ProductRepository
	resolver     *resolve.Resolver
	sourceSystem string
}

func NewProductEnrichmentPromoter(staging repository.StagingRepository, products repository.ProductRepository, resolver *resolve.Resolver, sourceSystem string) *ProductEnrichmentPromoter {
	return &ProductEnrichmentPromoter{staging: staging, products: products, resolver: resolver, sourceSystem: sourceSystem}
}

func (p *ProductEnrichmentPromoter) Run(ctx context.Context) (Report, error) {
	report := Report{Entity: extract.EntityProducts}

	recs, err := p.staging.FindNew(ctx, p.sourceSystem, extract.EntityProducts)
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
			report.Skipped++
			continue
		}

		manufacturerCode, hasCode := rec.RawPayload.String("Cd_Referencia")

		err = runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
			if hasCode {
				if err := p.products.UpdateManufacturerCodeTx(tx, product.ID, manufacturerCode); err != nil {
					return err
				}
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
