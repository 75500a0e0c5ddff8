package promote

import (
	"context"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// ProductCatalogPromoter creates core products from staged legacy catalog
// rows. A code that already exists in core means the product was landed by
// an earlier run; the row is promoted without a write.
type ProductCatalogPromoter struct {
	staging      repository.StagingRepository
	products     repository.ProductRepository
	sourceSystem string
}

func NewProductCatalogPromoter(staging repository.StagingRepository, products repository.ProductRepository, sourceSystem string) *ProductCatalogPromoter {
	return &ProductCatalogPromoter{staging: staging, products: products, sourceSystem: sourceSystem}
}

func (p *ProductCatalogPromoter) Run(ctx context.Context) (Report, error) {
	report := Report{Entity: extract.EntityProductCatalog}

	recs, err := p.staging.FindNew(ctx, p.sourceSystem, extract.EntityProductCatalog)
	if err != nil {
		return report, err
	}

	for i := range recs {
		rec := &recs[i]
		raw := rec.RawPayload

		name, ok := raw.String("Ds_Produto")
		if !ok {
			report.Failed++
			if err := runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				return p.staging.MarkErrorTx(tx, rec, "missing product name (Ds_Produto)")
			}); err != nil {
				return report, err
			}
			continue
		}

		_, found, err := p.products.FindByCode(ctx, rec.SourcePK)
		if err != nil {
			return report, err
		}
		if found {
			if err := runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				report.Promoted++
				return p.staging.MarkPromotedTx(tx, rec, now())
			}); err != nil {
				return report, err
			}
			continue
		}

		description := optString(raw, "Ds_Texto_Explicativo")
		if description == nil {
			description = &name
		}
		product := model.Product{
			Code:        rec.SourcePK,
			Name:        name,
			ShortName:   optString(raw, "Ds_Produto_Reduzida"),
			Description: description,
			Barcode:     optString(raw, "CD_EAN_Produto"),
			Unit:        optString(raw, "Cd_Unidade_Medida_Venda"),
			Active:      true,
		}
		err = runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
			if err := p.products.CreateTx(tx, &product); err != nil {
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
