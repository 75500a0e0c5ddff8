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

// SupplierPromoter merges staged legacy suppliers into the party table.
// When the document already belongs to a customer, the party's type is
// widened (customer→both) instead of failing; otherwise a new supplier
// party is created.
type SupplierPromoter struct {
	staging      repository.StagingRepository
	customers    repository.CustomerRepository
	sourceSystem string
}

func NewSupplierPromoter(staging repository.StagingRepository, customers repository.CustomerRepository, sourceSystem string) *SupplierPromoter {
	return &SupplierPromoter{staging: staging, customers: customers, sourceSystem: sourceSystem}
}

func (p *SupplierPromoter) Run(ctx context.Context) (Report, error) {
	report := Report{Entity: extract.EntitySuppliers}

	recs, err := p.staging.FindNew(ctx, p.sourceSystem, extract.EntitySuppliers)
	if err != nil {
		return report, err
	}

	for i := range recs {
		rec := &recs[i]
		raw := rec.RawPayload

		rawDoc, _ := raw.String("Cd_CPF_CNPJ")
		doc := resolve.NormalizeDocument(rawDoc)
		if doc == "" {
			report.Failed++
			if err := runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				return p.staging.MarkErrorTx(tx, rec, fmt.Sprintf("invalid supplier document %q", rawDoc))
			}); err != nil {
				return report, err
			}
			continue
		}

		existing, found, err := p.customers.FindByDocument(ctx, doc)
		if err != nil {
			return report, err
		}

		if found {
			widened := model.WidenType(existing.Type, model.PartySupplier)
			err = runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				if widened != existing.Type {
					if err := p.customers.UpdateTypeTx(tx, existing.ID, widened); err != nil {
						return err
					}
				}
				report.Promoted++
				return p.staging.MarkPromotedTx(tx, rec, now())
			})
			if err != nil {
				return report, err
			}
			continue
		}

		name, ok := raw.String("Ds_Fantasia")
		if !ok {
			name, ok = raw.String("Ds_Razao_Social")
		}
		if !ok {
			report.Failed++
			if err := runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				return p.staging.MarkErrorTx(tx, rec, "missing supplier name")
			}); err != nil {
				return report, err
			}
			continue
		}

		supplier := model.Customer{
			Name:      name,
			LegalName: optString(raw, "Ds_Razao_Social"),
			Document:  &doc,
			Email:     optString(raw, "Ds_Email"),
			Phone:     buildPhone(raw),
			Type:      model.PartySupplier,
			Active:    true,
		}
		err = runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
			if err := p.customers.CreateTx(tx, &supplier); err != nil {
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
