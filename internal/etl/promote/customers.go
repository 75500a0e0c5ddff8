package promote

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/payload"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// CustomerPromoter turns staged legacy clients into core customers.
// Records whose document already exists in core are considered already
// present and are promoted without an insert.
type CustomerPromoter struct {
	staging      repository.StagingRepository
	customers    repository.CustomerRepository
	sourceSystem string
}

func NewCustomerPromoter(staging repository.StagingRepository, customers repository.CustomerRepository, sourceSystem string) *CustomerPromoter {
	return &CustomerPromoter{staging: staging, customers: customers, sourceSystem: sourceSystem}
}

func (p *CustomerPromoter) Run(ctx context.Context) (Report, error) {
	report := Report{Entity: extract.EntityClients}

	recs, err := p.staging.FindNew(ctx, p.sourceSystem, extract.EntityClients)
	if err != nil {
		return report, err
	}

	for i := range recs {
		rec := &recs[i]
		if err := p.promoteOne(ctx, rec, &report); err != nil {
			return report, err
		}
	}
	report.log()
	return report, nil
}

func (p *CustomerPromoter) promoteOne(ctx context.Context, rec *model.StagingRecord, report *Report) error {
	raw := rec.RawPayload

	name, ok := raw.String("Ds_Fantasia")
	if !ok {
		name, ok = raw.String("Ds_Razao_Social")
	}
	if !ok {
		return p.fail(ctx, rec, report, "missing customer name (Ds_Fantasia/Ds_Razao_Social)")
	}

	// An unparsable document is treated as "no document", never as a match
	// key. Document uniqueness is enforced at the storage level.
	var document *string
	if rawDoc, ok := raw.String("Cd_CPF_CNPJ"); ok {
		if doc := resolve.NormalizeDocument(rawDoc); doc != "" {
			document = &doc
		}
	}

	if document != nil {
		_, found, err := p.customers.FindByDocument(ctx, *document)
		if err != nil {
			return err
		}
		if found {
			// Already in core; nothing to insert, the row is done.
			return runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
				report.Promoted++
				return p.staging.MarkPromotedTx(tx, rec, now())
			})
		}
	}

	customer := model.Customer{
		Name:      name,
		LegalName: optString(raw, "Ds_Razao_Social"),
		Document:  document,
		Email:     optString(raw, "Ds_Email"),
		Phone:     buildPhone(raw),
		Type:      model.PartyCustomer,
		Active:    isActiveStatus(raw),
	}

	return runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
		if err := p.customers.CreateTx(tx, &customer); err != nil {
			return err
		}
		report.Promoted++
		return p.staging.MarkPromotedTx(tx, rec, now())
	})
}

func (p *CustomerPromoter) fail(ctx context.Context, rec *model.StagingRecord, report *Report, reason string) error {
	report.Failed++
	return runTx(ctx, p.staging.DB(), func(tx *gorm.DB) error {
		return p.staging.MarkErrorTx(tx, rec, reason)
	})
}

func optString(raw payload.Map, key string) *string {
	if s, ok := raw.String(key); ok {
		return &s
	}
	return nil
}

// buildPhone concatenates the legacy area code and number.
func buildPhone(raw payload.Map) *string {
	ddd, _ := raw.String("Cd_DDD_Telefone")
	phone, hasPhone := raw.String("Ds_Telefone")
	if !hasPhone {
		return nil
	}
	full := fmt.Sprintf("%s%s", ddd, phone)
	return &full
}

// isActiveStatus maps the legacy status flag: "A" is active, anything else
// (including a missing flag) is inactive.
func isActiveStatus(raw payload.Map) bool {
	status, _ := raw.String("Cd_Status")
	return status == "A"
}
