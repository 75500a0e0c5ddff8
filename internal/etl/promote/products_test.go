package promote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/model"
)

func TestProductEnrichmentSkipsMissingTarget(t *testing.T) {
	fixedNow(t)
	staging := newStubStagingRepo()
	products := newStubProductRepo()
	resolver := resolve.New(newStubCustomerRepo(), products)

	staging.add(testSystem, extract.EntityProducts, "P-404", model.StagingNew, map[string]interface{}{
		"Cd_Referencia": "REF-1",
	})

	p := NewProductEnrichmentPromoter(staging, products, resolver, testSystem)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Promoted)
	assert.Equal(t, 0, report.Failed)
	// The row stays NEW so a later run can retry once the product exists.
	assert.Equal(t, model.StagingNew, staging.byPK("P-404").Status)
}

func TestProductEnrichmentUpdatesManufacturerCode(t *testing.T) {
	fixedNow(t)
	staging := newStubStagingRepo()
	products := newStubProductRepo()
	resolver := resolve.New(newStubCustomerRepo(), products)

	require.NoError(t, products.Create(context.Background(), &model.Product{
		Code: "P-100", Name: "Arroz Tipo 1", Active: true,
	}))

	staging.add(testSystem, extract.EntityProducts, "P-100", model.StagingNew, map[string]interface{}{
		"Cd_Referencia": "REF-881",
	})

	p := NewProductEnrichmentPromoter(staging, products, resolver, testSystem)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Promoted)
	assert.Equal(t, model.StagingPromoted, staging.byPK("P-100").Status)

	updated, found, err := products.FindByCode(context.Background(), "P-100")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, updated.ManufacturerCode)
	assert.Equal(t, "REF-881", *updated.ManufacturerCode)
}

func TestProductEnrichmentWithoutReferenceStillPromotes(t *testing.T) {
	fixedNow(t)
	staging := newStubStagingRepo()
	products := newStubProductRepo()
	resolver := resolve.New(newStubCustomerRepo(), products)

	require.NoError(t, products.Create(context.Background(), &model.Product{
		Code: "P-200", Name: "Feijao Carioca", Active: true,
	}))

	staging.add(testSystem, extract.EntityProducts, "P-200", model.StagingNew, map[string]interface{}{
		"Ds_Produto": "FEIJAO CARIOCA 1KG",
	})

	p := NewProductEnrichmentPromoter(staging, products, resolver, testSystem)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Promoted)
	updated, _, _ := products.FindByCode(context.Background(), "P-200")
	assert.Nil(t, updated.ManufacturerCode)
}
