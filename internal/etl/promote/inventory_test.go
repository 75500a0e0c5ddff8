package promote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/model"
)

func TestInventoryInitialEmitsAbsoluteIn(t *testing.T) {
	at := fixedNow(t)
	staging := newStubStagingRepo()
	products := newStubProductRepo()
	movements := newStubMovementRepo()
	resolver := resolve.New(newStubCustomerRepo(), products)

	require.NoError(t, products.Create(context.Background(), &model.Product{
		Code: "P-1", Name: "Arroz", Active: true,
	}))

	staging.add(testSystem, extract.EntityInventoryInitial, "P-1", model.StagingNew, map[string]interface{}{
		"Qt_Produto": float64(37.5),
	})

	p := NewInventoryInitialPromoter(staging, movements, resolver, testSystem)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Promoted)
	require.Len(t, movements.movements, 1)
	mv := movements.movements[0]
	assert.Equal(t, model.MovementIn, mv.MovementType)
	// The counted quantity lands as-is, no delta against prior movements.
	assert.True(t, mv.Quantity.Equal(decimal.NewFromFloat(37.5)))
	assert.Equal(t, extract.EntityInventoryInitial, mv.SourceEntity)
	assert.Equal(t, "P-1", mv.SourceID)
	assert.Equal(t, at, mv.OccurredAt)

	assert.Equal(t, model.StagingPromoted, staging.byPK("P-1").Status)
}

func TestInventoryInitialUnknownProduct(t *testing.T) {
	fixedNow(t)
	staging := newStubStagingRepo()
	movements := newStubMovementRepo()
	resolver := resolve.New(newStubCustomerRepo(), newStubProductRepo())

	staging.add(testSystem, extract.EntityInventoryInitial, "GHOST", model.StagingNew, map[string]interface{}{
		"Qt_Produto": float64(5),
	})

	p := NewInventoryInitialPromoter(staging, movements, resolver, testSystem)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, movements.movements)
	assert.Equal(t, model.StagingError, staging.byPK("GHOST").Status)
}

func TestInventoryInitialMissingQuantity(t *testing.T) {
	fixedNow(t)
	staging := newStubStagingRepo()
	products := newStubProductRepo()
	movements := newStubMovementRepo()
	resolver := resolve.New(newStubCustomerRepo(), products)

	require.NoError(t, products.Create(context.Background(), &model.Product{
		Code: "P-2", Name: "Feijao", Active: true,
	}))
	staging.add(testSystem, extract.EntityInventoryInitial, "P-2", model.StagingNew, map[string]interface{}{})

	p := NewInventoryInitialPromoter(staging, movements, resolver, testSystem)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, movements.movements)
}
