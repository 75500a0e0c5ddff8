package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvanzela/nexcore-erp/internal/payload"
)

func TestSpecsCoverAllEntities(t *testing.T) {
	for _, entity := range []string{
		EntityClients, EntitySuppliers, EntityProducts, EntityProductCatalog,
		EntityOrderHeader, EntityOrderItem, EntityInventoryInitial,
	} {
		spec, ok := Specs[entity]
		require.Truef(t, ok, "missing spec for %s", entity)
		assert.Equal(t, entity, spec.SourceEntity)
		assert.NotEmpty(t, spec.Query)
		assert.NotNil(t, spec.BuildPK)
	}
}

func TestClientPKFallsBackToDocument(t *testing.T) {
	spec := Specs[EntityClients]

	pk := spec.BuildPK(payload.Map{"Cd_Cliente": float64(42)})
	assert.Equal(t, "42", pk)

	pk = spec.BuildPK(payload.Map{"Cd_CPF_CNPJ": "12345678900"})
	assert.Equal(t, "12345678900", pk)

	assert.Empty(t, spec.BuildPK(payload.Map{}))
}

func TestOrderItemPKIsComposite(t *testing.T) {
	spec := Specs[EntityOrderItem]

	pk := spec.BuildPK(payload.Map{"Nr_Pedido": "500", "Nr_Sequencia": float64(2)})
	assert.Equal(t, "500:2", pk)

	// Half a key is no key.
	assert.Empty(t, spec.BuildPK(payload.Map{"Nr_Pedido": "500"}))
	assert.Empty(t, spec.BuildPK(payload.Map{"Nr_Sequencia": float64(2)}))
}
