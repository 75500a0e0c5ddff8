package extract

import "github.com/gvanzela/nexcore-erp/internal/payload"

// Staging entity names. These are logical record types, deliberately
// decoupled from the legacy table names they mirror.
const (
	EntityClients          = "clients"
	EntitySuppliers        = "suppliers"
	EntityProducts         = "products"
	EntityOrderHeader      = "order_header"
	EntityOrderItem        = "order_item"
	EntityInventoryInitial = "inventory_initial"

	// EntityProductCatalog stages the same legacy table as EntityProducts but
	// feeds the catalog-creation promoter; EntityProducts feeds the
	// update-only enrichment promoter. Two partitions keep the lifecycles of
	// "create the product" and "enrich the product" independent.
	EntityProductCatalog = "product_catalog"
)

// Specs is the extraction catalog for the cmsys legacy ERP. Adding a new
// source entity means adding one entry here, nothing else.
var Specs = map[string]Spec{
	EntityClients: {
		SourceEntity: EntityClients,
		Query:        `SELECT * FROM dbo.CD_Cliente`,
		BuildPK: func(row payload.Map) string {
			// Prefer the legacy customer id; fall back to the document.
			if pk, ok := row.String("Cd_Cliente"); ok {
				return pk
			}
			pk, _ := row.String("Cd_CPF_CNPJ")
			return pk
		},
	},
	EntitySuppliers: {
		SourceEntity: EntitySuppliers,
		Query:        `SELECT * FROM dbo.CD_Fornecedor`,
		BuildPK: func(row payload.Map) string {
			pk, _ := row.String("Cd_CPF_CNPJ")
			return pk
		},
	},
	EntityProducts: {
		SourceEntity: EntityProducts,
		Query:        `SELECT * FROM dbo.CD_Produto`,
		BuildPK: func(row payload.Map) string {
			pk, _ := row.String("Cd_Produto")
			return pk
		},
	},
	EntityOrderHeader: {
		SourceEntity: EntityOrderHeader,
		Query:        `SELECT * FROM dbo.CD_Pedido_Venda`,
		BuildPK: func(row payload.Map) string {
			pk, _ := row.String("Nr_Pedido")
			return pk
		},
	},
	EntityOrderItem: {
		SourceEntity: EntityOrderItem,
		Query:        `SELECT * FROM dbo.CD_Pedido_Venda_Item`,
		BuildPK: func(row payload.Map) string {
			// Composite key: header number + line sequence. The orders
			// promoter relies on this "<order>:<seq>" shape to group items.
			order, ok1 := row.String("Nr_Pedido")
			seq, ok2 := row.String("Nr_Sequencia")
			if !ok1 || !ok2 {
				return ""
			}
			return order + ":" + seq
		},
	},
	EntityProductCatalog: {
		SourceEntity: EntityProductCatalog,
		Query:        `SELECT * FROM dbo.CD_Produto`,
		BuildPK: func(row payload.Map) string {
			pk, _ := row.String("Cd_Produto")
			return pk
		},
	},
	EntityInventoryInitial: {
		SourceEntity: EntityInventoryInitial,
		Query:        `SELECT * FROM dbo.OP_Inventario_Processo_Produto`,
		BuildPK: func(row payload.Map) string {
			pk, _ := row.String("Cd_Produto")
			return pk
		},
	},
}
