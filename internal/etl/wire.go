package etl

import (
	"database/sql"

	"github.com/bsm/redislock"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/etl/extract"
	"github.com/gvanzela/nexcore-erp/internal/etl/promote"
	"github.com/gvanzela/nexcore-erp/internal/etl/resolve"
	"github.com/gvanzela/nexcore-erp/internal/etl/staging"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// BuildRunner assembles the full pipeline: extractor over the legacy
// database, staging writer, and every entity promoter. locker may be nil.
func BuildRunner(db *gorm.DB, legacy *sql.DB, locker *redislock.Client, sourceSystem string) *Runner {
	stagingRepo := repository.NewStagingRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	resolver := resolve.New(customerRepo, productRepo)
	extractor := extract.New(legacy, sourceSystem)
	writer := staging.NewWriter(stagingRepo)

	r := NewRunner(extractor, writer, locker, sourceSystem)
	r.RegisterPromoter(extract.EntityClients, promote.NewCustomerPromoter(stagingRepo, customerRepo, sourceSystem))
	r.RegisterPromoter(extract.EntitySuppliers, promote.NewSupplierPromoter(stagingRepo, customerRepo, sourceSystem))
	r.RegisterPromoter(extract.EntityProductCatalog, promote.NewProductCatalogPromoter(stagingRepo, productRepo, sourceSystem))
	r.RegisterPromoter(extract.EntityProducts, promote.NewProductEnrichmentPromoter(stagingRepo, productRepo, resolver, sourceSystem))
	r.RegisterPromoter(extract.EntityOrderHeader, promote.NewOrderPromoter(stagingRepo, orderRepo, resolver, sourceSystem))
	r.RegisterPromoter(extract.EntityInventoryInitial, promote.NewInventoryInitialPromoter(stagingRepo, movementRepo, resolver, sourceSystem))
	return r
}
