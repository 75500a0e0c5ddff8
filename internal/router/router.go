package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/config"
	"github.com/gvanzela/nexcore-erp/internal/handler"
	"github.com/gvanzela/nexcore-erp/internal/middleware"
	"github.com/gvanzela/nexcore-erp/internal/repository"
	"github.com/gvanzela/nexcore-erp/internal/service"
	"github.com/gvanzela/nexcore-erp/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	stagingRepo := repository.NewStagingRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	payableRepo := repository.NewPayableRepository(db)
	receivableRepo := repository.NewReceivableRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	purchaseSvc := service.NewPurchaseService(customerRepo, productRepo, movementRepo, payableRepo)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo)
	financeSvc := service.NewFinanceService(payableRepo, receivableRepo)
	stagingSvc := service.NewStagingService(stagingRepo)

	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	financeH := handler.NewFinanceHandler(financeSvc)
	stagingH := handler.NewStagingHandler(stagingSvc, cfg.SourceSystem)
	etlH := handler.NewETLHandler(dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		purchases := v1.Group("/purchases")
		{
			purchases.POST("/xml/preview", purchasesH.Preview)
			purchases.POST("/xml/resolve/link", purchasesH.ResolveLink)
			purchases.POST("/xml/resolve/create-product", purchasesH.ResolveCreateProduct)
			purchases.POST("/xml/confirm", purchasesH.Confirm)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.GET("/balances", inventoryH.ListBalances)
			inventory.GET("/balances/:product_id", inventoryH.GetBalance)
			inventory.GET("/movements", inventoryH.ListMovements)
			inventory.POST("/adjust", inventoryH.AdjustStock)
		}

		finance := v1.Group("/finance")
		{
			finance.GET("/payables", financeH.ListPayables)
			finance.POST("/payables/:id/pay", financeH.PayPayable)
			finance.GET("/receivables", financeH.ListReceivables)
			finance.POST("/receivables/:id/settle", financeH.SettleReceivable)
		}

		etl := v1.Group("/etl")
		{
			etl.GET("/staging", stagingH.List)
			etl.GET("/staging/counts", stagingH.Counts)
			etl.POST("/jobs", etlH.EnqueueJob)
			etl.GET("/jobs/dead-letters", etlH.DeadLetters)
		}
	}

	return r
}
