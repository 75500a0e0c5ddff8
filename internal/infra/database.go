package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create/update all tables, then applies idempotent SQL patches that GORM
// cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Unique violations must surface as gorm.ErrDuplicatedKey so the
		// purchase confirm flow can report a conflict, not a plain failure.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema. Staging and core tables share one
// database, but only the promoters write core rows from staging.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.StagingRecord{},
		&model.Customer{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryMovement{},
		&model.AccountPayable{},
		&model.AccountReceivable{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not emit.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index for the promoters' hot query: find NEW rows per
		// (source_system, source_entity) without scanning promoted history.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_staging_records_new') THEN
		    CREATE INDEX idx_staging_records_new
		        ON staging_records (source_system, source_entity, source_pk)
		        WHERE status = 'NEW';
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
