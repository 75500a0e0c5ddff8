// Package service holds the business rules behind the HTTP handlers. Services
// depend on repository interfaces only, so tests can run them against
// in-memory stubs with a nil *gorm.DB.
package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
