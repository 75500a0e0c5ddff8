package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// MovementFilter narrows the movement audit view.
type MovementFilter struct {
	ProductID    *uint64
	MovementType string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	Limit        int
}

// ProductBalance is one row of the computed stock listing.
type ProductBalance struct {
	ProductID uint64          `json:"product_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// MovementRepository is the append-only gateway to the inventory ledger.
// There is deliberately no update or delete: corrections are new ADJUST rows.
type MovementRepository interface {
	Create(ctx context.Context, m *model.InventoryMovement) error
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error
	// Balance sums all movement quantities for a product; zero when none.
	Balance(ctx context.Context, productID uint64) (decimal.Decimal, error)
	Balances(ctx context.Context, offset, limit int) ([]ProductBalance, error)
	List(ctx context.Context, filter MovementFilter) ([]model.InventoryMovement, int64, error)
	DB() *gorm.DB
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepository(db *gorm.DB) MovementRepository { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *model.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *movementRepo) Balance(ctx context.Context, productID uint64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&balance).Error
	return balance, err
}

func (r *movementRepo) Balances(ctx context.Context, offset, limit int) ([]ProductBalance, error) {
	var rows []ProductBalance
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS balance").
		Group("product_id").
		Order("product_id ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *movementRepo) List(ctx context.Context, filter MovementFilter) ([]model.InventoryMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).Preload("Product")
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.MovementType != "" {
		q = q.Where("movement_type = ?", filter.MovementType)
	}
	if filter.DateFrom != nil {
		q = q.Where("occurred_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("occurred_at <= ?", *filter.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var movements []model.InventoryMovement
	err := q.Order("occurred_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movements).Error
	return movements, total, err
}

func (r *movementRepo) DB() *gorm.DB { return r.db }
