package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// OrderRepository persists order aggregates. CreateTx writes the header and
// its items in one statement; an order without items is a caller bug and is
// rejected before touching the database.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByExternalID(ctx context.Context, externalID string) (*model.Order, bool, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	if len(o.Items) == 0 {
		return errors.New("order must have at least one item")
	}
	return tx.Create(o).Error
}

func (r *orderRepo) FindByExternalID(ctx context.Context, externalID string) (*model.Order, bool, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &o, true, nil
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
