package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// CustomerRepository defines data access for the generic party entity.
// FindByDocument reports not-found as (nil, false, nil) so promoters can
// branch between hard failure and soft fallback without error inspection.
type CustomerRepository interface {
	CreateTx(tx *gorm.DB, c *model.Customer) error
	FindByID(ctx context.Context, id uint64) (*model.Customer, error)
	FindByDocument(ctx context.Context, document string) (*model.Customer, bool, error)
	UpdateTypeTx(tx *gorm.DB, id uint64, partyType string) error
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) CreateTx(tx *gorm.DB, c *model.Customer) error {
	return tx.Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uint64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) FindByDocument(ctx context.Context, document string) (*model.Customer, bool, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("document = ?", document).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

func (r *customerRepo) UpdateTypeTx(tx *gorm.DB, id uint64, partyType string) error {
	return tx.Model(&model.Customer{}).Where("id = ?", id).Update("type", partyType).Error
}

func (r *customerRepo) DB() *gorm.DB { return r.db }
