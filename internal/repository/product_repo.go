package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// ProductRepository defines data access for the product catalog. The lookup
// methods report not-found as a boolean, matching the resolver contract.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, bool, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, bool, error)
	Save(ctx context.Context, p *model.Product) error
	UpdateManufacturerCodeTx(tx *gorm.DB, id uint64, code string) error
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, bool, error) {
	return r.findOne("code = ?", code)
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, bool, error) {
	return r.findOne("barcode = ?", barcode)
}

func (r *productRepo) findOne(query string, arg interface{}) (*model.Product, bool, error) {
	var p model.Product
	err := r.db.Where(query, arg).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (r *productRepo) Save(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) UpdateManufacturerCodeTx(tx *gorm.DB, id uint64, code string) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("manufacturer_code", code).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
