package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// PayableRepository persists single-installment purchase obligations.
// FindBySource is the confirm-time idempotency probe: it runs BEFORE any
// write during document confirmation.
type PayableRepository interface {
	CreateTx(tx *gorm.DB, p *model.AccountPayable) error
	FindByID(ctx context.Context, id uint64) (*model.AccountPayable, error)
	FindBySource(ctx context.Context, sourceEntity, sourceID string) (*model.AccountPayable, bool, error)
	List(ctx context.Context, status string, page, limit int) ([]model.AccountPayable, int64, error)
	Save(ctx context.Context, p *model.AccountPayable) error
	DB() *gorm.DB
}

type payableRepo struct{ db *gorm.DB }

func NewPayableRepository(db *gorm.DB) PayableRepository { return &payableRepo{db: db} }

func (r *payableRepo) CreateTx(tx *gorm.DB, p *model.AccountPayable) error {
	return tx.Create(p).Error
}

func (r *payableRepo) FindByID(ctx context.Context, id uint64) (*model.AccountPayable, error) {
	var p model.AccountPayable
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payableRepo) FindBySource(ctx context.Context, sourceEntity, sourceID string) (*model.AccountPayable, bool, error) {
	var p model.AccountPayable
	err := r.db.WithContext(ctx).
		Where("source_entity = ? AND source_id = ?", sourceEntity, sourceID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (r *payableRepo) List(ctx context.Context, status string, page, limit int) ([]model.AccountPayable, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AccountPayable{}).Preload("Supplier")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var rows []model.AccountPayable
	err := q.Order("due_date ASC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *payableRepo) Save(ctx context.Context, p *model.AccountPayable) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *payableRepo) DB() *gorm.DB { return r.db }

// ReceivableRepository mirrors the payable side for customer obligations.
// Receivables are read and settled here; nothing in this system creates them
// yet, so the surface is list, lookup and save.
type ReceivableRepository interface {
	FindByID(ctx context.Context, id uint64) (*model.AccountReceivable, error)
	List(ctx context.Context, status string, page, limit int) ([]model.AccountReceivable, int64, error)
	Save(ctx context.Context, rec *model.AccountReceivable) error
}

type receivableRepo struct{ db *gorm.DB }

func NewReceivableRepository(db *gorm.DB) ReceivableRepository { return &receivableRepo{db: db} }

func (r *receivableRepo) FindByID(ctx context.Context, id uint64) (*model.AccountReceivable, error) {
	var rec model.AccountReceivable
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receivableRepo) List(ctx context.Context, status string, page, limit int) ([]model.AccountReceivable, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AccountReceivable{}).Preload("Customer")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var rows []model.AccountReceivable
	err := q.Order("due_date ASC").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *receivableRepo) Save(ctx context.Context, rec *model.AccountReceivable) error {
	return r.db.WithContext(ctx).Save(rec).Error
}
