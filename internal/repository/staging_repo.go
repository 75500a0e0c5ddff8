package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

// StagingFilter narrows the operator remediation view.
type StagingFilter struct {
	SourceSystem string
	SourceEntity string
	Status       string
	Page         int
	Limit        int
}

// StagingRepository is the only gateway to the universal inbox. The writer
// upserts through it; promoters read NEW rows and flip their status.
type StagingRepository interface {
	// UpsertBatch inserts or overwrites records by business key inside one
	// transaction. On conflict the payload is replaced and the lifecycle is
	// reset to NEW. Returns the number of rows written.
	UpsertBatch(ctx context.Context, records []model.StagingRecord) (int, error)

	FindNew(ctx context.Context, system, entity string) ([]model.StagingRecord, error)
	// FindNewByPKPrefix returns NEW rows whose source_pk starts with prefix,
	// used to gather order items for one header (pk "<order>:<seq>").
	FindNewByPKPrefix(ctx context.Context, system, entity, prefix string) ([]model.StagingRecord, error)
	MarkPromotedTx(tx *gorm.DB, rec *model.StagingRecord, now time.Time) error
	MarkErrorTx(tx *gorm.DB, rec *model.StagingRecord, reason string) error

	List(ctx context.Context, filter StagingFilter) ([]model.StagingRecord, int64, error)
	CountByStatus(ctx context.Context, system, entity string) (map[model.StagingStatus]int64, error)

	// DB exposes the underlying *gorm.DB so promoters can open transactions.
	DB() *gorm.DB
}

type stagingRepo struct{ db *gorm.DB }

func NewStagingRepository(db *gorm.DB) StagingRepository { return &stagingRepo{db: db} }

func (r *stagingRepo) UpsertBatch(ctx context.Context, records []model.StagingRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	written := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			rec := &records[i]
			rec.Status = model.StagingNew
			rec.LoadedAt = time.Now().UTC()
			rec.PromotedAt = nil
			rec.ErrorReason = nil
			res := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "source_system"},
					{Name: "source_entity"},
					{Name: "source_pk"},
				},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"raw_payload":  rec.RawPayload,
					"status":       model.StagingNew,
					"loaded_at":    rec.LoadedAt,
					"promoted_at":  nil,
					"error_reason": nil,
				}),
			}).Create(rec)
			if res.Error != nil {
				return res.Error
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *stagingRepo) FindNew(ctx context.Context, system, entity string) ([]model.StagingRecord, error) {
	var recs []model.StagingRecord
	err := r.db.WithContext(ctx).
		Where("source_system = ? AND source_entity = ? AND status = ?", system, entity, model.StagingNew).
		Order("id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *stagingRepo) FindNewByPKPrefix(ctx context.Context, system, entity, prefix string) ([]model.StagingRecord, error) {
	var recs []model.StagingRecord
	err := r.db.WithContext(ctx).
		Where("source_system = ? AND source_entity = ? AND status = ? AND source_pk LIKE ?",
			system, entity, model.StagingNew, prefix+"%").
		Order("id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *stagingRepo) MarkPromotedTx(tx *gorm.DB, rec *model.StagingRecord, now time.Time) error {
	if err := rec.MarkPromoted(now); err != nil {
		return err
	}
	return tx.Model(rec).Select("status", "promoted_at", "error_reason").Updates(map[string]interface{}{
		"status":       rec.Status,
		"promoted_at":  rec.PromotedAt,
		"error_reason": nil,
	}).Error
}

func (r *stagingRepo) MarkErrorTx(tx *gorm.DB, rec *model.StagingRecord, reason string) error {
	if err := rec.MarkError(reason); err != nil {
		return err
	}
	return tx.Model(rec).Select("status", "error_reason").Updates(map[string]interface{}{
		"status":       rec.Status,
		"error_reason": reason,
	}).Error
}

func (r *stagingRepo) List(ctx context.Context, filter StagingFilter) ([]model.StagingRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StagingRecord{})
	if filter.SourceSystem != "" {
		q = q.Where("source_system = ?", filter.SourceSystem)
	}
	if filter.SourceEntity != "" {
		q = q.Where("source_entity = ?", filter.SourceEntity)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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

	var recs []model.StagingRecord
	err := q.Order("loaded_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&recs).Error
	return recs, total, err
}

func (r *stagingRepo) CountByStatus(ctx context.Context, system, entity string) (map[model.StagingStatus]int64, error) {
	type row struct {
		Status model.StagingStatus
		N      int64
	}
	var rows []row
	q := r.db.WithContext(ctx).Model(&model.StagingRecord{}).
		Select("status, count(*) as n").
		Group("status")
	if system != "" {
		q = q.Where("source_system = ?", system)
	}
	if entity != "" {
		q = q.Where("source_entity = ?", entity)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[model.StagingStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func (r *stagingRepo) DB() *gorm.DB { return r.db }
