package promote

// In-memory repository stubs. runTx sees a nil *gorm.DB from these, so every
// "transactional" callback runs directly against the maps.

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// ── StagingRepository stub ──────────────────────────────────────────────────

type stubStagingRepo struct {
	records []*model.StagingRecord
	nextID  uint64
}

func newStubStagingRepo() *stubStagingRepo { return &stubStagingRepo{nextID: 1} }

func (r *stubStagingRepo) add(system, entity, pk string, status model.StagingStatus, raw map[string]interface{}) *model.StagingRecord {
	rec := &model.StagingRecord{
		ID:           r.nextID,
		SourceSystem: system,
		SourceEntity: entity,
		SourcePK:     pk,
		RawPayload:   raw,
		Status:       status,
		LoadedAt:     time.Now().UTC(),
	}
	r.nextID++
	r.records = append(r.records, rec)
	return rec
}

func (r *stubStagingRepo) UpsertBatch(_ context.Context, records []model.StagingRecord) (int, error) {
	for i := range records {
		rec := records[i]
		rec.ID = r.nextID
		r.nextID++
		rec.Status = model.StagingNew
		copied := rec
		r.records = append(r.records, &copied)
	}
	return len(records), nil
}

func (r *stubStagingRepo) FindNew(_ context.Context, system, entity string) ([]model.StagingRecord, error) {
	var out []model.StagingRecord
	for _, rec := range r.records {
		if rec.SourceSystem == system && rec.SourceEntity == entity && rec.Status == model.StagingNew {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubStagingRepo) FindNewByPKPrefix(_ context.Context, system, entity, prefix string) ([]model.StagingRecord, error) {
	var out []model.StagingRecord
	for _, rec := range r.records {
		if rec.SourceSystem == system && rec.SourceEntity == entity &&
			rec.Status == model.StagingNew && strings.HasPrefix(rec.SourcePK, prefix) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubStagingRepo) MarkPromotedTx(_ *gorm.DB, rec *model.StagingRecord, now time.Time) error {
	if err := rec.MarkPromoted(now); err != nil {
		return err
	}
	return r.store(rec)
}

func (r *stubStagingRepo) MarkErrorTx(_ *gorm.DB, rec *model.StagingRecord, reason string) error {
	if err := rec.MarkError(reason); err != nil {
		return err
	}
	return r.store(rec)
}

func (r *stubStagingRepo) store(rec *model.StagingRecord) error {
	for i, existing := range r.records {
		if existing.ID == rec.ID {
			copied := *rec
			r.records[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubStagingRepo) List(_ context.Context, _ repository.StagingFilter) ([]model.StagingRecord, int64, error) {
	out := make([]model.StagingRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (r *stubStagingRepo) CountByStatus(_ context.Context, system, entity string) (map[model.StagingStatus]int64, error) {
	counts := make(map[model.StagingStatus]int64)
	for _, rec := range r.records {
		if rec.SourceSystem == system && rec.SourceEntity == entity {
			counts[rec.Status]++
		}
	}
	return counts, nil
}

func (r *stubStagingRepo) DB() *gorm.DB { return nil }

func (r *stubStagingRepo) byPK(pk string) *model.StagingRecord {
	for _, rec := range r.records {
		if rec.SourcePK == pk {
			return rec
		}
	}
	return nil
}

// ── CustomerRepository stub ─────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers []*model.Customer
	nextID    uint64
}

func newStubCustomerRepo() *stubCustomerRepo { return &stubCustomerRepo{nextID: 1} }

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	return r.CreateTx(nil, c)
}

func (r *stubCustomerRepo) CreateTx(_ *gorm.DB, c *model.Customer) error {
	c.ID = r.nextID
	r.nextID++
	cloned := *c
	r.customers = append(r.customers, &cloned)
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uint64) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.ID == id {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) FindByDocument(_ context.Context, document string) (*model.Customer, bool, error) {
	for _, c := range r.customers {
		if c.Document != nil && *c.Document == document {
			cloned := *c
			return &cloned, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubCustomerRepo) UpdateTypeTx(_ *gorm.DB, id uint64, partyType string) error {
	for _, c := range r.customers {
		if c.ID == id {
			c.Type = partyType
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

// ── ProductRepository stub ──────────────────────────────────────────────────

type stubProductRepo struct {
	products []*model.Product
	nextID   uint64
}

func newStubProductRepo() *stubProductRepo { return &stubProductRepo{nextID: 1} }

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	return r.CreateTx(nil, p)
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	p.ID = r.nextID
	r.nextID++
	cloned := *p
	r.products = append(r.products, &cloned)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint64) (*model.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, bool, error) {
	for _, p := range r.products {
		if p.Code == code {
			cloned := *p
			return &cloned, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, bool, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			cloned := *p
			return &cloned, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	for i, existing := range r.products {
		if existing.ID == p.ID {
			cloned := *p
			r.products[i] = &cloned
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) UpdateManufacturerCodeTx(_ *gorm.DB, id uint64, code string) error {
	for _, p := range r.products {
		if p.ID == id {
			c := code
			p.ManufacturerCode = &c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── OrderRepository stub ────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders []*model.Order
	nextID uint64
}

func newStubOrderRepo() *stubOrderRepo { return &stubOrderRepo{nextID: 1} }

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	o.ID = r.nextID
	r.nextID++
	cloned := *o
	r.orders = append(r.orders, &cloned)
	return nil
}

func (r *stubOrderRepo) FindByExternalID(_ context.Context, externalID string) (*model.Order, bool, error) {
	for _, o := range r.orders {
		if o.ExternalID != nil && *o.ExternalID == externalID {
			cloned := *o
			return &cloned, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ── MovementRepository stub ─────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []*model.InventoryMovement
	nextID    uint64
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{nextID: 1} }

func (r *stubMovementRepo) Create(_ context.Context, m *model.InventoryMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	m.ID = r.nextID
	r.nextID++
	cloned := *m
	r.movements = append(r.movements, &cloned)
	return nil
}

func (r *stubMovementRepo) Balance(_ context.Context, productID uint64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) Balances(_ context.Context, _, _ int) ([]repository.ProductBalance, error) {
	sums := make(map[uint64]decimal.Decimal)
	for _, m := range r.movements {
		sums[m.ProductID] = sums[m.ProductID].Add(m.Quantity)
	}
	out := make([]repository.ProductBalance, 0, len(sums))
	for id, sum := range sums {
		out = append(out, repository.ProductBalance{ProductID: id, Balance: sum})
	}
	return out, nil
}

func (r *stubMovementRepo) List(_ context.Context, _ repository.MovementFilter) ([]model.InventoryMovement, int64, error) {
	out := make([]model.InventoryMovement, 0, len(r.movements))
	for _, m := range r.movements {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }
