package service

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

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

// ── PayableRepository stub ──────────────────────────────────────────────────

type stubPayableRepo struct {
	payables []*model.AccountPayable
	nextID   uint64

	// createTxErr, when set, makes CreateTx fail without writing.
	createTxErr error
}

func newStubPayableRepo() *stubPayableRepo { return &stubPayableRepo{nextID: 1} }

func (r *stubPayableRepo) Create(_ context.Context, p *model.AccountPayable) error {
	return r.CreateTx(nil, p)
}

func (r *stubPayableRepo) CreateTx(_ *gorm.DB, p *model.AccountPayable) error {
	if r.createTxErr != nil {
		return r.createTxErr
	}
	p.ID = r.nextID
	r.nextID++
	cloned := *p
	r.payables = append(r.payables, &cloned)
	return nil
}

func (r *stubPayableRepo) FindByID(_ context.Context, id uint64) (*model.AccountPayable, error) {
	for _, p := range r.payables {
		if p.ID == id {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPayableRepo) FindBySource(_ context.Context, sourceEntity, sourceID string) (*model.AccountPayable, bool, error) {
	for _, p := range r.payables {
		if p.SourceEntity == sourceEntity && p.SourceID == sourceID {
			cloned := *p
			return &cloned, true, nil
		}
	}
	return nil, false, nil
}

func (r *stubPayableRepo) List(_ context.Context, status string, _, _ int) ([]model.AccountPayable, int64, error) {
	var out []model.AccountPayable
	for _, p := range r.payables {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPayableRepo) Save(_ context.Context, p *model.AccountPayable) error {
	for i, existing := range r.payables {
		if existing.ID == p.ID {
			cloned := *p
			r.payables[i] = &cloned
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPayableRepo) DB() *gorm.DB { return nil }

// ── ReceivableRepository stub ───────────────────────────────────────────────

type stubReceivableRepo struct {
	receivables []*model.AccountReceivable
	nextID      uint64
}

func newStubReceivableRepo() *stubReceivableRepo { return &stubReceivableRepo{nextID: 1} }

func (r *stubReceivableRepo) Create(_ context.Context, rec *model.AccountReceivable) error {
	rec.ID = r.nextID
	r.nextID++
	cloned := *rec
	r.receivables = append(r.receivables, &cloned)
	return nil
}

func (r *stubReceivableRepo) FindByID(_ context.Context, id uint64) (*model.AccountReceivable, error) {
	for _, rec := range r.receivables {
		if rec.ID == id {
			cloned := *rec
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReceivableRepo) List(_ context.Context, status string, _, _ int) ([]model.AccountReceivable, int64, error) {
	var out []model.AccountReceivable
	for _, rec := range r.receivables {
		if status == "" || rec.Status == status {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReceivableRepo) Save(_ context.Context, rec *model.AccountReceivable) error {
	for i, existing := range r.receivables {
		if existing.ID == rec.ID {
			cloned := *rec
			r.receivables[i] = &cloned
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
