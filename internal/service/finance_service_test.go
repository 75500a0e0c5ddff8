package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvanzela/nexcore-erp/internal/model"
)

func newFinanceFixture(t *testing.T) (*stubPayableRepo, *stubReceivableRepo, FinanceService) {
	t.Helper()
	payables := newStubPayableRepo()
	receivables := newStubReceivableRepo()
	require.NoError(t, payables.Create(context.Background(), &model.AccountPayable{
		SupplierID:   1,
		SourceEntity: model.SourcePurchase,
		SourceID:     "NFE-001",
		Amount:       decimal.RequireFromString("438.60"),
		DueDate:      time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC),
		Status:       model.ObligationOpen,
	}))
	require.NoError(t, receivables.Create(context.Background(), &model.AccountReceivable{
		CustomerID:   2,
		SourceEntity: "ORDER",
		SourceID:     "500",
		Amount:       decimal.RequireFromString("67.50"),
		DueDate:      time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
		Status:       model.ObligationOpen,
	}))
	return payables, receivables, NewFinanceService(payables, receivables)
}

func TestPayPayable(t *testing.T) {
	payables, _, svc := newFinanceFixture(t)

	resp, err := svc.PayPayable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ObligationPaid, resp.Status)
	require.NotNil(t, resp.PaidAt)

	stored, err := payables.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ObligationPaid, stored.Status)
}

// PAID is terminal: settling again is a conflict, never a silent success.
func TestPayPayableTwiceConflicts(t *testing.T) {
	_, _, svc := newFinanceFixture(t)

	_, err := svc.PayPayable(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.PayPayable(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestPayPayableNotFound(t *testing.T) {
	_, _, svc := newFinanceFixture(t)
	_, err := svc.PayPayable(context.Background(), 77)
	assert.ErrorIs(t, err, ErrObligationNotFound)
}

func TestSettleReceivable(t *testing.T) {
	_, receivables, svc := newFinanceFixture(t)

	resp, err := svc.SettleReceivable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ObligationPaid, resp.Status)

	stored, err := receivables.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ObligationPaid, stored.Status)

	_, err = svc.SettleReceivable(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestListPayablesByStatus(t *testing.T) {
	payables, _, svc := newFinanceFixture(t)
	require.NoError(t, payables.Create(context.Background(), &model.AccountPayable{
		SupplierID:   1,
		SourceEntity: model.SourcePurchase,
		SourceID:     "NFE-002",
		Amount:       decimal.NewFromInt(100),
		DueDate:      time.Now(),
		Status:       model.ObligationPaid,
	}))

	open, total, err := svc.ListPayables(context.Background(), model.ObligationOpen, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, open, 1)
	assert.Equal(t, "NFE-001", open[0].SourceID)

	all, _, err := svc.ListPayables(context.Background(), "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
