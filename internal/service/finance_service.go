package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

var (
	ErrObligationNotFound = errors.New("obligation not found")
	// ErrAlreadyPaid means the OPEN to PAID transition already happened.
	ErrAlreadyPaid = errors.New("obligation already paid")
)

// FinanceService lists and settles accounts payable and receivable. Paid is
// terminal: settling twice is a conflict, never a silent no-op.
type FinanceService interface {
	ListPayables(ctx context.Context, status string, page, limit int) ([]dto.PayableResponse, int64, error)
	PayPayable(ctx context.Context, id uint64) (*dto.PayableResponse, error)
	ListReceivables(ctx context.Context, status string, page, limit int) ([]dto.ReceivableResponse, int64, error)
	SettleReceivable(ctx context.Context, id uint64) (*dto.ReceivableResponse, error)
}

type financeService struct {
	payables    repository.PayableRepository
	receivables repository.ReceivableRepository
}

func NewFinanceService(payables repository.PayableRepository, receivables repository.ReceivableRepository) FinanceService {
	return &financeService{payables: payables, receivables: receivables}
}

func (s *financeService) ListPayables(ctx context.Context, status string, page, limit int) ([]dto.PayableResponse, int64, error) {
	rows, total, err := s.payables.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PayableResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, payableResponse(&p))
	}
	return out, total, nil
}

func (s *financeService) PayPayable(ctx context.Context, id uint64) (*dto.PayableResponse, error) {
	p, err := s.payables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObligationNotFound
		}
		return nil, err
	}
	if p.Status == model.ObligationPaid {
		return nil, ErrAlreadyPaid
	}
	now := time.Now().UTC()
	p.Status = model.ObligationPaid
	p.PaidAt = &now
	if err := s.payables.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Uint64("payable_id", id).Msg("payable settled")
	resp := payableResponse(p)
	return &resp, nil
}

func (s *financeService) ListReceivables(ctx context.Context, status string, page, limit int) ([]dto.ReceivableResponse, int64, error) {
	rows, total, err := s.receivables.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ReceivableResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, receivableResponse(&r))
	}
	return out, total, nil
}

func (s *financeService) SettleReceivable(ctx context.Context, id uint64) (*dto.ReceivableResponse, error) {
	r, err := s.receivables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrObligationNotFound
		}
		return nil, err
	}
	if r.Status == model.ObligationPaid {
		return nil, ErrAlreadyPaid
	}
	now := time.Now().UTC()
	r.Status = model.ObligationPaid
	r.PaidAt = &now
	if err := s.receivables.Save(ctx, r); err != nil {
		return nil, err
	}
	log.Info().Uint64("receivable_id", id).Msg("receivable settled")
	resp := receivableResponse(r)
	return &resp, nil
}

func payableResponse(p *model.AccountPayable) dto.PayableResponse {
	return dto.PayableResponse{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		SourceEntity: p.SourceEntity,
		SourceID:     p.SourceID,
		Amount:       p.Amount,
		DueDate:      p.DueDate,
		Status:       p.Status,
		PaidAt:       p.PaidAt,
	}
}

func receivableResponse(r *model.AccountReceivable) dto.ReceivableResponse {
	return dto.ReceivableResponse{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		SourceEntity: r.SourceEntity,
		SourceID:     r.SourceID,
		Amount:       r.Amount,
		DueDate:      r.DueDate,
		Status:       r.Status,
		PaidAt:       r.PaidAt,
	}
}
