package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// InventoryService exposes computed stock views over the movement ledger and
// the manual adjust operation. It never stores a balance column.
type InventoryService interface {
	Balance(ctx context.Context, productID uint64) (*dto.StockBalanceResponse, error)
	Balances(ctx context.Context, page, limit int) ([]dto.StockBalanceResponse, error)
	Movements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, int64, error)
	Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
}

func NewInventoryService(products repository.ProductRepository, movements repository.MovementRepository) InventoryService {
	return &inventoryService{products: products, movements: movements}
}

func (s *inventoryService) Balance(ctx context.Context, productID uint64) (*dto.StockBalanceResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	balance, err := s.movements.Balance(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockBalanceResponse{ProductID: productID, Balance: balance}, nil
}

func (s *inventoryService) Balances(ctx context.Context, page, limit int) ([]dto.StockBalanceResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, err := s.movements.Balances(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockBalanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockBalanceResponse{ProductID: r.ProductID, Balance: r.Balance})
	}
	return out, nil
}

func (s *inventoryService) Movements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, int64, error) {
	rows, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.MovementResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.MovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			MovementType: m.MovementType,
			Quantity:     m.Quantity,
			OccurredAt:   m.OccurredAt,
			SourceEntity: m.SourceEntity,
			SourceID:     m.SourceID,
		})
	}
	return out, total, nil
}

// Adjust moves a product's computed balance to the requested absolute count
// by appending one ADJUST movement carrying the delta. Equal counts append
// nothing.
func (s *inventoryService) Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if req.Quantity.IsNegative() {
		return nil, errors.New("target quantity cannot be negative")
	}
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	current, err := s.movements.Balance(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	delta := req.Quantity.Sub(current)
	if delta.IsZero() {
		return &dto.AdjustStockResponse{
			ProductID: req.ProductID,
			Delta:     decimal.Zero,
			Balance:   current,
			Adjusted:  false,
		}, nil
	}

	mv := &model.InventoryMovement{
		ProductID:    req.ProductID,
		MovementType: model.MovementAdjust,
		Quantity:     delta,
		OccurredAt:   time.Now().UTC(),
		SourceEntity: model.SourceManualAdjust,
		SourceID:     "",
	}
	if err := s.movements.Create(ctx, mv); err != nil {
		return nil, err
	}

	log.Info().
		Uint64("product_id", req.ProductID).
		Str("delta", delta.String()).
		Str("balance", req.Quantity.String()).
		Msg("stock adjusted")
	return &dto.AdjustStockResponse{
		ProductID: req.ProductID,
		Delta:     delta,
		Balance:   req.Quantity,
		Adjusted:  true,
	}, nil
}
