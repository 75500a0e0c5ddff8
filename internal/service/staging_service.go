package service

import (
	"context"

	"github.com/gvanzela/nexcore-erp/internal/dto"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// StagingService is the operator view over the staging area: browse records
// in any status and read per-entity counts for remediation.
type StagingService interface {
	List(ctx context.Context, filter repository.StagingFilter) (*dto.StagingListResponse, error)
	Counts(ctx context.Context, system, entity string) (*dto.StagingCountsResponse, error)
}

type stagingService struct {
	staging repository.StagingRepository
}

func NewStagingService(staging repository.StagingRepository) StagingService {
	return &stagingService{staging: staging}
}

func (s *stagingService) List(ctx context.Context, filter repository.StagingFilter) (*dto.StagingListResponse, error) {
	rows, total, err := s.staging.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.StagingListResponse{Records: make([]dto.StagingRecordResponse, 0, len(rows)), Total: total}
	for _, r := range rows {
		resp.Records = append(resp.Records, dto.StagingRecordResponse{
			ID:           r.ID,
			SourceSystem: r.SourceSystem,
			SourceEntity: r.SourceEntity,
			SourcePK:     r.SourcePK,
			RawPayload:   r.RawPayload,
			Status:       string(r.Status),
			LoadedAt:     r.LoadedAt,
			PromotedAt:   r.PromotedAt,
			ErrorReason:  r.ErrorReason,
		})
	}
	return resp, nil
}

func (s *stagingService) Counts(ctx context.Context, system, entity string) (*dto.StagingCountsResponse, error) {
	counts, err := s.staging.CountByStatus(ctx, system, entity)
	if err != nil {
		return nil, err
	}
	resp := &dto.StagingCountsResponse{Entity: entity, Counts: make(map[string]int64, len(counts))}
	for status, n := range counts {
		resp.Counts[string(status)] = n
	}
	return resp, nil
}
