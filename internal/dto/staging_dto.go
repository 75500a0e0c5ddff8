package dto

import (
	"time"

	"github.com/gvanzela/nexcore-erp/internal/payload"
)

type StagingRecordResponse struct {
	ID           uint64      `json:"id"`
	SourceSystem string      `json:"source_system"`
	SourceEntity string      `json:"source_entity"`
	SourcePK     string      `json:"source_pk"`
	RawPayload   payload.Map `json:"raw_payload"`
	Status       string      `json:"status"`
	LoadedAt     time.Time   `json:"loaded_at"`
	PromotedAt   *time.Time  `json:"promoted_at,omitempty"`
	ErrorReason  *string     `json:"error_reason,omitempty"`
}

type StagingListResponse struct {
	Records []StagingRecordResponse `json:"records"`
	Total   int64                   `json:"total"`
}

// StagingCountsResponse is the monitoring rollup per entity and status.
type StagingCountsResponse struct {
	Entity string           `json:"entity,omitempty"`
	Counts map[string]int64 `json:"counts"`
}
