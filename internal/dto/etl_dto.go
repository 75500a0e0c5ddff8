package dto

import "time"

// ETLJobRequest enqueues an extract or promote run for one staging entity.
type ETLJobRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=extract promote"`
	Entity string `json:"entity" binding:"required"`
}

type ETLJobResponse struct {
	Kind       string    `json:"kind"`
	Entity     string    `json:"entity"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type DeadJobResponse struct {
	Kind     string    `json:"kind"`
	Entity   string    `json:"entity"`
	FailedAt time.Time `json:"failed_at"`
	Reason   string    `json:"reason"`
}
