package model

import (
	"fmt"
	"time"

	"github.com/gvanzela/nexcore-erp/internal/payload"
)

// StagingStatus is the closed lifecycle of a staging record.
type StagingStatus string

const (
	StagingNew      StagingStatus = "NEW"
	StagingPromoted StagingStatus = "PROMOTED"
	StagingError    StagingStatus = "ERROR"
)

// CanTransition reports whether moving to next is a legal lifecycle step.
// The only permitted transitions are NEW→PROMOTED and NEW→ERROR; reloading a
// record resets it to NEW through the staging writer's upsert, never through
// a promoter.
func (s StagingStatus) CanTransition(next StagingStatus) bool {
	return s == StagingNew && (next == StagingPromoted || next == StagingError)
}

// StagingRecord is the universal inbox row. It is an ingestion buffer, not a
// domain model: each row holds ONE external record in its original shape,
// isolated from the core tables it may eventually be promoted into.
type StagingRecord struct {
	ID uint64 `gorm:"primaryKey"`

	// Where the data came from.
	SourceSystem string `gorm:"size:50;not null;uniqueIndex:uq_staging_records_source,priority:1"`
	SourceEntity string `gorm:"size:50;not null;uniqueIndex:uq_staging_records_source,priority:2"`
	SourcePK     string `gorm:"column:source_pk;size:100;not null;uniqueIndex:uq_staging_records_source,priority:3"`

	// The full original record, unmodified.
	RawPayload payload.Map `gorm:"type:jsonb;not null"`

	Status      StagingStatus `gorm:"size:20;not null;default:'NEW';index"`
	LoadedAt    time.Time     `gorm:"not null;index"`
	PromotedAt  *time.Time
	ErrorReason *string `gorm:"type:text"`
}

func (StagingRecord) TableName() string { return "staging_records" }

// MarkPromoted applies the NEW→PROMOTED transition.
func (r *StagingRecord) MarkPromoted(now time.Time) error {
	if !r.Status.CanTransition(StagingPromoted) {
		return fmt.Errorf("staging record %d: illegal transition %s→PROMOTED", r.ID, r.Status)
	}
	r.Status = StagingPromoted
	r.PromotedAt = &now
	r.ErrorReason = nil
	return nil
}

// MarkError applies the NEW→ERROR transition with a human-readable reason.
func (r *StagingRecord) MarkError(reason string) error {
	if !r.Status.CanTransition(StagingError) {
		return fmt.Errorf("staging record %d: illegal transition %s→ERROR", r.ID, r.Status)
	}
	r.Status = StagingError
	r.ErrorReason = &reason
	return nil
}
