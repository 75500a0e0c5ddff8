// Package staging lands extracted records in the universal inbox table.
// The writer is the idempotency boundary of the pipeline: re-extracting an
// unchanged source never duplicates rows, and re-extracting a changed one
// re-queues the record for promotion by resetting its status to NEW.
package staging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/repository"
)

// Writer upserts staging records in one batch transaction per run. A mid-run
// failure rolls back the entire batch; no partial staging writes survive.
type Writer struct {
	repo repository.StagingRepository
}

func NewWriter(repo repository.StagingRepository) *Writer {
	return &Writer{repo: repo}
}

// Write lands the batch. Every run is tagged with a batch id for tracing one
// ETL execution through the logs.
func (w *Writer) Write(ctx context.Context, records []model.StagingRecord) (int, error) {
	batchID := uuid.NewString()

	written, err := w.repo.UpsertBatch(ctx, records)
	if err != nil {
		log.Error().Str("batch_id", batchID).Err(err).Msg("staging batch rolled back")
		return 0, err
	}

	entity := ""
	if len(records) > 0 {
		entity = records[0].SourceEntity
	}
	log.Info().
		Str("batch_id", batchID).
		Str("source_entity", entity).
		Int("written", written).
		Msg("staging batch committed")
	return written, nil
}
