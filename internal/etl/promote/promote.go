// Package promote moves validated staging records into the core domain
// tables. Each promoter processes one partition (source_system,
// source_entity, status=NEW) one row (or one header+items group) at a
// time, inside its own transaction. One row's failure never aborts the
// batch: the row is marked ERROR with a reason and the run continues.
package promote

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Report summarizes one promotion run. Skipped counts rows intentionally
// left NEW (e.g. enrichment targets that do not exist yet).
type Report struct {
	Entity   string `json:"entity"`
	Promoted int    `json:"promoted"`
	Failed   int    `json:"failed"`
	Skipped  int    `json:"skipped"`
}

func (r Report) log() {
	log.Info().
		Str("entity", r.Entity).
		Int("promoted", r.Promoted).
		Int("failed", r.Failed).
		Int("skipped", r.Skipped).
		Msg("promotion finished")
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// now is swapped in tests to pin promoted_at/occurred_at timestamps.
var now = func() time.Time { return time.Now().UTC() }
