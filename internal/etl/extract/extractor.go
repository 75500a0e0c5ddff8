// Package extract mirrors legacy relational rows into staging record
// candidates. Extraction is faithful: no filtering, no business validation.
// Column values are normalized to JSON-representable primitives so the raw
// payload survives a JSONB round trip unchanged.
package extract

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gvanzela/nexcore-erp/internal/model"
	"github.com/gvanzela/nexcore-erp/internal/payload"
)

// Spec describes one extractable legacy entity: the query that mirrors it and
// the rule that derives a stable business key from a raw row.
type Spec struct {
	// SourceEntity is the logical record type in staging (not the legacy
	// table name).
	SourceEntity string
	Query        string
	// BuildPK derives the business key. Empty means the row has no usable
	// key and is skipped with a count, not staged.
	BuildPK func(row payload.Map) string
}

// Result summarizes one extraction pass for one entity.
type Result struct {
	SourceEntity string
	Extracted    int
	Skipped      int
}

// Extractor runs entity queries against the legacy source. The connection is
// read-only from this subsystem's perspective.
type Extractor struct {
	legacy       *sql.DB
	sourceSystem string
}

func New(legacy *sql.DB, sourceSystem string) *Extractor {
	return &Extractor{legacy: legacy, sourceSystem: sourceSystem}
}

// Run extracts every row the spec's query returns, fully in memory. Any
// query or scan error aborts the run; partial extractions never reach the
// staging writer.
func (e *Extractor) Run(ctx context.Context, spec Spec) ([]model.StagingRecord, Result, error) {
	res := Result{SourceEntity: spec.SourceEntity}
	if e.legacy == nil {
		return nil, res, fmt.Errorf("extract %s: legacy database not connected", spec.SourceEntity)
	}

	rows, err := e.legacy.QueryContext(ctx, spec.Query)
	if err != nil {
		return nil, res, fmt.Errorf("extract %s: query: %w", spec.SourceEntity, err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, res, fmt.Errorf("extract %s: column types: %w", spec.SourceEntity, err)
	}
	cols := make([]string, len(colTypes))
	for i, ct := range colTypes {
		cols[i] = ct.Name()
	}

	scanVals := make([]interface{}, len(cols))
	scanPtrs := make([]interface{}, len(cols))
	for i := range scanVals {
		scanPtrs[i] = &scanVals[i]
	}

	var records []model.StagingRecord
	for rows.Next() {
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, res, fmt.Errorf("extract %s: scan: %w", spec.SourceEntity, err)
		}
		raw := make(payload.Map, len(cols))
		for i, col := range cols {
			raw[col] = jsonSafe(scanVals[i], colTypes[i])
		}

		pk := spec.BuildPK(raw)
		if pk == "" {
			res.Skipped++
			continue
		}
		records = append(records, model.StagingRecord{
			SourceSystem: e.sourceSystem,
			SourceEntity: spec.SourceEntity,
			SourcePK:     pk,
			RawPayload:   raw,
		})
		res.Extracted++
	}
	if err := rows.Err(); err != nil {
		return nil, res, fmt.Errorf("extract %s: rows: %w", spec.SourceEntity, err)
	}

	log.Info().
		Str("source_system", e.sourceSystem).
		Str("source_entity", spec.SourceEntity).
		Int("extracted", res.Extracted).
		Int("skipped", res.Skipped).
		Msg("extraction finished")
	return records, res, nil
}

// jsonSafe converts a driver value to a JSON-representable primitive:
// timestamps become ISO-8601 strings, fixed-point decimals become floats, and
// raw bytes become strings.
func jsonSafe(v interface{}, ct *sql.ColumnType) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t.Format(time.RFC3339)
	case []byte:
		s := string(t)
		if isDecimalType(ct.DatabaseTypeName()) {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
		return s
	case int64, float64, bool, string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func isDecimalType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY", "FLOAT", "REAL":
		return true
	}
	return false
}
