// Package payload models the raw_payload column of staging records: an
// arbitrary JSON object mirroring one legacy row. Promoters never assume the
// shape of a payload; every field access goes through a typed accessor that
// reports presence explicitly.
package payload

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Map is a JSON object stored as JSONB in Postgres.
type Map map[string]interface{}

// Value implements driver.Valuer so GORM can write the map as JSONB.
func (m Map) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading JSONB back into a Map.
func (m *Map) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*m = Map{}
		return nil
	default:
		return fmt.Errorf("payload: cannot scan %T into Map", src)
	}
	return json.Unmarshal(data, m)
}

// GormDataType tells GORM which column type backs the Map.
func (Map) GormDataType() string { return "jsonb" }

// String returns the field as a trimmed string. Numeric values are formatted;
// missing, null and empty values report ok=false.
func (m Map) String(key string) (string, bool) {
	v, present := m[key]
	if !present || v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strings.TrimSpace(decimal.NewFromFloat(t).String())
	case json.Number:
		s = t.String()
	case bool:
		s = fmt.Sprintf("%t", t)
	default:
		s = strings.TrimSpace(fmt.Sprintf("%v", t))
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Decimal returns the field as a decimal. Legacy extractors normalize
// DECIMAL columns to JSON numbers, but string digits are accepted too.
func (m Map) Decimal(key string) (decimal.Decimal, bool) {
	v, present := m[key]
	if !present || v == nil {
		return decimal.Zero, false
	}
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	}
	return decimal.Zero, false
}

// Int returns the field truncated to an integer.
func (m Map) Int(key string) (int64, bool) {
	d, ok := m.Decimal(key)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

// Time parses the field as an ISO-8601 timestamp or date.
func (m Map) Time(key string) (time.Time, bool) {
	s, ok := m.String(key)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
