package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// Params is a free-form key/value map of model parameters, stored as a
// serialized JSON object in a TEXT column.
type Params map[string]any

// Value implements driver.Valuer for database storage.
func (p Params) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval.
func (p *Params) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported type for Params: %T", value)
	}

	if len(data) == 0 {
		*p = nil
		return nil
	}
	return json.Unmarshal(data, p)
}

// Float returns the float64 value for key if present and numeric.
// JSON numbers decode as float64, but callers may also have stored ints.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Int returns the integer value for key if present and numeric.
func (p Params) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}
