package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONField maps an arbitrary Go value onto a jsonb column. The zero value
// of T round-trips; use a *JSONField column and nil when absence matters.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) *JSONField[T] {
	return &JSONField[T]{Data: data}
}

func (f JSONField[T]) Value() (driver.Value, error) {
	return json.Marshal(f.Data)
}

func (f *JSONField[T]) Scan(value any) error {
	if value == nil {
		var zero T
		f.Data = zero
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return json.Unmarshal(raw, &f.Data)
}

// The wrapper is invisible on the wire: a JSONField marshals as its payload.
func (f JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Data)
}

func (f *JSONField[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &f.Data)
}
