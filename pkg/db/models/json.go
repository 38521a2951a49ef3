package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue marshals v for storage in a json/jsonb column.
func jsonValue(v any) (driver.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// jsonScan unmarshals a json/jsonb column value into dest.
func jsonScan(src any, dest any) error {
	if src == nil {
		return nil
	}
	switch raw := src.(type) {
	case []byte:
		return json.Unmarshal(raw, dest)
	case string:
		return json.Unmarshal([]byte(raw), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
