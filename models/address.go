package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Address is a free-form postal address stored as JSONB
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// Value implements the driver.Valuer interface
func (a Address) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Address: unsupported type %T", value)
	}

	return json.Unmarshal(data, a)
}
