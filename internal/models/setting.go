package models

import (
	"encoding/json"
	"time"
)

// Setting stores a runtime-tunable configuration value as JSON.
type Setting struct {
	Key       string          `gorm:"primaryKey;type:varchar(64)"` // Setting key.
	Value     json.RawMessage `gorm:"type:text"`                   // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime"`     // Last update timestamp.
}
