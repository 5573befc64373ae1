package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Event struct {
	ID              string            `gorm:"type:uuid;primaryKey"`
	EventType       string            `gorm:"type:text;not null;index"`
	EventData       datatypes.JSONMap `gorm:"type:jsonb"`
	UserID          string            `gorm:"type:text;not null;index"`
	Timestamp       time.Time         `gorm:"not null;index"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb"`
	Processed       bool              `gorm:"default:false;index"`
	ProcessedData   *ProcessedData    `gorm:"type:jsonb"`
	ProcessingError *string           `gorm:"type:text"`
	ErrorTimestamp  *time.Time
}

// ProcessedData is the enrichment result attached by the background
// processor.
type ProcessedData struct {
	Category     string    `json:"category"`
	NumericValue *float64  `json:"numeric_value,omitempty"`
	ProcessedAt  time.Time `json:"processed_at"`
}

func (p ProcessedData) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ProcessedData) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported processed_data type %T", value)
	}
}
