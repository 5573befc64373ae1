package schemas

import "time"

type EventIn struct {
	EventType string                 `json:"event_type" binding:"required"`
	EventData map[string]interface{} `json:"event_data" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type EventQuery struct {
	Skip      int    `form:"skip"`
	Limit     int    `form:"limit"`
	EventType string `form:"event_type"`
}

type EventOut struct {
	ID              string                 `json:"id"`
	EventType       string                 `json:"event_type"`
	EventData       map[string]interface{} `json:"event_data"`
	UserID          string                 `json:"user_id"`
	Timestamp       time.Time              `json:"timestamp"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Processed       bool                   `json:"processed"`
	ProcessedData   *ProcessedDataOut      `json:"processed_data,omitempty"`
	ProcessingError *string                `json:"processing_error,omitempty"`
	ErrorTimestamp  *time.Time             `json:"error_timestamp,omitempty"`
}

type ProcessedDataOut struct {
	Category     string    `json:"category"`
	NumericValue *float64  `json:"numeric_value,omitempty"`
	ProcessedAt  time.Time `json:"processed_at"`
}

type EventCreateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EventID string `json:"event_id"`
}

type EventListResponse struct {
	Success bool       `json:"success"`
	Events  []EventOut `json:"events"`
	Total   int64      `json:"total"`
	Skip    int        `json:"skip"`
	Limit   int        `json:"limit"`
}

type EventResponse struct {
	Success bool     `json:"success"`
	Event   EventOut `json:"event"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
