package mapper

import (
	"github.com/campushq/analytics/pkg/models"
	"github.com/campushq/analytics/pkg/schemas"
)

func ToEventOut(event *models.Event) *schemas.EventOut {
	out := &schemas.EventOut{
		ID:              event.ID,
		EventType:       event.EventType,
		EventData:       event.EventData,
		UserID:          event.UserID,
		Timestamp:       event.Timestamp,
		Metadata:        event.Metadata,
		Processed:       event.Processed,
		ProcessingError: event.ProcessingError,
		ErrorTimestamp:  event.ErrorTimestamp,
	}
	if event.ProcessedData != nil {
		out.ProcessedData = &schemas.ProcessedDataOut{
			Category:     event.ProcessedData.Category,
			NumericValue: event.ProcessedData.NumericValue,
			ProcessedAt:  event.ProcessedData.ProcessedAt,
		}
	}
	return out
}

func ToRecentEvent(event *models.Event) schemas.RecentEvent {
	return schemas.RecentEvent{
		ID:        event.ID,
		EventType: event.EventType,
		Timestamp: event.Timestamp,
		EventData: event.EventData,
	}
}
