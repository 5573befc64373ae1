package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campushq/analytics/internal/database"
	"github.com/campushq/analytics/pkg/models"
)

const (
	CategoryUserBehavior     = "user_behavior"
	CategorySystemMonitoring = "system_monitoring"
	CategoryGeneral          = "general"
)

const (
	processBatchSize     = 100
	defaultRetentionDays = 30
)

// ProcessorService enriches stored events after the write path has already
// returned. Processing is idempotent; failures are recorded on the event and
// retried by the periodic sweep.
type ProcessorService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewProcessorService(db *gorm.DB, logger *zap.SugaredLogger) *ProcessorService {
	return &ProcessorService{db: db, logger: logger}
}

func (p *ProcessorService) ProcessEvent(ctx context.Context, eventID string) {
	if err := p.process(ctx, eventID); err != nil {
		p.logger.Errorw("processor.failed", "event_id", eventID, "err", err)
		p.recordFailure(ctx, eventID, err)
	}
}

func (p *ProcessorService) process(ctx context.Context, eventID string) error {
	var event models.Event
	err := p.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if database.IsRecordNotFoundErr(err) {
		p.logger.Infow("processor.event_not_found", "event_id", eventID)
		return nil
	}
	if err != nil {
		return err
	}

	processed := models.ProcessedData{
		Category:    categorize(event.EventType),
		ProcessedAt: time.Now().UTC(),
	}
	if value, ok := numericValue(event.EventData); ok {
		processed.NumericValue = &value
	}

	return p.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"processed":      true,
			"processed_data": processed,
		}).Error
}

// recordFailure is best effort: if the error status itself cannot be stored
// the failure is logged and dropped, never surfaced to any caller.
func (p *ProcessorService) recordFailure(ctx context.Context, eventID string, cause error) {
	err := p.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"processed":        false,
			"processing_error": cause.Error(),
			"error_timestamp":  time.Now().UTC(),
		}).Error
	if err != nil {
		p.logger.Errorw("processor.failed_to_record_error", "event_id", eventID, "err", err)
	}
}

// ProcessPending sweeps unprocessed events in a bounded batch. Per-item
// failures are already contained by ProcessEvent, so one bad event never
// aborts the rest of the batch.
func (p *ProcessorService) ProcessPending(ctx context.Context) error {
	var ids []string
	err := p.db.WithContext(ctx).Model(&models.Event{}).
		Where("processed = ?", false).
		Limit(processBatchSize).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}

	for _, id := range ids {
		p.ProcessEvent(ctx, id)
	}

	if len(ids) > 0 {
		p.logger.Infow("processor.batch_swept", "count", len(ids))
	}
	return nil
}

// CleanupOldEvents deletes events older than the retention threshold. Not
// owner-scoped; the deletion is irreversible.
func (p *ProcessorService) CleanupOldEvents(ctx context.Context, daysToKeep int) (int64, error) {
	if daysToKeep <= 0 {
		daysToKeep = defaultRetentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)

	res := p.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.Event{})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		p.logger.Infow("processor.cleaned_up", "count", res.RowsAffected, "days_kept", daysToKeep)
	}
	return res.RowsAffected, nil
}

func categorize(eventType string) string {
	switch eventType {
	case "user_action":
		return CategoryUserBehavior
	case "system_event":
		return CategorySystemMonitoring
	default:
		return CategoryGeneral
	}
}

// numericValue coerces event_data.value to a float. A missing or unparseable
// value is not an error; the derived field is simply omitted.
func numericValue(data map[string]interface{}) (float64, bool) {
	raw, ok := data["value"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
