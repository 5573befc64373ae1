package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campushq/analytics/internal/database"
	"github.com/campushq/analytics/internal/queue"
	"github.com/campushq/analytics/internal/worker"
	"github.com/campushq/analytics/pkg/mapper"
	"github.com/campushq/analytics/pkg/models"
	"github.com/campushq/analytics/pkg/schemas"
	"github.com/campushq/analytics/pkg/types"
)

const defaultListLimit = 10

type EventService struct {
	db        *gorm.DB
	processor *ProcessorService
	pool      *worker.Pool
	notifier  *queue.Notifier
	logger    *zap.SugaredLogger
}

func NewEventService(db *gorm.DB, processor *ProcessorService, pool *worker.Pool,
	notifier *queue.Notifier, logger *zap.SugaredLogger) *EventService {
	return &EventService{
		db:        db,
		processor: processor,
		pool:      pool,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateEvent persists the event and schedules enrichment. The caller never
// waits on processing; the queue notification is best effort.
func (es *EventService) CreateEvent(ctx context.Context, userID string, in *schemas.EventIn) (*schemas.EventCreateResponse, *types.AppError) {
	event := models.Event{
		ID:        uuid.NewString(),
		EventType: in.EventType,
		EventData: datatypes.JSONMap(in.EventData),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  datatypes.JSONMap(in.Metadata),
		Processed: false,
	}

	if err := es.db.WithContext(ctx).Create(&event).Error; err != nil {
		if database.IsKeyConflictErr(err) {
			return nil, &types.AppError{Error: database.ErrKeyConflict, Code: http.StatusConflict}
		}
		return nil, &types.AppError{Error: fmt.Errorf("failed to record event: %w", err), Code: http.StatusInternalServerError}
	}

	eventID := event.ID
	if es.pool != nil {
		es.pool.Submit(func() {
			es.processor.ProcessEvent(context.Background(), eventID)
		})
	}

	es.notifier.Notify(ctx, queue.Notification{
		EventID:   event.ID,
		EventType: event.EventType,
		UserID:    event.UserID,
		Timestamp: event.Timestamp,
	})

	return &schemas.EventCreateResponse{
		Success: true,
		Message: "Event recorded successfully",
		EventID: event.ID,
	}, nil
}

func (es *EventService) ListEvents(ctx context.Context, userID string, q *schemas.EventQuery) (*schemas.EventListResponse, *types.AppError) {
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := es.db.WithContext(ctx).Model(&models.Event{}).Where("user_id = ?", userID)
	if q.EventType != "" {
		query = query.Where("event_type = ?", q.EventType)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, &types.AppError{Error: fmt.Errorf("failed to fetch events: %w", err), Code: http.StatusInternalServerError}
	}

	var events []models.Event
	if err := query.Order("timestamp DESC").Offset(skip).Limit(limit).Find(&events).Error; err != nil {
		return nil, &types.AppError{Error: fmt.Errorf("failed to fetch events: %w", err), Code: http.StatusInternalServerError}
	}

	out := make([]schemas.EventOut, 0, len(events))
	for i := range events {
		out = append(out, *mapper.ToEventOut(&events[i]))
	}

	return &schemas.EventListResponse{
		Success: true,
		Events:  out,
		Total:   total,
		Skip:    skip,
		Limit:   limit,
	}, nil
}

// GetEvent is owner-scoped: an id owned by someone else is indistinguishable
// from a missing one.
func (es *EventService) GetEvent(ctx context.Context, userID, eventID string) (*schemas.EventResponse, *types.AppError) {
	var event models.Event
	err := es.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", eventID, userID).
		First(&event).Error
	if err != nil {
		if database.IsRecordNotFoundErr(err) {
			return nil, &types.AppError{Error: database.ErrNotFound, Code: http.StatusNotFound}
		}
		return nil, &types.AppError{Error: fmt.Errorf("failed to fetch event: %w", err), Code: http.StatusInternalServerError}
	}

	return &schemas.EventResponse{
		Success: true,
		Event:   *mapper.ToEventOut(&event),
	}, nil
}

func (es *EventService) DeleteEvent(ctx context.Context, userID, eventID string) (*schemas.MessageResponse, *types.AppError) {
	res := es.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", eventID, userID).
		Delete(&models.Event{})
	if res.Error != nil {
		return nil, &types.AppError{Error: fmt.Errorf("failed to delete event: %w", res.Error), Code: http.StatusInternalServerError}
	}
	if res.RowsAffected == 0 {
		return nil, &types.AppError{Error: database.ErrNotFound, Code: http.StatusNotFound}
	}

	return &schemas.MessageResponse{
		Success: true,
		Message: "Event deleted successfully",
	}, nil
}
