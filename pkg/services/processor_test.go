package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campushq/analytics/internal/database"
	"github.com/campushq/analytics/pkg/models"
)

type ProcessorSuite struct {
	suite.Suite
	db  *gorm.DB
	srv *ProcessorService
}

func (s *ProcessorSuite) SetupSuite() {
	s.db = database.NewTestDatabase(s.T())
	s.srv = NewProcessorService(s.db, zap.NewNop().Sugar())
}

func (s *ProcessorSuite) SetupTest() {
	s.db.Where("id is not NULL").Delete(&models.Event{})
}

func (s *ProcessorSuite) seed(eventType string, data map[string]interface{}, ts time.Time) string {
	event := models.Event{
		ID:        uuid.NewString(),
		EventType: eventType,
		EventData: datatypes.JSONMap(data),
		UserID:    "user-1",
		Timestamp: ts,
	}
	s.Require().NoError(s.db.Create(&event).Error)
	return event.ID
}

func (s *ProcessorSuite) reload(id string) *models.Event {
	var event models.Event
	s.Require().NoError(s.db.Where("id = ?", id).First(&event).Error)
	return &event
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorSuite))
}

func (s *ProcessorSuite) TestProcess_UserAction() {
	id := s.seed("user_action", map[string]interface{}{"value": "42"}, time.Now().UTC())

	s.srv.ProcessEvent(context.Background(), id)

	event := s.reload(id)
	s.True(event.Processed)
	s.Require().NotNil(event.ProcessedData)
	s.Equal(CategoryUserBehavior, event.ProcessedData.Category)
	s.Require().NotNil(event.ProcessedData.NumericValue)
	s.Equal(42.0, *event.ProcessedData.NumericValue)
	s.False(event.ProcessedData.ProcessedAt.IsZero())
}

func (s *ProcessorSuite) TestProcess_SystemEvent() {
	id := s.seed("system_event", map[string]interface{}{"value": 1.5}, time.Now().UTC())

	s.srv.ProcessEvent(context.Background(), id)

	event := s.reload(id)
	s.Equal(CategorySystemMonitoring, event.ProcessedData.Category)
	s.Equal(1.5, *event.ProcessedData.NumericValue)
}

func (s *ProcessorSuite) TestProcess_DefaultCategory() {
	id := s.seed("click", map[string]interface{}{}, time.Now().UTC())

	s.srv.ProcessEvent(context.Background(), id)

	event := s.reload(id)
	s.True(event.Processed)
	s.Equal(CategoryGeneral, event.ProcessedData.Category)
	s.Nil(event.ProcessedData.NumericValue)
}

func (s *ProcessorSuite) TestProcess_UnparseableValue() {
	id := s.seed("click", map[string]interface{}{"value": "not a number"}, time.Now().UTC())

	s.srv.ProcessEvent(context.Background(), id)

	event := s.reload(id)
	s.True(event.Processed)
	s.Nil(event.ProcessedData.NumericValue)
}

func (s *ProcessorSuite) TestProcess_Idempotent() {
	id := s.seed("user_action", map[string]interface{}{"value": 7}, time.Now().UTC())

	s.srv.ProcessEvent(context.Background(), id)
	first := s.reload(id)

	s.srv.ProcessEvent(context.Background(), id)
	second := s.reload(id)

	s.True(second.Processed)
	s.Equal(first.ProcessedData.Category, second.ProcessedData.Category)
	s.Equal(*first.ProcessedData.NumericValue, *second.ProcessedData.NumericValue)
}

func (s *ProcessorSuite) TestProcess_MissingEvent() {
	s.srv.ProcessEvent(context.Background(), uuid.NewString())

	var count int64
	s.Require().NoError(s.db.Model(&models.Event{}).Count(&count).Error)
	s.EqualValues(0, count)
}

func (s *ProcessorSuite) TestProcessPending() {
	ids := []string{
		s.seed("user_action", map[string]interface{}{"value": 1}, time.Now().UTC()),
		s.seed("system_event", nil, time.Now().UTC()),
		s.seed("click", nil, time.Now().UTC()),
	}

	s.Require().NoError(s.srv.ProcessPending(context.Background()))

	for _, id := range ids {
		s.True(s.reload(id).Processed)
	}

	var pending int64
	s.Require().NoError(s.db.Model(&models.Event{}).Where("processed = ?", false).Count(&pending).Error)
	s.EqualValues(0, pending)
}

func (s *ProcessorSuite) TestCleanup() {
	recent := s.seed("click", nil, time.Now().UTC().AddDate(0, 0, -10))
	s.seed("click", nil, time.Now().UTC().AddDate(0, 0, -40))

	deleted, err := s.srv.CleanupOldEvents(context.Background(), 30)
	s.NoError(err)
	s.EqualValues(1, deleted)

	var count int64
	s.Require().NoError(s.db.Model(&models.Event{}).Count(&count).Error)
	s.EqualValues(1, count)
	s.NotNil(s.reload(recent))
}

func (s *ProcessorSuite) TestCleanup_DefaultRetention() {
	s.seed("click", nil, time.Now().UTC().AddDate(0, 0, -40))

	deleted, err := s.srv.CleanupOldEvents(context.Background(), 0)
	s.NoError(err)
	s.EqualValues(1, deleted)
}
