package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campushq/analytics/internal/database"
	"github.com/campushq/analytics/pkg/models"
	"github.com/campushq/analytics/pkg/schemas"
)

type EventServiceSuite struct {
	suite.Suite
	db  *gorm.DB
	srv *EventService
}

func (s *EventServiceSuite) SetupSuite() {
	s.db = database.NewTestDatabase(s.T())
	logger := zap.NewNop().Sugar()
	s.srv = NewEventService(s.db, NewProcessorService(s.db, logger), nil, nil, logger)
}

func (s *EventServiceSuite) SetupTest() {
	s.db.Where("id is not NULL").Delete(&models.Event{})
}

func (s *EventServiceSuite) entry(eventType string) *schemas.EventIn {
	return &schemas.EventIn{
		EventType: eventType,
		EventData: map[string]interface{}{"page": "/home"},
	}
}

func TestEventServiceSuite(t *testing.T) {
	suite.Run(t, new(EventServiceSuite))
}

func (s *EventServiceSuite) TestCreate() {
	res, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry("click"))
	s.Nil(appErr)
	s.True(res.Success)
	s.Equal("Event recorded successfully", res.Message)
	s.NotEmpty(res.EventID)

	found, appErr := s.srv.GetEvent(context.Background(), "user-1", res.EventID)
	s.Nil(appErr)
	s.Equal(res.EventID, found.Event.ID)
	s.Equal("click", found.Event.EventType)
	s.Equal("/home", found.Event.EventData["page"])
	s.False(found.Event.Processed)
}

func (s *EventServiceSuite) TestGet_OtherOwner() {
	res, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry("click"))
	s.Nil(appErr)

	_, appErr = s.srv.GetEvent(context.Background(), "user-2", res.EventID)
	s.NotNil(appErr)
	s.Equal(http.StatusNotFound, appErr.Code)
	s.ErrorIs(appErr.Error, database.ErrNotFound)
}

func (s *EventServiceSuite) TestList_Pagination() {
	for i := 0; i < 15; i++ {
		_, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry(fmt.Sprintf("type-%d", i%3)))
		s.Nil(appErr)
	}

	res, appErr := s.srv.ListEvents(context.Background(), "user-1", &schemas.EventQuery{})
	s.Nil(appErr)
	s.EqualValues(15, res.Total)
	s.Len(res.Events, 10)
	s.Equal(0, res.Skip)
	s.Equal(10, res.Limit)

	res, appErr = s.srv.ListEvents(context.Background(), "user-1", &schemas.EventQuery{Skip: 10})
	s.Nil(appErr)
	s.EqualValues(15, res.Total)
	s.Len(res.Events, 5)
}

func (s *EventServiceSuite) TestList_FilterByType() {
	for i := 0; i < 6; i++ {
		_, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry(fmt.Sprintf("type-%d", i%2)))
		s.Nil(appErr)
	}

	res, appErr := s.srv.ListEvents(context.Background(), "user-1", &schemas.EventQuery{EventType: "type-0"})
	s.Nil(appErr)
	s.EqualValues(3, res.Total)
	for _, event := range res.Events {
		s.Equal("type-0", event.EventType)
	}
}

func (s *EventServiceSuite) TestList_OwnerScoped() {
	_, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry("click"))
	s.Nil(appErr)
	_, appErr = s.srv.CreateEvent(context.Background(), "user-2", s.entry("click"))
	s.Nil(appErr)

	res, appErr := s.srv.ListEvents(context.Background(), "user-1", &schemas.EventQuery{})
	s.Nil(appErr)
	s.EqualValues(1, res.Total)
	s.Equal("user-1", res.Events[0].UserID)
}

func (s *EventServiceSuite) TestDelete() {
	res, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry("click"))
	s.Nil(appErr)

	msg, appErr := s.srv.DeleteEvent(context.Background(), "user-1", res.EventID)
	s.Nil(appErr)
	s.True(msg.Success)

	_, appErr = s.srv.DeleteEvent(context.Background(), "user-1", res.EventID)
	s.NotNil(appErr)
	s.Equal(http.StatusNotFound, appErr.Code)
}

func (s *EventServiceSuite) TestDelete_OtherOwner() {
	res, appErr := s.srv.CreateEvent(context.Background(), "user-1", s.entry("click"))
	s.Nil(appErr)

	_, appErr = s.srv.DeleteEvent(context.Background(), "user-2", res.EventID)
	s.NotNil(appErr)
	s.Equal(http.StatusNotFound, appErr.Code)

	found, appErr := s.srv.GetEvent(context.Background(), "user-1", res.EventID)
	s.Nil(appErr)
	s.Equal(res.EventID, found.Event.ID)
}
