package controller

import (
	"github.com/campushq/analytics/pkg/services"
)

type Controller struct {
	EventService     *services.EventService
	AnalyticsService *services.AnalyticsService
}

func NewController(eventService *services.EventService, analyticsService *services.AnalyticsService) *Controller {
	return &Controller{
		EventService:     eventService,
		AnalyticsService: analyticsService,
	}
}
