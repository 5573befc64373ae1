package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/analytics/internal/auth"
	"github.com/campushq/analytics/pkg/httputil"
	"github.com/campushq/analytics/pkg/schemas"
)

func (ec *Controller) CreateEvent(c *gin.Context) {
	var in schemas.EventIn
	if err := c.ShouldBindJSON(&in); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	res, appErr := ec.EventService.CreateEvent(c.Request.Context(), auth.GetUser(c).ID, &in)
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ec *Controller) ListEvents(c *gin.Context) {
	var q schemas.EventQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	res, appErr := ec.EventService.ListEvents(c.Request.Context(), auth.GetUser(c).ID, &q)
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ec *Controller) GetEvent(c *gin.Context) {
	res, appErr := ec.EventService.GetEvent(c.Request.Context(), auth.GetUser(c).ID, c.Param("eventID"))
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ec *Controller) DeleteEvent(c *gin.Context) {
	res, appErr := ec.EventService.DeleteEvent(c.Request.Context(), auth.GetUser(c).ID, c.Param("eventID"))
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}
