package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/analytics/internal/auth"
	"github.com/campushq/analytics/pkg/httputil"
	"github.com/campushq/analytics/pkg/schemas"
)

func (ac *Controller) Dashboard(c *gin.Context) {
	res, appErr := ac.AnalyticsService.Dashboard(c.Request.Context(), auth.GetUser(c).ID)
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ac *Controller) Query(c *gin.Context) {
	var q schemas.AnalyticsQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	res, appErr := ac.AnalyticsService.Query(c.Request.Context(), auth.GetUser(c).ID, &q)
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (ac *Controller) Export(c *gin.Context) {
	var q schemas.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	res, appErr := ac.AnalyticsService.Export(c.Request.Context(), auth.GetUser(c).ID, &q)
	if appErr != nil {
		httputil.NewError(c, appErr.Code, appErr.Error)
		return
	}

	c.JSON(http.StatusOK, res)
}
