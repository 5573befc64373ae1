package httputil

import (
	"github.com/campushq/analytics/internal/logging"
	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewError(c *gin.Context, status int, err error) {
	logger := logging.FromContext(c.Request.Context()).Sugar()
	logger.Error(err)
	if status == 0 {
		status = 500
	}
	c.AbortWithStatusJSON(status, HTTPError{
		Code:    status,
		Message: err.Error(),
	})
}
