package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campushq/analytics/internal/auth"
	"github.com/campushq/analytics/internal/logging"
	"github.com/campushq/analytics/pkg/controller"
)

func InitRouter(logger *zap.Logger, c *controller.Controller) *gin.Engine {

	r := gin.New()

	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))
		c.Next()
	})

	r.Use(ginzap.Ginzap(logger, time.RFC3339, true))

	r.Use(ginzap.RecoveryWithZap(logger, true))

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", auth.HeaderUserID, auth.HeaderUserRole, auth.HeaderUserName, auth.HeaderUserEmail},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(auth.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "campus-analytics",
		})
	})

	api := r.Group("/api")
	{
		data := api.Group("/data", auth.Required)
		{
			data.POST("/events", c.CreateEvent)
			data.GET("/events", c.ListEvents)
			data.GET("/events/:eventID", c.GetEvent)
			data.DELETE("/events/:eventID", c.DeleteEvent)
		}
		analytics := api.Group("/analytics", auth.Required)
		{
			analytics.GET("/dashboard", c.Dashboard)
			analytics.POST("/query", c.Query)
			analytics.GET("/export", c.Export)
		}
	}

	return r
}
