package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"usertable/internal/adapter/gin/handler"
	"usertable/internal/adapter/gin/middleware"
	"usertable/pkg/logger"
)

func newEngine(rateLimiter *middleware.RateLimiter, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(rateLimiter.Handler())

	return router
}

func health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": service,
		})
	}
}

// SetupConsoleRouter configures the user table console.
func SetupConsoleRouter(
	consoleHandler *handler.ConsoleHandler,
	tmpl *template.Template,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	router := newEngine(rateLimiter, log)
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", health("usertable-console"))

	router.GET("/", consoleHandler.Index)
	router.POST("/search", consoleHandler.Search)
	router.POST("/sort", consoleHandler.Sort)
	router.POST("/page", consoleHandler.ChangePage)
	router.POST("/users/:id/edit", consoleHandler.SelectRow)

	edit := router.Group("/edit")
	{
		edit.POST("/submit", consoleHandler.SubmitEdit)
		edit.POST("/cancel", consoleHandler.CancelEdit)
		edit.POST("/delete", consoleHandler.RequestDelete)
		edit.POST("/delete/confirm", consoleHandler.ConfirmDelete)
		edit.POST("/delete/dismiss", consoleHandler.DismissDelete)
	}

	api := router.Group("/api")
	{
		api.GET("/state", consoleHandler.State)
		api.GET("/notifications", consoleHandler.Notifications)
	}

	return router
}

// SetupStubRouter configures the local users API.
func SetupStubRouter(
	stubHandler *handler.StubHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	router := newEngine(rateLimiter, log)

	router.GET("/health", health("usertable-stubapi"))

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.GET("", stubHandler.ListUsers)
			users.GET("/:id", stubHandler.GetUser)
			users.DELETE("/:id", stubHandler.DeleteUser)
		}
	}

	return router
}
