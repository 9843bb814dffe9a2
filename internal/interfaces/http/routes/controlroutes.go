package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers/control"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
)

// ControlRouteConfig holds dependencies for the organizer API.
type ControlRouteConfig struct {
	CatalogHandler *control.CatalogHandler
	PaymentHandler *control.PaymentHandler
	Auth           *middleware.ControlAuth
	Event          gin.HandlerFunc
}

// SetupControlRoutes configures the organizer API of one event.
func SetupControlRoutes(engine *gin.Engine, cfg *ControlRouteConfig) {
	event := engine.Group("/control/event/:organizer/:event")
	event.Use(cfg.Auth.RequireToken(), cfg.Event)

	categories := event.Group("/categories")
	{
		categories.GET("", cfg.CatalogHandler.ListCategories)
		categories.POST("", cfg.CatalogHandler.CreateCategory)
		categories.PUT("/:id", cfg.CatalogHandler.UpdateCategory)
		categories.DELETE("/:id", cfg.CatalogHandler.DeleteCategory)
		categories.POST("/:id/move", cfg.CatalogHandler.MoveCategory)
	}

	items := event.Group("/items")
	{
		items.GET("", cfg.CatalogHandler.ListItems)
		items.POST("", cfg.CatalogHandler.CreateItem)
		items.GET("/:id", cfg.CatalogHandler.GetItem)
		items.PUT("/:id", cfg.CatalogHandler.UpdateItem)
		items.DELETE("/:id", cfg.CatalogHandler.DeleteItem)
		items.POST("/:id/move", cfg.CatalogHandler.MoveItem)
	}

	questions := event.Group("/questions")
	{
		questions.GET("", cfg.CatalogHandler.ListQuestions)
		questions.POST("", cfg.CatalogHandler.CreateQuestion)
		questions.PUT("/:id", cfg.CatalogHandler.UpdateQuestion)
		questions.DELETE("/:id", cfg.CatalogHandler.DeleteQuestion)
		questions.POST("/:id/move", cfg.CatalogHandler.MoveQuestion)
		questions.GET("/:id/stats", cfg.CatalogHandler.QuestionStats)
	}

	quotas := event.Group("/quotas")
	{
		quotas.GET("", cfg.CatalogHandler.ListQuotas)
		quotas.POST("", cfg.CatalogHandler.CreateQuota)
		quotas.PUT("/:id", cfg.CatalogHandler.UpdateQuota)
		quotas.DELETE("/:id", cfg.CatalogHandler.DeleteQuota)
		quotas.GET("/:id/availability", cfg.CatalogHandler.QuotaAvailability)
	}

	providers := event.Group("/payment-providers")
	{
		providers.GET("", cfg.PaymentHandler.ListProviders)
		providers.PUT("/:identifier", cfg.PaymentHandler.UpdateProvider)
	}

	event.GET("/orders/:code", cfg.PaymentHandler.GetOrder)
}
