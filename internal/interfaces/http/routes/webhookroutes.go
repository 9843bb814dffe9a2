package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers"
)

type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
}

// SetupWebhookRoutes configures provider callbacks. They carry their own
// signatures and run without session or event context.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	{
		webhooks.POST("/stripe", cfg.WebhookHandler.Stripe)
	}
}
