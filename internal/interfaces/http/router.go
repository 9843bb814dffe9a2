package http

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketry/internal/interfaces/http/routes"
)

// SetupRoutes registers the middleware chain and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(
		middleware.Recovery(c.log),
		middleware.SpanName(),
		middleware.Logger(c.log),
		middleware.SecurityHeaders(),
		middleware.CORS(c.cfg.Server.AllowedOrigins),
		middleware.Metrics(c.metrics),
	)

	c.engine.GET("/health", c.healthHandler.Health)
	c.engine.GET("/version", c.healthHandler.Version)
	if c.cfg.Metrics.Enabled && c.cfg.Metrics.Path != "" {
		c.engine.GET(c.cfg.Metrics.Path, gin.WrapH(c.metrics.Handler()))
	}

	routes.SetupWebhookRoutes(c.engine, &routes.WebhookRouteConfig{
		WebhookHandler: c.webhookHandler,
	})

	routes.SetupControlRoutes(c.engine, &routes.ControlRouteConfig{
		CatalogHandler: c.catalogHandler,
		PaymentHandler: c.paymentHandler,
		Auth:           c.controlAuth,
		Event:          middleware.ControlEvent(c.resolver),
	})

	routes.SetupPresaleRoutes(c.engine, &routes.PresaleRouteConfig{
		CheckoutHandler: c.checkoutHandler,
		OrderHandler:    c.orderHandler,
		Presale: middleware.Presale(c.resolver, c.sessions, middleware.SessionCookie{
			Name:   c.cfg.Checkout.SessionCookie,
			TTL:    c.cfg.Checkout.SessionTTL(),
			Secure: middleware.IsSecureURL(c.cfg.Server.BaseURL),
		}, c.log),
		RateLimiter: c.rateLimiter,
	})

	c.log.Infow("routes registered", "routes", len(c.engine.Routes()))
}
