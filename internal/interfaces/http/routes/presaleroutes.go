package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
)

// PresaleRouteConfig holds dependencies for the attendee facing routes.
type PresaleRouteConfig struct {
	CheckoutHandler *handlers.CheckoutHandler
	OrderHandler    *handlers.OrderHandler
	Presale         gin.HandlerFunc
	RateLimiter     *middleware.RateLimiter
}

// SetupPresaleRoutes configures the shop of one event. Order links are
// built by payment.OrderURL and must stay in sync with the order group.
func SetupPresaleRoutes(engine *gin.Engine, cfg *PresaleRouteConfig) {
	shop := engine.Group("/:organizer/:event")
	shop.Use(cfg.Presale)
	{
		shop.GET("/cart", cfg.CheckoutHandler.GetCart)
		shop.POST("/cart", cfg.CheckoutHandler.AddToCart)
		shop.DELETE("/cart", cfg.CheckoutHandler.ClearCart)

		shop.GET("/checkout/payment", cfg.CheckoutHandler.GetPaymentStep)
		shop.POST("/checkout/payment", cfg.CheckoutHandler.SelectPayment)
		shop.GET("/checkout/confirm", cfg.CheckoutHandler.GetConfirm)
		shop.POST("/checkout/confirm", cfg.RateLimiter.Limit(), cfg.CheckoutHandler.PlaceOrder)

		order := shop.Group("/order/:code/:secret")
		{
			order.GET("/", cfg.OrderHandler.GetOrder)
			order.POST("/pay/", cfg.OrderHandler.PayOrder)
			order.GET("/pay/", cfg.OrderHandler.PayOrderRedirect)
			order.GET("/stripe/return/", cfg.OrderHandler.PayOrderRedirect)
		}
	}
}
