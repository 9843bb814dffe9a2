package http

import (
	"context"
	"fmt"
	"time"

	catalogApp "github.com/orris-inc/ticketry/internal/application/catalog"
	catalogUsecases "github.com/orris-inc/ticketry/internal/application/catalog/usecases"
	checkoutUsecases "github.com/orris-inc/ticketry/internal/application/checkout/usecases"
	"github.com/orris-inc/ticketry/internal/application/common"
	orderUsecases "github.com/orris-inc/ticketry/internal/application/order/usecases"
	paymentUsecases "github.com/orris-inc/ticketry/internal/application/payment/usecases"
	"github.com/orris-inc/ticketry/internal/infrastructure/cache"
	"github.com/orris-inc/ticketry/internal/infrastructure/email"
	"github.com/orris-inc/ticketry/internal/infrastructure/metrics"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/providers"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	tmpl "github.com/orris-inc/ticketry/internal/infrastructure/template"
	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers"
	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers/control"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketry/internal/shared/db"
)

const sessionBackendRedis = "redis"

func (c *Container) useRedis() bool {
	return c.deps.Redis != nil && c.cfg.Checkout.SessionBackend == sessionBackendRedis
}

func (c *Container) initInfrastructure() error {
	c.repos = newRepositories(c.deps.DB, c.log)
	c.resolver = common.NewEventResolver(c.repos.events)
	c.metrics = metrics.NewPaymentMetrics()

	renderer, err := tmpl.NewHTMLRenderer("", c.log)
	if err != nil {
		return fmt.Errorf("failed to load provider templates: %w", err)
	}

	gateway := c.deps.StripeGateway
	if gateway == nil {
		gateway = stripe.NewAPIGateway(c.cfg.Stripe, nil, c.log)
	}

	if c.registry, err = providers.NewRegistry(gateway); err != nil {
		return err
	}

	recorder := orderUsecases.NewPaymentRecorder(
		c.repos.orders,
		db.NewTransactionManager(c.deps.DB),
		c.deps.Events,
		c.log,
	)
	c.providers = paymentUsecases.NewProviderSet(c.registry, c.repos.settings, renderer, recorder, c.log)

	var (
		guard orderUsecases.PerformGuard
		store checkoutUsecases.SessionStore
	)
	if c.useRedis() {
		guard = cache.NewRedisPerformGuard(c.deps.Redis, c.cfg.Checkout.PerformLockTTL())
		store = cache.NewRedisSessionStore(c.deps.Redis, c.cfg.Checkout.SessionTTL())
	} else {
		guard = cache.NewMemoryPerformGuard(c.cfg.Checkout.PerformLockTTL())
		store = cache.NewMemorySessionStore(c.cfg.Checkout.SessionTTL())
	}
	c.sessions = checkoutUsecases.NewSessionManager(store, c.log)
	c.perform = orderUsecases.NewPerformPaymentUseCase(c.providers, c.repos.orders, guard, c.metrics, c.log)

	c.log.Infow("infrastructure initialized",
		"providers", len(c.registry.Definitions()),
		"redis_sessions", c.useRedis(),
	)
	return nil
}

func (c *Container) initUseCases() error {
	tx := db.NewTransactionManager(c.deps.DB)

	c.catalog = catalogApp.NewServiceDDD(catalogApp.Repositories{
		Categories: c.repos.categories,
		Items:      c.repos.items,
		Questions:  c.repos.questions,
		Quotas:     c.repos.quotas,
		Orders:     c.repos.orders,
	}, tx, c.log)

	sender := c.deps.Mail
	if sender == nil {
		sender = email.NewNopSender(c.log)
	}
	c.mailer = orderUsecases.NewOrderMailer(c.resolver, c.repos.orders, c.providers, sender, c.cfg.Server.BaseURL, c.log)
	if err := c.mailer.Register(c.deps.Events); err != nil {
		return fmt.Errorf("failed to subscribe order mailer: %w", err)
	}
	return nil
}

func (c *Container) initHandlers() {
	baseURL := c.cfg.Server.BaseURL
	tx := db.NewTransactionManager(c.deps.DB)

	c.checkoutHandler = handlers.NewCheckoutHandler(
		checkoutUsecases.NewAddToCartUseCase(
			c.repos.items,
			c.repos.questions,
			c.repos.quotas,
			catalogUsecases.NewQuotaUsage(c.repos.items, c.repos.orders),
			c.log,
		),
		checkoutUsecases.NewListCartUseCase(),
		checkoutUsecases.NewClearCartUseCase(c.log),
		checkoutUsecases.NewGetPaymentStepUseCase(c.providers, c.log),
		checkoutUsecases.NewSelectPaymentUseCase(c.providers, c.metrics, c.log),
		checkoutUsecases.NewGetConfirmUseCase(c.providers, c.log),
		checkoutUsecases.NewPlaceOrderUseCase(
			c.providers,
			c.repos.orders,
			c.deps.Events,
			c.mailer,
			c.perform,
			c.cfg.Checkout.OrderExpiry(),
			c.log,
		),
		baseURL,
		c.log,
	)

	c.orderHandler = handlers.NewOrderHandler(
		orderUsecases.NewGetOrderPageUseCase(c.repos.orders, c.providers, c.log),
		orderUsecases.NewPayOrderUseCase(c.repos.orders, c.perform, c.log),
		baseURL,
		c.log,
	)

	c.webhookHandler = handlers.NewWebhookHandler(
		orderUsecases.NewHandleStripeWebhookUseCase(c.cfg.Stripe.WebhookSecret, c.resolver, c.repos.orders, c.perform, c.log),
		baseURL,
		c.log,
	)

	c.catalogHandler = control.NewCatalogHandler(c.catalog, c.log)
	c.paymentHandler = control.NewPaymentHandler(
		paymentUsecases.NewListProviderSettingsUseCase(c.providers, c.log),
		paymentUsecases.NewUpdateProviderSettingsUseCase(c.providers, c.repos.settings, tx, c.log),
		orderUsecases.NewGetOrderControlUseCase(c.repos.orders, c.providers, c.log),
		c.log,
	)

	checks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := c.deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.deps.Redis != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return c.deps.Redis.Ping(ctx).Err()
		})
	}
	c.healthHandler = handlers.NewHealthHandler(checks, c.deps.Version, c.log)

	c.rateLimiter = middleware.NewRateLimiter(c.deps.Redis, c.cfg.Checkout.PlaceOrderPerMinute, time.Minute, c.log)
	c.controlAuth = middleware.NewControlAuth(c.cfg.Server.ControlToken, c.log)
}
