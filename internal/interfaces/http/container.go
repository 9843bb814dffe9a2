package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	catalogApp "github.com/orris-inc/ticketry/internal/application/catalog"
	checkoutUsecases "github.com/orris-inc/ticketry/internal/application/checkout/usecases"
	"github.com/orris-inc/ticketry/internal/application/common"
	orderUsecases "github.com/orris-inc/ticketry/internal/application/order/usecases"
	paymentUsecases "github.com/orris-inc/ticketry/internal/application/payment/usecases"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/config"
	"github.com/orris-inc/ticketry/internal/infrastructure/metrics"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers"
	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers/control"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

// EventBus is the in-process dispatcher shared by the usecases.
type EventBus interface {
	events.Publisher
	orderUsecases.Subscriber
}

// Dependencies are the process level resources the container wires
// together. Redis may be nil when the checkout runs on in-memory sessions.
// A nil StripeGateway builds the API gateway from the configuration.
type Dependencies struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Config        *config.Config
	Events        EventBus
	Mail          orderUsecases.MailSender
	StripeGateway stripe.Gateway
	Version       string
	Logger        logger.Interface
}

// Container holds repositories, use cases and handlers and registers the
// routes on one gin engine.
type Container struct {
	engine *gin.Engine
	deps   Dependencies
	cfg    *config.Config
	log    logger.Interface

	repos    *repositories
	registry *payment.Registry
	metrics  *metrics.PaymentMetrics
	resolver *common.EventResolver

	providers *paymentUsecases.ProviderSet
	perform   *orderUsecases.PerformPaymentUseCase
	mailer    *orderUsecases.OrderMailer
	sessions  *checkoutUsecases.SessionManager
	catalog   *catalogApp.ServiceDDD

	checkoutHandler *handlers.CheckoutHandler
	orderHandler    *handlers.OrderHandler
	webhookHandler  *handlers.WebhookHandler
	healthHandler   *handlers.HealthHandler
	catalogHandler  *control.CatalogHandler
	paymentHandler  *control.PaymentHandler

	rateLimiter *middleware.RateLimiter
	controlAuth *middleware.ControlAuth
}

func NewContainer(deps Dependencies) (*Container, error) {
	if deps.DB == nil || deps.Config == nil || deps.Events == nil {
		return nil, fmt.Errorf("container needs a database, a config and an event bus")
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}

	c := &Container{
		engine: gin.New(),
		deps:   deps,
		cfg:    deps.Config,
		log:    deps.Logger,
	}

	// Section 1: Infrastructure - repositories, provider registry, stores
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases and the event subscribers
	if err := c.initUseCases(); err != nil {
		return nil, err
	}

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

func (c *Container) Engine() *gin.Engine { return c.engine }

// Handler is the engine wrapped in server spans. Spans start out named by
// method only; middleware.SpanName renames them to the matched route.
func (c *Container) Handler() http.Handler {
	return otelhttp.NewHandler(c.engine, "ticketry",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
	)
}

// Registry lists the payment providers this process offers.
func (c *Container) Registry() *payment.Registry { return c.registry }
