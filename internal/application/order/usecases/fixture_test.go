package usecases

import (
	"context"
	"html/template"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/application/common"
	paymentUsecases "github.com/orris-inc/ticketry/internal/application/payment/usecases"
	"github.com/orris-inc/ticketry/internal/domain/event"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/setting"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/cache"
	"github.com/orris-inc/ticketry/internal/infrastructure/email"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/banktransfer"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketry/internal/infrastructure/repository"
	tmpl "github.com/orris-inc/ticketry/internal/infrastructure/template"
	"github.com/orris-inc/ticketry/internal/shared/db"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/services/markdown"
)

const baseURL = "https://tickets.example.org"

// instantProvider marks orders paid on perform.
type instantProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *instantProvider) Identifier() string  { return "instant" }
func (p *instantProvider) VerboseName() string { return "Instant payment" }

func (p *instantProvider) CheckoutConfirmRender(*payment.Scope) (template.HTML, error) {
	return "confirm", nil
}

func (p *instantProvider) CheckoutIsValidSession(*payment.Scope) bool { return true }

func (p *instantProvider) OrderPendingRender(*payment.Scope, *order.Order) (template.HTML, error) {
	return "awaiting payment", nil
}

func (p *instantProvider) OrderPaidRender(*payment.Scope, *order.Order) (template.HTML, error) {
	return "thank you", nil
}

func (p *instantProvider) CheckoutPerform(s *payment.Scope, o *order.Order) (payment.PerformResult, error) {
	p.mu.Lock()
	p.calls++
	err := p.err
	p.mu.Unlock()
	if err != nil {
		return payment.PerformResult{}, err
	}
	if _, err := s.MarkPaid(o, `{"ref":"instant-1"}`); err != nil {
		return payment.PerformResult{}, err
	}
	return payment.Completed(), nil
}

func (p *instantProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	published []events.DomainEvent
}

func (p *recordingPublisher) Publish(e events.DomainEvent) error {
	p.mu.Lock()
	p.published = append(p.published, e)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.GetEventType())
	}
	return out
}

type captureSender struct {
	mu   sync.Mutex
	sent []email.Mail
}

func (s *captureSender) Send(_ context.Context, m email.Mail) error {
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	return nil
}

type stubGateway struct {
	mu      sync.Mutex
	session *stripe.CheckoutSession
}

func (g *stubGateway) CreateCheckoutSession(_ context.Context, p stripe.SessionParams) (*stripe.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = &stripe.CheckoutSession{
		ID:            "cs_test_" + p.OrderCode,
		URL:           "https://checkout.stripe.com/c/pay/cs_test_" + p.OrderCode,
		Status:        stripe.SessionOpen,
		PaymentStatus: stripe.PaymentStatusUnpaid,
		OrderCode:     p.OrderCode,
	}
	c := *g.session
	return &c, nil
}

func (g *stubGateway) GetCheckoutSession(_ context.Context, id string) (*stripe.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := *g.session
	return &c, nil
}

// process leaves the session complete with a delayed payment still clearing.
func (g *stubGateway) process() {
	g.mu.Lock()
	g.session.Status = stripe.SessionComplete
	g.session.PaymentStatus = stripe.PaymentStatusUnpaid
	g.session.IntentStatus = stripe.IntentProcessing
	g.mu.Unlock()
}

func (g *stubGateway) pay() {
	g.mu.Lock()
	g.session.Status = stripe.SessionComplete
	g.session.PaymentStatus = stripe.PaymentStatusPaid
	g.mu.Unlock()
}

type fixture struct {
	scope     *common.EventScope
	orders    *repository.OrderRepository
	settings  *repository.EventSettingRepository
	resolver  *common.EventResolver
	providers *paymentUsecases.ProviderSet
	recorder  *PaymentRecorder
	guard     *cache.MemoryPerformGuard
	perform   *PerformPaymentUseCase
	publisher *recordingPublisher
	instant   *instantProvider
	gateway   *stubGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	gdb := testdb.Open(t)
	log := logger.NewNopLogger()

	eventRepo := repository.NewEventRepository(gdb)
	org, err := event.NewOrganizer("demo", "Demo Org")
	require.NoError(t, err)
	require.NoError(t, eventRepo.CreateOrganizer(ctx, org))
	ev, err := event.NewEvent(org.ID(), "conf", i18n.String{"en": "Demo Conference", "de": "Demo Konferenz"}, "EUR", "en",
		time.Date(2027, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, eventRepo.Create(ctx, ev))

	renderer, err := tmpl.NewHTMLRenderer("", log)
	require.NoError(t, err)

	instant := &instantProvider{}
	gateway := &stubGateway{}
	registry := payment.NewRegistry()
	registry.MustRegister(banktransfer.New(markdown.NewService()), stripe.New(gateway), instant)

	orders := repository.NewOrderRepository(gdb)
	settings := repository.NewEventSettingRepository(gdb, log)
	publisher := &recordingPublisher{}
	recorder := NewPaymentRecorder(orders, db.NewTransactionManager(gdb), publisher, log)
	providers := paymentUsecases.NewProviderSet(registry, settings, renderer, recorder, log)
	guard := cache.NewMemoryPerformGuard(time.Minute)

	return &fixture{
		scope:     &common.EventScope{Event: ev, Organizer: org},
		orders:    orders,
		settings:  settings,
		resolver:  common.NewEventResolver(eventRepo),
		providers: providers,
		recorder:  recorder,
		guard:     guard,
		perform:   NewPerformPaymentUseCase(providers, orders, guard, nil, log),
		publisher: publisher,
		instant:   instant,
		gateway:   gateway,
	}
}

func (f *fixture) placeOrder(t *testing.T, provider string) *order.Order {
	t.Helper()
	p, err := order.NewPosition(1, nil, decimal.RequireFromString("23.50"), "Ada", nil)
	require.NoError(t, err)
	o, err := order.NewOrder(f.scope.Event.ID(), "ada@example.org", "en", provider, "EUR", decimal.Zero, []*order.Position{p}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(context.Background(), o))
	return o
}

func (f *fixture) setSetting(t *testing.T, provider, key, value string) {
	t.Helper()
	s, err := setting.NewEventSetting(f.scope.Event.ID(), setting.PaymentNamespace(provider), key, setting.ValueTypeString)
	require.NoError(t, err)
	require.NoError(t, s.SetValue(value))
	require.NoError(t, f.settings.Upsert(context.Background(), s))
}

func (f *fixture) request() *payment.Request {
	return &payment.Request{
		Ctx:      context.Background(),
		Event:    f.scope.PaymentEvent("en"),
		Session:  payment.NewSession("s1", nil),
		Messages: &payment.Messages{},
		Locale:   "en",
		BaseURL:  baseURL,
	}
}
