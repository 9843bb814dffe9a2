package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v80/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/domain/order"
	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/banktransfer"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/ticketry/internal/shared/biztime"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

func TestPaymentRecorder_MarkPaidIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.placeOrder(t, "instant")

	paid, err := f.recorder.MarkPaid(ctx, o, "instant", `{"ref":"1"}`)
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPaid, paid.Status())
	assert.Equal(t, o.Version()+1, paid.Version())
	assert.Equal(t, vo.OrderStatusPending, o.Status(), "caller copy is left alone")

	// the stale pending copy is reloaded, so this is a no-op
	again, err := f.recorder.MarkPaid(ctx, o, "instant", `{"ref":"2"}`)
	require.NoError(t, err)
	assert.Equal(t, paid.Version(), again.Version())
	assert.Equal(t, `{"ref":"1"}`, again.PaymentInfo())

	assert.Equal(t, []string{order.EventTypePaid}, f.publisher.Types())
}

func TestPaymentRecorder_RejectsOtherProvider(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "instant")

	_, err := f.recorder.MarkPaid(context.Background(), o, banktransfer.Identifier, "")
	assert.ErrorIs(t, err, payment.ErrProviderMismatch)

	_, err = f.recorder.SavePaymentInfo(context.Background(), o, banktransfer.Identifier, "x")
	assert.ErrorIs(t, err, payment.ErrProviderMismatch)
	assert.Empty(t, f.publisher.Types())
}

func TestPaymentRecorder_SavePaymentInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.placeOrder(t, "instant")

	saved, err := f.recorder.SavePaymentInfo(ctx, o, "instant", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "ref-1", saved.PaymentInfo())
	assert.Equal(t, vo.OrderStatusPending, saved.Status())

	stored, err := f.orders.GetByCode(ctx, o.EventID(), o.Code())
	require.NoError(t, err)
	assert.Equal(t, saved.Version(), stored.Version())

	_, err = f.recorder.MarkPaid(ctx, o, "instant", "")
	require.NoError(t, err)
	_, err = f.recorder.SavePaymentInfo(ctx, o, "instant", "ref-2")
	assert.ErrorIs(t, err, order.ErrNotPending)
}

func TestPerformPayment_RunsOnce(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "instant")

	res, err := f.perform.Execute(f.request(), o)
	require.NoError(t, err)
	assert.Equal(t, payment.PerformCompleted, res.Result.Status())
	assert.Equal(t, vo.OrderStatusPaid, res.Order.Status())

	res, err = f.perform.Execute(f.request(), o)
	require.NoError(t, err)
	assert.Equal(t, payment.PerformCompleted, res.Result.Status())
	assert.Equal(t, 1, f.instant.Calls())
}

func TestPerformPayment_ConcurrentAttemptIsReported(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "instant")

	_, _, err := f.guard.Acquire(context.Background(), fmt.Sprintf("%d:%s", o.EventID(), o.Code()))
	require.NoError(t, err)

	_, err = f.perform.Execute(f.request(), o)
	assert.ErrorIs(t, err, payment.ErrPerformInProgress)
	assert.Equal(t, 0, f.instant.Calls())
}

func TestPerformPayment_FailureReleasesGuard(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, "instant")
	f.instant.err = errors.New("gateway down")

	_, err := f.perform.Execute(f.request(), o)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, appErr.Type)

	f.instant.err = nil
	res, err := f.perform.Execute(f.request(), o)
	require.NoError(t, err)
	assert.Equal(t, payment.PerformCompleted, res.Result.Status())
	assert.Equal(t, 2, f.instant.Calls())
}

func TestPerformPayment_BankTransferStaysPending(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, banktransfer.Identifier)

	res, err := f.perform.Execute(f.request(), o)
	require.NoError(t, err)
	assert.Equal(t, payment.PerformDeferred, res.Result.Status())
	assert.Empty(t, res.Result.URL())
	assert.Equal(t, vo.OrderStatusPending, res.Order.Status())

	// deferred results do not block a later attempt
	_, err = f.perform.Execute(f.request(), o)
	assert.NoError(t, err)
}

func TestPayOrder(t *testing.T) {
	f := newFixture(t)
	uc := NewPayOrderUseCase(f.orders, f.perform, logger.NewNopLogger())
	o := f.placeOrder(t, "instant")

	_, err := uc.Execute(context.Background(), PayOrderCommand{Scope: f.scope, Code: o.Code(), Secret: "wrong", Request: f.request()})
	assert.True(t, apperrors.IsNotFoundError(err))

	res, err := uc.Execute(context.Background(), PayOrderCommand{Scope: f.scope, Code: o.Code(), Secret: o.Secret(), Request: f.request()})
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
}

func TestPayOrder_InProgressBecomesNotice(t *testing.T) {
	f := newFixture(t)
	uc := NewPayOrderUseCase(f.orders, f.perform, logger.NewNopLogger())
	o := f.placeOrder(t, "instant")
	_, _, err := f.guard.Acquire(context.Background(), fmt.Sprintf("%d:%s", o.EventID(), o.Code()))
	require.NoError(t, err)

	req := f.request()
	res, err := uc.Execute(context.Background(), PayOrderCommand{Scope: f.scope, Code: o.Code(), Secret: o.Secret(), Request: req})
	require.NoError(t, err)
	assert.Equal(t, "deferred", res.Status)
	require.Equal(t, 1, req.Messages.Len())
	assert.Equal(t, payment.LevelInfo, req.Messages.All()[0].Level)
}

func TestGetOrderPage(t *testing.T) {
	f := newFixture(t)
	f.setSetting(t, banktransfer.Identifier, banktransfer.KeyBankDetails, "**IBAN** DE02120300000000202051")
	uc := NewGetOrderPageUseCase(f.orders, f.providers, logger.NewNopLogger())
	o := f.placeOrder(t, banktransfer.Identifier)

	_, err := uc.Execute(context.Background(), GetOrderPageQuery{Scope: f.scope, Code: o.Code(), Secret: "nope", Request: f.request()})
	assert.True(t, apperrors.IsNotFoundError(err))

	page, err := uc.Execute(context.Background(), GetOrderPageQuery{Scope: f.scope, Code: o.Code(), Secret: o.Secret(), Request: f.request()})
	require.NoError(t, err)
	assert.Equal(t, "Demo Conference", page.EventName)
	assert.Equal(t, "23.50", page.Order.Total)
	assert.True(t, page.CanRetry)
	assert.Contains(t, string(page.PaymentHTML), "<strong>IBAN</strong>")
}

func TestGetOrderPage_PaidOrder(t *testing.T) {
	f := newFixture(t)
	uc := NewGetOrderPageUseCase(f.orders, f.providers, logger.NewNopLogger())
	o := f.placeOrder(t, "instant")
	_, err := f.perform.Execute(f.request(), o)
	require.NoError(t, err)

	page, err := uc.Execute(context.Background(), GetOrderPageQuery{Scope: f.scope, Code: o.Code(), Secret: o.Secret(), Request: f.request()})
	require.NoError(t, err)
	assert.Equal(t, "paid", page.Order.StatusName)
	assert.False(t, page.CanRetry)
	assert.Equal(t, "thank you", string(page.PaymentHTML))
}

func TestGetOrderControl(t *testing.T) {
	f := newFixture(t)
	uc := NewGetOrderControlUseCase(f.orders, f.providers, logger.NewNopLogger())
	o := f.placeOrder(t, "instant")

	out, err := uc.Execute(context.Background(), f.scope.Event.ID(), o.Code(), "de")
	require.NoError(t, err)
	assert.Equal(t, "Instant payment", out.ProviderName)
	assert.Equal(t, "Zahlungsart: Instant payment", string(out.PaymentHTML))

	_, err = uc.Execute(context.Background(), f.scope.Event.ID(), "NOPE1", "en")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestExpireOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.placeOrder(t, banktransfer.Identifier)
	paid := f.placeOrder(t, "instant")
	_, err := f.recorder.MarkPaid(ctx, paid, "instant", "")
	require.NoError(t, err)

	restore := biztime.SetNowFunc(func() time.Time { return time.Now().UTC().Add(2 * time.Hour) })
	t.Cleanup(restore)

	uc := NewExpireOrdersUseCase(f.orders, f.publisher, 10, logger.NewNopLogger())
	n, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := f.orders.GetByCode(ctx, pending.EventID(), pending.Code())
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusExpired, stored.Status())

	stored, err = f.orders.GetByCode(ctx, paid.EventID(), paid.Code())
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPaid, stored.Status())

	assert.Equal(t, []string{order.EventTypePaid, order.EventTypeExpired}, f.publisher.Types())

	n, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type funcSubscriber map[string]events.HandlerFunc

func (s funcSubscriber) Subscribe(eventType string, fn events.HandlerFunc) error {
	s[eventType] = fn
	return nil
}

func TestOrderMailer(t *testing.T) {
	f := newFixture(t)
	f.setSetting(t, banktransfer.Identifier, banktransfer.KeyBankDetails, "IBAN DE02120300000000202051")
	sender := &captureSender{}
	mailer := NewOrderMailer(f.resolver, f.orders, f.providers, sender, baseURL, logger.NewNopLogger())
	o := f.placeOrder(t, banktransfer.Identifier)

	require.NoError(t, mailer.SendPlaced(context.Background(), o))
	require.Len(t, sender.sent, 1)
	placed := sender.sent[0]
	assert.Equal(t, "ada@example.org", placed.To)
	assert.Equal(t, fmt.Sprintf("Your order %s for Demo Conference", o.Code()), placed.Subject)
	assert.Contains(t, placed.Text, "DE02120300000000202051")
	assert.Contains(t, placed.Text, fmt.Sprintf("%s/demo/conf/order/%s/%s/", baseURL, o.Code(), o.Secret()))

	subs := funcSubscriber{}
	require.NoError(t, mailer.Register(subs))
	paid, err := f.recorder.MarkPaid(context.Background(), f.placeOrder(t, "instant"), "instant", "")
	require.NoError(t, err)
	require.NoError(t, subs[order.EventTypePaid](order.NewPaidEvent(paid)))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, fmt.Sprintf("Payment received for order %s", paid.Code()), sender.sent[1].Subject)
}

const testWebhookSecret = "whsec_test"

func signedSessionEvent(t *testing.T, eventType string, eventID uint, code string) ([]byte, string) {
	t.Helper()
	paymentStatus := stripe.PaymentStatusPaid
	if eventType == stripe.EventSessionAsyncPaymentFailed {
		paymentStatus = stripe.PaymentStatusUnpaid
	}
	payload := fmt.Sprintf(`{"id":"evt_1","object":"event","type":%q,"data":{"object":{"id":"cs_test_%s","object":"checkout.session","status":"complete","payment_status":%q,"client_reference_id":%q,"metadata":{"order_code":%q,"event_id":"%d"}}}}`,
		eventType, code, paymentStatus, code, code, eventID)
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(payload), Secret: testWebhookSecret})
	return sp.Payload, sp.Header
}

func TestHandleStripeWebhook_CompletesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewHandleStripeWebhookUseCase(testWebhookSecret, f.resolver, f.orders, f.perform, logger.NewNopLogger())
	o := f.placeOrder(t, stripe.Identifier)

	res, err := f.perform.Execute(f.request(), o)
	require.NoError(t, err)
	require.Equal(t, payment.PerformDeferred, res.Result.Status())
	assert.Contains(t, res.Result.URL(), "checkout.stripe.com")

	f.gateway.pay()
	body, sig := signedSessionEvent(t, stripe.EventSessionCompleted, f.scope.Event.ID(), o.Code())
	require.NoError(t, uc.Execute(ctx, HandleStripeWebhookCommand{Payload: body, Signature: sig, BaseURL: baseURL}))

	stored, err := f.orders.GetByCode(ctx, o.EventID(), o.Code())
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPaid, stored.Status())
	assert.Equal(t, stripe.Identifier, stored.PaymentProvider())

	// redelivery is harmless
	require.NoError(t, uc.Execute(ctx, HandleStripeWebhookCommand{Payload: body, Signature: sig, BaseURL: baseURL}))
	assert.Equal(t, []string{order.EventTypePaid}, f.publisher.Types())
}

func TestHandleStripeWebhook_DelayedPaymentFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewHandleStripeWebhookUseCase(testWebhookSecret, f.resolver, f.orders, f.perform, logger.NewNopLogger())
	o := f.placeOrder(t, stripe.Identifier)

	_, err := f.perform.Execute(f.request(), o)
	require.NoError(t, err)

	f.gateway.process()
	body, sig := signedSessionEvent(t, stripe.EventSessionCompleted, f.scope.Event.ID(), o.Code())
	require.NoError(t, uc.Execute(ctx, HandleStripeWebhookCommand{Payload: body, Signature: sig, BaseURL: baseURL}))

	stored, err := f.orders.GetByCode(ctx, o.EventID(), o.Code())
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPending, stored.Status())
	assert.Contains(t, stored.PaymentInfo(), "cs_test_"+o.Code())

	body, sig = signedSessionEvent(t, stripe.EventSessionAsyncPaymentFailed, f.scope.Event.ID(), o.Code())
	require.NoError(t, uc.Execute(ctx, HandleStripeWebhookCommand{Payload: body, Signature: sig, BaseURL: baseURL}))

	stored, err = f.orders.GetByCode(ctx, o.EventID(), o.Code())
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPending, stored.Status())
	assert.Empty(t, stored.PaymentInfo())
	assert.NotContains(t, f.publisher.Types(), order.EventTypePaid)
}

func TestHandleStripeWebhook_IgnoresUnknownOrders(t *testing.T) {
	f := newFixture(t)
	uc := NewHandleStripeWebhookUseCase(testWebhookSecret, f.resolver, f.orders, f.perform, logger.NewNopLogger())

	body, sig := signedSessionEvent(t, stripe.EventSessionCompleted, f.scope.Event.ID(), "NOPE1")
	assert.NoError(t, uc.Execute(context.Background(), HandleStripeWebhookCommand{Payload: body, Signature: sig}))

	body, sig = signedSessionEvent(t, stripe.EventSessionCompleted, 999, "NOPE1")
	assert.NoError(t, uc.Execute(context.Background(), HandleStripeWebhookCommand{Payload: body, Signature: sig}))
}

func TestHandleStripeWebhook_RejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	uc := NewHandleStripeWebhookUseCase(testWebhookSecret, f.resolver, f.orders, f.perform, logger.NewNopLogger())

	body, _ := signedSessionEvent(t, stripe.EventSessionCompleted, f.scope.Event.ID(), "ABC12")
	err := uc.Execute(context.Background(), HandleStripeWebhookCommand{Payload: body, Signature: "t=1,v1=00"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeBadRequest, apperrors.GetAppError(err).Type)
}
