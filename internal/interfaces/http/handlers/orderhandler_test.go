package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/application/order/usecases"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

type mockGetOrderPageUC struct {
	result *dto.OrderPageDTO
	err    error
	query  usecases.GetOrderPageQuery
}

func (m *mockGetOrderPageUC) Execute(_ context.Context, query usecases.GetOrderPageQuery) (*dto.OrderPageDTO, error) {
	m.query = query
	return m.result, m.err
}

// mockPayOrderUC adds notice to the request messages like a provider would.
type mockPayOrderUC struct {
	result *dto.PerformResultDTO
	err    error
	notice string
}

func (m *mockPayOrderUC) Execute(_ context.Context, cmd usecases.PayOrderCommand) (*dto.PerformResultDTO, error) {
	if m.notice != "" {
		cmd.Request.Messages.Error(m.notice)
	}
	return m.result, m.err
}

func newTestOrderHandler(page *mockGetOrderPageUC, pay *mockPayOrderUC) *OrderHandler {
	return NewOrderHandler(page, pay, testBaseURL, logger.NewNopLogger())
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		page := &mockGetOrderPageUC{result: &dto.OrderPageDTO{Order: &dto.OrderDTO{Code: "ABC12"}}}
		h := newTestOrderHandler(page, &mockPayOrderUC{})

		c, w := testutil.NewTestContext(http.MethodGet, "/demo/conf/order/ABC12/s3cr3t/", nil)
		testutil.SetURLParam(c, "code", "ABC12")
		testutil.SetURLParam(c, "secret", "s3cr3t")
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.GetOrder(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ABC12", page.query.Code)
		assert.Equal(t, "s3cr3t", page.query.Secret)
	})

	t.Run("wrong secret", func(t *testing.T) {
		page := &mockGetOrderPageUC{err: apperrors.NewNotFoundError("order not found")}
		h := newTestOrderHandler(page, &mockPayOrderUC{})

		c, w := testutil.NewTestContext(http.MethodGet, "/demo/conf/order/ABC12/nope/", nil)
		testutil.SetURLParam(c, "code", "ABC12")
		testutil.SetURLParam(c, "secret", "nope")
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.GetOrder(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_PayOrder(t *testing.T) {
	pay := &mockPayOrderUC{result: &dto.PerformResultDTO{Status: "failed", Message: "card declined"}, notice: "card declined"}
	h := newTestOrderHandler(&mockGetOrderPageUC{}, pay)

	c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/order/ABC12/s3cr3t/pay/", nil)
	testutil.SetURLParam(c, "code", "ABC12")
	testutil.SetURLParam(c, "secret", "s3cr3t")
	testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
	h.PayOrder(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"messages":[{"level":"error","text":"card declined"}]`)
}

func TestOrderHandler_PayOrderRedirect(t *testing.T) {
	t.Run("provider redirect", func(t *testing.T) {
		pay := &mockPayOrderUC{result: &dto.PerformResultDTO{Status: "redirect", RedirectURL: "https://checkout.stripe.com/c/pay/cs_test"}}
		h := newTestOrderHandler(&mockGetOrderPageUC{}, pay)

		c, w := testutil.NewTestContext(http.MethodGet, "/demo/conf/order/ABC12/s3cr3t/pay/", nil)
		testutil.SetURLParam(c, "code", "ABC12")
		testutil.SetURLParam(c, "secret", "s3cr3t")
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.PayOrderRedirect(c)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", w.Header().Get("Location"))
	})

	t.Run("back to order page with messages", func(t *testing.T) {
		pay := &mockPayOrderUC{result: &dto.PerformResultDTO{Status: "failed"}, notice: "card declined"}
		page := &mockGetOrderPageUC{result: &dto.OrderPageDTO{Order: &dto.OrderDTO{Code: "ABC12"}}}
		h := newTestOrderHandler(page, pay)
		scope := createTestScope(t)
		session := newTestSession()

		c, w := testutil.NewTestContext(http.MethodGet, "/demo/conf/order/ABC12/s3cr3t/stripe/return/", nil)
		testutil.SetURLParam(c, "code", "ABC12")
		testutil.SetURLParam(c, "secret", "s3cr3t")
		testutil.SetPresaleContext(c, scope, session)
		h.PayOrderRedirect(c)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, testBaseURL+"/demo/conf/order/ABC12/s3cr3t/", w.Header().Get("Location"))

		c, w = testutil.NewTestContext(http.MethodGet, "/demo/conf/order/ABC12/s3cr3t/", nil)
		testutil.SetURLParam(c, "code", "ABC12")
		testutil.SetURLParam(c, "secret", "s3cr3t")
		testutil.SetPresaleContext(c, scope, session)
		h.GetOrder(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "card declined")
		_, kept := session.Get(flashKey)
		assert.False(t, kept)
	})

	t.Run("expired order", func(t *testing.T) {
		pay := &mockPayOrderUC{err: apperrors.NewConflictError("order has expired")}
		h := newTestOrderHandler(&mockGetOrderPageUC{}, pay)

		c, w := testutil.NewTestContext(http.MethodGet, "/demo/conf/order/ABC12/s3cr3t/pay/", nil)
		testutil.SetURLParam(c, "code", "ABC12")
		testutil.SetURLParam(c, "secret", "s3cr3t")
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.PayOrderRedirect(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestFlashMessages(t *testing.T) {
	s := newTestSession()
	assert.Nil(t, popFlash(s))

	pushFlash(s, []payment.Message{{Level: payment.LevelInfo, Text: "first"}})
	pushFlash(s, []payment.Message{{Level: payment.LevelError, Text: "second"}})
	pushFlash(s, nil)

	got := popFlash(s)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, payment.LevelError, got[1].Level)
	assert.Nil(t, popFlash(s))
}

type mockStripeWebhookUC struct {
	err error
	cmd usecases.HandleStripeWebhookCommand
}

func (m *mockStripeWebhookUC) Execute(_ context.Context, cmd usecases.HandleStripeWebhookCommand) error {
	m.cmd = cmd
	return m.err
}

func TestWebhookHandler_Stripe(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		uc := &mockStripeWebhookUC{}
		h := NewWebhookHandler(uc, testBaseURL, logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/webhooks/stripe", map[string]string{"type": "charge.succeeded"})
		c.Request.Header.Set("Stripe-Signature", "t=1,v1=abc")
		h.Stripe(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "t=1,v1=abc", uc.cmd.Signature)
		assert.JSONEq(t, `{"type":"charge.succeeded"}`, string(uc.cmd.Payload))
		assert.Equal(t, testBaseURL, uc.cmd.BaseURL)
	})

	t.Run("bad signature", func(t *testing.T) {
		uc := &mockStripeWebhookUC{err: apperrors.NewBadRequestError("invalid signature")}
		h := NewWebhookHandler(uc, testBaseURL, logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodPost, "/webhooks/stripe", map[string]string{})
		h.Stripe(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{
			"database": PingFunc(func(context.Context) error { return nil }),
		}, "1.2.3", logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{
			"database": PingFunc(func(context.Context) error { return nil }),
			"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
		}, "1.2.3", logger.NewNopLogger())

		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"down"`)
	})

	t.Run("version", func(t *testing.T) {
		h := NewHealthHandler(nil, "1.2.3", logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodGet, "/version", nil)
		h.Version(c)

		assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
	})
}
