package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/application/checkout/dto"
	"github.com/orris-inc/ticketry/internal/application/checkout/usecases"
	"github.com/orris-inc/ticketry/internal/application/common"
	orderdto "github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/domain/event"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const testBaseURL = "https://tickets.example.org"

// =====================================================================
// Mock use cases
// =====================================================================

type mockAddToCartUC struct {
	result *dto.CartDTO
	err    error
	got    dto.AddToCartRequest
}

func (m *mockAddToCartUC) Execute(_ context.Context, _ *common.EventScope, _ *payment.Session, req dto.AddToCartRequest) (*dto.CartDTO, error) {
	m.got = req
	return m.result, m.err
}

type mockListCartUC struct{ result *dto.CartDTO }

func (m *mockListCartUC) Execute(*payment.Session) *dto.CartDTO { return m.result }

type mockClearCartUC struct{ called bool }

func (m *mockClearCartUC) Execute(*payment.Session) { m.called = true }

type mockPaymentStepUC struct {
	result *dto.PaymentStepDTO
	err    error
	req    *payment.Request
}

func (m *mockPaymentStepUC) Execute(_ context.Context, _ *common.EventScope, req *payment.Request) (*dto.PaymentStepDTO, error) {
	m.req = req
	return m.result, m.err
}

type mockSelectPaymentUC struct {
	result     *dto.PrepareResultDTO
	err        error
	identifier string
	req        *payment.Request
}

func (m *mockSelectPaymentUC) Execute(_ context.Context, _ *common.EventScope, identifier string, req *payment.Request) (*dto.PrepareResultDTO, error) {
	m.identifier = identifier
	m.req = req
	return m.result, m.err
}

type mockConfirmUC struct {
	result *dto.ConfirmDTO
	err    error
}

func (m *mockConfirmUC) Execute(context.Context, *common.EventScope, *payment.Request) (*dto.ConfirmDTO, error) {
	return m.result, m.err
}

type mockPlaceOrderUC struct {
	result *dto.PlaceOrderResultDTO
	err    error
	cmd    usecases.PlaceOrderCommand
}

func (m *mockPlaceOrderUC) Execute(_ context.Context, cmd usecases.PlaceOrderCommand) (*dto.PlaceOrderResultDTO, error) {
	m.cmd = cmd
	return m.result, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

type checkoutMocks struct {
	add     *mockAddToCartUC
	list    *mockListCartUC
	clear   *mockClearCartUC
	step    *mockPaymentStepUC
	sel     *mockSelectPaymentUC
	confirm *mockConfirmUC
	place   *mockPlaceOrderUC
}

func newTestCheckoutHandler() (*CheckoutHandler, *checkoutMocks) {
	m := &checkoutMocks{
		add:     &mockAddToCartUC{},
		list:    &mockListCartUC{},
		clear:   &mockClearCartUC{},
		step:    &mockPaymentStepUC{},
		sel:     &mockSelectPaymentUC{},
		confirm: &mockConfirmUC{},
		place:   &mockPlaceOrderUC{},
	}
	h := NewCheckoutHandler(m.add, m.list, m.clear, m.step, m.sel, m.confirm, m.place, testBaseURL, logger.NewNopLogger())
	return h, m
}

func createTestScope(t *testing.T) *common.EventScope {
	t.Helper()
	org, err := event.NewOrganizer("demo", "Demo Org")
	require.NoError(t, err)
	ev, err := event.NewEvent(org.ID(), "conf", i18n.Plain("Demo Conference"), "EUR", "de",
		time.Date(2027, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return &common.EventScope{Event: ev, Organizer: org}
}

func newTestSession() *payment.Session {
	return payment.NewSession("6b1f4d1e-9c7a-4f53-8d0e-2f7a9c1b3e55", nil)
}

// =====================================================================
// Tests
// =====================================================================

func TestCheckoutHandler_AddToCart(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, m := newTestCheckoutHandler()
		m.add.result = &dto.CartDTO{Positions: 2, Fee: "0.00", Total: "40.00"}

		c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/cart", map[string]any{"item_id": 3, "count": 2})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.AddToCart(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, uint(3), m.add.got.ItemID)
		assert.Equal(t, 2, m.add.got.Count)
	})

	t.Run("missing item", func(t *testing.T) {
		h, _ := newTestCheckoutHandler()
		c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/cart", map[string]any{"count": 1})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.AddToCart(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("use case error", func(t *testing.T) {
		h, m := newTestCheckoutHandler()
		m.add.err = errors.NewConflictError("quota exhausted")
		c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/cart", map[string]any{"item_id": 3})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.AddToCart(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, "quota exhausted", resp.Error.Message)
	})

	t.Run("without presale context", func(t *testing.T) {
		h, _ := newTestCheckoutHandler()
		c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/cart", map[string]any{"item_id": 3})
		h.AddToCart(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestCheckoutHandler_ClearCart(t *testing.T) {
	h, m := newTestCheckoutHandler()
	c, w := testutil.NewTestContext(http.MethodDelete, "/demo/conf/cart", nil)
	testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
	h.ClearCart(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Empty(t, w.Body.Bytes())
	assert.True(t, m.clear.called)
}

func TestCheckoutHandler_GetPaymentStep_Locale(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{name: "event default", want: "de"},
		{name: "accept language", header: "en-GB,en;q=0.8", want: "en"},
		{name: "explicit query", query: "fr", header: "en", want: "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestCheckoutHandler()
			m.step.result = &dto.PaymentStepDTO{}

			c, w := testutil.NewTestContext(http.MethodGet, "/demo/conf/checkout/payment", nil)
			if tt.query != "" {
				testutil.SetQueryParams(c, map[string]string{"locale": tt.query})
			}
			if tt.header != "" {
				c.Request.Header.Set("Accept-Language", tt.header)
			}
			testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
			h.GetPaymentStep(c)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, m.step.req.Locale)
			assert.Equal(t, testBaseURL, m.step.req.BaseURL)
		})
	}
}

func TestCheckoutHandler_SelectPayment(t *testing.T) {
	t.Run("form submit", func(t *testing.T) {
		h, m := newTestCheckoutHandler()
		m.sel.result = &dto.PrepareResultDTO{Outcome: "continue"}

		c, w := testutil.NewFormContext(http.MethodPost, "/demo/conf/checkout/payment", url.Values{
			"payment":                          {"sepadebit"},
			"payment_sepadebit-account_holder": {"Ada Lovelace"},
		})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.SelectPayment(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sepadebit", m.sel.identifier)
		assert.Equal(t, "Ada Lovelace", m.sel.req.Data.Get("payment_sepadebit-account_holder"))
	})

	t.Run("json submit", func(t *testing.T) {
		h, m := newTestCheckoutHandler()
		m.sel.result = &dto.PrepareResultDTO{Outcome: "continue"}

		c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/checkout/payment", map[string]string{"payment": "banktransfer"})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.SelectPayment(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "banktransfer", m.sel.identifier)
	})

	t.Run("no method", func(t *testing.T) {
		h, _ := newTestCheckoutHandler()
		c, w := testutil.NewFormContext(http.MethodPost, "/demo/conf/checkout/payment", url.Values{})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.SelectPayment(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid form", func(t *testing.T) {
		h, m := newTestCheckoutHandler()
		m.sel.result = &dto.PrepareResultDTO{
			Outcome:  "invalid",
			Messages: []payment.Message{{Level: payment.LevelError, Text: "IBAN is invalid"}},
		}

		c, w := testutil.NewFormContext(http.MethodPost, "/demo/conf/checkout/payment", url.Values{"payment": {"sepadebit"}})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.SelectPayment(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, string(resp.Data), "IBAN is invalid")
	})
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, m := newTestCheckoutHandler()
		m.place.result = &dto.PlaceOrderResultDTO{
			Order:    &orderdto.OrderDTO{Code: "ABC12"},
			OrderURL: testBaseURL + "/demo/conf/order/ABC12/s3cr3t/",
		}

		c, w := testutil.NewTestContext(http.MethodPost, "/demo/conf/checkout/confirm", map[string]string{"email": "ada@example.org"})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.PlaceOrder(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotNil(t, m.place.cmd.Scope)
		assert.NotNil(t, m.place.cmd.Request)
	})

	t.Run("invalid email", func(t *testing.T) {
		h, _ := newTestCheckoutHandler()
		c, w := testutil.NewFormContext(http.MethodPost, "/demo/conf/checkout/confirm", url.Values{"email": {"not-an-email"}})
		testutil.SetPresaleContext(c, createTestScope(t), newTestSession())
		h.PlaceOrder(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
