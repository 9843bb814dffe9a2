package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/domain/event"
	"github.com/orris-inc/ticketry/internal/domain/shared/events"
	"github.com/orris-inc/ticketry/internal/infrastructure/config"
	"github.com/orris-inc/ticketry/internal/infrastructure/email"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketry/internal/infrastructure/repository"
	sharedConfig "github.com/orris-inc/ticketry/internal/shared/config"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const controlToken = "0b5e8c2f-control"

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Mail
}

func (s *recordingSender) Send(_ context.Context, m email.Mail) error {
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type shop struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
	mail   *recordingSender
}

func newShop(t *testing.T) *shop {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := testdb.Open(t)
	log := logger.NewNopLogger()
	ctx := context.Background()

	eventRepo := repository.NewEventRepository(gdb)
	org, err := event.NewOrganizer("demo", "Demo Org")
	require.NoError(t, err)
	require.NoError(t, eventRepo.CreateOrganizer(ctx, org))
	ev, err := event.NewEvent(org.ID(), "conf", i18n.Plain("Demo Conference"), "EUR", "en",
		time.Now().Add(90*24*time.Hour).UTC())
	require.NoError(t, err)
	require.NoError(t, eventRepo.Create(ctx, ev))

	dispatcher := newDispatcher(t, log)
	mail := &recordingSender{}
	container, err := NewContainer(Dependencies{
		DB: gdb,
		Config: &config.Config{
			Server: sharedConfig.ServerConfig{
				BaseURL:      "https://tickets.example.org",
				ControlToken: controlToken,
			},
			Checkout: sharedConfig.CheckoutConfig{
				SessionCookie:      "ticketry_session",
				SessionTTLHours:    1,
				OrderExpiryMinutes: 60,
				PerformLockSeconds: 30,
				SessionBackend:     "memory",
			},
			Metrics: sharedConfig.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
		Events:  dispatcher,
		Mail:    mail,
		Version: "test",
		Logger:  log,
	})
	require.NoError(t, err)
	container.SetupRoutes()

	return &shop{t: t, engine: container.Engine(), mail: mail}
}

func newDispatcher(t *testing.T, log logger.Interface) *events.InMemoryDispatcher {
	t.Helper()
	d := events.NewInMemoryDispatcher(16, log)
	require.NoError(t, d.Start())
	t.Cleanup(func() { _ = d.Stop() })
	return d
}

func (s *shop) do(req *http.Request) *httptest.ResponseRecorder {
	s.t.Helper()
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == "ticketry_session" {
			s.cookie = c
		}
	}
	return w
}

func (s *shop) json(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if strings.HasPrefix(path, "/control/") {
		req.Header.Set("Authorization", "Bearer "+controlToken)
	}
	return s.do(req)
}

func (s *shop) form(path string, values url.Values) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, target))
}

func TestCheckoutFlow_BankTransfer(t *testing.T) {
	s := newShop(t)

	w := s.json(http.MethodPost, "/control/event/demo/conf/items", map[string]any{
		"name":          map[string]string{"en": "Regular ticket"},
		"default_price": "40.00",
		"active":        true,
		"admission":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &item)

	w = s.json(http.MethodPut, "/control/event/demo/conf/payment-providers/banktransfer", map[string]any{
		"settings": map[string]string{
			"_enabled":     "true",
			"_fee_abs":     "1.50",
			"bank_details": "Demo Org, IBAN DE02120300000000202051",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/demo/conf/cart", map[string]any{"item_id": item.ID, "count": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, s.cookie)

	w = s.json(http.MethodGet, "/demo/conf/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Positions int    `json:"positions"`
		Total     string `json:"total"`
	}
	decodeData(t, w, &cart)
	assert.Equal(t, 2, cart.Positions)
	assert.Equal(t, "80.00", cart.Total)

	w = s.json(http.MethodGet, "/demo/conf/checkout/payment", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var step struct {
		Providers []struct {
			Identifier string `json:"identifier"`
			Total      string `json:"total"`
		} `json:"providers"`
	}
	decodeData(t, w, &step)
	require.Len(t, step.Providers, 1)
	assert.Equal(t, "banktransfer", step.Providers[0].Identifier)
	assert.Equal(t, "81.50", step.Providers[0].Total)

	w = s.form("/demo/conf/checkout/payment", url.Values{"payment": {"banktransfer"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/demo/conf/checkout/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/demo/conf/checkout/confirm", map[string]string{"email": "ada@example.org"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Order struct {
			Code   string `json:"code"`
			Status string `json:"status"`
			Total  string `json:"total"`
		} `json:"order"`
		OrderURL string `json:"order_url"`
	}
	decodeData(t, w, &placed)
	assert.Equal(t, "81.50", placed.Order.Total)
	require.True(t, strings.HasPrefix(placed.OrderURL, "https://tickets.example.org/demo/conf/order/"+placed.Order.Code+"/"))
	assert.Equal(t, 1, s.mail.count())

	orderPath := strings.TrimPrefix(placed.OrderURL, "https://tickets.example.org")
	w = s.json(http.MethodGet, orderPath, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), placed.Order.Code)

	w = s.json(http.MethodGet, "/demo/conf/order/"+placed.Order.Code+"/wrong-secret/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.json(http.MethodGet, "/control/event/demo/conf/orders/"+placed.Order.Code, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(http.MethodGet, "/demo/conf/cart", nil)
	decodeData(t, w, &cart)
	assert.Equal(t, 0, cart.Positions)
}

func TestRouter_ControlRequiresToken(t *testing.T) {
	s := newShop(t)

	req := httptest.NewRequest(http.MethodGet, "/control/event/demo/conf/items", nil)
	w := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.json(http.MethodGet, "/control/event/demo/missing/items", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UnknownEvent(t *testing.T) {
	s := newShop(t)
	w := s.json(http.MethodGet, "/acme/conf/cart", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newShop(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)

	w = s.do(httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Contains(t, w.Body.String(), `"version":"test"`)

	w = s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/health")
}
