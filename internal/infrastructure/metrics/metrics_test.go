package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMetrics(t *testing.T) {
	m := NewPaymentMetrics()

	m.ObservePrepare("sepadebit", "invalid")
	m.ObservePrepare("sepadebit", "continue")
	m.ObservePrepare("sepadebit", "continue")
	m.ObservePerform("stripe", "deferred", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.prepareTotal.WithLabelValues("sepadebit", "continue")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.performTotal.WithLabelValues("stripe", "deferred")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.performLatency))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ticketry_checkout_prepare_total{outcome="continue",provider="sepadebit"} 2`)
}
