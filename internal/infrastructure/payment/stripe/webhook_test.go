package stripe

import (
	"testing"

	"github.com/stripe/stripe-go/v80/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

func signed(t *testing.T, payload string) (body []byte, header string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	})
	return sp.Payload, sp.Header
}

func TestParseWebhook_SessionCompleted(t *testing.T) {
	body, header := signed(t, `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session","status":"complete","payment_status":"paid","client_reference_id":"ABC12","metadata":{"order_code":"ABC12","event_id":"7"}}}}`)

	event, err := ParseWebhook(body, header, testWebhookSecret)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventSessionCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_1", event.Session.ID)
	assert.Equal(t, "ABC12", event.Session.OrderCode)
	assert.True(t, event.AffectsOrder())
}

func TestParseWebhook_OtherEventsCarryNoSession(t *testing.T) {
	body, header := signed(t, `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`)

	event, err := ParseWebhook(body, header, testWebhookSecret)
	require.NoError(t, err)
	assert.Nil(t, event.Session)
	assert.False(t, event.AffectsOrder())
}

func TestParseWebhook_ExpiredDoesNotAffectOrder(t *testing.T) {
	body, header := signed(t, `{"id":"evt_3","object":"event","type":"checkout.session.expired","data":{"object":{"id":"cs_test_1","object":"checkout.session","status":"expired","client_reference_id":"ABC12"}}}`)

	event, err := ParseWebhook(body, header, testWebhookSecret)
	require.NoError(t, err)
	require.NotNil(t, event.Session)
	assert.False(t, event.AffectsOrder())
}

func TestParseWebhook_BadSignature(t *testing.T) {
	body, header := signed(t, `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := ParseWebhook(body, header, "whsec_other")
	assert.Error(t, err)

	_, err = ParseWebhook(body, "t=1,v1=deadbeef", testWebhookSecret)
	assert.Error(t, err)
}
