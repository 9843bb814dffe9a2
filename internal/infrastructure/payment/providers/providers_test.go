package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/infrastructure/payment/banktransfer"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/sepadebit"
	"github.com/orris-inc/ticketry/internal/infrastructure/payment/stripe"
	"github.com/orris-inc/ticketry/internal/shared/config"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry(stripe.NewAPIGateway(config.StripeConfig{}, nil, logger.NewNopLogger()))
	require.NoError(t, err)

	var ids []string
	for _, def := range registry.Definitions() {
		ids = append(ids, def.Identifier())
	}
	assert.Equal(t, []string{banktransfer.Identifier, sepadebit.Identifier, stripe.Identifier}, ids)
}
