package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/shared/config"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(&config.TracingConfig{Enabled: false}, "test", logger.NewNopLogger())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_Enabled(t *testing.T) {
	shutdown, err := Init(&config.TracingConfig{
		Enabled:        true,
		ServiceName:    "ticketry-test",
		JaegerEndpoint: "http://127.0.0.1:1/api/traces",
	}, "test", logger.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
